package graphqlws

import "encoding/json"

// graphql-transport-ws wire messages, limited to the subset this client
// speaks. See https://github.com/enisdenjo/graphql-ws/blob/master/PROTOCOL.md.
const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
	msgPing           = "ping"
	msgPong           = "pong"
)

type wireMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type subscribePayload struct {
	OperationName string `json:"operationName,omitempty"`
	Query         string `json:"query"`
}

type nextPayload struct {
	Data map[string]any `json:"data"`
}
