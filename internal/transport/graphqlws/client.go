// Package graphqlws implements the feed.Transport capability over the
// graphql-transport-ws WebSocket subprotocol. One connection is dialed per
// subscription; the read loop dispatches pushed payloads to the registered
// callbacks and exits when the server completes the stream, the connection
// drops, or the caller stops the subscription. There is no reconnect logic.
package graphqlws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/feed"
)

const (
	subprotocol             = "graphql-transport-ws"
	defaultHandshakeTimeout = 10 * time.Second
	defaultAckTimeout       = 10 * time.Second
)

// Config holds connection parameters for the CFBD GraphQL endpoint.
type Config struct {
	// URL is the ws:// or wss:// endpoint.
	URL string
	// APIKey, when set, is sent as an Authorization bearer token.
	APIKey string
	// HandshakeTimeout bounds the WebSocket upgrade. <=0 uses 10s.
	HandshakeTimeout time.Duration
	// AckTimeout bounds the wait for connection_ack. <=0 uses 10s.
	AckTimeout time.Duration
	// Logger is an optional structured logger.
	Logger *zerolog.Logger
}

// Client dials one WebSocket connection per Subscribe call.
type Client struct {
	cfg Config
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("graphqlws: empty endpoint URL")
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = defaultAckTimeout
	}
	return &Client{cfg: cfg}, nil
}

// Subscribe dials the endpoint, completes the connection_init/ack handshake,
// sends one subscribe frame, and starts a read loop that dispatches next
// payloads to onEvent and failures to onError. The returned subscription owns
// the connection.
func (c *Client) Subscribe(req feed.Request, onEvent func(map[string]any), onError func(error)) (feed.Subscription, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
		Subprotocols:     []string{subprotocol},
	}
	header := http.Header{}
	if c.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	conn, resp, err := dialer.Dial(c.cfg.URL, header)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("graphqlws: dial %s: %w", c.cfg.URL, err)
	}

	if err := c.handshake(conn); err != nil {
		conn.Close()
		return nil, err
	}

	sub := &subscription{conn: conn, id: "1", done: make(chan struct{})}
	payload, err := json.Marshal(subscribePayload{OperationName: req.OperationName, Query: req.Query})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("graphqlws: encode subscribe: %w", err)
	}
	if err := sub.writeJSON(wireMessage{ID: sub.id, Type: msgSubscribe, Payload: payload}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("graphqlws: subscribe: %w", err)
	}
	go sub.readLoop(onEvent, onError, c.cfg.Logger)
	return sub, nil
}

// handshake sends connection_init and waits for connection_ack. Keepalive
// frames arriving before the ack are answered in place.
func (c *Client) handshake(conn *websocket.Conn) error {
	if err := conn.WriteJSON(wireMessage{Type: msgConnectionInit}); err != nil {
		return fmt.Errorf("graphqlws: connection_init: %w", err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(c.cfg.AckTimeout)); err != nil {
		return err
	}
	defer conn.SetReadDeadline(time.Time{})
	for {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("graphqlws: awaiting connection_ack: %w", err)
		}
		switch msg.Type {
		case msgConnectionAck:
			return nil
		case msgPing:
			if err := conn.WriteJSON(wireMessage{Type: msgPong}); err != nil {
				return fmt.Errorf("graphqlws: pong: %w", err)
			}
		default:
			// unknown pre-ack frames are ignored
		}
	}
}

// subscription is the lifecycle token for one active stream. Stop is safe to
// call from any goroutine and at most the first call does work.
type subscription struct {
	conn      *websocket.Conn
	id        string
	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

func (s *subscription) writeJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

// Stop sends a complete frame for the subscription and closes the socket.
// Stopping is cooperative: the read loop notices the closed connection and
// exits without reporting it as an error.
func (s *subscription) Stop() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.writeJSON(wireMessage{ID: s.id, Type: msgComplete})
		err = s.conn.Close()
	})
	return err
}

func (s *subscription) readLoop(onEvent func(map[string]any), onError func(error), logger *zerolog.Logger) {
	for {
		var msg wireMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
				// caller-initiated stop; the read error is expected
			default:
				onError(err)
			}
			return
		}
		switch msg.Type {
		case msgNext:
			var p nextPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				onError(fmt.Errorf("graphqlws: decode next payload: %w", err))
				continue
			}
			data := p.Data
			if data == nil {
				data = map[string]any{}
			}
			onEvent(data)
		case msgError:
			onError(fmt.Errorf("graphqlws: server error: %s", describeErrors(msg.Payload)))
		case msgComplete:
			if logger != nil {
				logger.Info().Msg("subscription completed by server")
			}
			return
		case msgPing:
			if err := s.writeJSON(wireMessage{Type: msgPong}); err != nil {
				onError(fmt.Errorf("graphqlws: pong: %w", err))
			}
		}
	}
}

func describeErrors(raw json.RawMessage) string {
	var errs []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &errs); err == nil && len(errs) > 0 {
		parts := make([]string, 0, len(errs))
		for _, e := range errs {
			parts = append(parts, e.Message)
		}
		return strings.Join(parts, "; ")
	}
	return string(raw)
}
