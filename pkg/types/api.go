package types

// EventsResponse wraps the event slice returned by GET /events.
type EventsResponse struct {
	// Buffered events, oldest first.
	Events []EventRecord `json:"events"`
	// Number of events returned.
	// example: 3
	Count int `json:"count" example:"3"`
}

// FeedStatus is returned by GET /status.
type FeedStatus struct {
	// Whether a subscription is currently active.
	// example: true
	Subscribed bool `json:"subscribed" example:"true"`
	// Number of events currently buffered.
	// example: 42
	BufferLen int `json:"buffer_len" example:"42"`
	// Maximum number of buffered events before FIFO eviction.
	// example: 100
	Capacity int `json:"capacity" example:"100"`
	// Operation name of the active subscription.
	// example: scoreboard
	Operation string `json:"operation" example:"scoreboard"`
	// Unix seconds the current subscription was opened (0 when never started).
	// example: 1700000000.5
	StartedUnix float64 `json:"started_unix,omitempty" example:"1700000000.5"`
	// Unix seconds of the most recent delivered event. Stale values are the
	// only liveness signal the feed exposes to callers.
	// example: 1700000123.5
	LastReceivedUnix float64 `json:"last_received_unix,omitempty" example:"1700000123.5"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid limit
	Error string `json:"error" example:"invalid limit"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
