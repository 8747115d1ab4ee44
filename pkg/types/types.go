package types

// EventRecord is one normalized scoreboard event as delivered by the feed.
// Keys mirror the upstream GraphQL fields; a synthesized received_at stamp
// (Unix seconds) is added at ingestion time.
type EventRecord map[string]any
