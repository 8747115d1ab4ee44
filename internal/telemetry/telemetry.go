// Package telemetry defines the structured operational records shared by the
// feed manager (producer) and cfbd-exporter (consumer), plus a JSONL file
// sink that implements the hook contract.
package telemetry

import "time"

// Record is one operational event. It marshals to a single JSON line in the
// telemetry log tailed by cfbd-exporter.
type Record struct {
	Timestamp  float64 `json:"timestamp"`
	Client     string  `json:"client"`
	Operation  string  `json:"operation,omitempty"`
	Outcome    string  `json:"outcome"`
	Detail     string  `json:"detail,omitempty"`
	LatencyMS  float64 `json:"latency_ms,omitempty"`
	RetryCount int     `json:"retry_count,omitempty"`
}

// Hook receives records from producers. Implementations should be lightweight
// and non-blocking, and must not call back into their producer.
type Hook func(Record)

// Now returns the current wall-clock time as Unix epoch seconds.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
