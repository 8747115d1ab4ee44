// Package exporter tails the JSONL telemetry log written by the feed daemon
// and republishes each recognized record as Prometheus metrics.
package exporter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/common/fsutil"
)

const (
	defaultPoll      = time.Second
	unknownLabel     = "unknown"
	heartbeatOutcome = "subscription_event"
)

// logRecord is the subset of telemetry fields the exporter recognizes.
// Pointers distinguish absent numerics from zero values.
type logRecord struct {
	Client     string   `json:"client"`
	Outcome    string   `json:"outcome"`
	LatencyMS  *float64 `json:"latency_ms"`
	RetryCount *float64 `json:"retry_count"`
}

// Tailer follows a line-oriented telemetry log. Only lines appended after Run
// starts are processed; pre-existing content is never replayed.
type Tailer struct {
	path    string
	poll    time.Duration
	metrics *Metrics
	logger  *zerolog.Logger
	now     func() time.Time
}

// NewTailer builds a tailer over the log at path. poll <= 0 uses one second.
func NewTailer(path string, poll time.Duration, m *Metrics) *Tailer {
	if poll <= 0 {
		poll = defaultPoll
	}
	return &Tailer{path: path, poll: poll, metrics: m, now: time.Now}
}

// SetLogger installs a structured logger used for skipped-line reporting.
func (t *Tailer) SetLogger(l zerolog.Logger) { t.logger = &l }

// Run tails the log until ctx is cancelled, creating the file (and parent
// directories) when absent and seeking to the current end before reading.
// It returns ctx.Err() on cancellation and an I/O error otherwise.
func (t *Tailer) Run(ctx context.Context) error {
	path, err := fsutil.ExpandHome(t.path)
	if err != nil {
		return err
	}
	if err := fsutil.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	reader := bufio.NewReader(f)
	var pending []byte
	for {
		chunk, err := reader.ReadBytes('\n')
		pending = append(pending, chunk...)
		if err == nil {
			t.handleLine(pending)
			pending = pending[:0]
			continue
		}
		if !errors.Is(err, io.EOF) {
			return err
		}
		// at end of file: wait for more data
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.poll):
		}
	}
}

// handleLine updates metrics for one log line. Non-JSON lines are skipped
// without affecting any metric.
func (t *Tailer) handleLine(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}
	var rec logRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		if t.logger != nil {
			t.logger.Debug().Msg("skipping non-JSON telemetry line")
		}
		return
	}
	client := rec.Client
	if client == "" {
		client = unknownLabel
	}
	outcome := rec.Outcome
	if outcome == "" {
		outcome = unknownLabel
	}
	t.metrics.Requests.WithLabelValues(client, outcome).Inc()
	if rec.LatencyMS != nil {
		t.metrics.Latency.Observe(*rec.LatencyMS)
	}
	if rec.RetryCount != nil && *rec.RetryCount > 0 {
		t.metrics.Retries.WithLabelValues(client).Add(*rec.RetryCount)
	}
	if outcome == heartbeatOutcome {
		t.metrics.LastHeartbeat.Set(float64(t.now().UnixNano()) / float64(time.Second))
	}
}
