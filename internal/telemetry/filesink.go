package telemetry

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/common/fsutil"
)

// FileSink appends records to a JSONL log file, creating parent directories
// on first open. Writes are mutex-guarded so the delivery goroutine and
// foreground callers can share one sink.
type FileSink struct {
	mu     sync.Mutex
	f      *os.File
	logger *zerolog.Logger
}

// NewFileSink opens (or creates) the log file at path for appending.
func NewFileSink(path string) (*FileSink, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if err := fsutil.EnsureParentDir(p); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f}, nil
}

// SetLogger installs a structured logger used for dropped-write reporting.
func (s *FileSink) SetLogger(l zerolog.Logger) { s.logger = &l }

// Write appends rec as one JSON line.
func (s *FileSink) Write(rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.f.Write(b)
	return err
}

// Hook adapts the sink to the fire-and-forget hook contract: write failures
// are logged when a logger is installed and otherwise dropped.
func (s *FileSink) Hook() Hook {
	return func(rec Record) {
		if err := s.Write(rec); err != nil && s.logger != nil {
			s.logger.Warn().Err(err).Msg("telemetry write dropped")
		}
	}
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
