package feed

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/telemetry"
	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/pkg/types"
)

// Manager owns at most one active subscription and the bounded event window
// it fills. Handle transitions are guarded by mu; the buffer carries its own
// lock so delivery appends never contend with lifecycle calls.
type Manager struct {
	transport Transport
	hook      telemetry.Hook
	client    string
	logger    *zerolog.Logger

	buf *eventBuffer

	mu           sync.Mutex // guards handle lifecycle and receipt bookkeeping
	handle       Subscription
	startedAt    time.Time
	lastReceived time.Time
}

// New constructs a Manager around the given push transport with defaults.
func New(tr Transport) (*Manager, error) {
	return NewWithConfig(ManagerConfig{Transport: tr})
}

// NewWithConfig constructs a Manager from ManagerConfig. It fails fast when
// no transport capability was provided; nothing else can fail here.
func NewWithConfig(cfg ManagerConfig) (*Manager, error) {
	if cfg.Transport == nil {
		return nil, ErrTransportUnavailable("feed: no streaming transport configured")
	}
	client := cfg.Client
	if client == "" {
		client = defaultClient
	}
	return &Manager{
		transport: cfg.Transport,
		hook:      cfg.Hook,
		client:    client,
		logger:    cfg.Logger,
		buf:       newEventBuffer(cfg.MaxEvents),
	}, nil
}

// StartFeed opens the scoreboard subscription. Calling it while a
// subscription is active is a no-op. Transport failures never surface here:
// a synchronous subscribe error is routed through the same telemetry path as
// asynchronous delivery errors.
func (m *Manager) StartFeed() {
	m.mu.Lock()
	if m.handle != nil {
		m.mu.Unlock()
		return
	}
	h, err := m.transport.Subscribe(scoreboardRequest(), m.onEvent, m.onError)
	if err != nil {
		m.mu.Unlock()
		m.onError(err)
		return
	}
	m.handle = h
	m.startedAt = time.Now()
	m.mu.Unlock()
	if m.logger != nil {
		m.logger.Info().Str("operation", scoreboardOperation).Msg("feed started")
	}
}

// Stop ends the active subscription, if any; calling it with no active
// subscription is a no-op. Buffered events are retained. The handle is
// released before the transport call, so a concurrent StartFeed may open the
// next subscription while the old connection is still tearing down; the
// manager never tracks more than one handle.
func (m *Manager) Stop() {
	m.mu.Lock()
	h := m.handle
	m.handle = nil
	m.mu.Unlock()
	if h == nil {
		return
	}
	if err := h.Stop(); err != nil && m.logger != nil {
		m.logger.Warn().Err(err).Msg("feed stop")
	}
}

// LatestEvents returns a copy of up to limit most recently delivered records,
// oldest first. limit <= 0 uses the package default of 10.
func (m *Manager) LatestEvents(limit int) []types.EventRecord {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	return m.buf.tail(limit)
}

// onEvent runs on the transport's delivery goroutine. Records are found under
// the well-known scoreboard key; any other payload shape appends nothing.
func (m *Manager) onEvent(payload map[string]any) {
	if payload == nil {
		return
	}
	raw, _ := payload[scoreboardKey].([]any)
	if len(raw) == 0 {
		return
	}
	now := telemetry.Now()
	appended := 0
	for _, item := range raw {
		src, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := make(types.EventRecord, len(src)+1)
		for k, v := range src {
			rec[k] = v
		}
		rec["received_at"] = now
		m.buf.push(rec)
		appended++
	}
	if appended == 0 {
		return
	}
	m.mu.Lock()
	m.lastReceived = time.Now()
	m.mu.Unlock()
}

// onError runs on the transport's delivery goroutine. The error is forwarded
// to the telemetry hook when one is configured and otherwise dropped; the
// subscription itself is left in whatever state the transport left it.
func (m *Manager) onError(err error) {
	if err == nil {
		return
	}
	if m.logger != nil {
		m.logger.Warn().Err(err).Msg("subscription error")
	}
	hook := m.hook
	if hook == nil {
		return
	}
	// The hook is best-effort; a panicking hook must not reach the transport.
	defer func() { _ = recover() }()
	hook(telemetry.Record{
		Timestamp: telemetry.Now(),
		Client:    m.client,
		Operation: scoreboardOperation,
		Outcome:   "subscription_error",
		Detail:    err.Error(),
	})
}
