package feed

import (
	"time"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/pkg/types"
)

// Ready reports whether a subscription is currently active.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle != nil
}

// Status builds the read-only projection served by GET /status.
func (m *Manager) Status() types.FeedStatus {
	m.mu.Lock()
	subscribed := m.handle != nil
	started := m.startedAt
	last := m.lastReceived
	m.mu.Unlock()

	st := types.FeedStatus{
		Subscribed: subscribed,
		BufferLen:  m.buf.size(),
		Capacity:   m.buf.capacity,
		Operation:  scoreboardOperation,
	}
	if !started.IsZero() {
		st.StartedUnix = float64(started.UnixNano()) / float64(time.Second)
	}
	if !last.IsZero() {
		st.LastReceivedUnix = float64(last.UnixNano()) / float64(time.Second)
	}
	return st
}
