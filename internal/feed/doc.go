// Package feed owns the lifecycle of a single live scoreboard subscription.
// It opens the stream through an injected push transport, buffers delivered
// events in a bounded in-memory window, and exposes snapshot reads to
// foreground callers. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, StartFeed/Stop/LatestEvents.
//   - config.go: ManagerConfig and package defaults.
//   - buffer.go: bounded FIFO event window.
//   - transport.go: Transport/Subscription capability interfaces.
//   - query.go: the fixed scoreboard subscription request.
//   - errors.go: error types and helpers (IsTransportUnavailable).
//   - status.go: read-only projections for the HTTP layer.
//
// Lifecycle: the manager tracks at most one handle at a time. Stop releases
// the handle before telling the transport to close, so during a concurrent
// Stop/StartFeed the old connection may still be tearing down while the next
// subscription opens.
//
// Failure policy: only the construction-time missing-transport error is ever
// returned to callers. Asynchronous transport failures are forwarded to an
// optional telemetry hook and the subscription is otherwise left alone; the
// manager performs no retry or reconnect.
package feed
