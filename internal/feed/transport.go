package feed

// Request describes one streaming subscription: a fixed query text plus an
// operation name echoed into telemetry records.
type Request struct {
	OperationName string
	Query         string
}

// Transport is the push-notification capability the manager consumes. The
// delivery threading model belongs to the transport; it must invoke onEvent
// and onError serially with respect to each other for a single subscription.
type Transport interface {
	Subscribe(req Request, onEvent func(payload map[string]any), onError func(err error)) (Subscription, error)
}

// Subscription is the lifecycle token representing one active feed.
type Subscription interface {
	Stop() error
}
