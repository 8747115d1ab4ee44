package feed

import (
	"github.com/rs/zerolog"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/internal/telemetry"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxEvents   = 100
	defaultLatestLimit = 10
	defaultClient      = "graphql"
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Transport is the push-subscription capability. Required.
	Transport Transport
	// Hook receives asynchronous subscription errors. Optional; when nil,
	// delivery errors are dropped.
	Hook telemetry.Hook
	// MaxEvents bounds the in-memory event window. <=0 uses the default of 100.
	MaxEvents int
	// Client is the client label stamped on telemetry records.
	Client string
	// Logger is an optional structured logger.
	Logger *zerolog.Logger
}
