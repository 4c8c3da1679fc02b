package api

import (
	"context"
	"time"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/auth"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/cache"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/health"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/metrics"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/reduction"
)

// SnapshotStore is the result cache the server reads and refreshes
type SnapshotStore interface {
	Current() *cache.Snapshot
	Recompute(ctx context.Context) (*cache.Snapshot, error)
	LastError() error
}

// Server serves the reduction results over HTTP
type Server struct {
	store           SnapshotStore
	logger          logging.Logger
	metricsRegistry *metrics.Registry
	healthChecker   *health.HealthChecker
	stepOptions     []reduction.Option
	corsOrigins     []string
	maxBodyBytes    int64
	authValidator   auth.TokenValidator
	startTime       time.Time
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request and error logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics sets the registry exposed on /metrics
func WithMetrics(registry *metrics.Registry) Option {
	return func(s *Server) {
		s.metricsRegistry = registry
	}
}

// WithStepOptions sets the options used for POST /api/step
func WithStepOptions(opts ...reduction.Option) Option {
	return func(s *Server) {
		s.stepOptions = opts
	}
}

// WithCORSOrigins allows browser clients from the given origins
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithMaxBodyBytes caps request body size
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithAuth requires a bearer token on the endpoints that trigger
// computation (reload and step). Read endpoints stay open.
func WithAuth(validator auth.TokenValidator) Option {
	return func(s *Server) {
		s.authValidator = validator
	}
}
