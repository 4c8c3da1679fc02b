package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/api/middleware"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graphql"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/health"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/metrics"
)

// Route paths
const (
	PathGraphs  = "/api/graphs"
	PathReload  = "/api/reload"
	PathStep    = "/api/step"
	PathGraphQL = "/graphql"
	PathHealth  = "/health"
	PathReady   = "/ready"
	PathMetrics = "/metrics"
)

// NewServer creates an API server over store
func NewServer(store SnapshotStore, opts ...Option) *Server {
	s := &Server{
		store:         store,
		logger:        logging.NewNopLogger(),
		healthChecker: health.NewHealthChecker(),
		maxBodyBytes:  middleware.DefaultMaxBodyBytes,
		startTime:     time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metricsRegistry == nil {
		s.metricsRegistry = metrics.NewRegistry()
	}
	s.logger = s.logger.With(logging.Component("api"))

	s.healthChecker.RegisterReadinessCheck("snapshot", health.SnapshotCheck(s.snapshotState))
	s.healthChecker.RegisterCheck("recompute", health.RecomputeCheck(store.LastError))

	return s
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+PathGraphs, s.handleGraphs)
	requireAuth := middleware.RequireBearer(s.authValidator, s.logger)
	reload := requireAuth(http.HandlerFunc(s.handleReload))
	mux.Handle("GET "+PathReload, reload)
	mux.Handle("POST "+PathReload, reload)
	mux.Handle("POST "+PathStep, requireAuth(middleware.BodySizeLimit(s.maxBodyBytes)(http.HandlerFunc(s.handleStep))))

	if gql, err := graphql.NewHandler(s.store); err != nil {
		s.logger.Error("graphql disabled", logging.Error(err))
	} else {
		mux.Handle("GET "+PathGraphQL, gql)
		mux.Handle("POST "+PathGraphQL, middleware.BodySizeLimit(s.maxBodyBytes)(gql))
	}

	mux.HandleFunc("GET "+PathHealth, s.healthChecker.HTTPHandler())
	mux.HandleFunc("GET "+PathReady, s.healthChecker.ReadinessHandler())
	mux.HandleFunc("GET "+PathMetrics, s.handleMetrics)

	return middleware.Chain(mux,
		middleware.PanicRecovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger),
		middleware.CORS(s.corsOrigins),
		middleware.Metrics(s.metricsRegistry, PathGraphs, PathReload, PathStep, PathGraphQL, PathHealth, PathReady, PathMetrics),
	)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.metricsRegistry.UpdateUptime(s.startTime)
	promhttp.HandlerFor(s.metricsRegistry.GetPrometheusRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

func (s *Server) snapshotState() health.SnapshotState {
	snap := s.store.Current()
	if snap == nil {
		return health.SnapshotState{}
	}
	return health.SnapshotState{
		Loaded:     true,
		Generation: snap.Generation,
		ComputedAt: snap.ComputedAt,
		Source:     snap.Source,
	}
}
