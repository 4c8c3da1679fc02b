// Package cache keeps the most recent reduction result and recomputes it on
// demand. Readers always see a complete snapshot; a failed recompute leaves
// the previous one in place.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/metrics"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/parser"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/reduction"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/source"
)

// ErrNoSnapshot is returned by Require before the first successful recompute.
var ErrNoSnapshot = errors.New("no snapshot computed yet")

// Build is what a Builder produces: a step result and where it came from.
type Build struct {
	Result  *reduction.Result
	Source  string
	Skipped int
}

// Builder loads, parses and reduces a network.
type Builder func(ctx context.Context) (*Build, error)

// Snapshot is an immutable, fully computed result.
type Snapshot struct {
	Generation string            `json:"generation"`
	ComputedAt time.Time         `json:"computedAt"`
	Duration   time.Duration     `json:"-"`
	Source     string            `json:"source"`
	Skipped    int               `json:"skippedLines"`
	Result     *reduction.Result `json:"-"`
}

// Store holds the current snapshot
type Store struct {
	builder Builder
	current atomic.Pointer[Snapshot]
	timeout time.Duration

	// mu guards running and pending. At most one build runs; triggers that
	// arrive meanwhile share the single build queued behind it.
	mu      sync.Mutex
	running bool
	pending *round

	errMu   sync.Mutex
	lastErr error
	logger  logging.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

// round is one build and everyone waiting for it.
type round struct {
	ctx  context.Context
	done chan struct{}
	snap *Snapshot
	err  error
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store's logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics records recompute outcomes on the given registry
func WithMetrics(registry *metrics.Registry) Option {
	return func(s *Store) {
		s.metrics = registry
	}
}

// WithTimeout bounds each build. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// New creates an empty store. Nothing is computed until Recompute is called.
func New(builder Builder, opts ...Option) *Store {
	s := &Store{
		builder: builder,
		logger:  logging.NewNopLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logging.Component("cache"))
	return s
}

// Current returns the latest snapshot, or nil if none has been computed.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Require returns the latest snapshot or ErrNoSnapshot.
func (s *Store) Require() (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}
	return nil, ErrNoSnapshot
}

// LastError returns the error of the most recent recompute, nil if it
// succeeded or none has run.
func (s *Store) LastError() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastErr
}

func (s *Store) setLastError(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	s.lastErr = err
}

// Recompute runs the builder and publishes its result. Builds never overlap:
// a call made while a build is running waits for a fresh build that starts
// after it, shared with every other call made during the same window. The
// build does not inherit ctx cancellation; ctx only bounds how long this
// caller waits. On failure the previous snapshot stays current and the error
// is returned.
func (s *Store) Recompute(ctx context.Context) (*Snapshot, error) {
	r := s.enqueue(ctx)

	select {
	case <-r.done:
		return r.snap, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) enqueue(ctx context.Context) *round {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		s.pending = &round{ctx: context.WithoutCancel(ctx), done: make(chan struct{})}
	}
	r := s.pending
	if !s.running {
		s.running = true
		s.pending = nil
		go s.run(r)
	}
	return r
}

// run executes r and then every round queued behind it.
func (s *Store) run(r *round) {
	for r != nil {
		ctx, cancel := s.buildContext(r.ctx)
		r.snap, r.err = s.build(ctx)
		cancel()
		close(r.done)

		s.mu.Lock()
		r = s.pending
		s.pending = nil
		if r == nil {
			s.running = false
		}
		s.mu.Unlock()
	}
}

func (s *Store) buildContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(parent, s.timeout)
	}
	return context.WithCancel(parent)
}

func (s *Store) build(ctx context.Context) (*Snapshot, error) {
	start := s.now()
	b, err := s.builder(ctx)
	if err == nil && (b == nil || b.Result == nil) {
		err = errors.New("builder returned no result")
	}
	elapsed := s.now().Sub(start)

	if s.metrics != nil {
		s.metrics.RecordRecompute(err, elapsed)
	}
	s.setLastError(err)
	if err != nil {
		s.logger.Warn("recompute failed, keeping previous snapshot",
			logging.Error(err),
			logging.Latency(elapsed),
		)
		return nil, fmt.Errorf("recompute: %w", err)
	}

	snap := &Snapshot{
		Generation: uuid.NewString(),
		ComputedAt: start,
		Duration:   elapsed,
		Source:     b.Source,
		Skipped:    b.Skipped,
		Result:     b.Result,
	}
	s.current.Store(snap)

	if s.metrics != nil {
		s.metrics.UpdateGraph(stats(snap))
	}

	fields := []logging.Field{
		logging.Generation(snap.Generation),
		logging.Source(snap.Source),
		logging.Nodes(len(b.Result.Original.Nodes)),
		logging.Edges(len(b.Result.Original.Links)),
		logging.Latency(elapsed),
	}
	if key, ok := b.Result.RemovedEdge(); ok {
		fields = append(fields, logging.EdgeKey(key.String()))
	}
	s.logger.Info("snapshot recomputed", fields...)
	if snap.Skipped > 0 {
		s.logger.Warn("skipped malformed lines",
			logging.Source(snap.Source),
			logging.Int("skipped", snap.Skipped),
		)
	}

	return snap, nil
}

func stats(snap *Snapshot) metrics.GraphStats {
	r := snap.Result
	st := metrics.GraphStats{
		Nodes:      len(r.Original.Nodes),
		Edges:      len(r.Original.Links),
		Components: len(r.After.Communities),
		Modularity: r.After.Modularity,
		Skipped:    snap.Skipped,
	}
	if key, ok := r.RemovedEdge(); ok {
		st.RemovedEdge = true
		st.Score, _ = r.Original.Betweenness.Get(key)
	}
	return st
}

// SourceBuilder returns a Builder that reads src, parses it as a network
// file and performs one reduction step.
func SourceBuilder(src source.Source, opts ...reduction.Option) Builder {
	return func(ctx context.Context) (*Build, error) {
		data, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}

		network, err := parser.ParseBytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", src.Describe(), err)
		}

		result, err := reduction.Run(network.Nodes, network.Edges, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to reduce %s: %w", src.Describe(), err)
		}

		return &Build{
			Result:  result,
			Source:  src.Describe(),
			Skipped: network.Skipped,
		}, nil
	}
}
