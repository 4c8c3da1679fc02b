package cache

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/metrics"
)

const bridgeNetwork = `% two triangles joined by C-D
A [0,0]
B [1,0]
C [0,1]
edge(A,B)
edge(A,C)
edge(B,C)
edge(C,D)
edge(D,E)
edge(D,F)
edge(E,F)
not a statement
`

type memSource struct {
	mu   sync.Mutex
	data string
	err  error
}

func (m *memSource) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.data), nil
}

func (m *memSource) Describe() string { return "memory" }

func (m *memSource) set(data string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data, m.err = data, err
}

func TestStore_EmptyUntilRecompute(t *testing.T) {
	store := New(SourceBuilder(&memSource{data: bridgeNetwork}))

	assert.Nil(t, store.Current())
	_, err := store.Require()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestStore_Recompute(t *testing.T) {
	store := New(SourceBuilder(&memSource{data: bridgeNetwork}))

	snap, err := store.Recompute(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Same(t, snap, store.Current())
	assert.NotEmpty(t, snap.Generation)
	assert.Equal(t, "memory", snap.Source)
	assert.Equal(t, 1, snap.Skipped)
	assert.False(t, snap.ComputedAt.IsZero())

	removed, ok := snap.Result.RemovedEdge()
	require.True(t, ok)
	assert.Equal(t, graph.EdgeKey("C|D"), removed)
	assert.Len(t, snap.Result.After.Communities, 2)
}

func TestStore_NewGenerationPerRecompute(t *testing.T) {
	store := New(SourceBuilder(&memSource{data: bridgeNetwork}))

	first, err := store.Recompute(context.Background())
	require.NoError(t, err)
	second, err := store.Recompute(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Generation, second.Generation)
	assert.Same(t, second, store.Current())
}

func TestStore_FailureKeepsPrevious(t *testing.T) {
	src := &memSource{data: bridgeNetwork}
	store := New(SourceBuilder(src))

	good, err := store.Recompute(context.Background())
	require.NoError(t, err)

	boom := errors.New("disk gone")
	src.set("", boom)

	_, err = store.Recompute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Same(t, good, store.Current())
}

func TestStore_NilBuildIsError(t *testing.T) {
	store := New(func(ctx context.Context) (*Build, error) { return nil, nil })

	_, err := store.Recompute(context.Background())
	assert.Error(t, err)
	assert.Nil(t, store.Current())
}

// gatedBuilder blocks every build until release is closed and reports each
// start on started.
type gatedBuilder struct {
	inner   Builder
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newGatedBuilder(src *memSource) *gatedBuilder {
	return &gatedBuilder{
		inner:   SourceBuilder(src),
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (g *gatedBuilder) build(ctx context.Context) (*Build, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	<-g.release
	return g.inner(ctx)
}

func waitStarted(t *testing.T, g *gatedBuilder) {
	t.Helper()
	select {
	case <-g.started:
	case <-time.After(2 * time.Second):
		t.Fatal("build did not start")
	}
}

func hasPending(s *Store) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func removedEdge(t *testing.T, snap *Snapshot) graph.EdgeKey {
	t.Helper()
	require.NotNil(t, snap)
	key, ok := snap.Result.RemovedEdge()
	require.True(t, ok)
	return key
}

func TestStore_TriggerDuringBuildRebuilds(t *testing.T) {
	src := &memSource{data: bridgeNetwork}
	gate := newGatedBuilder(src)
	store := New(gate.build)

	first := make(chan *Snapshot, 1)
	go func() {
		snap, err := store.Recompute(context.Background())
		assert.NoError(t, err)
		first <- snap
	}()
	waitStarted(t, gate)

	// the file changes while the first build is still reading
	src.set("edge(X,Y)\n", nil)
	second := make(chan *Snapshot, 1)
	go func() {
		snap, err := store.Recompute(context.Background())
		assert.NoError(t, err)
		second <- snap
	}()
	require.Eventually(t, func() bool { return hasPending(store) }, 2*time.Second, time.Millisecond)

	close(gate.release)

	older := <-first
	newer := <-second
	assert.Equal(t, graph.EdgeKey("C|D"), removedEdge(t, older))
	assert.Equal(t, graph.EdgeKey("X|Y"), removedEdge(t, newer))
	assert.NotEqual(t, older.Generation, newer.Generation)
	assert.Same(t, newer, store.Current())
	assert.Equal(t, int32(2), gate.calls.Load())
}

func TestStore_TriggersDuringBuildShareOneRebuild(t *testing.T) {
	gate := newGatedBuilder(&memSource{data: bridgeNetwork})
	store := New(gate.build)

	go func() {
		_, _ = store.Recompute(context.Background())
	}()
	waitStarted(t, gate)

	var entered atomic.Int32
	var wg sync.WaitGroup
	results := make([]*Snapshot, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entered.Add(1)
			snap, err := store.Recompute(context.Background())
			assert.NoError(t, err)
			results[i] = snap
		}(i)
	}
	require.Eventually(t, func() bool { return entered.Load() == int32(len(results)) }, 2*time.Second, time.Millisecond)
	// let the last goroutines reach the queue
	time.Sleep(20 * time.Millisecond)

	close(gate.release)
	wg.Wait()

	assert.Equal(t, int32(2), gate.calls.Load())
	for _, snap := range results {
		require.NotNil(t, snap)
		assert.Equal(t, results[0].Generation, snap.Generation)
	}
	assert.Same(t, results[0], store.Current())
}

func TestStore_CallerCancelDoesNotAbortBuild(t *testing.T) {
	var buildErr atomic.Value
	gate := newGatedBuilder(&memSource{data: bridgeNetwork})
	store := New(func(ctx context.Context) (*Build, error) {
		b, err := gate.build(ctx)
		if ctx.Err() != nil {
			buildErr.Store(ctx.Err())
		}
		return b, err
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := store.Recompute(ctx)
		done <- err
	}()
	waitStarted(t, gate)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("canceled caller kept waiting")
	}

	close(gate.release)
	require.Eventually(t, func() bool { return store.Current() != nil }, 2*time.Second, time.Millisecond)
	assert.Nil(t, buildErr.Load())
	assert.NoError(t, store.LastError())

	snap, err := store.Recompute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, graph.EdgeKey("C|D"), removedEdge(t, snap))
}

func TestStore_BuildTimeout(t *testing.T) {
	store := New(func(ctx context.Context) (*Build, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithTimeout(10*time.Millisecond))

	_, err := store.Recompute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, store.Current())
}

func TestStore_LogsSkippedLines(t *testing.T) {
	var logs bytes.Buffer
	store := New(SourceBuilder(&memSource{data: bridgeNetwork}),
		WithLogger(logging.NewJSONLogger(&logs, logging.WarnLevel)))

	_, err := store.Recompute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "skipped malformed lines")
	assert.Contains(t, logs.String(), `"skipped":1`)
}

func TestStore_RecordsMetrics(t *testing.T) {
	registry := metrics.NewRegistry()
	src := &memSource{data: bridgeNetwork}
	store := New(SourceBuilder(src), WithMetrics(registry))

	_, err := store.Recompute(context.Background())
	require.NoError(t, err)
	src.set("", errors.New("unavailable"))
	_, err = store.Recompute(context.Background())
	require.Error(t, err)

	var m dto.Metric
	require.NoError(t, registry.RecomputesTotal.WithLabelValues(metrics.StatusSuccess).Write(&m))
	assert.Equal(t, float64(1), m.GetCounter().GetValue())

	m.Reset()
	require.NoError(t, registry.RecomputesTotal.WithLabelValues(metrics.StatusError).Write(&m))
	assert.Equal(t, float64(1), m.GetCounter().GetValue())

	m.Reset()
	require.NoError(t, registry.RemovedEdgeScore.Write(&m))
	assert.Equal(t, float64(9), m.GetGauge().GetValue())

	m.Reset()
	require.NoError(t, registry.GraphComponents.Write(&m))
	assert.Equal(t, float64(2), m.GetGauge().GetValue())
}

func TestStore_LastError(t *testing.T) {
	src := &memSource{data: bridgeNetwork}
	store := New(SourceBuilder(src))

	assert.NoError(t, store.LastError())

	src.set("", errors.New("unreachable"))
	_, err := store.Recompute(context.Background())
	require.Error(t, err)
	assert.EqualError(t, store.LastError(), "unreachable")

	src.set(bridgeNetwork, nil)
	_, err = store.Recompute(context.Background())
	require.NoError(t, err)
	assert.NoError(t, store.LastError())
}
