package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"job-tracker/internal/domain/matching"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gate struct {
	mu      sync.Mutex
	release map[int]chan struct{}
	calls   int
}

func newGate() *gate {
	return &gate{release: map[int]chan struct{}{}}
}

func (g *gate) ch(i int) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.release[i]
	if !ok {
		c = make(chan struct{})
		g.release[i] = c
	}
	return c
}

// analyze blocks call n until ch(n) is closed, then returns a score of n.
func (g *gate) analyze(ctx context.Context, _ string, _ uuid.UUID) (matching.Analysis, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()
	select {
	case <-g.ch(n):
	case <-time.After(2 * time.Second):
	}
	return matching.Analysis{OverallScore: n}, nil
}

func newRunner(t *testing.T, fn AnalyzeFunc, workers int, onDone func(Request)) *Runner {
	t.Helper()
	pool := worker.NewPool(workers, 16)
	pool.Start(context.Background())
	t.Cleanup(pool.Close)
	r := NewRunner(pool, fn, Options{Timeout: 5 * time.Second, OnDone: onDone}, logging.Nop())
	t.Cleanup(r.Stop)
	return r
}

func waitStatus(t *testing.T, r *Runner, owner, id string, want Status) Request {
	t.Helper()
	var got Request
	require.Eventually(t, func() bool {
		var err error
		got, err = r.Get(owner, id)
		return err == nil && got.Status == want
	}, 2*time.Second, 5*time.Millisecond, "request %s never reached %s", id, want)
	return got
}

func TestRunner_CompletesRequest(t *testing.T) {
	g := newGate()
	close(g.ch(1))
	done := make(chan Request, 1)
	r := newRunner(t, g.analyze, 1, func(req Request) { done <- req })

	req, err := r.Submit("Jane@Example.com", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)

	got := waitStatus(t, r, "jane@example.com", req.ID, StatusDone)
	require.NotNil(t, got.Analysis)
	assert.Equal(t, 1, got.Analysis.OverallScore)
	assert.NotNil(t, got.CompletedAt)

	select {
	case d := <-done:
		assert.Equal(t, req.ID, d.ID)
	case <-time.After(time.Second):
		t.Fatal("OnDone not called")
	}
}

func TestRunner_NewerSubmissionSupersedesAndStaleResultIsDiscarded(t *testing.T) {
	g := newGate()
	r := newRunner(t, g.analyze, 2, nil)
	jobID := uuid.New()

	first, err := r.Submit("a@b.c", jobID)
	require.NoError(t, err)
	require.Eventually(t, func() bool { g.mu.Lock(); defer g.mu.Unlock(); return g.calls == 1 }, time.Second, 5*time.Millisecond)

	second, err := r.Submit("a@b.c", jobID)
	require.NoError(t, err)

	got, err := r.Get("a@b.c", first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuperseded, got.Status)

	// second finishes first, then the stale first completes late
	close(g.ch(2))
	waitStatus(t, r, "a@b.c", second.ID, StatusDone)
	close(g.ch(1))

	time.Sleep(50 * time.Millisecond)
	got, err = r.Get("a@b.c", first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuperseded, got.Status)
	assert.Nil(t, got.Analysis)

	latest, err := r.Get("a@b.c", second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Analysis.OverallScore)
}

func TestRunner_QueueFullKeepsPreviousRequest(t *testing.T) {
	g := newGate()
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())
	t.Cleanup(pool.Close)
	r := NewRunner(pool, g.analyze, Options{Timeout: 5 * time.Second}, logging.Nop())
	t.Cleanup(r.Stop)
	jobID := uuid.New()

	first, err := r.Submit("a@b.c", jobID)
	require.NoError(t, err)
	require.Eventually(t, func() bool { g.mu.Lock(); defer g.mu.Unlock(); return g.calls == 1 }, time.Second, 5*time.Millisecond)

	queued, err := r.Submit("a@b.c", uuid.New())
	require.NoError(t, err)

	_, err = r.Submit("a@b.c", jobID)
	assert.ErrorIs(t, err, worker.ErrQueueFull)

	got, err := r.Get("a@b.c", first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	close(g.ch(1))
	close(g.ch(2))
	done := waitStatus(t, r, "a@b.c", first.ID, StatusDone)
	assert.Equal(t, 1, done.Analysis.OverallScore)
	waitStatus(t, r, "a@b.c", queued.ID, StatusDone)
}

func TestRunner_DifferentJobsDoNotInterfere(t *testing.T) {
	g := newGate()
	close(g.ch(1))
	close(g.ch(2))
	r := newRunner(t, g.analyze, 2, nil)

	x, err := r.Submit("a@b.c", uuid.New())
	require.NoError(t, err)
	y, err := r.Submit("a@b.c", uuid.New())
	require.NoError(t, err)

	waitStatus(t, r, "a@b.c", x.ID, StatusDone)
	waitStatus(t, r, "a@b.c", y.ID, StatusDone)
}

func TestRunner_UnavailableAndFailed(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	fn := func(context.Context, string, uuid.UUID) (matching.Analysis, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return matching.Analysis{}, matching.ErrAnalysisUnavailable
		}
		return matching.Analysis{}, errors.New("boom")
	}
	r := newRunner(t, fn, 1, nil)

	a, err := r.Submit("a@b.c", uuid.New())
	require.NoError(t, err)
	waitStatus(t, r, "a@b.c", a.ID, StatusUnavailable)

	b, err := r.Submit("a@b.c", uuid.New())
	require.NoError(t, err)
	got := waitStatus(t, r, "a@b.c", b.ID, StatusFailed)
	assert.Equal(t, "boom", got.Error)
}

func TestRunner_CancelOwnerPassesContextCancel(t *testing.T) {
	observed := make(chan error, 1)
	fn := func(ctx context.Context, _ string, _ uuid.UUID) (matching.Analysis, error) {
		<-ctx.Done()
		observed <- ctx.Err()
		return matching.Analysis{}, ctx.Err()
	}
	r := newRunner(t, fn, 1, nil)

	req, err := r.Submit("a@b.c", uuid.New())
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	r.CancelOwner("A@B.C")

	select {
	case err := <-observed:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("analysis context was not cancelled")
	}
	got, err := r.Get("a@b.c", req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuperseded, got.Status)
}

func TestRunner_GetScopedToOwner(t *testing.T) {
	g := newGate()
	close(g.ch(1))
	r := newRunner(t, g.analyze, 1, nil)

	req, err := r.Submit("a@b.c", uuid.New())
	require.NoError(t, err)

	_, err = r.Get("other@b.c", req.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
	_, err = r.Get("a@b.c", "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRunner_Prune(t *testing.T) {
	g := newGate()
	close(g.ch(1))
	r := newRunner(t, g.analyze, 1, nil)

	req, err := r.Submit("a@b.c", uuid.New())
	require.NoError(t, err)
	waitStatus(t, r, "a@b.c", req.ID, StatusDone)

	assert.Equal(t, 0, r.Prune())
	r.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 1, r.Prune())
	_, err = r.Get("a@b.c", req.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRunner_StartRejectsBadSpec(t *testing.T) {
	pool := worker.NewPool(1, 1)
	r := NewRunner(pool, nil, Options{PruneSpec: "not a spec"}, logging.Nop())
	assert.Error(t, r.Start())
}
