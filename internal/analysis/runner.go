package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"job-tracker/internal/domain/matching"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/worker"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

var ErrRequestNotFound = errors.New("analysis request not found")

type Status string

const (
	StatusPending     Status = "pending"
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
	StatusSuperseded  Status = "superseded"
	StatusUnavailable Status = "unavailable"
)

type Request struct {
	ID          string             `json:"requestId"`
	Owner       string             `json:"-"`
	JobID       uuid.UUID          `json:"jobId"`
	Status      Status             `json:"status"`
	Analysis    *matching.Analysis `json:"analysis,omitempty"`
	Error       string             `json:"error,omitempty"`
	SubmittedAt time.Time          `json:"submittedAt"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
}

func (r Request) Finished() bool {
	return r.Status != StatusPending
}

type AnalyzeFunc func(ctx context.Context, owner string, jobID uuid.UUID) (matching.Analysis, error)

type Options struct {
	Timeout time.Duration
	// Retention is how long finished requests stay readable.
	Retention time.Duration
	// PruneSpec is a cron spec for the janitor. Empty disables it.
	PruneSpec string
	OnDone    func(Request)
}

type slot struct {
	owner string
	job   uuid.UUID
}

// Runner executes match analyses in the background. Each (owner, job) has
// at most one current request; submitting again cancels the previous one
// and its late result is discarded.
type Runner struct {
	pool    *worker.Pool
	analyze AnalyzeFunc
	opts    Options
	logger  *logging.Logger
	now     func() time.Time

	mu       sync.Mutex
	requests map[string]*Request
	current  map[slot]string
	cancels  map[string]context.CancelFunc

	cron *cron.Cron
}

func NewRunner(pool *worker.Pool, analyze AnalyzeFunc, opts Options, logger *logging.Logger) *Runner {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retention <= 0 {
		opts.Retention = 15 * time.Minute
	}
	return &Runner{
		pool:     pool,
		analyze:  analyze,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		requests: make(map[string]*Request),
		current:  make(map[slot]string),
		cancels:  make(map[string]context.CancelFunc),
	}
}

func normOwner(owner string) string {
	return strings.ToLower(strings.TrimSpace(owner))
}

// Start launches the janitor. The worker pool is started by its owner.
func (r *Runner) Start() error {
	if strings.TrimSpace(r.opts.PruneSpec) == "" {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(r.opts.PruneSpec, func() {
		if n := r.Prune(); n > 0 {
			r.logger.Debug("pruned analysis requests", "count", n)
		}
	}); err != nil {
		return err
	}
	c.Start()
	r.cron = c
	return nil
}

// Stop halts the janitor and cancels every pending request.
func (r *Runner) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, cancel := range r.cancels {
		cancel()
		delete(r.cancels, id)
	}
}

func (r *Runner) Submit(owner string, jobID uuid.UUID) (Request, error) {
	owner = normOwner(owner)
	req := &Request{
		ID:          uuid.NewString(),
		Owner:       owner,
		JobID:       jobID,
		Status:      StatusPending,
		SubmittedAt: r.now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.Timeout)

	// The task cannot observe the request before r.mu is released, and a
	// refused submission leaves the previous request running.
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.pool.Submit(func(poolCtx context.Context) {
		stop := context.AfterFunc(poolCtx, cancel)
		defer stop()
		r.run(ctx, req.ID, owner, jobID)
	})
	if err != nil {
		cancel()
		return Request{}, err
	}

	s := slot{owner: owner, job: jobID}
	if prev, ok := r.current[s]; ok {
		r.supersedeLocked(prev)
	}
	r.requests[req.ID] = req
	r.current[s] = req.ID
	r.cancels[req.ID] = cancel
	return *req, nil
}

func (r *Runner) run(ctx context.Context, id, owner string, jobID uuid.UUID) {
	res, err := r.analyze(ctx, owner, jobID)

	r.mu.Lock()
	s := slot{owner: owner, job: jobID}
	if r.current[s] != id {
		// superseded while running; drop the result
		r.mu.Unlock()
		r.logger.Debug("discarding stale analysis", "request_id", id, "job_id", jobID)
		return
	}
	done := r.finishLocked(id, &res, err)
	r.mu.Unlock()

	if done != nil && r.opts.OnDone != nil {
		r.opts.OnDone(*done)
	}
}

// finishLocked records the outcome of id and returns a copy, or nil when
// id was already finished.
func (r *Runner) finishLocked(id string, res *matching.Analysis, err error) *Request {
	req, ok := r.requests[id]
	if !ok || req.Finished() {
		return nil
	}
	now := r.now().UTC()
	req.CompletedAt = &now
	switch {
	case err == nil:
		req.Status = StatusDone
		req.Analysis = res
	case errors.Is(err, matching.ErrAnalysisUnavailable):
		req.Status = StatusUnavailable
	default:
		req.Status = StatusFailed
		req.Error = err.Error()
	}
	if cancel, ok := r.cancels[id]; ok {
		cancel()
		delete(r.cancels, id)
	}
	s := slot{owner: req.Owner, job: req.JobID}
	if r.current[s] == id {
		delete(r.current, s)
	}
	out := *req
	return &out
}

func (r *Runner) supersedeLocked(id string) {
	req, ok := r.requests[id]
	if !ok || req.Finished() {
		return
	}
	now := r.now().UTC()
	req.Status = StatusSuperseded
	req.CompletedAt = &now
	if cancel, ok := r.cancels[id]; ok {
		cancel()
		delete(r.cancels, id)
	}
	delete(r.current, slot{owner: req.Owner, job: req.JobID})
}

// Cancel supersedes the pending request for (owner, job), if any.
func (r *Runner) Cancel(owner string, jobID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.current[slot{owner: normOwner(owner), job: jobID}]; ok {
		r.supersedeLocked(id)
	}
}

// CancelOwner supersedes every pending request of owner.
func (r *Runner) CancelOwner(owner string) {
	owner = normOwner(owner)
	r.mu.Lock()
	defer r.mu.Unlock()
	for s, id := range r.current {
		if s.owner == owner {
			r.supersedeLocked(id)
		}
	}
}

func (r *Runner) Get(owner string, id string) (Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Owner != normOwner(owner) {
		return Request{}, ErrRequestNotFound
	}
	return *req, nil
}

// Prune drops finished requests older than the retention window.
func (r *Runner) Prune() int {
	cutoff := r.now().UTC().Add(-r.opts.Retention)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, req := range r.requests {
		if req.Finished() && req.CompletedAt != nil && req.CompletedAt.Before(cutoff) {
			delete(r.requests, id)
			n++
		}
	}
	return n
}
