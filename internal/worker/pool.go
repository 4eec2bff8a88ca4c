package worker

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"
)

var (
	ErrQueueFull  = errors.New("worker queue full")
	ErrPoolClosed = errors.New("worker pool closed")
)

type Task func(ctx context.Context)

// Pool runs submitted tasks on a fixed number of goroutines. Submit never
// blocks; when the queue is full the task is refused.
type Pool struct {
	workers int
	tasks   chan Task
	limiter *rate.Limiter

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewPool(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}
	return &Pool{workers: workers, tasks: make(chan Task, queue)}
}

// SetRateLimit caps task starts per second across all workers. rps <= 0
// removes the cap. Call before Start.
func (p *Pool) SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		p.limiter = nil
		return
	}
	if burst <= 0 {
		burst = 1
	}
	p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// Start launches the workers. They exit when ctx is done or after Close
// once the queue drains.
func (p *Pool) Start(ctx context.Context) {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					if p.limiter != nil {
						if err := p.limiter.Wait(ctx); err != nil {
							return
						}
					}
					t(ctx)
				}
			}
		}()
	}
}

func (p *Pool) Submit(t Task) error {
	if t == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}
