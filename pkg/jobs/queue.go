package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler processes one job. Jobs carry only an opaque ID; the handler
// loads its own state by that ID, which keeps retries idempotent.
type Handler func(ctx context.Context, jobID string) error

// Config tunes the worker pool.
type Config struct {
	Workers     int
	Buffer      int
	MaxAttempts int
	Backoff     time.Duration
	Logger      *zap.Logger
}

type task struct {
	id      string
	attempt int
}

// Queue is an in-memory work queue with a fixed worker pool and linear
// retry backoff. Pending jobs are lost on process exit; callers persist
// job state themselves and can re-enqueue on boot.
type Queue struct {
	name   string
	handle Handler

	workers     int
	maxAttempts int
	backoff     time.Duration
	logger      *zap.Logger

	tasks   chan task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// New builds a queue. Zero config fields get working defaults.
func New(name string, handle Handler, cfg Config) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = cfg.Workers * 4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		name:        name,
		handle:      handle,
		workers:     cfg.Workers,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		logger:      cfg.Logger,
		tasks:       make(chan task, cfg.Buffer),
	}
}

// Start launches the worker pool. Calling Start twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	q.started = true
	q.logger.Sugar().Infow("queue started", "queue", q.name, "workers", q.workers)
}

// Stop cancels the workers and waits for in-flight handlers to return.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Sugar().Infow("queue stopped", "queue", q.name)
}

// Enqueue schedules a job by ID. It blocks while the buffer is full and
// fails once the queue is stopped.
func (q *Queue) Enqueue(jobID string) error {
	q.mu.Lock()
	ctx := q.ctx
	started := q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	return q.push(ctx, task{id: jobID, attempt: 1})
}

func (q *Queue) push(ctx context.Context, t task) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.tasks <- t:
		return nil
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case t := <-q.tasks:
			if err := q.handle(q.ctx, t.id); err != nil {
				q.retry(t, err)
			}
		}
	}
}

func (q *Queue) retry(t task, cause error) {
	if t.attempt >= q.maxAttempts {
		q.logger.Sugar().Errorw("job exhausted attempts",
			"queue", q.name, "job_id", t.id, "attempts", t.attempt, "error", cause)
		return
	}
	delay := q.backoff * time.Duration(t.attempt)
	t.attempt++
	q.logger.Sugar().Warnw("job failed, retrying",
		"queue", q.name, "job_id", t.id, "attempt", t.attempt, "error", cause)

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			if err := q.push(q.ctx, t); err != nil {
				q.logger.Sugar().Errorw("failed to requeue job", "queue", q.name, "job_id", t.id, "error", err)
			}
		}
	}()
}
