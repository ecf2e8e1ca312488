package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  int
	done  chan struct{}
}

func (r *recorder) handle(ctx context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, jobID)
	if r.fail > 0 {
		r.fail--
		return errors.New("transient")
	}
	select {
	case r.done <- struct{}{}:
	default:
	}
	return nil
}

func (r *recorder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestQueueProcessesJob(t *testing.T) {
	rec := &recorder{done: make(chan struct{}, 1)}
	q := New("test", rec.handle, Config{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("job-1"))

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("job never processed")
	}
	assert.Equal(t, []string{"job-1"}, rec.calls)
}

func TestQueueRetriesUntilSuccess(t *testing.T) {
	rec := &recorder{fail: 2, done: make(chan struct{}, 1)}
	q := New("test", rec.handle, Config{Workers: 1, MaxAttempts: 3, Backoff: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("job-1"))

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("job never succeeded")
	}
	assert.Equal(t, 3, rec.callCount())
}

func TestQueueGivesUpAfterMaxAttempts(t *testing.T) {
	rec := &recorder{fail: 10, done: make(chan struct{}, 1)}
	q := New("test", rec.handle, Config{Workers: 1, MaxAttempts: 2, Backoff: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue("job-1"))

	assert.Eventually(t, func() bool { return rec.callCount() == 2 }, time.Second, 5*time.Millisecond)
	// Give a would-be third attempt time to fire.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, rec.callCount())
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := New("test", func(ctx context.Context, jobID string) error { return nil }, Config{})
	require.Error(t, q.Enqueue("job-1"))
}

func TestQueueStopIsIdempotent(t *testing.T) {
	q := New("test", func(ctx context.Context, jobID string) error { return nil }, Config{})
	q.Start(context.Background())
	q.Stop()
	q.Stop()
}
