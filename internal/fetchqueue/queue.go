// Package fetchqueue bounds concurrent outbound fetch work and coalesces
// duplicate submissions. At most one execution runs per distinct id; later
// submissions for the same id attach to the in-flight execution and receive
// its outcome.
package fetchqueue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aurinko-app/daycal/internal/errors"
	"github.com/aurinko-app/daycal/internal/logging"
	"github.com/aurinko-app/daycal/internal/observability/metrics"
)

// Common errors returned by queue operations
var (
	ErrQueueStopped = errors.NewStd("fetch queue has been stopped")
	ErrNilWork      = errors.NewStd("cannot enqueue nil work")
)

// WorkFunc produces a result. The context is canceled when the queue stops.
type WorkFunc func(ctx context.Context) (any, error)

// Outcome is the result of one work execution, delivered to every waiter
// that enqueued the same id.
type Outcome struct {
	Value any
	Err   error
}

// call tracks one in-flight execution and its completion signal.
type call struct {
	outcome Outcome
	done    chan struct{}
}

// Queue limits concurrent work and deduplicates in-flight work by id.
type Queue struct {
	mu       sync.Mutex
	inflight map[string]*call
	running  int
	queued   int
	stopped  bool

	sem     chan struct{}
	wg      sync.WaitGroup
	baseCtx context.Context
	cancel  context.CancelFunc

	logger  *slog.Logger
	metrics *metrics.FetchQueueMetrics
}

// New creates a queue executing at most maxConcurrent work items at once.
// The metrics collector may be nil.
func New(maxConcurrent int, m *metrics.FetchQueueMetrics) *Queue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		inflight: make(map[string]*call),
		sem:      make(chan struct{}, maxConcurrent),
		baseCtx:  ctx,
		cancel:   cancel,
		logger:   logging.ForService("fetchqueue"),
		metrics:  m,
	}
}

// Enqueue submits work under the given id and returns a channel that will
// receive exactly one Outcome. If the id is already in flight, the work is
// not run again; the caller attaches to the existing execution. The result
// channel is buffered, so a caller that abandons interest leaks nothing.
func (q *Queue) Enqueue(id string, work WorkFunc) <-chan Outcome {
	result := make(chan Outcome, 1)

	if work == nil {
		result <- Outcome{Err: ErrNilWork}
		return result
	}

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		result <- Outcome{Err: ErrQueueStopped}
		return result
	}

	if q.metrics != nil {
		q.metrics.IncrementSubmitted()
	}

	if existing, ok := q.inflight[id]; ok {
		q.mu.Unlock()
		if q.metrics != nil {
			q.metrics.IncrementCoalesced()
		}
		q.logger.Debug("Attached to in-flight work", "id", id)
		go func() {
			<-existing.done
			result <- existing.outcome
		}()
		return result
	}

	c := &call{done: make(chan struct{})}
	q.inflight[id] = c
	q.queued++
	q.updateGauges()
	q.wg.Add(1)
	q.mu.Unlock()

	go q.execute(id, c, work, result)
	return result
}

// execute runs a single work item once a worker slot is free and fans the
// outcome out to all attached waiters.
func (q *Queue) execute(id string, c *call, work WorkFunc, result chan<- Outcome) {
	defer q.wg.Done()

	select {
	case q.sem <- struct{}{}:
	case <-q.baseCtx.Done():
		q.finish(id, c, Outcome{Err: ErrQueueStopped})
		result <- c.outcome
		return
	}
	defer func() { <-q.sem }()

	q.mu.Lock()
	q.queued--
	q.running++
	q.updateGauges()
	q.mu.Unlock()

	start := time.Now()
	value, err := work(q.baseCtx)
	q.logger.Debug("Work complete", "id", id, "duration", time.Since(start), "error", err)

	if q.metrics != nil {
		q.metrics.IncrementExecuted()
	}

	q.mu.Lock()
	q.running--
	q.updateGauges()
	q.mu.Unlock()

	q.finish(id, c, Outcome{Value: value, Err: err})
	result <- c.outcome
}

// finish records the outcome, releases the id and wakes all waiters.
func (q *Queue) finish(id string, c *call, outcome Outcome) {
	q.mu.Lock()
	c.outcome = outcome
	delete(q.inflight, id)
	q.mu.Unlock()
	close(c.done)
}

// updateGauges pushes counts to the metrics collector. Caller holds q.mu.
func (q *Queue) updateGauges() {
	if q.metrics == nil {
		return
	}
	q.metrics.SetInFlight(float64(q.running))
	q.metrics.SetQueued(float64(q.queued))
}

// Status returns a diagnostic string with in-flight and queued counts.
func (q *Queue) Status() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return fmt.Sprintf("in-flight: %d, queued: %d", q.running, q.queued)
}

// Stop rejects new work, cancels the work context and waits up to timeout
// for running work to drain.
func (q *Queue) Stop(timeout time.Duration) error {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return nil
	}
	q.stopped = true
	q.mu.Unlock()

	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.Newf("timed out waiting for work to complete after %v", timeout).
			Component("fetchqueue").
			Category(errors.CategoryTimeout).
			Build()
	}
}
