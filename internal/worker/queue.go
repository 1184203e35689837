package worker

import (
	"sync"

	"flashsale/internal/domain/order"
	"flashsale/internal/pkg/errs"
)

// Queue is the bounded in-process handoff between the admission service
// and the fulfillment worker. Capacity is very large but finite: overflow
// is surfaced as backpressure, never a silent drop.
type Queue struct {
	mu     sync.Mutex
	ch     chan order.AdmissionTask
	closed bool
}

func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{ch: make(chan order.AdmissionTask, capacity)}
}

// TryEnqueue never blocks the request path. A full or closed queue returns
// ErrQueueSaturated, which the caller reports as a fatal operational
// condition.
func (q *Queue) TryEnqueue(task order.AdmissionTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errs.ErrQueueSaturated
	}
	select {
	case q.ch <- task:
		return nil
	default:
		return errs.ErrQueueSaturated
	}
}

func (q *Queue) Tasks() <-chan order.AdmissionTask {
	return q.ch
}

// Close stops intake. Tasks already enqueued are still drained; later
// TryEnqueue calls report ErrQueueSaturated.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

func (q *Queue) Len() int {
	return len(q.ch)
}
