package notify

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

var ErrQueueFull = errors.New("notification queue is full")

// LocalQueue is an in-process queue used when no broker is configured. Jobs
// still leave the request goroutine; they are lost if the process exits
// before Run drains them.
type LocalQueue struct {
	jobs   chan Job
	logger *logrus.Logger
}

func NewLocalQueue(logger *logrus.Logger, size int) *LocalQueue {
	if size <= 0 {
		size = 64
	}
	return &LocalQueue{jobs: make(chan Job, size), logger: logger}
}

// Publish never blocks the caller.
func (q *LocalQueue) Publish(ctx context.Context, job Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Run feeds jobs to d until ctx is cancelled.
func (q *LocalQueue) Run(ctx context.Context, d *Dispatcher) {
	for {
		select {
		case <-ctx.Done():
			if n := len(q.jobs); n > 0 {
				q.logger.WithField("pending", n).Warn("notification queue stopped with pending jobs")
			}
			return
		case job := <-q.jobs:
			// outcome is recorded by the dispatcher
			_ = d.Deliver(context.WithoutCancel(ctx), job)
		}
	}
}

// InlineQueue delivers each job in the publishing goroutine. One-shot
// commands use it when no broker is configured.
type InlineQueue struct {
	d *Dispatcher
}

func NewInlineQueue(d *Dispatcher) *InlineQueue {
	return &InlineQueue{d: d}
}

func (q *InlineQueue) Publish(ctx context.Context, job Job) error {
	return q.d.Deliver(ctx, job)
}
