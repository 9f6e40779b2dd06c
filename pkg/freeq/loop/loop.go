// Package loop runs a cooperative drain loop around an ephemeral free queue.
// Tasks execute one at a time on the loop goroutine; after every task, before
// blocking for the next one, the queue is fully drained. This is the fixed
// per-iteration flush point that ephemeral queues are designed for.
package loop

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-freeq/pkg/freeq"
)

// Drainer is what a cooperative loop requires of a queue: a forced full
// flush, incremental pressure relief, and a pending probe.
type Drainer interface {
	Clear()
	Reduce(n int)
	Pending() bool
}

var _ Drainer = freeq.Queue(nil)

// Task runs on the loop goroutine with the loop's own ephemeral queue.
// Anything a task pushes to the queue is released when the task returns.
type Task func(q freeq.Queue)

// Config configures a Loop.
type Config struct {
	// TaskBuffer is the capacity of the task channel. Defaults to 64.
	TaskBuffer int

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Loop owns an ephemeral free queue. The queue is created on the loop
// goroutine and never leaves it, honoring the single-owner contract.
type Loop struct {
	tasks     chan Task
	log       *zap.Logger
	closeOnce sync.Once
}

// New creates a loop; Run must be called to start it.
func New(cfg Config) *Loop {
	if cfg.TaskBuffer <= 0 {
		cfg.TaskBuffer = 64
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Loop{
		tasks: make(chan Task, cfg.TaskBuffer),
		log:   cfg.Logger,
	}
}

// Run processes tasks until ctx is cancelled or Close is called. The queue
// is drained after every task and once more before Run returns, so no item
// pushed by a completed task is ever discarded. Returns ctx.Err() on
// cancellation, nil after Close.
func (l *Loop) Run(ctx context.Context) error {
	q := freeq.New(freeq.FlavorEphemeral)
	defer q.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task, ok := <-l.tasks:
			if !ok {
				return nil
			}
			task(q)
			if q.Pending() {
				l.log.Debug("draining loop free queue", zap.Int("items", q.Len()))
			}
			q.Clear()
		}
	}
}

// Do posts a task to the loop, blocking while the buffer is full. It must
// not be called after Close.
func (l *Loop) Do(task Task) {
	l.tasks <- task
}

// Close stops the loop once posted tasks have been processed. Idempotent.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.tasks) })
}
