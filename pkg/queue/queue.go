// Package queue provides a single-worker command queue. Commands run one at a
// time in the order they were enqueued, which gives polls, tasks and
// questions issued from different call sites a cooperative, FIFO schedule.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/entrhq/screenplay/pkg/polling"
)

// ErrClosed is returned for commands that cannot run because the queue was closed.
var ErrClosed = errors.New("command queue closed")

// defaultBacklog is the number of commands buffered before Enqueue blocks.
const defaultBacklog = 64

// runningKey marks a context as belonging to a command running on a queue.
type runningKey struct{}

var (
	_ polling.Scheduler    = (*Queue)(nil)
	_ polling.CommandQueue = (*Queue)(nil)
	_ polling.Awaitable    = (*Future)(nil)
)

type job struct {
	ctx    context.Context
	cmd    polling.Command
	wait   time.Duration
	future *Future
}

// Queue runs commands on a single worker goroutine.
type Queue struct {
	jobs    chan *job
	done    chan struct{}
	stopped chan struct{}
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// New starts a queue. A nil logger disables logging.
func New(logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &Queue{
		jobs:    make(chan *job, defaultBacklog),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  logger.With(zap.String("component", "command_queue")),
	}
	go q.loop()
	return q
}

// Enqueue schedules cmd to run after wait, once every earlier command has
// finished. A command enqueued from inside a running command runs inline, so
// nested enqueues never wait on themselves.
func (q *Queue) Enqueue(ctx context.Context, cmd polling.Command, wait time.Duration) *Future {
	f := newFuture()
	if cmd == nil {
		f.settle(nil, errors.New("command is nil"))
		return f
	}

	if q.isRunningOn(ctx) {
		f.settle(q.execute(ctx, cmd, wait))
		return f
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		f.settle(nil, ErrClosed)
		return f
	}

	select {
	case q.jobs <- &job{ctx: ctx, cmd: cmd, wait: wait, future: f}:
	case <-ctx.Done():
		f.settle(nil, ctx.Err())
	}
	return f
}

// Run enqueues cmd and waits for its result.
func (q *Queue) Run(ctx context.Context, cmd polling.Command) (any, error) {
	return q.Enqueue(ctx, cmd, 0).Await(ctx)
}

// Resolve settles Awaitable values, including Futures from this queue.
func (q *Queue) Resolve(ctx context.Context, v any) (any, error) {
	return polling.ClockScheduler{}.Resolve(ctx, v)
}

// Wait suspends the calling command for d. The worker stays with the caller,
// so no other command runs in between.
func (q *Queue) Wait(ctx context.Context, d time.Duration) error {
	return polling.ClockScheduler{}.Wait(ctx, d)
}

// Close stops accepting commands. Commands already queued fail with
// ErrClosed; a command in flight runs to completion. Close blocks until the
// worker has stopped.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.done)
	}
	q.mu.Unlock()
	<-q.stopped
}

func (q *Queue) loop() {
	defer close(q.stopped)
	for {
		select {
		case j := <-q.jobs:
			q.runJob(j)
		case <-q.done:
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	for {
		select {
		case j := <-q.jobs:
			j.future.settle(nil, ErrClosed)
		default:
			return
		}
	}
}

func (q *Queue) runJob(j *job) {
	if err := j.ctx.Err(); err != nil {
		j.future.settle(nil, err)
		return
	}
	ctx := context.WithValue(j.ctx, runningKey{}, q)
	j.future.settle(q.execute(ctx, j.cmd, j.wait))
}

// execute runs cmd after wait, turning panics into errors.
func (q *Queue) execute(ctx context.Context, cmd polling.Command, wait time.Duration) (result any, err error) {
	if wait > 0 {
		if err := q.Wait(ctx, wait); err != nil {
			return nil, err
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panicked: %v", r)
			q.logger.Error("command panicked", zap.Any("panic", r))
		}
	}()

	start := time.Now()
	result, err = cmd(ctx)
	q.logger.Debug("command finished",
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	return result, err
}

func (q *Queue) isRunningOn(ctx context.Context) bool {
	owner, _ := ctx.Value(runningKey{}).(*Queue)
	return owner == q
}

// Future is the eventual result of an enqueued command.
type Future struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) settle(v any, err error) {
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
	})
}

// Done is closed once the command has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the command has finished or ctx ends.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
