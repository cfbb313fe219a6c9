package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const logPrefix = "executor:executor"

const defaultQueueSize = 256

type ownerKey struct{}

// IsOwner reports whether ctx belongs to the owner goroutine. Handlers
// receive an owner-marked context; submitting through the facade from
// inside a handler therefore executes inline instead of enqueueing, which
// would deadlock the owner against itself.
func IsOwner(ctx context.Context) bool {
	v, _ := ctx.Value(ownerKey{}).(bool)
	return v
}

func withOwner(ctx context.Context) context.Context {
	return context.WithValue(ctx, ownerKey{}, true)
}

// item pairs a queued request with its result slot.
type item struct {
	req    Request
	future *Future
}

// Executor runs all submitted requests on one owner goroutine, in the order
// they were enqueued, one at a time. Any number of goroutines may submit
// concurrently; the backends invoked by the handler see no concurrent
// mutation.
type Executor struct {
	handler Handler
	queue   chan item
	stop    chan struct{}
	done    chan struct{}

	// mu orders enqueues against Close: every send happens strictly before
	// closed flips, so the shutdown drain observes the complete queue.
	mu     sync.RWMutex
	closed bool

	closeOnce sync.Once
	ownerCtx  context.Context
}

// Params holds parameters for New.
type Params struct {
	// Handler executes each request on the owner goroutine. Required.
	Handler Handler
	// QueueSize bounds the pending request queue. Zero means the default.
	QueueSize int
}

// New creates an executor and starts its owner goroutine.
func New(params Params) (*Executor, error) {
	if params.Handler == nil {
		return nil, ErrNilHandler
	}
	size := params.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	e := &Executor{
		handler:  params.Handler,
		queue:    make(chan item, size),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		ownerCtx: withOwner(context.Background()),
	}
	go e.loop()

	slog.Debug(fmt.Sprintf("%s - started queueSize=%d", logPrefix, size))
	return e, nil
}

// loop is the owner goroutine: pull the next request, execute it fully,
// fulfill its future, repeat. On stop it drains whatever is already queued
// so no accepted request is ever left unfulfilled.
func (e *Executor) loop() {
	defer close(e.done)
	for {
		select {
		case it := <-e.queue:
			e.run(it)
		case <-e.stop:
			for {
				select {
				case it := <-e.queue:
					e.run(it)
				default:
					return
				}
			}
		}
	}
}

func (e *Executor) run(it item) {
	value, err := e.execute(e.ownerCtx, it.req)
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - op %d failed: %v", logPrefix, it.req.Op, err))
	}
	it.future.fulfill(value, err)
}

// execute invokes the handler with panic recovery, so one bad request can
// neither kill the owner goroutine nor leave a waiter hanging.
func (e *Executor) execute(ctx context.Context, req Request) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error(fmt.Sprintf("%s - handler panic op=%d: %v", logPrefix, req.Op, r))
			err = fmt.Errorf("%s - handler panic on op %d: %v", logPrefix, req.Op, r)
		}
	}()
	return e.handler(ctx, req)
}

// Submit enqueues req and blocks until the owner goroutine has completed
// it, then returns the exact result the handler produced. When called from
// the owner goroutine itself (IsOwner(ctx)), the request executes inline.
// The context is consulted only for the owner marker; the wait itself is
// not cancellable (see Future.Wait).
func (e *Executor) Submit(ctx context.Context, req Request) (any, error) {
	if IsOwner(ctx) {
		return e.execute(ctx, req)
	}
	f, err := e.enqueue(req)
	if err != nil {
		return nil, err
	}
	return f.Wait()
}

// SubmitAsync enqueues req and returns without waiting for execution. The
// FIFO guarantee still holds relative to every other submission. Handler
// failures are logged by the owner loop; the caller gets no result. A
// re-entrant call from the owner goroutine executes inline.
func (e *Executor) SubmitAsync(ctx context.Context, req Request) error {
	if IsOwner(ctx) {
		_, err := e.execute(ctx, req)
		return err
	}
	_, err := e.enqueue(req)
	return err
}

func (e *Executor) enqueue(req Request) (*Future, error) {
	f := newFuture()
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, ErrClosed
	}
	// A full queue blocks here rather than rejecting; the owner loop keeps
	// draining, so the send always completes.
	e.queue <- item{req: req, future: f}
	e.mu.RUnlock()
	return f, nil
}

// IsClosed reports whether the executor has stopped accepting requests.
func (e *Executor) IsClosed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.closed
}

// Close stops intake, lets the owner goroutine finish the current request
// and everything already queued, and waits for it to exit.
func (e *Executor) Close() {
	e.shutdown()
	<-e.done
	slog.Debug(fmt.Sprintf("%s - closed", logPrefix))
}

// CloseWithTimeout closes like Close but waits at most timeout for the
// drain. On timeout the executor is still marked closed and the owner
// keeps draining in the background.
func (e *Executor) CloseWithTimeout(timeout time.Duration) error {
	e.shutdown()
	select {
	case <-e.done:
		return nil
	case <-time.After(timeout):
		slog.Warn(fmt.Sprintf("%s - drain still running after %s", logPrefix, timeout))
		return ErrCloseTimeout
	}
}

func (e *Executor) shutdown() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()
		close(e.stop)
	})
}
