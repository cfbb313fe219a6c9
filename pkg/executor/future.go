package executor

import "sync"

// Future is the single-use result slot of one submitted request. It is
// fulfilled exactly once by the owner goroutine, with either a value or an
// error; duplicate fulfillments are ignored. A closed channel signals
// readiness, so a zero or false value is never confused with "not yet
// computed".
type Future struct {
	ch    chan struct{}
	once  sync.Once
	mu    sync.Mutex
	value any
	err   error
}

func newFuture() *Future {
	return &Future{ch: make(chan struct{})}
}

// fulfill completes the future exactly once and wakes every waiter on this
// specific future.
func (f *Future) fulfill(value any, err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.value = value
		f.err = err
		f.mu.Unlock()
		close(f.ch)
	})
}

// Done returns a channel closed when the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.ch
}

// Wait blocks until the future is fulfilled and returns its value or error.
// The wait is deliberately not interruptible: every accepted request is
// always completed (the owner drains its queue even during shutdown), so a
// waiter re-woken for any reason keeps waiting until the result is present
// rather than abandoning an in-flight request.
func (f *Future) Wait() (any, error) {
	<-f.ch
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Result returns the value, the error, and whether the future is fulfilled,
// without blocking.
func (f *Future) Result() (any, error, bool) {
	select {
	case <-f.ch:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err, true
	default:
		return nil, nil, false
	}
}
