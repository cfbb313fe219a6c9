package executor

import "errors"

var (
	// ErrClosed is returned by Submit and SubmitAsync after Close.
	ErrClosed = errors.New("executor closed")
	// ErrNilHandler is returned by New when no handler is provided.
	ErrNilHandler = errors.New("nil handler")
	// ErrCloseTimeout is returned by CloseWithTimeout when the drain does
	// not finish in time.
	ErrCloseTimeout = errors.New("close timeout waiting for drain")
)
