// Package executor serializes backend-mutating work onto a single owner
// goroutine. Callers submit tagged requests from any goroutine; the owner
// drains them in FIFO order and completes each one before starting the next.
package executor

import "context"

// Op identifies which backend action a request invokes.
type Op uint32

// Request is a single unit of work for the owner goroutine.
// Arg carries the integer argument for ops that take one; Data carries a
// typed payload for ops whose arguments do not fit in an integer. A request
// is built by the submitter, executed once by the owner, then discarded.
type Request struct {
	Op   Op
	Arg  int32
	Data any
}

// Handler executes one request on the owner goroutine and returns the
// result value or an error. The context passed to the handler is owner
// marked, so re-entrant submissions from inside a handler run inline.
type Handler func(ctx context.Context, req Request) (any, error)
