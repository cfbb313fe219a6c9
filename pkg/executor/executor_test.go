package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const executorTestPrefix = "executor:executor_test"

func TestNew_NilHandler(t *testing.T) {
	_, err := New(Params{Handler: nil})
	if !errors.Is(err, ErrNilHandler) {
		t.Fatalf("%s - New with nil handler = %v, want ErrNilHandler", executorTestPrefix, err)
	}
}

func TestSubmit_ReturnsExactHandlerValue(t *testing.T) {
	e, err := New(Params{Handler: func(_ context.Context, req Request) (any, error) {
		switch req.Op {
		case 1:
			return fmt.Sprintf("op-%d-arg-%d", req.Op, req.Arg), nil
		case 2:
			return req.Arg * 2, nil
		case 3:
			// Zero result with nil error must come back as-is, not as an
			// unset sentinel.
			return int32(0), nil
		case 4:
			return false, nil
		}
		return nil, nil
	}})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}
	defer e.Close()

	ctx := context.Background()

	cases := []struct {
		name string
		req  Request
		want any
	}{
		{"string result", Request{Op: 1, Arg: 7}, "op-1-arg-7"},
		{"int result", Request{Op: 2, Arg: 21}, int32(42)},
		{"zero int result", Request{Op: 3}, int32(0)},
		{"false result", Request{Op: 4}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Submit(ctx, tc.req)
			if err != nil {
				t.Fatalf("%s - Submit(%v) error: %v", executorTestPrefix, tc.req, err)
			}
			if got != tc.want {
				t.Errorf("%s - Submit(%v) = %v, want %v", executorTestPrefix, tc.req, got, tc.want)
			}
		})
	}
}

func TestSubmit_PropagatesHandlerError(t *testing.T) {
	backendErr := errors.New("backend unavailable")
	e, err := New(Params{Handler: func(_ context.Context, _ Request) (any, error) {
		return nil, backendErr
	}})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}
	defer e.Close()

	_, err = e.Submit(context.Background(), Request{Op: 9})
	if !errors.Is(err, backendErr) {
		t.Errorf("%s - Submit error = %v, want wrapped backend error", executorTestPrefix, err)
	}
}

func TestSubmit_PanicRecovered(t *testing.T) {
	e, err := New(Params{Handler: func(_ context.Context, req Request) (any, error) {
		if req.Op == 1 {
			panic("boom")
		}
		return "ok", nil
	}})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}
	defer e.Close()

	ctx := context.Background()

	_, err = e.Submit(ctx, Request{Op: 1})
	if err == nil || !strings.Contains(err.Error(), "panic") {
		t.Fatalf("%s - Submit after panic = %v, want panic error", executorTestPrefix, err)
	}

	// Owner goroutine must survive the panic and serve the next request.
	got, err := e.Submit(ctx, Request{Op: 2})
	if err != nil || got != "ok" {
		t.Errorf("%s - Submit after recovery = (%v, %v), want (ok, nil)", executorTestPrefix, got, err)
	}
}

func TestSubmitAsync_FIFOAcrossGoroutines(t *testing.T) {
	var executed []int32
	e, err := New(Params{Handler: func(_ context.Context, req Request) (any, error) {
		executed = append(executed, req.Arg)
		return nil, nil
	}})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}

	const total = 100
	var (
		seq     int32
		seqMu   sync.Mutex
		wg      sync.WaitGroup
		callers = 3
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				seqMu.Lock()
				if seq >= total {
					seqMu.Unlock()
					return
				}
				seq++
				n := seq
				// Enqueue under the same lock that assigned the sequence
				// number, so enqueue order equals numeric order.
				if err := e.SubmitAsync(context.Background(), Request{Op: 1, Arg: n}); err != nil {
					t.Errorf("%s - SubmitAsync(%d) failed: %v", executorTestPrefix, n, err)
				}
				seqMu.Unlock()
			}
		}()
	}
	wg.Wait()
	e.Close()

	if len(executed) != total {
		t.Fatalf("%s - executed %d requests, want %d", executorTestPrefix, len(executed), total)
	}
	for i, got := range executed {
		if got != int32(i+1) {
			t.Fatalf("%s - executed[%d] = %d, want %d (FIFO violated)", executorTestPrefix, i, got, i+1)
		}
	}
}

func TestAtMostOneExecuting(t *testing.T) {
	var (
		inFlight   atomic.Int32
		violations atomic.Int32
		count      atomic.Int32
	)
	e, err := New(Params{Handler: func(_ context.Context, _ Request) (any, error) {
		if inFlight.Add(1) > 1 {
			violations.Add(1)
		}
		time.Sleep(100 * time.Microsecond)
		inFlight.Add(-1)
		count.Add(1)
		return nil, nil
	}})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Submit(context.Background(), Request{Op: 1}); err != nil {
				t.Errorf("%s - Submit failed: %v", executorTestPrefix, err)
			}
		}()
	}
	wg.Wait()
	e.Close()

	if n := violations.Load(); n != 0 {
		t.Errorf("%s - %d overlapping executions observed, want 0", executorTestPrefix, n)
	}
	if n := count.Load(); n != 50 {
		t.Errorf("%s - executed %d requests, want 50", executorTestPrefix, n)
	}
}

func TestReentrantSubmit_ExecutesInline(t *testing.T) {
	var (
		order []string
		e     *Executor
	)
	handler := func(ctx context.Context, req Request) (any, error) {
		switch req.Op {
		case 1:
			order = append(order, "queued")
			return nil, nil
		case 2:
			order = append(order, "outer-start")
			if !IsOwner(ctx) {
				t.Errorf("%s - handler context not owner marked", executorTestPrefix)
			}
			// Re-entrant synchronous submission must run inline, not
			// deadlock waiting on the owner goroutine.
			inner, err := e.Submit(ctx, Request{Op: 3})
			if err != nil {
				return nil, err
			}
			order = append(order, "outer-end")
			return inner, nil
		case 3:
			order = append(order, "inner")
			return "inner-result", nil
		}
		return nil, nil
	}

	var err error
	e, err = New(Params{Handler: handler})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}

	ctx := context.Background()
	if err := e.SubmitAsync(ctx, Request{Op: 1}); err != nil {
		t.Fatalf("%s - SubmitAsync failed: %v", executorTestPrefix, err)
	}
	got, err := e.Submit(ctx, Request{Op: 2})
	if err != nil {
		t.Fatalf("%s - Submit failed: %v", executorTestPrefix, err)
	}
	if got != "inner-result" {
		t.Errorf("%s - re-entrant result = %v, want inner-result", executorTestPrefix, got)
	}
	e.Close()

	want := []string{"queued", "outer-start", "inner", "outer-end"}
	if len(order) != len(want) {
		t.Fatalf("%s - order = %v, want %v", executorTestPrefix, order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("%s - order[%d] = %q, want %q", executorTestPrefix, i, order[i], want[i])
		}
	}
}

func TestReentrantSubmitAsync_ExecutesInline(t *testing.T) {
	var (
		order []string
		e     *Executor
	)
	handler := func(ctx context.Context, req Request) (any, error) {
		switch req.Op {
		case 1:
			order = append(order, "outer-start")
			if err := e.SubmitAsync(ctx, Request{Op: 2}); err != nil {
				return nil, err
			}
			order = append(order, "outer-end")
		case 2:
			order = append(order, "inner")
		}
		return nil, nil
	}

	var err error
	e, err = New(Params{Handler: handler})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}

	if _, err := e.Submit(context.Background(), Request{Op: 1}); err != nil {
		t.Fatalf("%s - Submit failed: %v", executorTestPrefix, err)
	}
	e.Close()

	want := []string{"outer-start", "inner", "outer-end"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("%s - order = %v, want %v", executorTestPrefix, order, want)
		}
	}
}

func TestSubmitAfterClose(t *testing.T) {
	e, err := New(Params{Handler: func(_ context.Context, _ Request) (any, error) {
		return nil, nil
	}})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}
	e.Close()

	if !e.IsClosed() {
		t.Errorf("%s - IsClosed = false after Close", executorTestPrefix)
	}
	if _, err := e.Submit(context.Background(), Request{Op: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("%s - Submit after close = %v, want ErrClosed", executorTestPrefix, err)
	}
	if err := e.SubmitAsync(context.Background(), Request{Op: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("%s - SubmitAsync after close = %v, want ErrClosed", executorTestPrefix, err)
	}
}

func TestClose_DrainsQueuedRequests(t *testing.T) {
	var count atomic.Int32
	e, err := New(Params{Handler: func(_ context.Context, _ Request) (any, error) {
		time.Sleep(time.Millisecond)
		count.Add(1)
		return nil, nil
	}, QueueSize: 64})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}

	const queued = 20
	for i := 0; i < queued; i++ {
		if err := e.SubmitAsync(context.Background(), Request{Op: 1}); err != nil {
			t.Fatalf("%s - SubmitAsync failed: %v", executorTestPrefix, err)
		}
	}
	e.Close()

	if n := count.Load(); n != queued {
		t.Errorf("%s - %d requests executed after Close, want %d (drain incomplete)", executorTestPrefix, n, queued)
	}
}

func TestCloseWithTimeout_Expires(t *testing.T) {
	e, err := New(Params{Handler: func(_ context.Context, _ Request) (any, error) {
		time.Sleep(200 * time.Millisecond)
		return nil, nil
	}})
	if err != nil {
		t.Fatalf("%s - New failed: %v", executorTestPrefix, err)
	}

	if err := e.SubmitAsync(context.Background(), Request{Op: 1}); err != nil {
		t.Fatalf("%s - SubmitAsync failed: %v", executorTestPrefix, err)
	}

	if err := e.CloseWithTimeout(10 * time.Millisecond); !errors.Is(err, ErrCloseTimeout) {
		t.Errorf("%s - CloseWithTimeout = %v, want ErrCloseTimeout", executorTestPrefix, err)
	}
	// Let the background drain finish before the test exits.
	e.Close()
}
