package executor

import (
	"errors"
	"testing"
	"time"
)

const futureTestPrefix = "executor:future_test"

func TestFuture_WaitReturnsValue(t *testing.T) {
	f := newFuture()
	go f.fulfill("done", nil)

	got, err := f.Wait()
	if err != nil {
		t.Fatalf("%s - Wait error: %v", futureTestPrefix, err)
	}
	if got != "done" {
		t.Errorf("%s - Wait = %v, want done", futureTestPrefix, got)
	}
}

func TestFuture_WaitReturnsError(t *testing.T) {
	f := newFuture()
	failed := errors.New("backend failed")
	go f.fulfill(nil, failed)

	_, err := f.Wait()
	if !errors.Is(err, failed) {
		t.Errorf("%s - Wait error = %v, want backend error", futureTestPrefix, err)
	}
}

func TestFuture_ZeroValueIsNotUnset(t *testing.T) {
	// A fulfilled zero/false result must be observable as a real result.
	f := newFuture()
	f.fulfill(int32(0), nil)

	got, err, ok := f.Result()
	if !ok {
		t.Fatalf("%s - Result ok = false after fulfill", futureTestPrefix)
	}
	if err != nil || got != int32(0) {
		t.Errorf("%s - Result = (%v, %v), want (0, nil)", futureTestPrefix, got, err)
	}
}

func TestFuture_FulfillOnce(t *testing.T) {
	f := newFuture()
	f.fulfill("first", nil)
	f.fulfill("second", errors.New("late"))

	got, err := f.Wait()
	if err != nil || got != "first" {
		t.Errorf("%s - Wait = (%v, %v), want first fulfillment to win", futureTestPrefix, got, err)
	}
}

func TestFuture_ResultBeforeFulfill(t *testing.T) {
	f := newFuture()
	if _, _, ok := f.Result(); ok {
		t.Errorf("%s - Result ok = true before fulfill", futureTestPrefix)
	}
	select {
	case <-f.Done():
		t.Errorf("%s - Done closed before fulfill", futureTestPrefix)
	default:
	}

	f.fulfill(true, nil)

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatalf("%s - Done not closed after fulfill", futureTestPrefix)
	}
}
