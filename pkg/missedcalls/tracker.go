// Package missedcalls tracks calls that ended while still ringing,
// without being answered or rejected. The tracker backs the missed-call
// indicator: it grows as rings go unanswered and empties when the user
// dismisses the notification.
package missedcalls

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/XBIZART/telecom-service/pkg/calls"
	"github.com/XBIZART/telecom-service/pkg/events"
)

const logPrefix = "missedcalls:tracker"

// Store persists missed-call records. A nil store keeps the tracker
// memory only. pkg/db.Repository satisfies this interface.
type Store interface {
	InsertMissedCall(ctx context.Context, rec Record) error
	DeleteMissedCalls(ctx context.Context) (int, error)
	ListMissedCalls(ctx context.Context) ([]Record, error)
}

// Record is one missed call.
type Record struct {
	ID        string    `json:"id"`
	CallID    string    `json:"callId"`
	Address   string    `json:"address,omitempty"`
	Component string    `json:"component,omitempty"`
	At        time.Time `json:"at"`
}

// Tracker keeps the missed calls accumulated since the last clear. Safe
// for concurrent use.
type Tracker struct {
	mu        sync.RWMutex
	records   []Record
	store     Store
	publisher events.EventPublisher
}

// NewTrackerParams holds parameters for NewTracker.
type NewTrackerParams struct {
	// Store is the optional persistence backend.
	Store Store
	// Publisher receives call.missed and missed.cleared events. Nil means
	// no events.
	Publisher events.EventPublisher
}

// NewTracker creates an empty tracker.
func NewTracker(params NewTrackerParams) *Tracker {
	pub := params.Publisher
	if pub == nil {
		pub = &events.NoOpPublisher{}
	}
	return &Tracker{store: params.Store, publisher: pub}
}

// Hydrate loads persisted missed calls into memory. Called once at
// startup.
func (t *Tracker) Hydrate(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	recs, err := t.store.ListMissedCalls(ctx)
	if err != nil {
		return fmt.Errorf("%s - hydrate: %w", logPrefix, err)
	}

	t.mu.Lock()
	t.records = append(t.records, recs...)
	t.mu.Unlock()
	slog.Info(fmt.Sprintf("%s - hydrated %d missed calls", logPrefix, len(recs)))
	return nil
}

// RecordMissed notes that call ended while still ringing. Satisfies
// calls.MissedCallSink; invoked from the owner goroutine, so persistence
// and event failures are logged rather than surfaced.
func (t *Tracker) RecordMissed(call calls.Call) {
	rec := Record{
		ID:        uuid.NewString(),
		CallID:    call.ID,
		Address:   call.Address,
		Component: call.Handle.ComponentName,
		At:        time.Now().UTC(),
	}

	ctx := context.Background()
	if t.store != nil {
		if err := t.store.InsertMissedCall(ctx, rec); err != nil {
			slog.Error(fmt.Sprintf("%s - persist missed call %s failed: %v", logPrefix, rec.CallID, err))
		}
	}

	t.mu.Lock()
	t.records = append(t.records, rec)
	count := len(t.records)
	t.mu.Unlock()
	slog.Info(fmt.Sprintf("%s - missed call %s, %d pending", logPrefix, rec.CallID, count))

	event := events.NewEvent(events.TypeCallMissed)
	event.CallID = rec.CallID
	event.Component = rec.Component
	event.Count = count
	if err := t.publisher.Publish(ctx, event); err != nil {
		slog.Error(fmt.Sprintf("%s - publish %s failed: %v", logPrefix, event.Type, err))
	}
}

// Clear forgets every tracked missed call and returns how many there
// were.
func (t *Tracker) Clear(ctx context.Context) (int, error) {
	if t.store != nil {
		if _, err := t.store.DeleteMissedCalls(ctx); err != nil {
			return 0, fmt.Errorf("%s - clear: %w", logPrefix, err)
		}
	}

	t.mu.Lock()
	cleared := len(t.records)
	t.records = nil
	t.mu.Unlock()

	if cleared == 0 {
		return 0, nil
	}
	slog.Info(fmt.Sprintf("%s - cleared %d missed calls", logPrefix, cleared))

	event := events.NewEvent(events.TypeMissedCleared)
	event.Count = cleared
	if err := t.publisher.Publish(ctx, event); err != nil {
		slog.Error(fmt.Sprintf("%s - publish %s failed: %v", logPrefix, event.Type, err))
	}
	return cleared, nil
}

// Count returns the number of missed calls since the last clear.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// List returns a snapshot of the tracked missed calls, oldest first.
func (t *Tracker) List() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}
