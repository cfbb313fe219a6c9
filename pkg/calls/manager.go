package calls

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/XBIZART/telecom-service/pkg/accounts"
)

const logPrefix = "calls:manager"

// MissedCallSink receives calls that ended while still ringing, without
// being answered or rejected. pkg/missedcalls.Tracker satisfies this.
type MissedCallSink interface {
	RecordMissed(call Call)
}

// mmiPattern matches dial strings that are MMI codes rather than numbers
// to dial, e.g. "*#06#" or "**04*1234*0000*0000#".
var mmiPattern = regexp.MustCompile(`^[*#]{1,2}[0-9]{2,3}(\*[^*#]*)*#$`)

// Manager is the call registry. Mutating methods must only run on the
// request bridge's owner goroutine; they are not internally synchronized.
// AggregateState, HasRingingCall and HasOngoingCall read an atomic and may
// be called from any goroutine.
type Manager struct {
	calls     []*Call
	aggregate atomic.Int32

	ttySupported bool
	ttyMode      TTYMode

	ui         func(showDialpad bool)
	missedSink MissedCallSink
}

// NewManagerParams holds parameters for NewManager.
type NewManagerParams struct {
	TTYSupported bool
	TTYMode      TTYMode
	// UI is invoked when the in-call screen should come to the foreground.
	// Optional.
	UI func(showDialpad bool)
	// MissedSink receives unanswered incoming calls. Optional.
	MissedSink MissedCallSink
}

// NewManager creates an empty call registry.
func NewManager(params NewManagerParams) *Manager {
	return &Manager{
		ttySupported: params.TTYSupported,
		ttyMode:      params.TTYMode,
		ui:           params.UI,
		missedSink:   params.MissedSink,
	}
}

// AddIncoming registers a new ringing call owned by the given account
// handle and returns it.
func (m *Manager) AddIncoming(handle accounts.Handle, address string, extras map[string]any) (Call, error) {
	if handle.IsZero() {
		return Call{}, fmt.Errorf("%s - incoming call requires an account handle", logPrefix)
	}
	c := &Call{
		ID:      uuid.NewString(),
		Handle:  handle,
		Address: address,
		State:   StateRinging,
		Origin:  OriginIncoming,
		Created: time.Now().UTC(),
		Extras:  extras,
	}
	m.calls = append(m.calls, c)
	m.recomputeAggregate()
	slog.Info(fmt.Sprintf("%s - incoming call %s via %s", logPrefix, c.ID, handle))
	return *c, nil
}

// AddUnknown registers a call discovered in an already connected state,
// e.g. reported by a connection service after the fact.
func (m *Manager) AddUnknown(handle accounts.Handle, address string, extras map[string]any) (Call, error) {
	if handle.IsZero() {
		return Call{}, fmt.Errorf("%s - unknown call requires an account handle", logPrefix)
	}
	c := &Call{
		ID:      uuid.NewString(),
		Handle:  handle,
		Address: address,
		State:   StateActive,
		Origin:  OriginUnknown,
		Created: time.Now().UTC(),
		Extras:  extras,
	}
	m.calls = append(m.calls, c)
	m.recomputeAggregate()
	slog.Info(fmt.Sprintf("%s - unknown call %s via %s", logPrefix, c.ID, handle))
	return *c, nil
}

// Answer transitions a ringing call to active.
func (m *Manager) Answer(id string) error {
	c := m.find(id)
	if c == nil {
		return fmt.Errorf("%s - no call %s", logPrefix, id)
	}
	if c.State != StateRinging {
		return fmt.Errorf("%s - call %s is %s, not ringing", logPrefix, id, c.State)
	}
	c.State = StateActive
	c.RingerSilenced = false
	m.recomputeAggregate()
	slog.Info(fmt.Sprintf("%s - answered call %s", logPrefix, id))
	return nil
}

// Reject ends a ringing call by caller choice. A rejected call is not a
// missed call.
func (m *Manager) Reject(id string) error {
	c := m.find(id)
	if c == nil {
		return fmt.Errorf("%s - no call %s", logPrefix, id)
	}
	if c.State != StateRinging {
		return fmt.Errorf("%s - call %s is %s, not ringing", logPrefix, id, c.State)
	}
	c.State = StateDisconnected
	m.remove(id)
	m.recomputeAggregate()
	slog.Info(fmt.Sprintf("%s - rejected call %s", logPrefix, id))
	return nil
}

// Disconnect ends a call in any live state. A call disconnected while
// still ringing is reported to the missed-call sink.
func (m *Manager) Disconnect(id string) error {
	c := m.find(id)
	if c == nil {
		return fmt.Errorf("%s - no call %s", logPrefix, id)
	}
	wasRinging := c.State == StateRinging
	c.State = StateDisconnected
	m.remove(id)
	m.recomputeAggregate()
	slog.Info(fmt.Sprintf("%s - disconnected call %s", logPrefix, id))
	if wasRinging && m.missedSink != nil {
		m.missedSink.RecordMissed(*c)
	}
	return nil
}

// SetState force-sets a call's state. Used by connection-service plumbing
// and tests; Disconnected removes the call without missed-call tracking.
func (m *Manager) SetState(id string, state State) error {
	c := m.find(id)
	if c == nil {
		return fmt.Errorf("%s - no call %s", logPrefix, id)
	}
	c.State = state
	if state == StateDisconnected {
		m.remove(id)
	}
	m.recomputeAggregate()
	return nil
}

// statePriority is the order used to pick a call when several are live:
// the same order the end-call operation works through.
var statePriority = []State{StateActive, StateDialing, StateRinging, StateOnHold, StateNew}

// ForegroundCall returns the call a user would consider current.
func (m *Manager) ForegroundCall() (Call, bool) {
	return m.FirstCallWithState(statePriority...)
}

// FirstCallWithState returns the first call whose state matches, trying
// each given state in order.
func (m *Manager) FirstCallWithState(states ...State) (Call, bool) {
	for _, s := range states {
		for _, c := range m.calls {
			if c.State == s {
				return *c, true
			}
		}
	}
	return Call{}, false
}

// Calls returns a snapshot of the live calls.
func (m *Manager) Calls() []Call {
	out := make([]Call, 0, len(m.calls))
	for _, c := range m.calls {
		out = append(out, *c)
	}
	return out
}

// CallCount returns the number of live calls.
func (m *Manager) CallCount() int {
	return len(m.calls)
}

// SilenceRinger silences the ringer of every ringing call and returns how
// many were silenced. The calls keep ringing for the remote side; only
// the local alert stops.
func (m *Manager) SilenceRinger() int {
	silenced := 0
	for _, c := range m.calls {
		if c.State == StateRinging && !c.RingerSilenced {
			c.RingerSilenced = true
			silenced++
		}
	}
	if silenced > 0 {
		slog.Info(fmt.Sprintf("%s - silenced ringer on %d calls", logPrefix, silenced))
	}
	return silenced
}

// BringToForeground asks the UI layer to show the in-call screen.
func (m *Manager) BringToForeground(showDialpad bool) {
	if m.ui != nil {
		m.ui(showDialpad)
	}
}

// HandleMMI reports whether dial is an MMI code this service consumes
// rather than a number to dial. MMI codes can carry PINs, so the string
// itself is never logged.
func (m *Manager) HandleMMI(dial string) bool {
	if !mmiPattern.MatchString(dial) {
		return false
	}
	slog.Info(fmt.Sprintf("%s - consumed MMI code len=%d", logPrefix, len(dial)))
	return true
}

// TTYSupported reports whether the host device has TTY hardware.
func (m *Manager) TTYSupported() bool {
	return m.ttySupported
}

// CurrentTTYMode returns the active TTY mode.
func (m *Manager) CurrentTTYMode() TTYMode {
	return m.ttyMode
}

// SetTTYMode changes the TTY mode. Owner goroutine only.
func (m *Manager) SetTTYMode(mode TTYMode) {
	m.ttyMode = mode
}

// AggregateState returns the phone-wide state. Safe from any goroutine.
func (m *Manager) AggregateState() AggregateState {
	return AggregateState(m.aggregate.Load())
}

// HasRingingCall reports whether any call is ringing. Safe from any
// goroutine.
func (m *Manager) HasRingingCall() bool {
	return m.AggregateState() == AggregateRinging
}

// HasOngoingCall reports whether any call is live. Safe from any
// goroutine.
func (m *Manager) HasOngoingCall() bool {
	return m.AggregateState() != AggregateIdle
}

func (m *Manager) find(id string) *Call {
	for _, c := range m.calls {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *Manager) remove(id string) {
	for i, c := range m.calls {
		if c.ID == id {
			m.calls = append(m.calls[:i], m.calls[i+1:]...)
			return
		}
	}
}

// recomputeAggregate derives the phone-wide state after every mutation.
// A ringing call dominates, matching what callers of getCallState expect
// during call waiting.
func (m *Manager) recomputeAggregate() {
	next := AggregateIdle
	for _, c := range m.calls {
		switch c.State {
		case StateRinging:
			next = AggregateRinging
		case StateNew, StateDialing, StateActive, StateOnHold:
			if next == AggregateIdle {
				next = AggregateOffHook
			}
		}
	}
	m.aggregate.Store(int32(next))
}
