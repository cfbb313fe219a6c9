// Package calls holds the call registry: the live calls, their state
// machine, the aggregate phone state, ringer control and TTY status. The
// registry is mutated only from the owner goroutine of the request bridge;
// the aggregate state is kept in an atomic so the few status reads that
// bypass the bridge stay safe.
package calls

import (
	"time"

	"github.com/XBIZART/telecom-service/pkg/accounts"
)

// State is the lifecycle state of one call.
type State int32

const (
	StateNew State = iota
	StateRinging
	StateDialing
	StateActive
	StateOnHold
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRinging:
		return "ringing"
	case StateDialing:
		return "dialing"
	case StateActive:
		return "active"
	case StateOnHold:
		return "on_hold"
	case StateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// AggregateState is the phone-wide state derived from all live calls.
// The numeric values are part of the wire contract of getCallState.
type AggregateState int32

const (
	AggregateIdle    AggregateState = 0
	AggregateRinging AggregateState = 1
	AggregateOffHook AggregateState = 2
)

func (s AggregateState) String() string {
	switch s {
	case AggregateIdle:
		return "idle"
	case AggregateRinging:
		return "ringing"
	case AggregateOffHook:
		return "offhook"
	}
	return "unknown"
}

// TTYMode is the current teletypewriter mode.
type TTYMode int32

const (
	TTYModeOff  TTYMode = 0
	TTYModeFull TTYMode = 1
	TTYModeHCO  TTYMode = 2
	TTYModeVCO  TTYMode = 3
)

// Origin records how a call entered the registry.
type Origin string

const (
	OriginIncoming Origin = "incoming"
	OriginUnknown  Origin = "unknown"
)

// Call is one live or recently disconnected call.
type Call struct {
	ID             string          `json:"id"`
	Handle         accounts.Handle `json:"handle"`
	Address        string          `json:"address,omitempty"`
	State          State           `json:"state"`
	Origin         Origin          `json:"origin"`
	RingerSilenced bool            `json:"ringerSilenced,omitempty"`
	Created        time.Time       `json:"created"`
	Extras         map[string]any  `json:"extras,omitempty"`
}
