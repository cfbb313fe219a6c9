// Package events defines event types and publisher interfaces for telecom
// change events.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the service.
const (
	TypeAccountRegistered   = "account.registered"
	TypeAccountUnregistered = "account.unregistered"
	TypeAccountsCleared     = "accounts.cleared"
	TypeCallStateChanged    = "call.state_changed"
	TypeCallMissed          = "call.missed"
	TypeMissedCleared       = "missed.cleared"
	TypeRingerSilenced      = "ringer.silenced"
)

// TelecomEvent is emitted when account or call state changes. Addresses
// and dial strings are deliberately not included.
type TelecomEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Package   string `json:"package,omitempty"`
	Component string `json:"component,omitempty"`
	AccountID string `json:"accountId,omitempty"`
	CallID    string `json:"callId,omitempty"`
	CallState string `json:"callState,omitempty"`
	Count     int    `json:"count,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewEvent creates an event of the given type with a fresh id and
// timestamp; the caller fills in the rest.
func NewEvent(eventType string) *TelecomEvent {
	return &TelecomEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
