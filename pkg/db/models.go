package db

import (
	"time"

	"github.com/XBIZART/telecom-service/pkg/accounts"
	"github.com/XBIZART/telecom-service/pkg/missedcalls"
)

// AccountRow represents a row in the phone_accounts table.
type AccountRow struct {
	ComponentName   string    `json:"component_name"`
	AccountID       string    `json:"account_id"`
	Address         *string   `json:"address,omitempty"`
	Label           *string   `json:"label,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Capabilities    int64     `json:"capabilities"`
	Schemes         []string  `json:"schemes"`
	Enabled         bool      `json:"enabled"`
	VoicemailNumber *string   `json:"voicemail_number,omitempty"`
	LineNumber      *string   `json:"line_number,omitempty"`
	Created         time.Time `json:"created"`
	Modified        time.Time `json:"modified"`
}

// Account converts the row into the registrar's account type.
func (r AccountRow) Account() accounts.Account {
	return accounts.Account{
		Handle: accounts.Handle{
			ComponentName: r.ComponentName,
			ID:            r.AccountID,
		},
		Address:         strOrEmpty(r.Address),
		Label:           strOrEmpty(r.Label),
		Description:     strOrEmpty(r.Description),
		Capabilities:    uint32(r.Capabilities),
		Schemes:         r.Schemes,
		Enabled:         r.Enabled,
		VoicemailNumber: strOrEmpty(r.VoicemailNumber),
		LineNumber:      strOrEmpty(r.LineNumber),
	}
}

// MissedCallRow represents a row in the missed_calls table.
type MissedCallRow struct {
	ID        string    `json:"id"`
	CallID    string    `json:"call_id"`
	Address   *string   `json:"address,omitempty"`
	Component *string   `json:"component,omitempty"`
	At        time.Time `json:"at"`
}

// Record converts the row into the tracker's record type.
func (r MissedCallRow) Record() missedcalls.Record {
	return missedcalls.Record{
		ID:        r.ID,
		CallID:    r.CallID,
		Address:   strOrEmpty(r.Address),
		Component: strOrEmpty(r.Component),
		At:        r.At,
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// nullable maps the domain's empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
