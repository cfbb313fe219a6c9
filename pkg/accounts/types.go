// Package accounts holds the phone-account registrar: registrations of
// connection services, the user-selected outgoing account, and the sim call
// manager association. The registrar is internally synchronized, so facade
// operations call it directly without owner-thread marshaling.
package accounts

import "strings"

// Capability bits a phone account may declare.
const (
	// CapabilityConnectionManager marks an account that can manage calls
	// placed through other accounts (sim call manager candidates).
	CapabilityConnectionManager uint32 = 1 << 0
	// CapabilityCallProvider marks an account that can place and receive
	// calls on its own.
	CapabilityCallProvider uint32 = 1 << 1
	// CapabilitySimSubscription marks an account backed by a carrier
	// subscription. Registering it requires the provider permission.
	CapabilitySimSubscription uint32 = 1 << 2
	// CapabilityAlwaysEnabled marks an account the user cannot disable.
	// Stripped at registration when the caller lacks modify permission.
	CapabilityAlwaysEnabled uint32 = 1 << 3
	// CapabilityVideoCalling marks an account that supports video calls.
	CapabilityVideoCalling uint32 = 1 << 4
)

// Handle identifies one registered phone account: the connection service
// component that owns it (package/service form) plus an owner-scoped id.
type Handle struct {
	ComponentName string `json:"componentName"`
	ID            string `json:"id"`
}

// PackageName returns the package part of the component name.
func (h Handle) PackageName() string {
	if idx := strings.Index(h.ComponentName, "/"); idx >= 0 {
		return h.ComponentName[:idx]
	}
	return h.ComponentName
}

// IsZero reports whether the handle is empty.
func (h Handle) IsZero() bool {
	return h.ComponentName == "" && h.ID == ""
}

func (h Handle) String() string {
	return h.ComponentName + ":" + h.ID
}

// Account is one registered phone account.
type Account struct {
	Handle          Handle   `json:"handle"`
	Address         string   `json:"address,omitempty"`
	Label           string   `json:"label,omitempty"`
	Description     string   `json:"description,omitempty"`
	Capabilities    uint32   `json:"capabilities"`
	Schemes         []string `json:"schemes,omitempty"`
	Enabled         bool     `json:"enabled"`
	VoicemailNumber string   `json:"voicemailNumber,omitempty"`
	LineNumber      string   `json:"lineNumber,omitempty"`
}

// HasCapability reports whether all the given capability bits are set.
func (a Account) HasCapability(bits uint32) bool {
	return a.Capabilities&bits == bits
}

// SupportsScheme reports whether the account handles addresses of the given
// URI scheme. An empty scheme matches any account.
func (a Account) SupportsScheme(scheme string) bool {
	if scheme == "" {
		return true
	}
	for _, s := range a.Schemes {
		if s == scheme {
			return true
		}
	}
	return false
}

// CallCapable reports whether the account can currently place calls.
func (a Account) CallCapable() bool {
	return a.Enabled && a.HasCapability(CapabilityCallProvider)
}
