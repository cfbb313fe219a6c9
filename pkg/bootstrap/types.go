// Package bootstrap provides bootstrap configuration loading for the
// telecom platform: declared features, package permission grants and uid
// bindings, the default dialer, and preregistered phone accounts.
package bootstrap

import (
	"github.com/XBIZART/telecom-service/pkg/accounts"
)

// BootstrapAccount is a preregistered phone account entry in the
// bootstrap config. Capabilities are listed by name rather than bit so
// bootstrap files stay hand-editable.
type BootstrapAccount struct {
	ComponentName   string   `json:"componentName"`
	ID              string   `json:"id"`
	Address         string   `json:"address,omitempty"`
	Label           string   `json:"label,omitempty"`
	Description     string   `json:"description,omitempty"`
	Capabilities    []string `json:"capabilities,omitempty"`
	Schemes         []string `json:"schemes,omitempty"`
	Enabled         bool     `json:"enabled"`
	VoicemailNumber string   `json:"voicemailNumber,omitempty"`
	LineNumber      string   `json:"lineNumber,omitempty"`
}

// capabilityBits maps bootstrap capability names to account capability
// bits.
var capabilityBits = map[string]uint32{
	"connectionManager": accounts.CapabilityConnectionManager,
	"callProvider":      accounts.CapabilityCallProvider,
	"simSubscription":   accounts.CapabilitySimSubscription,
	"alwaysEnabled":     accounts.CapabilityAlwaysEnabled,
	"videoCalling":      accounts.CapabilityVideoCalling,
}

// CapabilityMask folds the named capabilities into a bit mask. Unknown
// names contribute nothing; CreateResolvedBootstrap warns about them.
func (a BootstrapAccount) CapabilityMask() uint32 {
	var mask uint32
	for _, name := range a.Capabilities {
		mask |= capabilityBits[name]
	}
	return mask
}

// Account converts the bootstrap entry into a registrar account.
func (a BootstrapAccount) Account() accounts.Account {
	return accounts.Account{
		Handle: accounts.Handle{
			ComponentName: a.ComponentName,
			ID:            a.ID,
		},
		Address:         a.Address,
		Label:           a.Label,
		Description:     a.Description,
		Capabilities:    a.CapabilityMask(),
		Schemes:         a.Schemes,
		Enabled:         a.Enabled,
		VoicemailNumber: a.VoicemailNumber,
		LineNumber:      a.LineNumber,
	}
}

// BootstrapPackage binds a package to the uid it runs under and the
// permissions it holds. A "*" permission grants everything.
type BootstrapPackage struct {
	UID         int32    `json:"uid,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// ChangeEventSubjects defines event subject patterns.
type ChangeEventSubjects struct {
	Global  string `json:"global"`
	Pattern string `json:"pattern"`
}

// BootstrapConfig is the root bootstrap configuration.
type BootstrapConfig struct {
	Name           string                      `json:"name"`
	Version        string                      `json:"version"`
	Description    string                      `json:"description,omitempty"`
	ServiceSubject string                      `json:"serviceSubject,omitempty"`
	Features       map[string]string           `json:"features"`
	Packages       map[string]BootstrapPackage `json:"packages"`
	DefaultDialer  string                      `json:"defaultDialer,omitempty"`
	Accounts       []BootstrapAccount          `json:"accounts,omitempty"`
	ChangeEvents   ChangeEventSubjects         `json:"changeEventSubjects"`
}

// ResolvedBootstrap provides fast lookup of bootstrap data in the shapes
// the platform oracles and the server consume.
type ResolvedBootstrap struct {
	name           string
	version        string
	serviceSubject string
	features       map[string]string
	grants         map[string][]string
	uids           map[string]int32
	defaultDialer  string
	accounts       []accounts.Account
	changeEvents   ChangeEventSubjects
}

// Name returns the bootstrap config name.
func (rb *ResolvedBootstrap) Name() string {
	return rb.name
}

// Version returns the bootstrap config version.
func (rb *ResolvedBootstrap) Version() string {
	return rb.version
}

// ServiceSubject returns the COMMS subject the telecom service should
// listen on, empty when the config does not override the default.
func (rb *ResolvedBootstrap) ServiceSubject() string {
	return rb.serviceSubject
}

// Features returns the declared platform features, name to version.
func (rb *ResolvedBootstrap) Features() map[string]string {
	return rb.features
}

// Grants returns the permission grants, package to permission names.
func (rb *ResolvedBootstrap) Grants() map[string][]string {
	return rb.grants
}

// UIDs returns the package-to-uid bindings.
func (rb *ResolvedBootstrap) UIDs() map[string]int32 {
	return rb.uids
}

// DefaultDialer returns the default dialer package, empty when none.
func (rb *ResolvedBootstrap) DefaultDialer() string {
	return rb.defaultDialer
}

// Accounts returns the preregistered phone accounts in file order.
func (rb *ResolvedBootstrap) Accounts() []accounts.Account {
	return rb.accounts
}

// GlobalChangeSubject returns the global change event subject.
func (rb *ResolvedBootstrap) GlobalChangeSubject() string {
	return rb.changeEvents.Global
}
