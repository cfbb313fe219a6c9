// Package telecom implements the telecom system service: a permission
// gated facade over the call registry, account registrar and missed-call
// tracker. Account operations delegate directly to the internally
// synchronized registrar; call-state mutations are serialized through a
// single-owner request bridge.
package telecom

import (
	"github.com/XBIZART/telecom-service/pkg/accounts"
)

// Identity identifies the caller of a facade operation.
type Identity struct {
	UID     int32  `json:"uid"`
	PID     int32  `json:"pid"`
	Package string `json:"package"`
}

// Permissions checked by the gate.
const (
	PermissionReadState        = "calls.read"
	PermissionModifyState      = "calls.modify"
	PermissionRegisterProvider = "accounts.register_provider"
)

// Feature refs required by gated operations, matched against the platform
// feature catalog.
const (
	FeatureConnectionService = "telephony.connection_service@^1.0.0"
	FeatureCalling           = "telephony.calling@>=2.0.0"
)

// DefaultOutgoingAccountInput holds parameters for the
// getDefaultOutgoingPhoneAccount method.
type DefaultOutgoingAccountInput struct {
	UriScheme string `json:"uriScheme,omitempty"`
}

// DefaultOutgoingAccountOutput holds the result of the
// getDefaultOutgoingPhoneAccount method. Handle is nil when no account
// qualifies or the choice is ambiguous.
type DefaultOutgoingAccountOutput struct {
	Handle *accounts.Handle `json:"handle,omitempty"`
}

// UserSelectedOutgoingAccountOutput holds the result of the
// getUserSelectedOutgoingPhoneAccount method.
type UserSelectedOutgoingAccountOutput struct {
	Handle *accounts.Handle `json:"handle,omitempty"`
}

// SetUserSelectedOutgoingAccountInput holds parameters for the
// setUserSelectedOutgoingPhoneAccount method. A nil handle clears the
// selection.
type SetUserSelectedOutgoingAccountInput struct {
	Handle *accounts.Handle `json:"handle,omitempty"`
}

// SetUserSelectedOutgoingAccountOutput holds the result of the
// setUserSelectedOutgoingPhoneAccount method.
type SetUserSelectedOutgoingAccountOutput struct {
	Success bool `json:"success"`
}

// CallCapableAccountsOutput holds the result of the
// getCallCapablePhoneAccounts method.
type CallCapableAccountsOutput struct {
	Handles []accounts.Handle `json:"handles"`
}

// AccountsSupportingSchemeInput holds parameters for the
// getPhoneAccountsSupportingScheme method.
type AccountsSupportingSchemeInput struct {
	UriScheme string `json:"uriScheme"`
}

// AccountsSupportingSchemeOutput holds the result of the
// getPhoneAccountsSupportingScheme method.
type AccountsSupportingSchemeOutput struct {
	Handles []accounts.Handle `json:"handles"`
}

// AccountsForPackageInput holds parameters for the
// getPhoneAccountsForPackage method.
type AccountsForPackageInput struct {
	PackageName string `json:"packageName"`
}

// AccountsForPackageOutput holds the result of the
// getPhoneAccountsForPackage method.
type AccountsForPackageOutput struct {
	Handles []accounts.Handle `json:"handles"`
}

// GetAccountInput holds parameters for the getPhoneAccount method.
type GetAccountInput struct {
	Handle accounts.Handle `json:"handle"`
}

// GetAccountOutput holds the result of the getPhoneAccount method.
// Account is nil when the handle is not registered.
type GetAccountOutput struct {
	Account *accounts.Account `json:"account,omitempty"`
}

// AccountCountOutput holds the result of the getAllPhoneAccountsCount
// method.
type AccountCountOutput struct {
	Count int `json:"count"`
}

// AllAccountsOutput holds the result of the getAllPhoneAccounts method.
type AllAccountsOutput struct {
	Accounts []accounts.Account `json:"accounts"`
}

// AllAccountHandlesOutput holds the result of the
// getAllPhoneAccountHandles method.
type AllAccountHandlesOutput struct {
	Handles []accounts.Handle `json:"handles"`
}

// SimCallManagerOutput holds the result of the getSimCallManager method.
type SimCallManagerOutput struct {
	Handle *accounts.Handle `json:"handle,omitempty"`
}

// SetSimCallManagerInput holds parameters for the setSimCallManager
// method. A nil handle clears the association.
type SetSimCallManagerInput struct {
	Handle *accounts.Handle `json:"handle,omitempty"`
}

// SetSimCallManagerOutput holds the result of the setSimCallManager
// method.
type SetSimCallManagerOutput struct {
	Success bool `json:"success"`
}

// SimCallManagersOutput holds the result of the getSimCallManagers method.
type SimCallManagersOutput struct {
	Handles []accounts.Handle `json:"handles"`
}

// RegisterAccountInput holds parameters for the registerPhoneAccount
// method.
type RegisterAccountInput struct {
	Account accounts.Account `json:"account"`
}

// RegisterAccountOutput holds the result of the registerPhoneAccount
// method. Downgraded reports whether the enablement fields were forced
// down because the caller lacks the modify permission.
type RegisterAccountOutput struct {
	Account    accounts.Account `json:"account"`
	Downgraded bool             `json:"downgraded"`
}

// UnregisterAccountInput holds parameters for the unregisterPhoneAccount
// method.
type UnregisterAccountInput struct {
	Handle accounts.Handle `json:"handle"`
}

// UnregisterAccountOutput holds the result of the unregisterPhoneAccount
// method.
type UnregisterAccountOutput struct {
	Removed bool `json:"removed"`
}

// ClearAccountsInput holds parameters for the clearAccounts method.
type ClearAccountsInput struct {
	PackageName string `json:"packageName"`
}

// ClearAccountsOutput holds the result of the clearAccounts method.
type ClearAccountsOutput struct {
	Removed int `json:"removed"`
}

// IsVoicemailNumberInput holds parameters for the isVoiceMailNumber
// method.
type IsVoicemailNumberInput struct {
	Handle accounts.Handle `json:"handle"`
	Number string          `json:"number"`
}

// IsVoicemailNumberOutput holds the result of the isVoiceMailNumber
// method.
type IsVoicemailNumberOutput struct {
	Match bool `json:"match"`
}

// HasVoicemailNumberInput holds parameters for the hasVoiceMailNumber
// method.
type HasVoicemailNumberInput struct {
	Handle accounts.Handle `json:"handle"`
}

// HasVoicemailNumberOutput holds the result of the hasVoiceMailNumber
// method.
type HasVoicemailNumberOutput struct {
	Present bool `json:"present"`
}

// VoicemailNumberInput holds parameters for the getVoiceMailNumber
// method.
type VoicemailNumberInput struct {
	Handle accounts.Handle `json:"handle"`
}

// VoicemailNumberOutput holds the result of the getVoiceMailNumber
// method.
type VoicemailNumberOutput struct {
	Number string `json:"number"`
}

// Line1NumberInput holds parameters for the getLine1Number method.
type Line1NumberInput struct {
	Handle accounts.Handle `json:"handle"`
}

// Line1NumberOutput holds the result of the getLine1Number method.
type Line1NumberOutput struct {
	Number string `json:"number"`
}

// DefaultPhoneAppOutput holds the result of the getDefaultPhoneApp
// method. Package is empty when no default dialer is configured.
type DefaultPhoneAppOutput struct {
	Package string `json:"package,omitempty"`
}

// EndCallOutput holds the result of the endCall method.
type EndCallOutput struct {
	Ended bool `json:"ended"`
}

// ShowCallScreenInput holds parameters for the showCallScreen method.
type ShowCallScreenInput struct {
	ShowDialpad bool `json:"showDialpad"`
}

// TtySupportedOutput holds the result of the isTtySupported method.
type TtySupportedOutput struct {
	Supported bool `json:"supported"`
}

// TtyModeOutput holds the result of the getCurrentTtyMode method. Mode is
// 0 (off), 1 (full), 2 (HCO) or 3 (VCO).
type TtyModeOutput struct {
	Mode int `json:"mode"`
}

// HandleMmiInput holds parameters for the handlePinMmi method.
type HandleMmiInput struct {
	DialString string `json:"dialString"`
}

// HandleMmiOutput holds the result of the handlePinMmi method. Consumed
// reports whether the dial string was an MMI code the service swallowed.
type HandleMmiOutput struct {
	Consumed bool `json:"consumed"`
}

// AddIncomingCallInput holds parameters for the addNewIncomingCall
// method.
type AddIncomingCallInput struct {
	Handle  accounts.Handle `json:"handle"`
	Address string          `json:"address,omitempty"`
	Extras  map[string]any  `json:"extras,omitempty"`
}

// AddUnknownCallInput holds parameters for the addNewUnknownCall method.
type AddUnknownCallInput struct {
	Handle  accounts.Handle `json:"handle"`
	Address string          `json:"address,omitempty"`
	Extras  map[string]any  `json:"extras,omitempty"`
}

// IsInCallInput holds parameters for the isInCall method.
type IsInCallInput struct {
	CallingPackage string `json:"callingPackage,omitempty"`
}

// IsInCallOutput holds the result of the isInCall method.
type IsInCallOutput struct {
	InCall bool `json:"inCall"`
}

// IsRingingInput holds parameters for the isRinging method.
type IsRingingInput struct {
	CallingPackage string `json:"callingPackage,omitempty"`
}

// IsRingingOutput holds the result of the isRinging method.
type IsRingingOutput struct {
	Ringing bool `json:"ringing"`
}

// CallStateOutput holds the result of the getCallState method. State is
// 0 (idle), 1 (ringing) or 2 (off-hook).
type CallStateOutput struct {
	State int `json:"state"`
}

// HealthOutput holds the result of the health method.
type HealthOutput struct {
	Status    string       `json:"status"`
	Checks    HealthChecks `json:"checks"`
	CallState int          `json:"callState"`
	Accounts  int          `json:"accounts"`
	Timestamp string       `json:"timestamp"`
}

// HealthChecks holds individual health check results.
type HealthChecks struct {
	Bridge   bool `json:"bridge"`
	Accounts bool `json:"accounts"`
	Calls    bool `json:"calls"`
}

// ServiceError is a structured error from the telecom service.
type ServiceError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}

// NewServiceError creates a new ServiceError.
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}
