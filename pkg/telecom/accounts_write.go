package telecom

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XBIZART/telecom-service/pkg/accounts"
	"github.com/XBIZART/telecom-service/pkg/events"
)

const accountsWriteLogPrefix = "telecom:accounts_write"

// SetUserSelectedOutgoingPhoneAccount records the user's outgoing account
// choice. A nil handle clears the selection.
func (f *Facade) SetUserSelectedOutgoingPhoneAccount(ctx context.Context, id Identity, input *SetUserSelectedOutgoingAccountInput) (*SetUserSelectedOutgoingAccountOutput, error) {
	if err := f.gate.RequirePermission(id, PermissionModifyState); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	slog.Info(fmt.Sprintf("%s - set user selected outgoing handle=%v caller=%s", accountsWriteLogPrefix, input.Handle, id.Package))

	if err := f.accounts.SetUserSelectedOutgoing(input.Handle); err != nil {
		return nil, &ServiceError{Code: "INVALID_INPUT", Message: err.Error()}
	}
	return &SetUserSelectedOutgoingAccountOutput{Success: true}, nil
}

// SetSimCallManager records the sim call manager association. A nil
// handle clears it.
func (f *Facade) SetSimCallManager(ctx context.Context, id Identity, input *SetSimCallManagerInput) (*SetSimCallManagerOutput, error) {
	if err := f.gate.RequirePermission(id, PermissionModifyState); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	slog.Info(fmt.Sprintf("%s - set sim call manager handle=%v caller=%s", accountsWriteLogPrefix, input.Handle, id.Package))

	if err := f.accounts.SetSimCallManager(input.Handle); err != nil {
		return nil, &ServiceError{Code: "INVALID_INPUT", Message: err.Error()}
	}
	return &SetSimCallManagerOutput{Success: true}, nil
}

// RegisterPhoneAccount registers or replaces a phone account.
//
// The caller must own the account's package (or hold the modify
// permission), and the platform must declare the connection service
// feature. Accounts declaring the call-provider or sim-subscription
// capability additionally require the register-provider permission; that
// check failing aborts with nothing stored. A caller without the modify
// permission still registers, but the account is downgraded: Enabled is
// forced false and the always-enabled capability bit is stripped.
func (f *Facade) RegisterPhoneAccount(ctx context.Context, id Identity, input *RegisterAccountInput) (*RegisterAccountOutput, error) {
	acct := input.Account
	if acct.Handle.IsZero() {
		return nil, &ServiceError{Code: "INVALID_INPUT", Message: "Account handle is required"}
	}
	if acct.Handle.PackageName() == "" {
		return nil, &ServiceError{Code: "INVALID_INPUT", Message: fmt.Sprintf("Handle %s has no package", acct.Handle)}
	}

	if err := f.gate.RequireOwnPackageOrPermission(id, acct.Handle.PackageName(), PermissionModifyState); err != nil {
		return nil, err
	}
	if err := f.gate.RequireFeature(FeatureConnectionService); err != nil {
		return nil, err
	}
	if acct.HasCapability(accounts.CapabilityCallProvider) || acct.HasCapability(accounts.CapabilitySimSubscription) {
		if err := f.gate.RequirePermission(id, PermissionRegisterProvider); err != nil {
			return nil, err
		}
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}

	downgraded := false
	if f.gate.RequirePermission(id, PermissionModifyState) != nil {
		if acct.Enabled || acct.HasCapability(accounts.CapabilityAlwaysEnabled) {
			downgraded = true
		}
		acct.Enabled = false
		acct.Capabilities &^= accounts.CapabilityAlwaysEnabled
	}

	stored, err := f.accounts.Register(ctx, acct)
	if err != nil {
		return nil, &ServiceError{Code: "BACKEND_FAILURE", Message: err.Error()}
	}
	slog.Info(fmt.Sprintf("%s - registered %s downgraded=%v caller=%s", accountsWriteLogPrefix, stored.Handle, downgraded, id.Package))

	event := events.NewEvent(events.TypeAccountRegistered)
	event.Package = stored.Handle.PackageName()
	event.Component = stored.Handle.ComponentName
	event.AccountID = stored.Handle.ID
	f.publish(ctx, event)

	return &RegisterAccountOutput{Account: stored, Downgraded: downgraded}, nil
}

// UnregisterPhoneAccount removes a phone account registration. Removing a
// handle that was never registered is not an error.
func (f *Facade) UnregisterPhoneAccount(ctx context.Context, id Identity, input *UnregisterAccountInput) (*UnregisterAccountOutput, error) {
	if err := f.gate.RequireOwnPackageOrPermission(id, input.Handle.PackageName(), PermissionModifyState); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}

	removed, err := f.accounts.Unregister(ctx, input.Handle)
	if err != nil {
		return nil, &ServiceError{Code: "BACKEND_FAILURE", Message: err.Error()}
	}
	if removed {
		slog.Info(fmt.Sprintf("%s - unregistered %s caller=%s", accountsWriteLogPrefix, input.Handle, id.Package))

		event := events.NewEvent(events.TypeAccountUnregistered)
		event.Package = input.Handle.PackageName()
		event.Component = input.Handle.ComponentName
		event.AccountID = input.Handle.ID
		f.publish(ctx, event)
	}
	return &UnregisterAccountOutput{Removed: removed}, nil
}

// ClearAccounts removes every account the caller's package registered.
func (f *Facade) ClearAccounts(ctx context.Context, id Identity, input *ClearAccountsInput) (*ClearAccountsOutput, error) {
	if err := f.gate.RequireOwnPackage(id, input.PackageName); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}

	removed, err := f.accounts.ClearPackage(ctx, input.PackageName)
	if err != nil {
		return nil, &ServiceError{Code: "BACKEND_FAILURE", Message: err.Error()}
	}
	if removed > 0 {
		slog.Info(fmt.Sprintf("%s - cleared %d accounts package=%s", accountsWriteLogPrefix, removed, input.PackageName))

		event := events.NewEvent(events.TypeAccountsCleared)
		event.Package = input.PackageName
		event.Count = removed
		f.publish(ctx, event)
	}
	return &ClearAccountsOutput{Removed: removed}, nil
}
