package telecom

import (
	"context"
	"fmt"
	"log/slog"
)

const accountsReadLogPrefix = "telecom:accounts_read"

// GetDefaultOutgoingPhoneAccount resolves the account used for an
// outgoing call of the given URI scheme. The handle is absent when no
// account qualifies or several do and none was selected by the user.
func (f *Facade) GetDefaultOutgoingPhoneAccount(ctx context.Context, id Identity, input *DefaultOutgoingAccountInput) (*DefaultOutgoingAccountOutput, error) {
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionReadState); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	slog.Debug(fmt.Sprintf("%s - default outgoing scheme=%q caller=%s", accountsReadLogPrefix, input.UriScheme, id.Package))

	out := &DefaultOutgoingAccountOutput{}
	if h, ok := f.accounts.DefaultOutgoing(input.UriScheme); ok {
		out.Handle = &h
	}
	return out, nil
}

// GetUserSelectedOutgoingPhoneAccount returns the user's explicit
// outgoing account choice, if any.
func (f *Facade) GetUserSelectedOutgoingPhoneAccount(ctx context.Context, id Identity) (*UserSelectedOutgoingAccountOutput, error) {
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	out := &UserSelectedOutgoingAccountOutput{}
	if h, ok := f.accounts.UserSelectedOutgoing(); ok {
		out.Handle = &h
	}
	return out, nil
}

// GetCallCapablePhoneAccounts returns the handles of enabled
// call-provider accounts.
func (f *Facade) GetCallCapablePhoneAccounts(ctx context.Context, id Identity) (*CallCapableAccountsOutput, error) {
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	return &CallCapableAccountsOutput{Handles: f.accounts.CallCapableHandles()}, nil
}

// GetPhoneAccountsSupportingScheme returns the call-capable handles that
// support the given URI scheme.
func (f *Facade) GetPhoneAccountsSupportingScheme(ctx context.Context, id Identity, input *AccountsSupportingSchemeInput) (*AccountsSupportingSchemeOutput, error) {
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	return &AccountsSupportingSchemeOutput{Handles: f.accounts.HandlesSupportingScheme(input.UriScheme)}, nil
}

// GetPhoneAccountsForPackage returns every handle registered by the
// caller's own package.
func (f *Facade) GetPhoneAccountsForPackage(ctx context.Context, id Identity, input *AccountsForPackageInput) (*AccountsForPackageOutput, error) {
	if err := f.gate.RequireOwnPackage(id, input.PackageName); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	return &AccountsForPackageOutput{Handles: f.accounts.HandlesForPackage(input.PackageName)}, nil
}

// GetPhoneAccount returns the account registered under a handle, or an
// absent account when the handle is unknown.
func (f *Facade) GetPhoneAccount(ctx context.Context, id Identity, input *GetAccountInput) (*GetAccountOutput, error) {
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	out := &GetAccountOutput{}
	if a, ok := f.accounts.Get(input.Handle); ok {
		out.Account = &a
	}
	return out, nil
}

// GetAllPhoneAccountsCount returns the number of registered accounts.
func (f *Facade) GetAllPhoneAccountsCount(ctx context.Context, id Identity) (*AccountCountOutput, error) {
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	return &AccountCountOutput{Count: f.accounts.Count()}, nil
}

// GetAllPhoneAccounts returns every registered account.
func (f *Facade) GetAllPhoneAccounts(ctx context.Context, id Identity) (*AllAccountsOutput, error) {
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	return &AllAccountsOutput{Accounts: f.accounts.All()}, nil
}

// GetAllPhoneAccountHandles returns every registered handle.
func (f *Facade) GetAllPhoneAccountHandles(ctx context.Context, id Identity) (*AllAccountHandlesOutput, error) {
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	return &AllAccountHandlesOutput{Handles: f.accounts.AllHandles()}, nil
}

// GetSimCallManager returns the current sim call manager association, if
// any.
func (f *Facade) GetSimCallManager(ctx context.Context, id Identity) (*SimCallManagerOutput, error) {
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	out := &SimCallManagerOutput{}
	if h, ok := f.accounts.SimCallManager(); ok {
		out.Handle = &h
	}
	return out, nil
}

// GetSimCallManagers returns the handles of accounts that can act as sim
// call manager.
func (f *Facade) GetSimCallManagers(ctx context.Context, id Identity) (*SimCallManagersOutput, error) {
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	return &SimCallManagersOutput{Handles: f.accounts.SimCallManagers()}, nil
}

// IsVoiceMailNumber reports whether number is the voicemail number of the
// account registered under the handle.
func (f *Facade) IsVoiceMailNumber(ctx context.Context, id Identity, input *IsVoicemailNumberInput) (*IsVoicemailNumberOutput, error) {
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionReadState); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	return &IsVoicemailNumberOutput{Match: f.accounts.IsVoicemailNumber(input.Handle, input.Number)}, nil
}

// HasVoiceMailNumber reports whether the account registered under the
// handle has a voicemail number.
func (f *Facade) HasVoiceMailNumber(ctx context.Context, id Identity, input *HasVoicemailNumberInput) (*HasVoicemailNumberOutput, error) {
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionReadState); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	number, ok := f.accounts.VoicemailNumber(input.Handle)
	return &HasVoicemailNumberOutput{Present: ok && number != ""}, nil
}

// GetVoiceMailNumber returns the voicemail number of the account
// registered under the handle.
func (f *Facade) GetVoiceMailNumber(ctx context.Context, id Identity, input *VoicemailNumberInput) (*VoicemailNumberOutput, error) {
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionReadState); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	number, _ := f.accounts.VoicemailNumber(input.Handle)
	return &VoicemailNumberOutput{Number: number}, nil
}

// GetLine1Number returns the line number of the account registered under
// the handle.
func (f *Facade) GetLine1Number(ctx context.Context, id Identity, input *Line1NumberInput) (*Line1NumberOutput, error) {
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionReadState); err != nil {
		return nil, err
	}
	if err := f.requireAccounts(); err != nil {
		return nil, err
	}
	number, _ := f.accounts.LineNumber(input.Handle)
	return &Line1NumberOutput{Number: number}, nil
}
