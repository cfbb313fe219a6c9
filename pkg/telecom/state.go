package telecom

import "context"

// IsInCall reports whether any call is live. The answer comes from the
// lock-free aggregate, so it completes even while the bridge is busy.
func (f *Facade) IsInCall(ctx context.Context, id Identity, input *IsInCallInput) (*IsInCallOutput, error) {
	if input.CallingPackage != "" {
		if err := f.gate.RequireOwnPackage(id, input.CallingPackage); err != nil {
			return nil, err
		}
	}
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionReadState); err != nil {
		return nil, err
	}
	if err := f.requireCalls(); err != nil {
		return nil, err
	}
	return &IsInCallOutput{InCall: f.calls.HasOngoingCall()}, nil
}

// IsRinging reports whether any call is ringing, from the lock-free
// aggregate.
func (f *Facade) IsRinging(ctx context.Context, id Identity, input *IsRingingInput) (*IsRingingOutput, error) {
	if input.CallingPackage != "" {
		if err := f.gate.RequireOwnPackage(id, input.CallingPackage); err != nil {
			return nil, err
		}
	}
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionReadState); err != nil {
		return nil, err
	}
	if err := f.requireCalls(); err != nil {
		return nil, err
	}
	return &IsRingingOutput{Ringing: f.calls.HasRingingCall()}, nil
}

// GetCallState returns the aggregate phone state: 0 idle, 1 ringing,
// 2 off-hook. Unprotected, matching the legacy phone-state broadcast.
func (f *Facade) GetCallState(ctx context.Context, id Identity) (*CallStateOutput, error) {
	if err := f.requireCalls(); err != nil {
		return nil, err
	}
	return &CallStateOutput{State: int(f.calls.AggregateState())}, nil
}

// GetDefaultPhoneApp returns the package of the default dialer app, empty
// when none is configured.
func (f *Facade) GetDefaultPhoneApp(ctx context.Context, id Identity) (*DefaultPhoneAppOutput, error) {
	return &DefaultPhoneAppOutput{Package: f.gate.defaults.DefaultDialerPackage()}, nil
}
