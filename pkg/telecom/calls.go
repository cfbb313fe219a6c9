package telecom

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XBIZART/telecom-service/pkg/calls"
	"github.com/XBIZART/telecom-service/pkg/events"
	"github.com/XBIZART/telecom-service/pkg/executor"
)

const callsLogPrefix = "telecom:calls"

// EndCall ends the call the user currently means and reports whether any
// call was ended. The caller blocks until the owner goroutine has worked
// through everything queued ahead of it.
func (f *Facade) EndCall(ctx context.Context, id Identity) (*EndCallOutput, error) {
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionModifyState); err != nil {
		return nil, err
	}
	if err := f.requireCalls(); err != nil {
		return nil, err
	}
	slog.Debug(fmt.Sprintf("%s - end call caller=%s", callsLogPrefix, id.Package))

	value, err := f.exec.Submit(ctx, executor.Request{Op: opEndCall})
	if err != nil {
		return nil, err
	}
	ended, _ := value.(bool)
	return &EndCallOutput{Ended: ended}, nil
}

// ownerEndCall picks the foreground call, falling back to the first call
// by state priority. A ringing call is rejected, anything else
// disconnected. Returns false when there is nothing to end.
func (f *Facade) ownerEndCall(ctx context.Context, _ executor.Request) (any, error) {
	target, ok := f.calls.ForegroundCall()
	if !ok {
		target, ok = f.calls.FirstCallWithState(calls.StateActive, calls.StateDialing, calls.StateRinging, calls.StateOnHold)
	}
	if !ok {
		return false, nil
	}

	var err error
	if target.State == calls.StateRinging {
		err = f.calls.Reject(target.ID)
	} else {
		err = f.calls.Disconnect(target.ID)
	}
	if err != nil {
		return nil, &ServiceError{Code: "BACKEND_FAILURE", Message: err.Error()}
	}

	event := events.NewEvent(events.TypeCallStateChanged)
	event.CallID = target.ID
	event.CallState = calls.StateDisconnected.String()
	event.Component = target.Handle.ComponentName
	f.publish(ctx, event)
	return true, nil
}

// AcceptRingingCall answers the first ringing call. Fire-and-forget; when
// nothing is ringing by the time the request runs, it does nothing.
func (f *Facade) AcceptRingingCall(ctx context.Context, id Identity) error {
	if err := f.gate.RequirePermission(id, PermissionModifyState); err != nil {
		return err
	}
	if err := f.requireCalls(); err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("%s - accept ringing call caller=%s", callsLogPrefix, id.Package))
	return f.exec.SubmitAsync(ctx, executor.Request{Op: opAcceptRingingCall})
}

func (f *Facade) ownerAcceptRingingCall(ctx context.Context, _ executor.Request) (any, error) {
	target, ok := f.calls.FirstCallWithState(calls.StateRinging)
	if !ok {
		return nil, nil
	}
	if err := f.calls.Answer(target.ID); err != nil {
		return nil, &ServiceError{Code: "BACKEND_FAILURE", Message: err.Error()}
	}

	event := events.NewEvent(events.TypeCallStateChanged)
	event.CallID = target.ID
	event.CallState = calls.StateActive.String()
	event.Component = target.Handle.ComponentName
	f.publish(ctx, event)
	return nil, nil
}

// ShowCallScreen brings the in-call screen to the foreground, optionally
// with the dialpad open. Fire-and-forget.
func (f *Facade) ShowCallScreen(ctx context.Context, id Identity, input *ShowCallScreenInput) error {
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionModifyState); err != nil {
		return err
	}
	if err := f.requireCalls(); err != nil {
		return err
	}
	var arg int32
	if input.ShowDialpad {
		arg = 1
	}
	return f.exec.SubmitAsync(ctx, executor.Request{Op: opShowCallScreen, Arg: arg})
}

func (f *Facade) ownerShowCallScreen(_ context.Context, req executor.Request) (any, error) {
	f.calls.BringToForeground(req.Arg == 1)
	return nil, nil
}

// AddNewIncomingCall rings a new incoming call on a registered, enabled
// account. The caller must own the account's package or hold the modify
// permission. Fire-and-forget; the ring is queued behind earlier
// call-state work.
func (f *Facade) AddNewIncomingCall(ctx context.Context, id Identity, input *AddIncomingCallInput) error {
	if input.Handle.IsZero() {
		return &ServiceError{Code: "INVALID_INPUT", Message: "Account handle is required"}
	}
	if err := f.gate.RequireOwnPackageOrPermission(id, input.Handle.PackageName(), PermissionModifyState); err != nil {
		return err
	}
	if err := f.gate.RequireFeature(FeatureCalling); err != nil {
		return err
	}
	if err := f.requireCalls(); err != nil {
		return err
	}
	if err := f.requireAccounts(); err != nil {
		return err
	}
	acct, ok := f.accounts.Get(input.Handle)
	if !ok {
		return &ServiceError{Code: "NOT_FOUND", Message: fmt.Sprintf("Account %s is not registered", input.Handle)}
	}
	if !acct.Enabled {
		return &ServiceError{Code: "INVALID_INPUT", Message: fmt.Sprintf("Account %s is disabled", input.Handle)}
	}

	slog.Info(fmt.Sprintf("%s - new incoming call via %s caller=%s", callsLogPrefix, input.Handle, id.Package))
	return f.exec.SubmitAsync(ctx, executor.Request{Op: opAddIncomingCall, Data: input})
}

func (f *Facade) ownerAddIncomingCall(ctx context.Context, req executor.Request) (any, error) {
	input, ok := req.Data.(*AddIncomingCallInput)
	if !ok {
		return nil, &ServiceError{Code: "INVALID_INPUT", Message: "Malformed incoming-call request"}
	}
	c, err := f.calls.AddIncoming(input.Handle, input.Address, input.Extras)
	if err != nil {
		return nil, &ServiceError{Code: "BACKEND_FAILURE", Message: err.Error()}
	}

	event := events.NewEvent(events.TypeCallStateChanged)
	event.CallID = c.ID
	event.CallState = calls.StateRinging.String()
	event.Component = input.Handle.ComponentName
	f.publish(ctx, event)
	return nil, nil
}

// AddNewUnknownCall registers a call discovered in an already connected
// state, e.g. reported by a connection service after the fact.
// Fire-and-forget.
func (f *Facade) AddNewUnknownCall(ctx context.Context, id Identity, input *AddUnknownCallInput) error {
	if input.Handle.IsZero() {
		return &ServiceError{Code: "INVALID_INPUT", Message: "Account handle is required"}
	}
	if err := f.gate.RequirePermission(id, PermissionModifyState); err != nil {
		return err
	}
	if err := f.gate.RequireFeature(FeatureCalling); err != nil {
		return err
	}
	if err := f.requireCalls(); err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("%s - new unknown call via %s caller=%s", callsLogPrefix, input.Handle, id.Package))
	return f.exec.SubmitAsync(ctx, executor.Request{Op: opAddUnknownCall, Data: input})
}

func (f *Facade) ownerAddUnknownCall(ctx context.Context, req executor.Request) (any, error) {
	input, ok := req.Data.(*AddUnknownCallInput)
	if !ok {
		return nil, &ServiceError{Code: "INVALID_INPUT", Message: "Malformed unknown-call request"}
	}
	c, err := f.calls.AddUnknown(input.Handle, input.Address, input.Extras)
	if err != nil {
		return nil, &ServiceError{Code: "BACKEND_FAILURE", Message: err.Error()}
	}

	event := events.NewEvent(events.TypeCallStateChanged)
	event.CallID = c.ID
	event.CallState = calls.StateActive.String()
	event.Component = input.Handle.ComponentName
	f.publish(ctx, event)
	return nil, nil
}
