package telecom

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XBIZART/telecom-service/pkg/events"
	"github.com/XBIZART/telecom-service/pkg/executor"
)

const ringerLogPrefix = "telecom:ringer"

// SilenceRinger stops the local ring alert for every ringing call. The
// request is fire-and-forget: it returns once the silence request is
// queued behind earlier call-state work.
func (f *Facade) SilenceRinger(ctx context.Context, id Identity) error {
	if err := f.gate.RequirePermission(id, PermissionModifyState); err != nil {
		return err
	}
	if err := f.requireCalls(); err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("%s - silence ringer caller=%s", ringerLogPrefix, id.Package))
	return f.exec.SubmitAsync(ctx, executor.Request{Op: opSilenceRinger})
}

func (f *Facade) ownerSilenceRinger(ctx context.Context, _ executor.Request) (any, error) {
	silenced := f.calls.SilenceRinger()
	if silenced > 0 {
		event := events.NewEvent(events.TypeRingerSilenced)
		event.Count = silenced
		f.publish(ctx, event)
	}
	return nil, nil
}

// CancelMissedCallsNotification clears the missed-call tracker, so the
// missed-call indicator goes away. Fire-and-forget.
func (f *Facade) CancelMissedCallsNotification(ctx context.Context, id Identity) error {
	if err := f.gate.RequirePermission(id, PermissionModifyState); err != nil {
		return err
	}
	if err := f.requireMissed(); err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("%s - cancel missed-call notification caller=%s", ringerLogPrefix, id.Package))
	return f.exec.SubmitAsync(ctx, executor.Request{Op: opCancelMissedCalls})
}

func (f *Facade) ownerCancelMissedCalls(ctx context.Context, _ executor.Request) (any, error) {
	if _, err := f.missed.Clear(ctx); err != nil {
		return nil, &ServiceError{Code: "BACKEND_FAILURE", Message: err.Error()}
	}
	return nil, nil
}
