package telecom

import (
	"context"

	"github.com/XBIZART/telecom-service/pkg/executor"
)

// IsTtySupported reports whether the host device has TTY hardware. The
// answer comes back through the bridge, ordered behind earlier requests.
func (f *Facade) IsTtySupported(ctx context.Context, id Identity) (*TtySupportedOutput, error) {
	if err := f.gate.RequirePermission(id, PermissionReadState); err != nil {
		return nil, err
	}
	if err := f.requireCalls(); err != nil {
		return nil, err
	}
	value, err := f.exec.Submit(ctx, executor.Request{Op: opTtySupported})
	if err != nil {
		return nil, err
	}
	supported, _ := value.(bool)
	return &TtySupportedOutput{Supported: supported}, nil
}

func (f *Facade) ownerTtySupported(_ context.Context, _ executor.Request) (any, error) {
	return f.calls.TTYSupported(), nil
}

// GetCurrentTtyMode returns the active TTY mode: 0 off, 1 full, 2 HCO,
// 3 VCO.
func (f *Facade) GetCurrentTtyMode(ctx context.Context, id Identity) (*TtyModeOutput, error) {
	if err := f.gate.RequirePermission(id, PermissionReadState); err != nil {
		return nil, err
	}
	if err := f.requireCalls(); err != nil {
		return nil, err
	}
	value, err := f.exec.Submit(ctx, executor.Request{Op: opTtyMode})
	if err != nil {
		return nil, err
	}
	mode, _ := value.(int)
	return &TtyModeOutput{Mode: mode}, nil
}

func (f *Facade) ownerTtyMode(_ context.Context, _ executor.Request) (any, error) {
	return int(f.calls.CurrentTTYMode()), nil
}
