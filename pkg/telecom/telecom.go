package telecom

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/XBIZART/telecom-service/pkg/accounts"
	"github.com/XBIZART/telecom-service/pkg/calls"
	"github.com/XBIZART/telecom-service/pkg/events"
	"github.com/XBIZART/telecom-service/pkg/executor"
)

const logPrefix = "telecom:facade"

// Bridge operations. Call-state mutations and TTY reads are funneled
// through the request bridge under one of these tags.
const (
	opSilenceRinger executor.Op = iota + 1
	opEndCall
	opAcceptRingingCall
	opShowCallScreen
	opCancelMissedCalls
	opTtySupported
	opTtyMode
	opHandleMmi
	opAddIncomingCall
	opAddUnknownCall
)

// CallRegistry is the owner-side call backend. Mutating methods are only
// invoked from the request bridge's owner goroutine; AggregateState,
// HasRingingCall and HasOngoingCall must be safe from any goroutine
// because the status reads bypass the bridge. pkg/calls.Manager satisfies
// this.
type CallRegistry interface {
	AddIncoming(handle accounts.Handle, address string, extras map[string]any) (calls.Call, error)
	AddUnknown(handle accounts.Handle, address string, extras map[string]any) (calls.Call, error)
	Answer(id string) error
	Reject(id string) error
	Disconnect(id string) error
	ForegroundCall() (calls.Call, bool)
	FirstCallWithState(states ...calls.State) (calls.Call, bool)
	CallCount() int
	SilenceRinger() int
	BringToForeground(showDialpad bool)
	HandleMMI(dial string) bool
	TTYSupported() bool
	CurrentTTYMode() calls.TTYMode
	AggregateState() calls.AggregateState
	HasRingingCall() bool
	HasOngoingCall() bool
}

// AccountRegistrar is the phone-account backend. It is internally
// synchronized, so account operations never touch the bridge.
// pkg/accounts.Registrar satisfies this.
type AccountRegistrar interface {
	Register(ctx context.Context, acct accounts.Account) (accounts.Account, error)
	Unregister(ctx context.Context, handle accounts.Handle) (bool, error)
	ClearPackage(ctx context.Context, pkg string) (int, error)
	Get(handle accounts.Handle) (accounts.Account, bool)
	All() []accounts.Account
	AllHandles() []accounts.Handle
	Count() int
	CallCapableHandles() []accounts.Handle
	HandlesSupportingScheme(scheme string) []accounts.Handle
	HandlesForPackage(pkg string) []accounts.Handle
	DefaultOutgoing(scheme string) (accounts.Handle, bool)
	UserSelectedOutgoing() (accounts.Handle, bool)
	SetUserSelectedOutgoing(handle *accounts.Handle) error
	SimCallManager() (accounts.Handle, bool)
	SetSimCallManager(handle *accounts.Handle) error
	SimCallManagers() []accounts.Handle
	IsVoicemailNumber(handle accounts.Handle, number string) bool
	VoicemailNumber(handle accounts.Handle) (string, bool)
	LineNumber(handle accounts.Handle) (string, bool)
}

// MissedCallTracker is the missed-call backend. Clear is only invoked
// from the owner goroutine. pkg/missedcalls.Tracker satisfies this.
type MissedCallTracker interface {
	Clear(ctx context.Context) (int, error)
	Count() int
}

// Config holds facade configuration.
type Config struct {
	// QueueSize bounds the request bridge queue. Zero means the executor
	// default.
	QueueSize int
}

// DefaultConfig returns the default facade configuration.
func DefaultConfig() Config {
	return Config{QueueSize: 256}
}

// opHandler executes one bridge operation on the owner goroutine.
type opHandler func(ctx context.Context, req executor.Request) (any, error)

// Facade is the telecom service entry surface. Every operation takes the
// caller's Identity and is checked by the gate before any backend is
// touched.
type Facade struct {
	calls     CallRegistry
	accounts  AccountRegistrar
	missed    MissedCallTracker
	gate      *Gate
	publisher events.EventPublisher
	exec      *executor.Executor
	handlers  map[executor.Op]opHandler
	config    Config
}

// NewFacadeParams holds parameters for NewFacade.
type NewFacadeParams struct {
	Calls       CallRegistry
	Accounts    AccountRegistrar
	Missed      MissedCallTracker
	Permissions PermissionOracle
	Features    FeatureOracle
	DefaultApps DefaultAppResolver
	Publisher   events.EventPublisher
	Config      Config
}

// NewFacade creates the facade and starts its request bridge.
func NewFacade(params NewFacadeParams) (*Facade, error) {
	pub := params.Publisher
	if pub == nil {
		pub = &events.NoOpPublisher{}
	}

	f := &Facade{
		calls:     params.Calls,
		accounts:  params.Accounts,
		missed:    params.Missed,
		publisher: pub,
		config:    params.Config,
		gate: NewGate(NewGateParams{
			Permissions: params.Permissions,
			Features:    params.Features,
			DefaultApps: params.DefaultApps,
		}),
	}
	f.handlers = map[executor.Op]opHandler{
		opSilenceRinger:     f.ownerSilenceRinger,
		opEndCall:           f.ownerEndCall,
		opAcceptRingingCall: f.ownerAcceptRingingCall,
		opShowCallScreen:    f.ownerShowCallScreen,
		opCancelMissedCalls: f.ownerCancelMissedCalls,
		opTtySupported:      f.ownerTtySupported,
		opTtyMode:           f.ownerTtyMode,
		opHandleMmi:         f.ownerHandleMmi,
		opAddIncomingCall:   f.ownerAddIncomingCall,
		opAddUnknownCall:    f.ownerAddUnknownCall,
	}

	exec, err := executor.New(executor.Params{
		Handler:   f.execute,
		QueueSize: params.Config.QueueSize,
	})
	if err != nil {
		return nil, err
	}
	f.exec = exec

	slog.Info(fmt.Sprintf("%s - facade ready queueSize=%d", logPrefix, params.Config.QueueSize))
	return f, nil
}

// execute is the bridge handler: every queued request lands here on the
// owner goroutine.
func (f *Facade) execute(ctx context.Context, req executor.Request) (any, error) {
	h, ok := f.handlers[req.Op]
	if !ok {
		return nil, &ServiceError{Code: "UNSUPPORTED_OPERATION", Message: fmt.Sprintf("Unknown bridge op %d", req.Op)}
	}
	return h(ctx, req)
}

// requireCalls returns an error if the call registry is not configured.
func (f *Facade) requireCalls() *ServiceError {
	if f.calls == nil {
		return &ServiceError{Code: "INTERNAL_ERROR", Message: "call registry not configured"}
	}
	return nil
}

// requireAccounts returns an error if the account registrar is not
// configured (e.g. in tests exercising only the bridge).
func (f *Facade) requireAccounts() *ServiceError {
	if f.accounts == nil {
		return &ServiceError{Code: "INTERNAL_ERROR", Message: "account registrar not configured"}
	}
	return nil
}

// requireMissed returns an error if the missed-call tracker is not
// configured.
func (f *Facade) requireMissed() *ServiceError {
	if f.missed == nil {
		return &ServiceError{Code: "INTERNAL_ERROR", Message: "missed-call tracker not configured"}
	}
	return nil
}

// publish sends a change event; failures are logged, never surfaced.
func (f *Facade) publish(ctx context.Context, event *events.TelecomEvent) {
	if err := f.publisher.Publish(ctx, event); err != nil {
		slog.Error(fmt.Sprintf("%s - publish %s failed: %v", logPrefix, event.Type, err))
	}
}

// Close stops the request bridge after draining queued work.
func (f *Facade) Close() {
	f.exec.Close()
	slog.Info(fmt.Sprintf("%s - facade closed", logPrefix))
}

// CloseWithTimeout closes like Close but bounds the drain wait.
func (f *Facade) CloseWithTimeout(timeout time.Duration) error {
	return f.exec.CloseWithTimeout(timeout)
}
