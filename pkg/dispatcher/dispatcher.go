package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/XBIZART/telecom-service/pkg/executor"
	"github.com/XBIZART/telecom-service/pkg/telecom"
)

const logPrefix = "dispatcher:dispatch"

// Service is the telecom surface the dispatcher routes into.
// *telecom.Facade satisfies it.
type Service interface {
	GetDefaultOutgoingPhoneAccount(ctx context.Context, id telecom.Identity, input *telecom.DefaultOutgoingAccountInput) (*telecom.DefaultOutgoingAccountOutput, error)
	GetUserSelectedOutgoingPhoneAccount(ctx context.Context, id telecom.Identity) (*telecom.UserSelectedOutgoingAccountOutput, error)
	SetUserSelectedOutgoingPhoneAccount(ctx context.Context, id telecom.Identity, input *telecom.SetUserSelectedOutgoingAccountInput) (*telecom.SetUserSelectedOutgoingAccountOutput, error)
	GetCallCapablePhoneAccounts(ctx context.Context, id telecom.Identity) (*telecom.CallCapableAccountsOutput, error)
	GetPhoneAccountsSupportingScheme(ctx context.Context, id telecom.Identity, input *telecom.AccountsSupportingSchemeInput) (*telecom.AccountsSupportingSchemeOutput, error)
	GetPhoneAccountsForPackage(ctx context.Context, id telecom.Identity, input *telecom.AccountsForPackageInput) (*telecom.AccountsForPackageOutput, error)
	GetPhoneAccount(ctx context.Context, id telecom.Identity, input *telecom.GetAccountInput) (*telecom.GetAccountOutput, error)
	GetAllPhoneAccountsCount(ctx context.Context, id telecom.Identity) (*telecom.AccountCountOutput, error)
	GetAllPhoneAccounts(ctx context.Context, id telecom.Identity) (*telecom.AllAccountsOutput, error)
	GetAllPhoneAccountHandles(ctx context.Context, id telecom.Identity) (*telecom.AllAccountHandlesOutput, error)
	GetSimCallManager(ctx context.Context, id telecom.Identity) (*telecom.SimCallManagerOutput, error)
	SetSimCallManager(ctx context.Context, id telecom.Identity, input *telecom.SetSimCallManagerInput) (*telecom.SetSimCallManagerOutput, error)
	GetSimCallManagers(ctx context.Context, id telecom.Identity) (*telecom.SimCallManagersOutput, error)
	RegisterPhoneAccount(ctx context.Context, id telecom.Identity, input *telecom.RegisterAccountInput) (*telecom.RegisterAccountOutput, error)
	UnregisterPhoneAccount(ctx context.Context, id telecom.Identity, input *telecom.UnregisterAccountInput) (*telecom.UnregisterAccountOutput, error)
	ClearAccounts(ctx context.Context, id telecom.Identity, input *telecom.ClearAccountsInput) (*telecom.ClearAccountsOutput, error)
	IsVoiceMailNumber(ctx context.Context, id telecom.Identity, input *telecom.IsVoicemailNumberInput) (*telecom.IsVoicemailNumberOutput, error)
	HasVoiceMailNumber(ctx context.Context, id telecom.Identity, input *telecom.HasVoicemailNumberInput) (*telecom.HasVoicemailNumberOutput, error)
	GetVoiceMailNumber(ctx context.Context, id telecom.Identity, input *telecom.VoicemailNumberInput) (*telecom.VoicemailNumberOutput, error)
	GetLine1Number(ctx context.Context, id telecom.Identity, input *telecom.Line1NumberInput) (*telecom.Line1NumberOutput, error)
	GetDefaultPhoneApp(ctx context.Context, id telecom.Identity) (*telecom.DefaultPhoneAppOutput, error)
	SilenceRinger(ctx context.Context, id telecom.Identity) error
	EndCall(ctx context.Context, id telecom.Identity) (*telecom.EndCallOutput, error)
	AcceptRingingCall(ctx context.Context, id telecom.Identity) error
	ShowCallScreen(ctx context.Context, id telecom.Identity, input *telecom.ShowCallScreenInput) error
	CancelMissedCallsNotification(ctx context.Context, id telecom.Identity) error
	IsTtySupported(ctx context.Context, id telecom.Identity) (*telecom.TtySupportedOutput, error)
	GetCurrentTtyMode(ctx context.Context, id telecom.Identity) (*telecom.TtyModeOutput, error)
	HandlePinMmi(ctx context.Context, id telecom.Identity, input *telecom.HandleMmiInput) (*telecom.HandleMmiOutput, error)
	AddNewIncomingCall(ctx context.Context, id telecom.Identity, input *telecom.AddIncomingCallInput) error
	AddNewUnknownCall(ctx context.Context, id telecom.Identity, input *telecom.AddUnknownCallInput) error
	IsInCall(ctx context.Context, id telecom.Identity, input *telecom.IsInCallInput) (*telecom.IsInCallOutput, error)
	IsRinging(ctx context.Context, id telecom.Identity, input *telecom.IsRingingInput) (*telecom.IsRingingOutput, error)
	GetCallState(ctx context.Context, id telecom.Identity) (*telecom.CallStateOutput, error)
	Health(ctx context.Context) *telecom.HealthOutput
}

// Dispatcher routes COMMS requests to telecom service methods.
type Dispatcher struct {
	svc Service
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(svc Service) *Dispatcher {
	return &Dispatcher{svc: svc}
}

// wireMethods lists every method Dispatch routes, sorted. The HTTP docs
// endpoint builds its spec from this.
var wireMethods = []string{
	"acceptRingingCall",
	"addNewIncomingCall",
	"addNewUnknownCall",
	"cancelMissedCallsNotification",
	"clearAccounts",
	"endCall",
	"getAllPhoneAccountHandles",
	"getAllPhoneAccounts",
	"getAllPhoneAccountsCount",
	"getCallCapablePhoneAccounts",
	"getCallState",
	"getCurrentTtyMode",
	"getDefaultOutgoingPhoneAccount",
	"getDefaultPhoneApp",
	"getLine1Number",
	"getPhoneAccount",
	"getPhoneAccountsForPackage",
	"getPhoneAccountsSupportingScheme",
	"getSimCallManager",
	"getSimCallManagers",
	"getUserSelectedOutgoingPhoneAccount",
	"getVoiceMailNumber",
	"handlePinMmi",
	"hasVoiceMailNumber",
	"health",
	"isInCall",
	"isRinging",
	"isTtySupported",
	"isVoiceMailNumber",
	"registerPhoneAccount",
	"setSimCallManager",
	"setUserSelectedOutgoingPhoneAccount",
	"showCallScreen",
	"silenceRinger",
	"unregisterPhoneAccount",
}

// WireMethods returns the wire method names the dispatcher routes.
func WireMethods() []string {
	return append([]string(nil), wireMethods...)
}

// Dispatch routes a request to the appropriate telecom method and returns
// a response.
func (d *Dispatcher) Dispatch(ctx context.Context, req *TelecomRequest) *TelecomResponse {
	slog.Debug(fmt.Sprintf("%s - method=%s id=%s caller=%s", logPrefix, req.Method, req.ID, callerPackage(req.Ctx)))

	id := identityFromCtx(req.Ctx)

	switch req.Method {
	case "getDefaultOutgoingPhoneAccount":
		return d.handleGetDefaultOutgoingPhoneAccount(ctx, req, id)
	case "getUserSelectedOutgoingPhoneAccount":
		return d.handleGetUserSelectedOutgoingPhoneAccount(ctx, req, id)
	case "setUserSelectedOutgoingPhoneAccount":
		return d.handleSetUserSelectedOutgoingPhoneAccount(ctx, req, id)
	case "getCallCapablePhoneAccounts":
		return d.handleGetCallCapablePhoneAccounts(ctx, req, id)
	case "getPhoneAccountsSupportingScheme":
		return d.handleGetPhoneAccountsSupportingScheme(ctx, req, id)
	case "getPhoneAccountsForPackage":
		return d.handleGetPhoneAccountsForPackage(ctx, req, id)
	case "getPhoneAccount":
		return d.handleGetPhoneAccount(ctx, req, id)
	case "getAllPhoneAccountsCount":
		return d.handleGetAllPhoneAccountsCount(ctx, req, id)
	case "getAllPhoneAccounts":
		return d.handleGetAllPhoneAccounts(ctx, req, id)
	case "getAllPhoneAccountHandles":
		return d.handleGetAllPhoneAccountHandles(ctx, req, id)
	case "getSimCallManager":
		return d.handleGetSimCallManager(ctx, req, id)
	case "setSimCallManager":
		return d.handleSetSimCallManager(ctx, req, id)
	case "getSimCallManagers":
		return d.handleGetSimCallManagers(ctx, req, id)
	case "registerPhoneAccount":
		return d.handleRegisterPhoneAccount(ctx, req, id)
	case "unregisterPhoneAccount":
		return d.handleUnregisterPhoneAccount(ctx, req, id)
	case "clearAccounts":
		return d.handleClearAccounts(ctx, req, id)
	case "isVoiceMailNumber":
		return d.handleIsVoiceMailNumber(ctx, req, id)
	case "hasVoiceMailNumber":
		return d.handleHasVoiceMailNumber(ctx, req, id)
	case "getVoiceMailNumber":
		return d.handleGetVoiceMailNumber(ctx, req, id)
	case "getLine1Number":
		return d.handleGetLine1Number(ctx, req, id)
	case "getDefaultPhoneApp":
		return d.handleGetDefaultPhoneApp(ctx, req, id)
	case "silenceRinger":
		return d.handleSilenceRinger(ctx, req, id)
	case "endCall":
		return d.handleEndCall(ctx, req, id)
	case "acceptRingingCall":
		return d.handleAcceptRingingCall(ctx, req, id)
	case "showCallScreen":
		return d.handleShowCallScreen(ctx, req, id)
	case "cancelMissedCallsNotification":
		return d.handleCancelMissedCallsNotification(ctx, req, id)
	case "isTtySupported":
		return d.handleIsTtySupported(ctx, req, id)
	case "getCurrentTtyMode":
		return d.handleGetCurrentTtyMode(ctx, req, id)
	case "handlePinMmi":
		return d.handleHandlePinMmi(ctx, req, id)
	case "addNewIncomingCall":
		return d.handleAddNewIncomingCall(ctx, req, id)
	case "addNewUnknownCall":
		return d.handleAddNewUnknownCall(ctx, req, id)
	case "isInCall":
		return d.handleIsInCall(ctx, req, id)
	case "isRinging":
		return d.handleIsRinging(ctx, req, id)
	case "getCallState":
		return d.handleGetCallState(ctx, req, id)
	case "health":
		return d.handleHealth(ctx, req)
	default:
		return &TelecomResponse{
			ID: req.ID,
			Ok: false,
			Error: &ErrorDetail{
				Code:      "METHOD_NOT_FOUND",
				Message:   fmt.Sprintf("Unknown method: %s", req.Method),
				Retryable: false,
			},
		}
	}
}

// --- helpers ---

func identityFromCtx(callerCtx *CallerContext) telecom.Identity {
	if callerCtx == nil {
		return telecom.Identity{}
	}
	return telecom.Identity{
		UID:     callerCtx.UID,
		PID:     callerCtx.PID,
		Package: callerCtx.Package,
	}
}

func callerPackage(callerCtx *CallerContext) string {
	if callerCtx == nil {
		return ""
	}
	return callerCtx.Package
}

// decodeParams unmarshals req.Params into v, returning an error response
// when the payload is malformed. Missing params leave v at its zero
// value; required-field validation belongs to the facade.
func decodeParams(req *TelecomRequest, v any) *TelecomResponse {
	if len(req.Params) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params, v); err != nil {
		return errorResponse(req.ID, "INVALID_INPUT", fmt.Sprintf("Failed to parse %s params", req.Method), false)
	}
	return nil
}

func okResponse(id string, result any) *TelecomResponse {
	return &TelecomResponse{ID: id, Ok: true, Result: result}
}

func ackResponse(id string) *TelecomResponse {
	return &TelecomResponse{ID: id, Ok: true, Result: &AckResult{Accepted: true}}
}

func errorResponse(id, code, message string, retryable bool) *TelecomResponse {
	return &TelecomResponse{
		ID: id,
		Ok: false,
		Error: &ErrorDetail{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	}
}

func serviceErrorToResponse(id string, err error) *TelecomResponse {
	if svcErr, ok := err.(*telecom.ServiceError); ok {
		return &TelecomResponse{
			ID: id,
			Ok: false,
			Error: &ErrorDetail{
				Code:      svcErr.Code,
				Message:   svcErr.Message,
				Details:   svcErr.Details,
				Retryable: svcErr.Code == "INTERNAL_ERROR",
			},
		}
	}
	if errors.Is(err, executor.ErrClosed) {
		return errorResponse(id, "INTERNAL_ERROR", "Service is shutting down", true)
	}
	return errorResponse(id, "INTERNAL_ERROR", err.Error(), true)
}
