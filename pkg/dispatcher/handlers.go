package dispatcher

import (
	"context"

	"github.com/XBIZART/telecom-service/pkg/telecom"
)

func (d *Dispatcher) handleGetDefaultOutgoingPhoneAccount(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.DefaultOutgoingAccountInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.GetDefaultOutgoingPhoneAccount(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetUserSelectedOutgoingPhoneAccount(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetUserSelectedOutgoingPhoneAccount(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleSetUserSelectedOutgoingPhoneAccount(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.SetUserSelectedOutgoingAccountInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.SetUserSelectedOutgoingPhoneAccount(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetCallCapablePhoneAccounts(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetCallCapablePhoneAccounts(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetPhoneAccountsSupportingScheme(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.AccountsSupportingSchemeInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.GetPhoneAccountsSupportingScheme(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetPhoneAccountsForPackage(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.AccountsForPackageInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.GetPhoneAccountsForPackage(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetPhoneAccount(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.GetAccountInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.GetPhoneAccount(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetAllPhoneAccountsCount(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetAllPhoneAccountsCount(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetAllPhoneAccounts(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetAllPhoneAccounts(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetAllPhoneAccountHandles(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetAllPhoneAccountHandles(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetSimCallManager(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetSimCallManager(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleSetSimCallManager(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.SetSimCallManagerInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.SetSimCallManager(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetSimCallManagers(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetSimCallManagers(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleRegisterPhoneAccount(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.RegisterAccountInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.RegisterPhoneAccount(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleUnregisterPhoneAccount(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.UnregisterAccountInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.UnregisterPhoneAccount(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleClearAccounts(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.ClearAccountsInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.ClearAccounts(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleIsVoiceMailNumber(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.IsVoicemailNumberInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.IsVoiceMailNumber(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleHasVoiceMailNumber(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.HasVoicemailNumberInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.HasVoiceMailNumber(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetVoiceMailNumber(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.VoicemailNumberInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.GetVoiceMailNumber(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetLine1Number(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.Line1NumberInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.GetLine1Number(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetDefaultPhoneApp(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetDefaultPhoneApp(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleSilenceRinger(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	if err := d.svc.SilenceRinger(ctx, id); err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return ackResponse(req.ID)
}

func (d *Dispatcher) handleEndCall(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.EndCall(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleAcceptRingingCall(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	if err := d.svc.AcceptRingingCall(ctx, id); err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return ackResponse(req.ID)
}

func (d *Dispatcher) handleShowCallScreen(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.ShowCallScreenInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	if err := d.svc.ShowCallScreen(ctx, id, &input); err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return ackResponse(req.ID)
}

func (d *Dispatcher) handleCancelMissedCallsNotification(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	if err := d.svc.CancelMissedCallsNotification(ctx, id); err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return ackResponse(req.ID)
}

func (d *Dispatcher) handleIsTtySupported(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.IsTtySupported(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetCurrentTtyMode(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetCurrentTtyMode(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleHandlePinMmi(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.HandleMmiInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.HandlePinMmi(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleAddNewIncomingCall(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.AddIncomingCallInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	if err := d.svc.AddNewIncomingCall(ctx, id, &input); err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return ackResponse(req.ID)
}

func (d *Dispatcher) handleAddNewUnknownCall(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.AddUnknownCallInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	if err := d.svc.AddNewUnknownCall(ctx, id, &input); err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return ackResponse(req.ID)
}

func (d *Dispatcher) handleIsInCall(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.IsInCallInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.IsInCall(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleIsRinging(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	var input telecom.IsRingingInput
	if resp := decodeParams(req, &input); resp != nil {
		return resp
	}
	result, err := d.svc.IsRinging(ctx, id, &input)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleGetCallState(ctx context.Context, req *TelecomRequest, id telecom.Identity) *TelecomResponse {
	result, err := d.svc.GetCallState(ctx, id)
	if err != nil {
		return serviceErrorToResponse(req.ID, err)
	}
	return okResponse(req.ID, result)
}

func (d *Dispatcher) handleHealth(ctx context.Context, req *TelecomRequest) *TelecomResponse {
	return okResponse(req.ID, d.svc.Health(ctx))
}
