package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/XBIZART/telecom-service/pkg/accounts"
	"github.com/XBIZART/telecom-service/pkg/executor"
	"github.com/XBIZART/telecom-service/pkg/telecom"
)

// fakeService records the last routed call and returns canned outputs.
// Setting err makes every method fail with it.
type fakeService struct {
	method string
	id     telecom.Identity
	input  any
	err    error
	health *telecom.HealthOutput
}

func (f *fakeService) record(method string, id telecom.Identity, input any) error {
	f.method = method
	f.id = id
	f.input = input
	return f.err
}

func (f *fakeService) GetDefaultOutgoingPhoneAccount(_ context.Context, id telecom.Identity, input *telecom.DefaultOutgoingAccountInput) (*telecom.DefaultOutgoingAccountOutput, error) {
	if err := f.record("getDefaultOutgoingPhoneAccount", id, input); err != nil {
		return nil, err
	}
	return &telecom.DefaultOutgoingAccountOutput{}, nil
}

func (f *fakeService) GetUserSelectedOutgoingPhoneAccount(_ context.Context, id telecom.Identity) (*telecom.UserSelectedOutgoingAccountOutput, error) {
	if err := f.record("getUserSelectedOutgoingPhoneAccount", id, nil); err != nil {
		return nil, err
	}
	return &telecom.UserSelectedOutgoingAccountOutput{}, nil
}

func (f *fakeService) SetUserSelectedOutgoingPhoneAccount(_ context.Context, id telecom.Identity, input *telecom.SetUserSelectedOutgoingAccountInput) (*telecom.SetUserSelectedOutgoingAccountOutput, error) {
	if err := f.record("setUserSelectedOutgoingPhoneAccount", id, input); err != nil {
		return nil, err
	}
	return &telecom.SetUserSelectedOutgoingAccountOutput{Success: true}, nil
}

func (f *fakeService) GetCallCapablePhoneAccounts(_ context.Context, id telecom.Identity) (*telecom.CallCapableAccountsOutput, error) {
	if err := f.record("getCallCapablePhoneAccounts", id, nil); err != nil {
		return nil, err
	}
	return &telecom.CallCapableAccountsOutput{}, nil
}

func (f *fakeService) GetPhoneAccountsSupportingScheme(_ context.Context, id telecom.Identity, input *telecom.AccountsSupportingSchemeInput) (*telecom.AccountsSupportingSchemeOutput, error) {
	if err := f.record("getPhoneAccountsSupportingScheme", id, input); err != nil {
		return nil, err
	}
	return &telecom.AccountsSupportingSchemeOutput{}, nil
}

func (f *fakeService) GetPhoneAccountsForPackage(_ context.Context, id telecom.Identity, input *telecom.AccountsForPackageInput) (*telecom.AccountsForPackageOutput, error) {
	if err := f.record("getPhoneAccountsForPackage", id, input); err != nil {
		return nil, err
	}
	return &telecom.AccountsForPackageOutput{}, nil
}

func (f *fakeService) GetPhoneAccount(_ context.Context, id telecom.Identity, input *telecom.GetAccountInput) (*telecom.GetAccountOutput, error) {
	if err := f.record("getPhoneAccount", id, input); err != nil {
		return nil, err
	}
	return &telecom.GetAccountOutput{}, nil
}

func (f *fakeService) GetAllPhoneAccountsCount(_ context.Context, id telecom.Identity) (*telecom.AccountCountOutput, error) {
	if err := f.record("getAllPhoneAccountsCount", id, nil); err != nil {
		return nil, err
	}
	return &telecom.AccountCountOutput{Count: 2}, nil
}

func (f *fakeService) GetAllPhoneAccounts(_ context.Context, id telecom.Identity) (*telecom.AllAccountsOutput, error) {
	if err := f.record("getAllPhoneAccounts", id, nil); err != nil {
		return nil, err
	}
	return &telecom.AllAccountsOutput{}, nil
}

func (f *fakeService) GetAllPhoneAccountHandles(_ context.Context, id telecom.Identity) (*telecom.AllAccountHandlesOutput, error) {
	if err := f.record("getAllPhoneAccountHandles", id, nil); err != nil {
		return nil, err
	}
	return &telecom.AllAccountHandlesOutput{}, nil
}

func (f *fakeService) GetSimCallManager(_ context.Context, id telecom.Identity) (*telecom.SimCallManagerOutput, error) {
	if err := f.record("getSimCallManager", id, nil); err != nil {
		return nil, err
	}
	return &telecom.SimCallManagerOutput{}, nil
}

func (f *fakeService) SetSimCallManager(_ context.Context, id telecom.Identity, input *telecom.SetSimCallManagerInput) (*telecom.SetSimCallManagerOutput, error) {
	if err := f.record("setSimCallManager", id, input); err != nil {
		return nil, err
	}
	return &telecom.SetSimCallManagerOutput{Success: true}, nil
}

func (f *fakeService) GetSimCallManagers(_ context.Context, id telecom.Identity) (*telecom.SimCallManagersOutput, error) {
	if err := f.record("getSimCallManagers", id, nil); err != nil {
		return nil, err
	}
	return &telecom.SimCallManagersOutput{}, nil
}

func (f *fakeService) RegisterPhoneAccount(_ context.Context, id telecom.Identity, input *telecom.RegisterAccountInput) (*telecom.RegisterAccountOutput, error) {
	if err := f.record("registerPhoneAccount", id, input); err != nil {
		return nil, err
	}
	return &telecom.RegisterAccountOutput{Account: input.Account}, nil
}

func (f *fakeService) UnregisterPhoneAccount(_ context.Context, id telecom.Identity, input *telecom.UnregisterAccountInput) (*telecom.UnregisterAccountOutput, error) {
	if err := f.record("unregisterPhoneAccount", id, input); err != nil {
		return nil, err
	}
	return &telecom.UnregisterAccountOutput{Removed: true}, nil
}

func (f *fakeService) ClearAccounts(_ context.Context, id telecom.Identity, input *telecom.ClearAccountsInput) (*telecom.ClearAccountsOutput, error) {
	if err := f.record("clearAccounts", id, input); err != nil {
		return nil, err
	}
	return &telecom.ClearAccountsOutput{Removed: 1}, nil
}

func (f *fakeService) IsVoiceMailNumber(_ context.Context, id telecom.Identity, input *telecom.IsVoicemailNumberInput) (*telecom.IsVoicemailNumberOutput, error) {
	if err := f.record("isVoiceMailNumber", id, input); err != nil {
		return nil, err
	}
	return &telecom.IsVoicemailNumberOutput{Match: true}, nil
}

func (f *fakeService) HasVoiceMailNumber(_ context.Context, id telecom.Identity, input *telecom.HasVoicemailNumberInput) (*telecom.HasVoicemailNumberOutput, error) {
	if err := f.record("hasVoiceMailNumber", id, input); err != nil {
		return nil, err
	}
	return &telecom.HasVoicemailNumberOutput{Present: true}, nil
}

func (f *fakeService) GetVoiceMailNumber(_ context.Context, id telecom.Identity, input *telecom.VoicemailNumberInput) (*telecom.VoicemailNumberOutput, error) {
	if err := f.record("getVoiceMailNumber", id, input); err != nil {
		return nil, err
	}
	return &telecom.VoicemailNumberOutput{Number: "+15550199"}, nil
}

func (f *fakeService) GetLine1Number(_ context.Context, id telecom.Identity, input *telecom.Line1NumberInput) (*telecom.Line1NumberOutput, error) {
	if err := f.record("getLine1Number", id, input); err != nil {
		return nil, err
	}
	return &telecom.Line1NumberOutput{Number: "+15550100"}, nil
}

func (f *fakeService) GetDefaultPhoneApp(_ context.Context, id telecom.Identity) (*telecom.DefaultPhoneAppOutput, error) {
	if err := f.record("getDefaultPhoneApp", id, nil); err != nil {
		return nil, err
	}
	return &telecom.DefaultPhoneAppOutput{Package: "com.example.dialer"}, nil
}

func (f *fakeService) SilenceRinger(_ context.Context, id telecom.Identity) error {
	return f.record("silenceRinger", id, nil)
}

func (f *fakeService) EndCall(_ context.Context, id telecom.Identity) (*telecom.EndCallOutput, error) {
	if err := f.record("endCall", id, nil); err != nil {
		return nil, err
	}
	return &telecom.EndCallOutput{Ended: true}, nil
}

func (f *fakeService) AcceptRingingCall(_ context.Context, id telecom.Identity) error {
	return f.record("acceptRingingCall", id, nil)
}

func (f *fakeService) ShowCallScreen(_ context.Context, id telecom.Identity, input *telecom.ShowCallScreenInput) error {
	return f.record("showCallScreen", id, input)
}

func (f *fakeService) CancelMissedCallsNotification(_ context.Context, id telecom.Identity) error {
	return f.record("cancelMissedCallsNotification", id, nil)
}

func (f *fakeService) IsTtySupported(_ context.Context, id telecom.Identity) (*telecom.TtySupportedOutput, error) {
	if err := f.record("isTtySupported", id, nil); err != nil {
		return nil, err
	}
	return &telecom.TtySupportedOutput{Supported: true}, nil
}

func (f *fakeService) GetCurrentTtyMode(_ context.Context, id telecom.Identity) (*telecom.TtyModeOutput, error) {
	if err := f.record("getCurrentTtyMode", id, nil); err != nil {
		return nil, err
	}
	return &telecom.TtyModeOutput{Mode: 1}, nil
}

func (f *fakeService) HandlePinMmi(_ context.Context, id telecom.Identity, input *telecom.HandleMmiInput) (*telecom.HandleMmiOutput, error) {
	if err := f.record("handlePinMmi", id, input); err != nil {
		return nil, err
	}
	return &telecom.HandleMmiOutput{Consumed: true}, nil
}

func (f *fakeService) AddNewIncomingCall(_ context.Context, id telecom.Identity, input *telecom.AddIncomingCallInput) error {
	return f.record("addNewIncomingCall", id, input)
}

func (f *fakeService) AddNewUnknownCall(_ context.Context, id telecom.Identity, input *telecom.AddUnknownCallInput) error {
	return f.record("addNewUnknownCall", id, input)
}

func (f *fakeService) IsInCall(_ context.Context, id telecom.Identity, input *telecom.IsInCallInput) (*telecom.IsInCallOutput, error) {
	if err := f.record("isInCall", id, input); err != nil {
		return nil, err
	}
	return &telecom.IsInCallOutput{InCall: true}, nil
}

func (f *fakeService) IsRinging(_ context.Context, id telecom.Identity, input *telecom.IsRingingInput) (*telecom.IsRingingOutput, error) {
	if err := f.record("isRinging", id, input); err != nil {
		return nil, err
	}
	return &telecom.IsRingingOutput{Ringing: true}, nil
}

func (f *fakeService) GetCallState(_ context.Context, id telecom.Identity) (*telecom.CallStateOutput, error) {
	if err := f.record("getCallState", id, nil); err != nil {
		return nil, err
	}
	return &telecom.CallStateOutput{State: 2}, nil
}

func (f *fakeService) Health(_ context.Context) *telecom.HealthOutput {
	f.method = "health"
	if f.health != nil {
		return f.health
	}
	return &telecom.HealthOutput{Status: "healthy"}
}

// TestDispatch_UnknownMethod verifies that unknown methods return METHOD_NOT_FOUND.
func TestDispatch_UnknownMethod(t *testing.T) {
	disp := NewDispatcher(&fakeService{})

	req := &TelecomRequest{
		ID:     "test-1",
		Method: "nonexistent",
		Params: json.RawMessage(`{}`),
	}

	resp := disp.Dispatch(context.Background(), req)

	if resp.Ok {
		t.Error("dispatcher:dispatch_routing_test - expected Ok=false for unknown method")
	}
	if resp.ID != "test-1" {
		t.Errorf("dispatcher:dispatch_routing_test - expected ID=test-1, got %s", resp.ID)
	}
	if resp.Error == nil {
		t.Fatal("dispatcher:dispatch_routing_test - expected error, got nil")
	}
	if resp.Error.Code != "METHOD_NOT_FOUND" {
		t.Errorf("dispatcher:dispatch_routing_test - expected METHOD_NOT_FOUND, got %s", resp.Error.Code)
	}
	if resp.Error.Retryable {
		t.Error("dispatcher:dispatch_routing_test - METHOD_NOT_FOUND should not be retryable")
	}
}

func TestDispatch_UnknownMethodPreservesRequestID(t *testing.T) {
	disp := NewDispatcher(&fakeService{})

	ids := []string{"req-1", "req-2", "unique-abc-123", ""}
	for _, id := range ids {
		resp := disp.Dispatch(context.Background(), &TelecomRequest{
			ID:     id,
			Method: "unknown",
			Params: json.RawMessage(`{}`),
		})

		if resp.ID != id {
			t.Errorf("dispatcher:dispatch_routing_test - expected ID=%q, got %q", id, resp.ID)
		}
	}
}

// TestDispatch_RoutesEveryMethod drives each wire method through Dispatch
// and verifies it lands on the matching service call.
func TestDispatch_RoutesEveryMethod(t *testing.T) {
	handle := `{"componentName":"com.example.carrier/ConnectionService","id":"sim-0"}`

	tests := []struct {
		method string
		params string
	}{
		{"acceptRingingCall", ""},
		{"addNewIncomingCall", `{"handle":` + handle + `,"address":"tel:+15550100"}`},
		{"addNewUnknownCall", `{"handle":` + handle + `}`},
		{"cancelMissedCallsNotification", ""},
		{"clearAccounts", `{"packageName":"com.example.carrier"}`},
		{"endCall", ""},
		{"getAllPhoneAccountHandles", ""},
		{"getAllPhoneAccounts", ""},
		{"getAllPhoneAccountsCount", ""},
		{"getCallCapablePhoneAccounts", ""},
		{"getCallState", ""},
		{"getCurrentTtyMode", ""},
		{"getDefaultOutgoingPhoneAccount", `{"uriScheme":"tel"}`},
		{"getDefaultPhoneApp", ""},
		{"getLine1Number", `{"handle":` + handle + `}`},
		{"getPhoneAccount", `{"handle":` + handle + `}`},
		{"getPhoneAccountsForPackage", `{"packageName":"com.example.carrier"}`},
		{"getPhoneAccountsSupportingScheme", `{"uriScheme":"sip"}`},
		{"getSimCallManager", ""},
		{"getSimCallManagers", ""},
		{"getUserSelectedOutgoingPhoneAccount", ""},
		{"getVoiceMailNumber", `{"handle":` + handle + `}`},
		{"handlePinMmi", `{"dialString":"*#06#"}`},
		{"hasVoiceMailNumber", `{"handle":` + handle + `}`},
		{"health", ""},
		{"isInCall", `{"callingPackage":"com.example.phone"}`},
		{"isRinging", ""},
		{"isTtySupported", ""},
		{"isVoiceMailNumber", `{"handle":` + handle + `,"number":"+15550199"}`},
		{"registerPhoneAccount", `{"account":{"handle":` + handle + `}}`},
		{"setSimCallManager", `{"handle":` + handle + `}`},
		{"setUserSelectedOutgoingPhoneAccount", `{"handle":` + handle + `}`},
		{"showCallScreen", `{"showDialpad":true}`},
		{"silenceRinger", ""},
		{"unregisterPhoneAccount", `{"handle":` + handle + `}`},
	}

	if len(tests) != len(wireMethods) {
		t.Fatalf("dispatcher:dispatch_routing_test - test table covers %d methods, wire surface has %d", len(tests), len(wireMethods))
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			svc := &fakeService{}
			disp := NewDispatcher(svc)

			req := &TelecomRequest{ID: "req-1", Method: tt.method}
			if tt.params != "" {
				req.Params = json.RawMessage(tt.params)
			}

			resp := disp.Dispatch(context.Background(), req)

			if !resp.Ok {
				t.Fatalf("dispatcher:dispatch_routing_test - %s: Ok=false, error=%+v", tt.method, resp.Error)
			}
			if svc.method != tt.method {
				t.Errorf("dispatcher:dispatch_routing_test - routed to %q, want %q", svc.method, tt.method)
			}
			if resp.ID != "req-1" {
				t.Errorf("dispatcher:dispatch_routing_test - ID = %q, want req-1", resp.ID)
			}
		})
	}
}

func TestDispatch_CallerIdentity(t *testing.T) {
	tests := []struct {
		name string
		ctx  *CallerContext
		want telecom.Identity
	}{
		{
			name: "full caller context",
			ctx:  &CallerContext{Package: "com.example.phone", UID: 10010, PID: 210},
			want: telecom.Identity{UID: 10010, PID: 210, Package: "com.example.phone"},
		},
		{
			name: "nil context yields zero identity",
			ctx:  nil,
			want: telecom.Identity{},
		},
		{
			name: "package only",
			ctx:  &CallerContext{Package: "com.example.viewer"},
			want: telecom.Identity{Package: "com.example.viewer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			disp := NewDispatcher(svc)

			disp.Dispatch(context.Background(), &TelecomRequest{
				ID:     "req-1",
				Method: "getCallState",
				Ctx:    tt.ctx,
			})

			if svc.id != tt.want {
				t.Errorf("dispatcher:dispatch_routing_test - identity = %+v, want %+v", svc.id, tt.want)
			}
		})
	}
}

func TestDispatch_ParamsDecoded(t *testing.T) {
	svc := &fakeService{}
	disp := NewDispatcher(svc)

	resp := disp.Dispatch(context.Background(), &TelecomRequest{
		ID:     "req-1",
		Method: "registerPhoneAccount",
		Params: json.RawMessage(`{
			"account": {
				"handle": {"componentName": "com.example.carrier/ConnectionService", "id": "sim-0"},
				"label": "Carrier SIM",
				"capabilities": 2,
				"schemes": ["tel"],
				"enabled": true
			}
		}`),
	})

	if !resp.Ok {
		t.Fatalf("dispatcher:dispatch_routing_test - Ok=false, error=%+v", resp.Error)
	}

	input, ok := svc.input.(*telecom.RegisterAccountInput)
	if !ok {
		t.Fatalf("dispatcher:dispatch_routing_test - input type = %T, want *telecom.RegisterAccountInput", svc.input)
	}
	if input.Account.Handle.ID != "sim-0" {
		t.Errorf("dispatcher:dispatch_routing_test - handle id = %q, want sim-0", input.Account.Handle.ID)
	}
	if input.Account.Label != "Carrier SIM" {
		t.Errorf("dispatcher:dispatch_routing_test - label = %q, want Carrier SIM", input.Account.Label)
	}
	if input.Account.Capabilities != accounts.CapabilityCallProvider {
		t.Errorf("dispatcher:dispatch_routing_test - capabilities = %d, want %d", input.Account.Capabilities, accounts.CapabilityCallProvider)
	}
}

func TestDispatch_MissingParamsYieldZeroInput(t *testing.T) {
	svc := &fakeService{}
	disp := NewDispatcher(svc)

	resp := disp.Dispatch(context.Background(), &TelecomRequest{
		ID:     "req-1",
		Method: "isInCall",
	})

	if !resp.Ok {
		t.Fatalf("dispatcher:dispatch_routing_test - Ok=false, error=%+v", resp.Error)
	}

	input, ok := svc.input.(*telecom.IsInCallInput)
	if !ok {
		t.Fatalf("dispatcher:dispatch_routing_test - input type = %T, want *telecom.IsInCallInput", svc.input)
	}
	if input.CallingPackage != "" {
		t.Errorf("dispatcher:dispatch_routing_test - callingPackage = %q, want empty", input.CallingPackage)
	}
}

// TestDispatch_InvalidParams verifies bad JSON params yield INVALID_INPUT
// without reaching the service.
func TestDispatch_InvalidParams(t *testing.T) {
	svc := &fakeService{}
	disp := NewDispatcher(svc)

	resp := disp.Dispatch(context.Background(), &TelecomRequest{
		ID:     "req-1",
		Method: "registerPhoneAccount",
		Params: json.RawMessage(`{invalid json`),
	})

	if resp.Ok {
		t.Error("dispatcher:dispatch_routing_test - expected Ok=false for invalid params")
	}
	if resp.Error == nil {
		t.Fatal("dispatcher:dispatch_routing_test - expected error")
	}
	if resp.Error.Code != "INVALID_INPUT" {
		t.Errorf("dispatcher:dispatch_routing_test - Code = %q, want INVALID_INPUT", resp.Error.Code)
	}
	if svc.method != "" {
		t.Errorf("dispatcher:dispatch_routing_test - service reached with method %q", svc.method)
	}
}

// TestDispatch_AsyncMethodsAck verifies fire-and-forget methods respond
// with an acceptance ack rather than a result payload.
func TestDispatch_AsyncMethodsAck(t *testing.T) {
	handle := `{"componentName":"com.example.carrier/ConnectionService","id":"sim-0"}`

	tests := []struct {
		method string
		params string
	}{
		{"silenceRinger", ""},
		{"acceptRingingCall", ""},
		{"cancelMissedCallsNotification", ""},
		{"showCallScreen", `{"showDialpad":false}`},
		{"addNewIncomingCall", `{"handle":` + handle + `}`},
		{"addNewUnknownCall", `{"handle":` + handle + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			svc := &fakeService{}
			disp := NewDispatcher(svc)

			req := &TelecomRequest{ID: "req-1", Method: tt.method}
			if tt.params != "" {
				req.Params = json.RawMessage(tt.params)
			}

			resp := disp.Dispatch(context.Background(), req)

			if !resp.Ok {
				t.Fatalf("dispatcher:dispatch_routing_test - %s: Ok=false, error=%+v", tt.method, resp.Error)
			}
			ack, ok := resp.Result.(*AckResult)
			if !ok {
				t.Fatalf("dispatcher:dispatch_routing_test - %s: result type = %T, want *AckResult", tt.method, resp.Result)
			}
			if !ack.Accepted {
				t.Errorf("dispatcher:dispatch_routing_test - %s: expected accepted ack", tt.method)
			}
		})
	}
}

func TestServiceErrorToResponse_ServiceError(t *testing.T) {
	tests := []struct {
		name          string
		code          string
		message       string
		wantRetryable bool
	}{
		{
			name:          "PERMISSION_DENIED is not retryable",
			code:          "PERMISSION_DENIED",
			message:       "Package com.example.stranger lacks calls.modify",
			wantRetryable: false,
		},
		{
			name:          "INTERNAL_ERROR is retryable",
			code:          "INTERNAL_ERROR",
			message:       "store unavailable",
			wantRetryable: true,
		},
		{
			name:          "INVALID_INPUT is not retryable",
			code:          "INVALID_INPUT",
			message:       "Account handle is required",
			wantRetryable: false,
		},
		{
			name:          "UNSUPPORTED_OPERATION is not retryable",
			code:          "UNSUPPORTED_OPERATION",
			message:       "Feature telephony.calling is not available",
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcErr := telecom.NewServiceError(tt.code, tt.message)
			resp := serviceErrorToResponse("req-1", svcErr)

			if resp.Ok {
				t.Error("dispatcher:dispatch_routing_test - expected Ok=false")
			}
			if resp.Error == nil {
				t.Fatal("dispatcher:dispatch_routing_test - expected error, got nil")
			}
			if resp.Error.Code != tt.code {
				t.Errorf("dispatcher:dispatch_routing_test - Code = %q, want %q", resp.Error.Code, tt.code)
			}
			if resp.Error.Retryable != tt.wantRetryable {
				t.Errorf("dispatcher:dispatch_routing_test - Retryable = %v, want %v", resp.Error.Retryable, tt.wantRetryable)
			}
		})
	}
}

func TestServiceErrorToResponse_PreservesDetails(t *testing.T) {
	svcErr := &telecom.ServiceError{
		Code:    "PERMISSION_DENIED",
		Message: "denied",
		Details: map[string]any{"package": "com.example.stranger", "permission": "calls.modify"},
	}

	resp := serviceErrorToResponse("req-1", svcErr)

	details, ok := resp.Error.Details.(map[string]any)
	if !ok {
		t.Fatalf("dispatcher:dispatch_routing_test - details type = %T, want map", resp.Error.Details)
	}
	if details["permission"] != "calls.modify" {
		t.Errorf("dispatcher:dispatch_routing_test - permission detail = %v, want calls.modify", details["permission"])
	}
}

func TestServiceErrorToResponse_ClosedBridge(t *testing.T) {
	resp := serviceErrorToResponse("req-1", executor.ErrClosed)

	if resp.Ok {
		t.Error("dispatcher:dispatch_routing_test - expected Ok=false")
	}
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("dispatcher:dispatch_routing_test - Code = %q, want INTERNAL_ERROR", resp.Error.Code)
	}
	if !resp.Error.Retryable {
		t.Error("dispatcher:dispatch_routing_test - shutdown errors should be retryable")
	}
	if resp.Error.Message != "Service is shutting down" {
		t.Errorf("dispatcher:dispatch_routing_test - Message = %q, want shutdown message", resp.Error.Message)
	}
}

func TestServiceErrorToResponse_GenericError(t *testing.T) {
	genericErr := errors.New("something went wrong")
	resp := serviceErrorToResponse("req-1", genericErr)

	if resp.Ok {
		t.Error("dispatcher:dispatch_routing_test - expected Ok=false")
	}
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("dispatcher:dispatch_routing_test - Code = %q, want %q", resp.Error.Code, "INTERNAL_ERROR")
	}
	if !resp.Error.Retryable {
		t.Error("dispatcher:dispatch_routing_test - generic errors should be retryable")
	}
	if resp.Error.Message != "something went wrong" {
		t.Errorf("dispatcher:dispatch_routing_test - Message = %q, want %q", resp.Error.Message, "something went wrong")
	}
}

func TestDispatch_ServiceErrorSurfaced(t *testing.T) {
	svc := &fakeService{err: telecom.NewServiceError("NOT_FOUND", "No account registered for handle")}
	disp := NewDispatcher(svc)

	resp := disp.Dispatch(context.Background(), &TelecomRequest{
		ID:     "req-1",
		Method: "endCall",
	})

	if resp.Ok {
		t.Error("dispatcher:dispatch_routing_test - expected Ok=false")
	}
	if resp.Error == nil {
		t.Fatal("dispatcher:dispatch_routing_test - expected error")
	}
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("dispatcher:dispatch_routing_test - Code = %q, want NOT_FOUND", resp.Error.Code)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		code      string
		message   string
		retryable bool
	}{
		{
			name:      "permission denied",
			id:        "req-1",
			code:      "PERMISSION_DENIED",
			message:   "Package lacks calls.read",
			retryable: false,
		},
		{
			name:      "internal error is retryable",
			id:        "req-2",
			code:      "INTERNAL_ERROR",
			message:   "Database unavailable",
			retryable: true,
		},
		{
			name:      "invalid input",
			id:        "req-3",
			code:      "INVALID_INPUT",
			message:   "Missing required field",
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := errorResponse(tt.id, tt.code, tt.message, tt.retryable)

			if resp.ID != tt.id {
				t.Errorf("dispatcher:dispatch_routing_test - ID = %q, want %q", resp.ID, tt.id)
			}
			if resp.Ok {
				t.Error("dispatcher:dispatch_routing_test - expected Ok=false")
			}
			if resp.Error == nil {
				t.Fatal("dispatcher:dispatch_routing_test - expected error, got nil")
			}
			if resp.Error.Code != tt.code {
				t.Errorf("dispatcher:dispatch_routing_test - Code = %q, want %q", resp.Error.Code, tt.code)
			}
			if resp.Error.Message != tt.message {
				t.Errorf("dispatcher:dispatch_routing_test - Message = %q, want %q", resp.Error.Message, tt.message)
			}
			if resp.Error.Retryable != tt.retryable {
				t.Errorf("dispatcher:dispatch_routing_test - Retryable = %v, want %v", resp.Error.Retryable, tt.retryable)
			}
			if resp.Result != nil {
				t.Errorf("dispatcher:dispatch_routing_test - expected Result=nil, got %v", resp.Result)
			}
		})
	}
}

// TestDispatch_Health verifies health always returns Ok, carrying the
// status in the result.
func TestDispatch_Health(t *testing.T) {
	svc := &fakeService{health: &telecom.HealthOutput{Status: "unhealthy"}}
	disp := NewDispatcher(svc)

	resp := disp.Dispatch(context.Background(), &TelecomRequest{
		ID: "req-1", Method: "health",
	})

	if !resp.Ok {
		t.Error("dispatcher:dispatch_routing_test - health should return Ok=true even when unhealthy")
	}
	if resp.Error != nil {
		t.Errorf("dispatcher:dispatch_routing_test - health should not return error")
	}
	out, ok := resp.Result.(*telecom.HealthOutput)
	if !ok {
		t.Fatalf("dispatcher:dispatch_routing_test - health result type = %T, want *telecom.HealthOutput", resp.Result)
	}
	if out.Status != "unhealthy" {
		t.Errorf("dispatcher:dispatch_routing_test - health result status = %q, want unhealthy", out.Status)
	}
}

func TestWireMethods(t *testing.T) {
	methods := WireMethods()

	if len(methods) != 35 {
		t.Errorf("dispatcher:dispatch_routing_test - expected 35 wire methods, got %d", len(methods))
	}
	if !sort.StringsAreSorted(methods) {
		t.Error("dispatcher:dispatch_routing_test - wire methods should be sorted")
	}

	// Mutating the returned slice must not leak into the package copy.
	methods[0] = "tampered"
	if WireMethods()[0] == "tampered" {
		t.Error("dispatcher:dispatch_routing_test - WireMethods should return a copy")
	}
}
