package telecom

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XBIZART/telecom-service/pkg/executor"
)

const mmiLogPrefix = "telecom:mmi"

// HandlePinMmi checks a dial string against the MMI grammar and consumes
// it when it is a code rather than a number to dial. The caller blocks
// for the verdict. The dial string itself is never logged in full.
func (f *Facade) HandlePinMmi(ctx context.Context, id Identity, input *HandleMmiInput) (*HandleMmiOutput, error) {
	if err := f.gate.RequirePermissionOrDefaultDialer(id, PermissionModifyState); err != nil {
		return nil, err
	}
	if err := f.requireCalls(); err != nil {
		return nil, err
	}
	if input.DialString == "" {
		return nil, &ServiceError{Code: "INVALID_INPUT", Message: "Dial string is required"}
	}
	slog.Debug(fmt.Sprintf("%s - pin mmi len=%d caller=%s", mmiLogPrefix, len(input.DialString), id.Package))

	value, err := f.exec.Submit(ctx, executor.Request{Op: opHandleMmi, Data: input.DialString})
	if err != nil {
		return nil, err
	}
	consumed, _ := value.(bool)
	return &HandleMmiOutput{Consumed: consumed}, nil
}

func (f *Facade) ownerHandleMmi(_ context.Context, req executor.Request) (any, error) {
	dial, ok := req.Data.(string)
	if !ok {
		return nil, &ServiceError{Code: "INVALID_INPUT", Message: "Malformed MMI request"}
	}
	return f.calls.HandleMMI(dial), nil
}
