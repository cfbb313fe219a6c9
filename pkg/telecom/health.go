package telecom

import (
	"context"
	"time"
)

// Health checks the telecom service health.
func (f *Facade) Health(ctx context.Context) *HealthOutput {
	bridgeOk := !f.exec.IsClosed()
	accountsOk := f.accounts != nil
	callsOk := f.calls != nil

	status := "healthy"
	if !bridgeOk || !accountsOk || !callsOk {
		status = "unhealthy"
	}

	out := &HealthOutput{
		Status: status,
		Checks: HealthChecks{
			Bridge:   bridgeOk,
			Accounts: accountsOk,
			Calls:    callsOk,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if callsOk {
		out.CallState = int(f.calls.AggregateState())
	}
	if accountsOk {
		out.Accounts = f.accounts.Count()
	}
	return out
}
