// Package dispatcher routes incoming COMMS messages to telecom service
// methods.
package dispatcher

import "encoding/json"

// TelecomRequest is the JSON envelope for incoming COMMS telecom requests.
type TelecomRequest struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
	Ctx    *CallerContext  `json:"ctx,omitempty"`
}

// CallerContext carries the remote caller's identity and deadline hints.
// Package, UID and PID come from the platform transport, not from the
// caller itself.
type CallerContext struct {
	Package    string `json:"package,omitempty"`
	UID        int32  `json:"uid,omitempty"`
	PID        int32  `json:"pid,omitempty"`
	RequestID  string `json:"requestId,omitempty"`
	DeadlineMs int    `json:"deadlineMs,omitempty"`
	TimeoutMs  int    `json:"timeoutMs,omitempty"`
}

// TelecomResponse is the JSON envelope for COMMS telecom responses.
type TelecomResponse struct {
	ID     string       `json:"id"`
	Ok     bool         `json:"ok"`
	Result any          `json:"result,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail holds structured error information.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
}

// AckResult acknowledges a fire-and-forget request: the work is queued
// behind earlier call-state requests, not necessarily executed yet.
type AckResult struct {
	Accepted bool `json:"accepted"`
}
