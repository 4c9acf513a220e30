package model

// OperationResult is the uniform envelope returned by mutating and
// authenticating operations instead of a bare bool.
//
// WHY NOT JUST (bool, error)?
// Callers need to tell "user already exists" from "wrong password" from
// "not found" without inspecting error strings, and the HTTP layer needs a
// human-readable message either way. Soft failures (validation, conflict,
// not-found, bad credentials) live in Success/Message; hard backend
// failures are returned as a separate error alongside the result.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Payload any    `json:"payload,omitempty"`
}

// OK builds a successful result.
func OK(message string, payload any) *OperationResult {
	return &OperationResult{Success: true, Message: message, Payload: payload}
}

// Fail builds a soft-failure result.
func Fail(message string) *OperationResult {
	return &OperationResult{Success: false, Message: message}
}
