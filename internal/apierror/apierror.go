// Package apierror provides the response envelopes shared by every handler.
// All errors returned to clients go through this package so that internal
// details (stack traces, SQL errors) never leak into responses.
package apierror

// APIError is the canonical envelope for all 4xx/5xx responses.
type APIError struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Success: false, Error: msg}
}

// WithDetails attaches a structured payload (field errors, stock shortfalls).
func WithDetails(msg string, details interface{}) *APIError {
	return &APIError{Success: false, Error: msg, Details: details}
}

// Envelope is the success wrapper: { "success": true, "data": ... }.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func OK(data interface{}) *Envelope {
	return &Envelope{Success: true, Data: data}
}
