// Package types holds the JSON envelopes shared by every API response.
package types

// SuccessEnvelope wraps successful responses under a data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Details carries field-level
// validation messages when present.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError under an error key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
