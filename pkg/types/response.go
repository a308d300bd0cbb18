package types

// SuccessEnvelope wraps every successful JSON response.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every failed JSON response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
