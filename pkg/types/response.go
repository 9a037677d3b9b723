package types

// SuccessEnvelope wraps every successful API payload so the portal client
// can rely on a single response shape.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Message is only populated with text
// that is safe to show an installer or admin.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError the same way SuccessEnvelope wraps data.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
