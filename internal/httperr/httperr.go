// Package httperr defines the error response shape shared by all API
// handlers.
package httperr

const (
	HttpInternalError   = "internal_error"
	HttpNotReadyError   = "data_not_ready"
	HttpLoadFailedError = "load_failed"
)

// ErrorResponse is the error response body for API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
