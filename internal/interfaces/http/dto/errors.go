package dto

import (
	"net/http"

	"github.com/obpp/dashboard/internal/domain/shared"
)

// Error code constants
// Format: ERR_<CATEGORY>

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeNotFound is used for unknown routes and pages
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Domain error codes, shared with the domain layer
const (
	ErrCodeNetwork       = shared.CodeNetwork
	ErrCodeParse         = shared.CodeParse
	ErrCodeUpstreamParse = shared.CodeUpstreamParse
	ErrCodeValidation    = shared.CodeValidation
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// upstream failures are the gateway's problem, not the caller's
	ErrCodeNetwork:       http.StatusBadGateway,
	ErrCodeUpstreamParse: http.StatusBadGateway,

	ErrCodeParse:      http.StatusUnprocessableEntity,
	ErrCodeValidation: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
