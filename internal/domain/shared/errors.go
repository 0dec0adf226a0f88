package shared

import "errors"

// Error codes for the three failure kinds surfaced to users
const (
	// CodeNetwork is used for any transport or HTTP failure talking to an external service
	CodeNetwork = "ERR_NETWORK"
	// CodeParse is used for malformed data supplied by the user
	CodeParse = "ERR_PARSE"
	// CodeUpstreamParse is used for malformed data returned by an external service
	CodeUpstreamParse = "ERR_UPSTREAM_PARSE"
	// CodeValidation is used when uploaded data misses a required column
	CodeValidation = "ERR_VALIDATION"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another DomainError by code, so sentinel comparisons work on wrapped errors
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNetworkError creates a NetworkError wrapping cause
func NewNetworkError(message string, cause error) *DomainError {
	return &DomainError{Code: CodeNetwork, Message: message, Cause: cause}
}

// NewParseError creates a ParseError for user supplied data
func NewParseError(message string, cause error) *DomainError {
	return &DomainError{Code: CodeParse, Message: message, Cause: cause}
}

// NewUpstreamParseError creates a ParseError for data fetched from an external service
func NewUpstreamParseError(message string, cause error) *DomainError {
	return &DomainError{Code: CodeUpstreamParse, Message: message, Cause: cause}
}

// NewValidationError creates a ValidationError
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// Sentinels usable with errors.Is
var (
	ErrNetwork       = NewDomainError(CodeNetwork, "External service unavailable")
	ErrParse         = NewDomainError(CodeParse, "Malformed data")
	ErrUpstreamParse = NewDomainError(CodeUpstreamParse, "Malformed data from external service")
	ErrValidation    = NewDomainError(CodeValidation, "Validation failed")
)

// IsParseError reports whether err is a ParseError of either origin
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse) || errors.Is(err, ErrUpstreamParse)
}
