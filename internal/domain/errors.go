package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeConflict     ErrorCode = "CONFLICT"

	// Explanation pipeline
	CodeUpstream    ErrorCode = "UPSTREAM_ERROR"
	CodeParse       ErrorCode = "PARSE_ERROR"
	CodeRateLimited ErrorCode = "RATE_LIMITED"

	// Storage and grading
	CodePersistence  ErrorCode = "PERSISTENCE_ERROR"
	CodeInvalidState ErrorCode = "INVALID_STATE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the same call may succeed if repeated unchanged.
func (e *DomainError) Retryable() bool {
	switch e.Code {
	case CodeUpstream, CodePersistence, CodeRateLimited:
		return true
	default:
		return false
	}
}

// WithContext attaches a detail that is returned to API clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewConflictError(message string) *DomainError {
	return NewError(CodeConflict, message, nil)
}

func NewUpstreamError(message string, cause error) *DomainError {
	return NewError(CodeUpstream, message, cause)
}

func NewParseError(message string, cause error) *DomainError {
	return NewError(CodeParse, message, cause)
}

func NewPersistenceError(message string, cause error) *DomainError {
	return NewError(CodePersistence, message, cause)
}

func NewInvalidStateError(message string) *DomainError {
	return NewError(CodeInvalidState, message, nil)
}

func NewRateLimitedError(message string) *DomainError {
	return NewError(CodeRateLimited, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

// IsCode reports whether err (or anything it wraps) is a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
