package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an APIError
type ErrorCode int

// Error codes
const (
	ErrHTTP ErrorCode = iota + 1000
	ErrTimeout
	ErrNetwork
	ErrValidation
	ErrUnauthorized
	ErrDecode
)

// APIError is the normalized error shape surfaced by the HTTP client and
// domain services. Callers inspect Status and Message uniformly instead of
// unwrapping transport errors.
type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Err     error       `json:"-"`
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Expected reports whether the error is a transport-class failure (timeout,
// connection refused) that is logged at a lower severity in development.
func (e *APIError) Expected() bool {
	return e.Code == ErrTimeout || e.Code == ErrNetwork
}

// AsAPIError extracts an *APIError from err, or nil.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// Error constructors
func NewHTTP(status int, message string, data interface{}) *APIError {
	if message == "" {
		message = "request failed"
	}
	return &APIError{
		Code:    ErrHTTP,
		Message: message,
		Status:  status,
		Data:    data,
	}
}

func NewTimeout(err error) *APIError {
	return &APIError{
		Code:    ErrTimeout,
		Message: "request timed out",
		Status:  0,
		Err:     err,
	}
}

func NewNetwork(err error) *APIError {
	return &APIError{
		Code:    ErrNetwork,
		Message: "network error",
		Status:  0,
		Err:     err,
	}
}

func NewValidation(message string) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: message,
	}
}

func NewDecode(err error) *APIError {
	return &APIError{
		Code:    ErrDecode,
		Message: "malformed server response",
		Err:     err,
	}
}

func Unauthorized(err error) *APIError {
	return &APIError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Status:  401,
		Err:     err,
	}
}
