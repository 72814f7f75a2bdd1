package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRequestBlocked is returned when a shared cooldown is active after a 429.
	ErrRequestBlocked = errors.New("request blocked: upstream cooldown active")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassNetwork represents DNS, connection and timeout failures.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassStatus represents responses outside the 200-299 range.
	ErrorClassStatus ErrorClass = "status"

	// ErrorClassDecode represents bodies that do not match the expected shape.
	ErrorClassDecode ErrorClass = "decode"

	// ErrorClassRateLimited represents requests rejected locally during a cooldown.
	ErrorClassRateLimited ErrorClass = "rate_limited"
)

// APIError is returned for every failed request made through the client.
// StatusCode is 0 unless ErrorClass is ErrorClassStatus.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	URL        string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.ErrorClass == ErrorClassStatus && e.Err != nil:
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.StatusCode, e.Err)
	case e.ErrorClass == ErrorClassStatus:
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassOf returns the ErrorClass of err, or "" if err is not an *APIError.
func ClassOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorClass
	}
	return ""
}

// IsStatus reports whether err is a status error carrying the given code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorClass == ErrorClassStatus && apiErr.StatusCode == code
}
