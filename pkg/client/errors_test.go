package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "status with body",
			err: &APIError{
				StatusCode: 404,
				ErrorClass: ErrorClassStatus,
				Message:    "unexpected response 404 Not Found",
				Err:        errors.New(`{"status_code":34}`),
			},
			want: `unexpected response 404 Not Found (status 404): {"status_code":34}`,
		},
		{
			name: "status without body",
			err: &APIError{
				StatusCode: 500,
				ErrorClass: ErrorClassStatus,
				Message:    "unexpected response 500 Internal Server Error",
			},
			want: "unexpected response 500 Internal Server Error (status 500)",
		},
		{
			name: "network with cause",
			err: &APIError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        errors.New("connection refused"),
			},
			want: "request failed: connection refused",
		},
		{
			name: "message only",
			err:  &APIError{ErrorClass: ErrorClassDecode, Message: "decode response"},
			want: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	err := fmt.Errorf("load page: %w", &APIError{
		ErrorClass: ErrorClassRateLimited,
		Message:    "rate limited",
		Err:        ErrRequestBlocked,
	})

	if !errors.Is(err, ErrRequestBlocked) {
		t.Error("errors.Is(err, ErrRequestBlocked) = false, want true")
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("x"), ""},
		{"direct", &APIError{ErrorClass: ErrorClassDecode}, ErrorClassDecode},
		{"wrapped", fmt.Errorf("ctx: %w", &APIError{ErrorClass: ErrorClassNetwork}), ErrorClassNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassOf(tt.err); got != tt.want {
				t.Errorf("ClassOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsStatus(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound, ErrorClass: ErrorClassStatus}

	if !IsStatus(notFound, http.StatusNotFound) {
		t.Error("IsStatus(404, 404) = false, want true")
	}
	if IsStatus(notFound, http.StatusInternalServerError) {
		t.Error("IsStatus(404, 500) = true, want false")
	}
	if IsStatus(&APIError{ErrorClass: ErrorClassNetwork}, 0) {
		t.Error("IsStatus(network, 0) = true, want false")
	}
	if IsStatus(errors.New("404"), http.StatusNotFound) {
		t.Error("IsStatus(plain, 404) = true, want false")
	}
}
