package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestError_StatusAndReason(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{name: "server", err: NewServer(errors.New("boom")), wantStatus: http.StatusInternalServerError, wantReason: "INTERNAL_ERROR"},
		{name: "unauthenticated", err: Unauthenticated(), wantStatus: http.StatusUnauthorized, wantReason: "UNAUTHORIZED"},
		{name: "forbidden", err: NewBusiness("nope", CodeForbidden), wantStatus: http.StatusForbidden, wantReason: "FORBIDDEN"},
		{name: "invalid format", err: NewInvalidFormat(), wantStatus: http.StatusBadRequest, wantReason: "VALIDATION_ERROR"},
		{name: "invalid input", err: NewInvalidInput(nil, "status", "is invalid"), wantStatus: http.StatusBadRequest, wantReason: "VALIDATION_ERROR"},
		{
			name:       "custom reason",
			err:        NewBusiness("parts are not reserved", CodeConflict, WithReason("PARTS_NOT_RESERVED")),
			wantStatus: http.StatusConflict,
			wantReason: "PARTS_NOT_RESERVED",
		},
		{
			name:       "unprocessable",
			err:        NewBusiness("insufficient stock", CodeUnprocessable, WithReason("INSUFFICIENT_STOCK")),
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: "INSUFFICIENT_STOCK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if !errors.As(tt.err, &gerr) {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if got := gerr.StatusCode(); got != tt.wantStatus {
				t.Fatalf("StatusCode() = %d, want %d", got, tt.wantStatus)
			}
			if got := gerr.Reason(); got != tt.wantReason {
				t.Fatalf("Reason() = %q, want %q", got, tt.wantReason)
			}
		})
	}
}

func TestError_Context(t *testing.T) {
	// Arrange
	candidates := []string{"a", "b"}
	err := NewBusiness("insufficient stock", CodeUnprocessable, WithContext("candidates", candidates))

	// Act
	var gerr *Error
	errors.As(err, &gerr)
	ctx := gerr.Context()
	ctx["other"] = 1

	// Assert
	if _, ok := ctx["candidates"]; !ok {
		t.Fatal("expected candidates in context")
	}
	if _, ok := gerr.Context()["other"]; ok {
		t.Fatal("Context() must return a copy")
	}
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("pg: insufficient stock for product")
	err := NewBusiness("Insufficient stock", CodeUnprocessable, WithCause(cause))

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be unwrapped")
	}

	var gerr *Error
	errors.As(err, &gerr)
	if gerr.Msg() != "Insufficient stock" {
		t.Fatalf("Msg() = %q", gerr.Msg())
	}
}
