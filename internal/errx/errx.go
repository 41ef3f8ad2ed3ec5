package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// ApologyMessage is shown to shoppers whenever the chat pipeline cannot answer.
	ApologyMessage = "Sorry, I didn't quite catch that. Could you rephrase your question?"
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
)

var (
	ErrEmptyMessage   = errors.New("message is required")
	ErrInvalidPayload = errors.New("invalid request payload")
	ErrNotFound       = errors.New("not found")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// BadRequest marks a caller mistake on the chat endpoint. The chat contract
// reports these with the 500 fallback envelope, so the status stays 500.
func BadRequest(err error) *AppError {
	return New(err, http.StatusInternalServerError, ApologyMessage)
}

// NotFound marks a missing resource.
func NotFound(message string) *AppError {
	return New(ErrNotFound, http.StatusNotFound, message)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-safe message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}
