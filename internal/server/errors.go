package server

import (
	"fmt"
	"net/http"
)

// ErrSessionNotFound indicates no session exists for the requested ID.
type ErrSessionNotFound struct {
	SessionID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBatchTooLarge indicates a batch request exceeds the lead cap.
type ErrBatchTooLarge struct {
	Count int
	Max   int
}

func (e *ErrBatchTooLarge) Error() string {
	return fmt.Sprintf("batch of %d leads exceeds maximum of %d", e.Count, e.Max)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrSessionNotFound:
		return http.StatusNotFound
	case *ErrValidation, *ErrBatchTooLarge:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
