package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"session not found", &ErrSessionNotFound{SessionID: "abc"}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "limit", Message: "must be positive"}, http.StatusBadRequest},
		{"batch too large", &ErrBatchTooLarge{Count: 50, Max: 20}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "session not found: abc", (&ErrSessionNotFound{SessionID: "abc"}).Error())
	assert.Contains(t, (&ErrValidation{Field: "leads", Message: "required"}).Error(), "leads")
	assert.Contains(t, (&ErrBatchTooLarge{Count: 50, Max: 20}).Error(), "50")
}
