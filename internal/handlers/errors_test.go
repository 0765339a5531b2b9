package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"ritmo-backend/internal/handlers"
	"ritmo-backend/internal/services"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrBadCredentials, http.StatusBadRequest},
		{services.ErrConflict, http.StatusBadRequest},
		{services.ErrMissingToken, http.StatusBadRequest},
		{services.ErrMalformedToken, http.StatusUnauthorized},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: overflow", services.ErrInvalidAmount), http.StatusBadRequest},
		{services.ErrInsufficientFunds, http.StatusBadRequest},
		{fmt.Errorf("%w: redis down", services.ErrStorageFailure), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, handlers.StatusFor(tt.err))
		})
	}
}
