package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ritmo-backend/internal/services"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrInvalidToken, http.StatusUnauthorized},
	{services.ErrUnauthorized, http.StatusUnauthorized},
	{services.ErrMissingToken, http.StatusBadRequest},
	{services.ErrBadCredentials, http.StatusBadRequest},
	{services.ErrConflict, http.StatusBadRequest},
	{services.ErrValidation, http.StatusBadRequest},
	{services.ErrInvalidAmount, http.StatusBadRequest},
	{services.ErrInsufficientFunds, http.StatusBadRequest},
}

// StatusFor maps a service error to the HTTP status it is reported with.
// Anything unrecognised, storage failures included, is a 500.
func StatusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the error body and records err on the gin context so the
// request logger picks it up.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "something went wrong, please try again"
	}
	c.JSON(status, gin.H{"message": message})
}

func respondBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "invalid request",
		"details": err.Error(),
	})
}

// currentUserID reads the id set by middleware.AuthMiddleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "user not authenticated"})
		return "", false
	}
	return userID, true
}
