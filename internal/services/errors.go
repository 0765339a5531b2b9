package services

import "errors"

var (
	ErrValidation        = errors.New("invalid request")
	ErrNotFound          = errors.New("user not found")
	ErrBadCredentials    = errors.New("incorrect password")
	ErrConflict          = errors.New("user already exists")
	ErrMissingToken      = errors.New("token not provided")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrUnauthorized      = errors.New("session is not active")
	ErrForbidden         = errors.New("not allowed to act on another user")
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrInsufficientFunds = errors.New("not enough gems")
	ErrStorageFailure    = errors.New("storage failure")
)
