// Package store persists user records. Every implementation returns
// ErrUserNotFound for absent records and ErrUserExists when a unique field
// (id, username, email) collides.
package store

import (
	"context"
	"errors"

	"ritmo-backend/internal/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

type UserStore interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Save inserts or fully replaces the record keyed by UserID.
	Save(ctx context.Context, user *models.User) error
	DeleteByID(ctx context.Context, userID string) (*models.User, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
