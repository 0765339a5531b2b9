package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ritmo-backend/internal/config"
	"ritmo-backend/internal/models"
)

// SessionStrategy decides whether issued tokens are remembered and whether a
// presented token is still the current one for its user.
type SessionStrategy interface {
	Persist(ctx context.Context, userID string, pair *models.TokenPair) error
	CheckAccess(ctx context.Context, userID, token string) error
	CheckRefresh(ctx context.Context, userID, token string) error
	Revoke(ctx context.Context, userID string) error
}

func NewSessionStrategy(cfg *config.Config, store SessionStore) (SessionStrategy, error) {
	switch cfg.SessionMode {
	case config.SessionModeStateless:
		return StatelessSessions{}, nil
	case config.SessionModeStore:
		if store == nil {
			return nil, fmt.Errorf("session mode %q needs a session store", cfg.SessionMode)
		}
		return NewStoreSessions(store, cfg.AccessTokenTTL, cfg.RefreshTokenTTL), nil
	default:
		return nil, fmt.Errorf("unsupported session mode: %s", cfg.SessionMode)
	}
}

// StoreSessions keeps the latest access and refresh token per user in the
// session store. The slot is authoritative: a missing or different value means
// the token was rotated out or expired.
type StoreSessions struct {
	store      SessionStore
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewStoreSessions(store SessionStore, accessTTL, refreshTTL time.Duration) *StoreSessions {
	return &StoreSessions{
		store:      store,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Persist writes the two slots independently. If the second write fails the
// first one stays; the caller gets a storage error.
func (s *StoreSessions) Persist(ctx context.Context, userID string, pair *models.TokenPair) error {
	if err := s.store.SetToken(ctx, RefreshTokenKey(userID), pair.RefreshToken, s.refreshTTL); err != nil {
		return err
	}
	return s.store.SetToken(ctx, AccessTokenKey(userID), pair.AccessToken, s.accessTTL)
}

func (s *StoreSessions) CheckAccess(ctx context.Context, userID, token string) error {
	return s.check(ctx, AccessTokenKey(userID), token)
}

func (s *StoreSessions) CheckRefresh(ctx context.Context, userID, token string) error {
	return s.check(ctx, RefreshTokenKey(userID), token)
}

func (s *StoreSessions) check(ctx context.Context, key, token string) error {
	current, err := s.store.GetToken(ctx, key)
	if errors.Is(err, ErrSessionNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if current != token {
		return ErrUnauthorized
	}
	return nil
}

func (s *StoreSessions) Revoke(ctx context.Context, userID string) error {
	return s.store.DeleteToken(ctx, AccessTokenKey(userID), RefreshTokenKey(userID))
}

// StatelessSessions trusts signatures only: nothing is stored, every
// signature-valid token is current and nothing can be revoked early.
type StatelessSessions struct{}

func (StatelessSessions) Persist(context.Context, string, *models.TokenPair) error { return nil }
func (StatelessSessions) CheckAccess(context.Context, string, string) error        { return nil }
func (StatelessSessions) CheckRefresh(context.Context, string, string) error       { return nil }
func (StatelessSessions) Revoke(context.Context, string) error                     { return nil }
