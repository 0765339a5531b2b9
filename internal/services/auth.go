package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ritmo-backend/internal/config"
	"ritmo-backend/internal/logging"
	"ritmo-backend/internal/metrics"
	"ritmo-backend/internal/models"
	"ritmo-backend/internal/store"
)

type AuthService struct {
	users      store.UserStore
	hasher     PasswordHasher
	tokens     *JWTService
	sessions   SessionStrategy
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        logging.Logger
	metrics    *metrics.Recorder
}

func NewAuthService(
	cfg *config.Config,
	users store.UserStore,
	hasher PasswordHasher,
	tokens *JWTService,
	sessions SessionStrategy,
	log logging.Logger,
	rec *metrics.Recorder,
) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		sessions:   sessions,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		log:        log.With("component", "auth"),
		metrics:    rec,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.reject(ctx, "login", "not_found")
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		s.reject(ctx, "login", "bad_credentials")
		return nil, ErrBadCredentials
	}

	pair, err := s.issuePair(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	pair.UserID = user.UserID

	s.metrics.Login(ctx)
	s.log.Info(ctx, "user logged in", "user_id", user.UserID)

	return pair, nil
}

// Refresh exchanges a refresh token for a brand new pair. The presented token
// is single-use: the slot is overwritten before returning.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.VerifyKind(refreshToken, models.TokenKindRefresh)
	if err != nil {
		s.reject(ctx, "refresh", "invalid_token")
		return nil, err
	}

	if err := s.sessions.CheckRefresh(ctx, claims.UserID, refreshToken); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			s.reject(ctx, "refresh", "unauthorized")
			s.log.Warn(ctx, "stale refresh token presented", "user_id", claims.UserID)
		}
		return nil, err
	}

	pair, err := s.issuePair(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	s.metrics.Refresh(ctx)
	s.log.Debug(ctx, "tokens rotated", "user_id", claims.UserID)

	return pair, nil
}

// Authorize resolves the user behind an Authorization header value. The
// session slot is compared before the signature so that a rotated-out token is
// rejected from store state alone.
func (s *AuthService) Authorize(ctx context.Context, header string) (string, error) {
	token := ExtractBearer(header)
	if token == "" {
		return "", ErrMissingToken
	}

	candidate, err := s.tokens.DecodeUnverified(token)
	if err != nil {
		s.reject(ctx, "authorize", "malformed")
		return "", err
	}

	if err := s.sessions.CheckAccess(ctx, candidate.UserID, token); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			s.reject(ctx, "authorize", "unauthorized")
		}
		return "", err
	}

	claims, err := s.tokens.VerifyKind(token, models.TokenKindAccess)
	if err != nil {
		s.reject(ctx, "authorize", "invalid_token")
		return "", err
	}

	return claims.UserID, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		return err
	}
	s.log.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// Authorized fails with ErrForbidden unless subject is acting on its own record.
func Authorized(subject, target string) error {
	if subject == "" || subject != target {
		return ErrForbidden
	}
	return nil
}

// ExtractBearer accepts "Bearer <token>" as well as a bare token. A scheme
// with nothing after it yields an empty token.
func ExtractBearer(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	return header
}

func (s *AuthService) issuePair(ctx context.Context, userID string) (*models.TokenPair, error) {
	access, err := s.tokens.Issue(userID, models.TokenKindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(userID, models.TokenKindRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	pair := &models.TokenPair{AccessToken: access, RefreshToken: refresh}
	if err := s.sessions.Persist(ctx, userID, pair); err != nil {
		s.log.Error(ctx, "failed to store session", "user_id", userID, "error", err)
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) reject(ctx context.Context, flow, reason string) {
	s.metrics.Rejected(ctx, flow, reason)
}
