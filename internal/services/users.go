package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ritmo-backend/internal/logging"
	"ritmo-backend/internal/metrics"
	"ritmo-backend/internal/models"
	"ritmo-backend/internal/store"
)

type UserService struct {
	users       store.UserStore
	hasher      PasswordHasher
	sessions    SessionStrategy
	broadcaster Broadcaster
	log         logging.Logger
	metrics     *metrics.Recorder
}

func NewUserService(
	users store.UserStore,
	hasher PasswordHasher,
	sessions SessionStrategy,
	broadcaster Broadcaster,
	log logging.Logger,
	rec *metrics.Recorder,
) *UserService {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	return &UserService{
		users:       users,
		hasher:      hasher,
		sessions:    sessions,
		broadcaster: broadcaster,
		log:         log.With("component", "users"),
		metrics:     rec,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.ensureUnique(ctx, "", req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(req.Username, req.Email, hash)
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.UserID)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return loadUser(ctx, s.users, userID)
}

// Update applies the non-empty fields of req. Username and email uniqueness is
// checked again against every other user before saving.
func (s *UserService) Update(ctx context.Context, userID string, req *models.UpdateUserRequest) (*models.User, error) {
	req.Normalize()
	if req.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	var username, email string
	if req.Username != nil && *req.Username != "" && *req.Username != user.Username {
		username = *req.Username
	}
	if req.Email != nil && *req.Email != "" && *req.Email != user.Email {
		email = *req.Email
	}
	if err := s.ensureUnique(ctx, userID, username, email); err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user updated", "user_id", userID)
	return user, nil
}

// Delete removes the record and drops any live session for it.
func (s *UserService) Delete(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.DeleteByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if err := s.sessions.Revoke(ctx, userID); err != nil {
		s.log.Warn(ctx, "failed to revoke sessions of deleted user", "user_id", userID, "error", err)
	}

	s.log.Info(ctx, "user deleted", "user_id", userID)
	return user, nil
}

func (s *UserService) UpdateProgress(ctx context.Context, userID string, xpGained int64) (*models.User, models.Progress, error) {
	if xpGained < 0 {
		return nil, models.Progress{}, fmt.Errorf("%w: xp gained must not be negative", ErrInvalidAmount)
	}

	user, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return nil, models.Progress{}, err
	}

	progress, err := CalculateNewLevelAndExperience(user.Level, user.Experience, xpGained)
	if err != nil {
		return nil, models.Progress{}, err
	}

	gained := progress.Level - user.Level
	user.Level = progress.Level
	user.Experience = progress.Experience
	user.UpdatedAt = time.Now().UTC()

	if err := s.save(ctx, user); err != nil {
		return nil, models.Progress{}, err
	}

	s.metrics.LevelUps(ctx, gained)
	s.broadcaster.BroadcastProgress(userID, progress, gained > 0)
	if gained > 0 {
		s.log.Info(ctx, "level up", "user_id", userID, "level", progress.Level)
	}

	return user, progress, nil
}

func (s *UserService) ensureUnique(ctx context.Context, selfID, username, email string) error {
	if username != "" {
		if err := s.checkFree(ctx, selfID, "username", username, s.users.FindByUsername); err != nil {
			return err
		}
	}
	if email != "" {
		if err := s.checkFree(ctx, selfID, "email", email, s.users.FindByEmail); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserService) checkFree(ctx context.Context, selfID, field, value string, find func(context.Context, string) (*models.User, error)) error {
	existing, err := find(ctx, value)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if existing.UserID != selfID {
		return fmt.Errorf("%w: %s already taken", ErrConflict, field)
	}
	return nil
}

func (s *UserService) save(ctx context.Context, user *models.User) error {
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return ErrConflict
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}

func loadUser(ctx context.Context, users store.UserStore, userID string) (*models.User, error) {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return user, nil
}
