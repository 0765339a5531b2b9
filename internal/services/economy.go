package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ritmo-backend/internal/logging"
	"ritmo-backend/internal/metrics"
	"ritmo-backend/internal/store"
)

func Credit(balance, amount int64) (int64, error) {
	if amount <= 0 {
		return balance, ErrInvalidAmount
	}
	if balance > math.MaxInt64-amount {
		return balance, fmt.Errorf("%w: balance overflow", ErrInvalidAmount)
	}
	return balance + amount, nil
}

// Debit never partially applies: on error the original balance is returned.
func Debit(balance, amount int64) (int64, error) {
	if amount <= 0 {
		return balance, ErrInvalidAmount
	}
	if balance < amount {
		return balance, ErrInsufficientFunds
	}
	return balance - amount, nil
}

type EconomyService struct {
	users       store.UserStore
	broadcaster Broadcaster
	log         logging.Logger
	metrics     *metrics.Recorder
}

func NewEconomyService(users store.UserStore, broadcaster Broadcaster, log logging.Logger, rec *metrics.Recorder) *EconomyService {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	return &EconomyService{
		users:       users,
		broadcaster: broadcaster,
		log:         log.With("component", "economy"),
		metrics:     rec,
	}
}

// AddGems and SubtractGems read, mutate and save without a lock. Concurrent
// calls for the same user may lose an update.
func (s *EconomyService) AddGems(ctx context.Context, userID string, amount int64) (int64, error) {
	return s.apply(ctx, userID, amount, "credit", Credit)
}

func (s *EconomyService) SubtractGems(ctx context.Context, userID string, amount int64) (int64, error) {
	return s.apply(ctx, userID, amount, "debit", Debit)
}

func (s *EconomyService) Balance(ctx context.Context, userID string) (int64, error) {
	user, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return 0, err
	}
	return user.Gems, nil
}

func (s *EconomyService) apply(ctx context.Context, userID string, amount int64, direction string, op func(int64, int64) (int64, error)) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	user, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return 0, err
	}

	gems, err := op(user.Gems, amount)
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			s.log.Info(ctx, "debit refused", "user_id", userID, "balance", user.Gems, "amount", amount)
		}
		return user.Gems, err
	}

	user.Gems = gems
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Save(ctx, user); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.metrics.Gems(ctx, direction, amount)
	s.broadcaster.BroadcastBalance(userID, gems)

	return gems, nil
}
