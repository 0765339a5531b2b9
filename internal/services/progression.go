package services

import (
	"fmt"
	"math"

	"ritmo-backend/internal/models"
)

const (
	linearTierMaxLevel      = 5
	logarithmicTierMaxLevel = 15
)

// RequiredXP is the experience needed to advance from level to level+1.
// The tiers are kept exactly as designed, including the jump between level 5
// (500) and level 6 (1945). Level 0 is priced like level 1 so the result is
// never below 1.
func RequiredXP(level int64) int64 {
	switch {
	case level <= linearTierMaxLevel:
		return max(level, 1) * 100
	case level <= logarithmicTierMaxLevel:
		return int64(math.Floor(100 * math.Log(float64(level+1)) * 10))
	default:
		xp := math.Floor(100 * math.Pow(1.5, float64(level)))
		if xp >= math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(xp)
	}
}

// CalculateNewLevelAndExperience adds xpGained and converts it into as many
// level-ups as it pays for. The returned experience is always below the
// returned RequiredXP.
func CalculateNewLevelAndExperience(level, experience, xpGained int64) (models.Progress, error) {
	if xpGained < 0 {
		return models.Progress{}, fmt.Errorf("%w: xp gained must not be negative", ErrInvalidAmount)
	}
	if level < 0 || experience < 0 {
		return models.Progress{}, fmt.Errorf("%w: corrupt progression state", ErrValidation)
	}
	if experience > math.MaxInt64-xpGained {
		return models.Progress{}, fmt.Errorf("%w: xp overflow", ErrInvalidAmount)
	}

	experience += xpGained

	threshold := RequiredXP(level)
	for experience >= threshold {
		experience -= threshold
		level++
		threshold = RequiredXP(level)
	}

	return models.Progress{
		Level:      level,
		Experience: experience,
		RequiredXP: threshold,
	}, nil
}
