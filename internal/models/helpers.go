package models

import (
	"github.com/google/uuid"
)

func GenerateUserID() string {
	return uuid.NewString()
}

func GenerateTokenID() string {
	return uuid.NewString()
}

// IsUserID reports whether id has the shape of an id produced by GenerateUserID.
func IsUserID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (u *User) Profile(requiredXP int64) *UserProfile {
	return &UserProfile{
		UserID:     u.UserID,
		Username:   u.Username,
		Email:      u.Email,
		Level:      u.Level,
		Experience: u.Experience,
		RequiredXP: requiredXP,
		Gems:       u.Gems,
	}
}
