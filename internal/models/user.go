package models

import "time"

type User struct {
	UserID       string `json:"userId" bson:"userId"`
	Username     string `json:"username" bson:"username"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password"`

	Level      int64 `json:"level" bson:"level"`
	Experience int64 `json:"experience" bson:"experience"`
	Gems       int64 `json:"gems" bson:"gems"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewUser builds a fresh account at level 0 with an empty balance.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		UserID:       GenerateUserID(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a copy so stores never hand out their internal pointers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

type UserProfile struct {
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Level      int64  `json:"level"`
	Experience int64  `json:"experience"`
	RequiredXP int64  `json:"requiredXp"`
	Gems       int64  `json:"gems"`
}
