package models

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	MinPasswordLength = 6
	// bcrypt only looks at the first 72 bytes and refuses anything longer.
	MaxPasswordLength = 72
	MaxUsernameLength = 32
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type ProgressRequest struct {
	XPGained *int64 `json:"xpGained" binding:"required"`
}

type AmountRequest struct {
	Amount *int64 `json:"amount" binding:"required"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *RegisterRequest) Validate() error {
	if err := ValidateUsername(r.Username); err != nil {
		return err
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	return ValidatePassword(r.Password)
}

func (r *UpdateUserRequest) Normalize() {
	if r.Username != nil {
		v := strings.TrimSpace(*r.Username)
		r.Username = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
}

// Validate checks only the fields that are present. Empty strings are treated
// as absent, matching clients that send the whole form.
func (r *UpdateUserRequest) Validate() error {
	if r.Username != nil && *r.Username != "" {
		if err := ValidateUsername(*r.Username); err != nil {
			return err
		}
	}
	if r.Email != nil && *r.Email != "" {
		if err := ValidateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Password != nil && *r.Password != "" {
		if err := ValidatePassword(*r.Password); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpdateUserRequest) Empty() bool {
	return (r.Username == nil || *r.Username == "") &&
		(r.Email == nil || *r.Email == "") &&
		(r.Password == nil || *r.Password == "")
}

func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) > MaxUsernameLength {
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email: %s", email)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordLength)
	}
	return nil
}
