package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/travel-planner/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least 6 characters long", domain.ErrValidation)
	ErrEmailExists        = errors.New("email already registered")
)

// Password length bounds. bcrypt rejects input past 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// HashPassword checks the minimum length and returns the bcrypt hash.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	if len(password) > MaxPasswordLength {
		return "", fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, MaxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth.HashPassword: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports ErrInvalidCredentials when password does not match hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
