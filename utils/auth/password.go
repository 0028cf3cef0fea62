package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooWeak  = errors.New("password must be at least 6 characters and contain a digit")
	ErrPasswordMismatch = errors.New("password does not match")
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
	// MinPasswordLength is the minimum password length
	MinPasswordLength = 6
)

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	if !IsPasswordValid(password) {
		return "", ErrPasswordTooWeak
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// VerifyPassword checks if the provided password matches the hash.
// An empty hash never matches; externally-authenticated accounts have
// no password and cannot log in with one.
func VerifyPassword(hashedPassword, password string) error {
	if hashedPassword == "" {
		return ErrPasswordMismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}

// IsPasswordValid checks the minimum requirements: at least 6 characters
// with at least one digit.
func IsPasswordValid(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	return strings.ContainsAny(password, "0123456789")
}
