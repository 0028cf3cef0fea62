package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// ResetTokenBytes is the entropy of a password reset token
	ResetTokenBytes = 32
)

// GenerateToken generates a cryptographically secure random token of n
// bytes, hex encoded.
func GenerateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateResetToken generates a password reset token
func GenerateResetToken() (string, error) {
	return GenerateToken(ResetTokenBytes)
}
