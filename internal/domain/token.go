package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// PasswordResetToken is single-use and expires one hour after issuance.
// At most one active token exists per user; issuing a new one removes
// the previous ones.
type PasswordResetToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

const resetTokenBytes = 32

// NewResetToken returns a hex-encoded token with 32 bytes of entropy.
func NewResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
