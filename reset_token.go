package idp

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ResetTokenTTL is how long a reset token stays valid after issuance.
const ResetTokenTTL = 15 * time.Minute

// ResetPasswordToken is a single-use, short-lived credential for completing a
// password reset. The raw value travels to the user exactly once (through the
// event that starts the process); only its hash is ever persisted.
type ResetPasswordToken struct {
	raw       string
	createdAt time.Time
	expiresAt time.Time
}

// NewResetPasswordToken draws a 128-bit random value and stamps its expiry.
func NewResetPasswordToken() ResetPasswordToken {
	now := time.Now()
	return ResetPasswordToken{
		raw:       uuid.NewString(),
		createdAt: now,
		expiresAt: now.Add(ResetTokenTTL),
	}
}

// Raw returns the plaintext token for one-time delivery to the user.
func (t ResetPasswordToken) Raw() string { return t.raw }

// CreatedAt returns the issuance time.
func (t ResetPasswordToken) CreatedAt() time.Time { return t.createdAt }

// ExpiresAt returns the expiry time.
func (t ResetPasswordToken) ExpiresAt() time.Time { return t.expiresAt }

// Hash returns the hex-encoded SHA-256 of the raw value, the only form that
// may be persisted.
func (t ResetPasswordToken) Hash() string {
	return HashResetToken(t.raw)
}

// IsExpired reports whether the token is past its expiry.
func (t ResetPasswordToken) IsExpired() bool {
	return time.Now().After(t.expiresAt)
}

// HashResetToken computes the storable hash for a raw reset token.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// VerifyResetToken recomputes the hash of raw and compares it to storedHash
// in constant time, so mismatches cannot be distinguished by timing.
func VerifyResetToken(raw, storedHash string) bool {
	computed := HashResetToken(raw)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
