package idp

import (
	"unicode/utf8"

	goerrors "github.com/goliatone/go-errors"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 128
)

// Password holds only the encoded form of a user password. The raw value is
// validated and hashed at construction and never retained. Password is not
// serializable: marshalling yields a redacted placeholder.
type Password struct {
	encoded string
}

// NewPassword validates the raw password length in characters and delegates
// hashing to the given strategy. The hasher is never invoked for out-of-range
// input.
func NewPassword(raw string, hasher PasswordHasher) (Password, error) {
	if n := utf8.RuneCountInString(raw); n < passwordMinLength || n > passwordMaxLength {
		return Password{}, newValidationError("password must be between 8 and 128 characters")
	}

	encoded, err := hasher.Hash(raw)
	if err != nil {
		return Password{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	return Password{encoded: encoded}, nil
}

// PasswordFromHash wraps an already-encoded value loaded from storage.
func PasswordFromHash(encoded string) Password {
	return Password{encoded: encoded}
}

// Encoded returns the stored hash.
func (p Password) Encoded() string { return p.encoded }

// String keeps encoded material out of logs and format strings.
func (p Password) String() string { return "[REDACTED]" }

// MarshalJSON keeps encoded material out of serialized payloads.
func (p Password) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}
