package idp

import (
	"crypto/rand"
	"encoding/base64"

	goerrors "github.com/goliatone/go-errors"
)

const clientSecretBytes = 32

// ClientSecret pairs the stored hash of a client secret with its plaintext.
// The plaintext is only present on the value returned by GenerateClientSecret
// and must be handed to the caller exactly once; it is never persisted.
type ClientSecret struct {
	encoded   string
	plaintext string
}

// GenerateClientSecret draws 32 cryptographically random bytes, encodes them
// as URL-safe base64 for the plaintext, and hashes the plaintext for storage.
func GenerateClientSecret(hasher PasswordHasher) (ClientSecret, error) {
	buf := make([]byte, clientSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return ClientSecret{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read random bytes for client secret")
	}

	plaintext := base64.RawURLEncoding.EncodeToString(buf)

	encoded, err := hasher.Hash(plaintext)
	if err != nil {
		return ClientSecret{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash client secret")
	}

	return ClientSecret{encoded: encoded, plaintext: plaintext}, nil
}

// ClientSecretFromHash wraps a stored hash loaded from storage; no plaintext
// is available on such values.
func ClientSecretFromHash(encoded string) ClientSecret {
	return ClientSecret{encoded: encoded}
}

// Encoded returns the stored hash.
func (s ClientSecret) Encoded() string { return s.encoded }

// Plaintext returns the one-time plaintext. It is empty for secrets loaded
// from storage.
func (s ClientSecret) Plaintext() string { return s.plaintext }

// String keeps secret material out of logs and format strings.
func (s ClientSecret) String() string { return "[REDACTED]" }

// MarshalJSON keeps secret material out of serialized payloads.
func (s ClientSecret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}
