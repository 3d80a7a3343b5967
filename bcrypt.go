package idp

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HasherBcrypt is the algorithm id bcrypt encodings are stored under.
const HasherBcrypt = "bcrypt"

// BcryptHasher hashes passwords with bcrypt. The zero value uses the default
// cost; use NewBcryptHasher to raise it.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher with the given cost. Out-of-range
// costs fall back to the bcrypt default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// ID satisfies PasswordHasher.
func (b *BcryptHasher) ID() string { return HasherBcrypt }

// Hash satisfies PasswordHasher. The plaintext is digested before bcrypt sees
// it, so inputs longer than bcrypt's 72-byte limit still encode.
func (b *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrNoEmptyString
	}

	cost := b.cost
	if cost == 0 {
		cost = passwordHashCost()
	}

	h, err := bcrypt.GenerateFromPassword(digestPassword(plain), cost)
	return string(h), err
}

// Verify satisfies PasswordHasher. bcrypt's comparison is constant time over
// the derived key. Hashes minted before pre-digesting were fed the raw
// plaintext; those still verify through the fallback comparison.
func (b *BcryptHasher) Verify(plain, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), digestPassword(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) && len(plain) <= 72 {
		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	}
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// digestPassword folds a plaintext of any length into a fixed 43-byte input,
// below bcrypt's 72-byte cap. Base64 keeps NUL bytes out of the digest.
func digestPassword(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	out := make([]byte, base64.RawStdEncoding.EncodedLen(len(sum)))
	base64.RawStdEncoding.Encode(out, sum[:])
	return out
}

// RandomPasswordHash produces a hash of a throwaway random password, used to
// bootstrap admin-created accounts that must complete a reset before login.
func RandomPasswordHash(hasher PasswordHasher) (string, error) {
	return hasher.Hash(uuid.NewString())
}
