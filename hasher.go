package idp

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// PasswordHasher is a one-way hashing strategy identified by an algorithm id.
// Implementations must be safe for concurrent use.
type PasswordHasher interface {
	ID() string
	Hash(plain string) (string, error)
	Verify(plain, hash string) error
}

// DelegatingHasher multiplexes between registered algorithms. Encodings are
// stored as "{alg}hash" so each stored value self-describes its algorithm and
// stays verifiable after the current encoder changes.
type DelegatingHasher struct {
	current string
	hashers map[string]PasswordHasher
}

// NewDelegatingHasher registers hashers and marks currentID as the encoder
// used for new hashes. currentID must match one of the registered hashers.
func NewDelegatingHasher(currentID string, hashers ...PasswordHasher) (*DelegatingHasher, error) {
	if len(hashers) == 0 {
		return nil, goerrors.New("at least one password hasher is required", goerrors.CategoryBadInput)
	}

	registry := make(map[string]PasswordHasher, len(hashers))
	for _, h := range hashers {
		if h == nil || h.ID() == "" {
			return nil, goerrors.New("password hasher must have a non-empty id", goerrors.CategoryBadInput)
		}
		registry[h.ID()] = h
	}

	if _, ok := registry[currentID]; !ok {
		return nil, goerrors.New(
			fmt.Sprintf("current hasher %q is not registered", currentID),
			goerrors.CategoryBadInput,
		)
	}

	return &DelegatingHasher{current: currentID, hashers: registry}, nil
}

// ID returns the id of the current encoder.
func (d *DelegatingHasher) ID() string { return d.current }

// Hash encodes plain with the current encoder, prefixed with its algorithm id.
func (d *DelegatingHasher) Hash(plain string) (string, error) {
	hasher := d.hashers[d.current]
	encoded, err := hasher.Hash(plain)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("{%s}%s", hasher.ID(), encoded), nil
}

// Verify routes hash to the hasher named by its prefix. Encodings without a
// recognized prefix fail verification rather than guessing an algorithm.
func (d *DelegatingHasher) Verify(plain, hash string) error {
	id, encoded, ok := splitAlgorithmPrefix(hash)
	if !ok {
		return ErrMismatchedHashAndPassword
	}

	hasher, registered := d.hashers[id]
	if !registered {
		return ErrMismatchedHashAndPassword
	}

	return hasher.Verify(plain, encoded)
}

// NeedsRehash reports whether hash was produced by anything other than the
// current encoder, signalling a migration opportunity on next login.
func (d *DelegatingHasher) NeedsRehash(hash string) bool {
	id, _, ok := splitAlgorithmPrefix(hash)
	if !ok {
		return true
	}
	return id != d.current
}

func splitAlgorithmPrefix(hash string) (id, encoded string, ok bool) {
	if !strings.HasPrefix(hash, "{") {
		return "", "", false
	}
	end := strings.Index(hash, "}")
	if end < 1 {
		return "", "", false
	}
	return hash[1:end], hash[end+1:], true
}
