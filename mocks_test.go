package idp_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
	"testing"
	"time"

	idp "github.com/goliatone/go-idp"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserFinder implements idp.UserFinder for testing
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*idp.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*idp.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClientFinder implements idp.ClientFinder for testing
type MockClientFinder struct {
	mock.Mock
}

func (m *MockClientFinder) GetByClientID(ctx context.Context, clientID string, criteria ...repository.SelectCriteria) (*idp.Client, error) {
	args := m.Called(ctx, clientID)
	if client, ok := args.Get(0).(*idp.Client); ok {
		return client, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockResetTokenFinder implements idp.ResetTokenFinder for testing
type MockResetTokenFinder struct {
	mock.Mock
}

func (m *MockResetTokenFinder) GetByTokenHash(ctx context.Context, hash string, criteria ...repository.SelectCriteria) (*idp.PasswordReset, error) {
	args := m.Called(ctx, hash)
	if reset, ok := args.Get(0).(*idp.PasswordReset); ok {
		return reset, args.Error(1)
	}
	return nil, args.Error(1)
}

// countingHasher records how often Hash is invoked so tests can assert that
// invalid input never reaches the hashing strategy.
type countingHasher struct {
	mu        sync.Mutex
	hashCalls int
	inner     idp.PasswordHasher
}

func newCountingHasher() *countingHasher {
	return &countingHasher{inner: idp.NewBcryptHasher(4)}
}

func (c *countingHasher) ID() string { return c.inner.ID() }

func (c *countingHasher) Hash(plain string) (string, error) {
	c.mu.Lock()
	c.hashCalls++
	c.mu.Unlock()
	return c.inner.Hash(plain)
}

func (c *countingHasher) Verify(plain, hash string) error {
	return c.inner.Verify(plain, hash)
}

func (c *countingHasher) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hashCalls
}

// capturingSink collects published events in order.
type capturingSink struct {
	mu     sync.Mutex
	events []idp.Event
}

func (c *capturingSink) Record(ctx context.Context, event idp.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturingSink) all() []idp.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]idp.Event(nil), c.events...)
}

// TestPrincipal is a minimal idp.Principal implementation.
type TestPrincipal struct {
	username string
	roles    []string
}

func (p TestPrincipal) Username() string { return p.username }
func (p TestPrincipal) Roles() []string  { return p.roles }

func testHasher(t *testing.T) *idp.DelegatingHasher {
	t.Helper()
	hasher, err := idp.NewDelegatingHasher(idp.HasherBcrypt, idp.NewBcryptHasher(4))
	require.NoError(t, err)
	return hasher
}

func testKeyPairPEM(t *testing.T) (privatePEM, publicPEM string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privateDER := x509.MarshalPKCS1PrivateKey(key)
	privatePEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: privateDER,
	}))

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	}))

	return privatePEM, publicPEM
}

func testTokenConfig(t *testing.T) idp.TokenConfig {
	t.Helper()
	privatePEM, publicPEM := testKeyPairPEM(t)
	return idp.TokenConfig{
		PrivateKeyPEM:   privatePEM,
		PublicKeyPEM:    publicPEM,
		Issuer:          "test-issuer",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}
