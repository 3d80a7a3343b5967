package idp

import "time"

// TokenConfig is a plain-struct Config implementation for callers that load
// options from flags or environment by hand.
type TokenConfig struct {
	PrivateKeyPEM   string
	PublicKeyPEM    string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

var _ Config = (*TokenConfig)(nil)

func (c TokenConfig) GetPrivateKeyPEM() string {
	return c.PrivateKeyPEM
}

func (c TokenConfig) GetPublicKeyPEM() string {
	return c.PublicKeyPEM
}

func (c TokenConfig) GetIssuer() string {
	return c.Issuer
}

func (c TokenConfig) GetAccessTokenTTL() time.Duration {
	return c.AccessTokenTTL
}

func (c TokenConfig) GetRefreshTokenTTL() time.Duration {
	return c.RefreshTokenTTL
}
