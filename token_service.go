package idp

import (
	"crypto/rsa"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService signs and verifies bearer tokens with an RSA key pair. The key
// material is read-only after construction; the service is safe for
// concurrent use.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     Logger
}

// NewTokenService parses the PEM-encoded key pair from cfg and validates the
// configured TTLs. The refresh TTL must be strictly greater than the access
// TTL. Key parse failures are fatal configuration errors.
func NewTokenService(cfg Config, logger Logger) (*TokenService, error) {
	if logger == nil {
		logger = defLogger{}
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.GetPrivateKeyPEM()))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to parse RSA private key")
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.GetPublicKeyPEM()))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to parse RSA public key")
	}

	accessTTL := cfg.GetAccessTokenTTL()
	refreshTTL := cfg.GetRefreshTokenTTL()

	if accessTTL <= 0 {
		return nil, goerrors.New("access token TTL must be positive", goerrors.CategoryBadInput)
	}
	if refreshTTL <= accessTTL {
		return nil, goerrors.New("refresh token TTL must be greater than access token TTL", goerrors.CategoryBadInput)
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     cfg.GetIssuer(),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}, nil
}

// Issue creates a signed token for principal with the given TTL. The subject
// is the username, roles ride on a dedicated claim, and every token gets a
// random id.
func (ts *TokenService) Issue(principal Principal, ttl time.Duration) (string, error) {
	if principal == nil {
		return "", goerrors.New("principal is required", goerrors.CategoryBadInput)
	}
	if ttl <= 0 {
		return "", goerrors.New("token TTL must be positive", goerrors.CategoryBadInput)
	}

	now := time.Now()
	claims := &IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   principal.Username(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: append([]string(nil), principal.Roles()...),
	}

	ensureTokenID(&claims.RegisteredClaims)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	signedString, err := token.SignedString(ts.privateKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// IssueAccessToken issues a token with the configured access TTL.
func (ts *TokenService) IssueAccessToken(principal Principal) (string, error) {
	return ts.Issue(principal, ts.accessTTL)
}

// IssueRefreshToken issues a token with the configured refresh TTL.
func (ts *TokenService) IssueRefreshToken(principal Principal) (string, error) {
	return ts.Issue(principal, ts.refreshTTL)
}

// Validate verifies the token signature and expiry and checks that its
// subject matches expectedSubject. Signature, expiry, malformed-token, and
// subject failures each surface as a distinguishable error.
func (ts *TokenService) Validate(tokenString, expectedSubject string) (*IdentityClaims, error) {
	claims, err := ts.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Subject != expectedSubject {
		return nil, ErrSubjectMismatch
	}

	return claims, nil
}

// ExtractUsername re-verifies the token and returns its subject. Claims are
// never read from an unverified token.
func (ts *TokenService) ExtractUsername(tokenString string) (string, error) {
	claims, err := ts.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractRoles re-verifies the token and returns its roles claim.
func (ts *TokenService) ExtractRoles(tokenString string) ([]string, error) {
	claims, err := ts.parse(tokenString)
	if err != nil {
		return nil, err
	}
	return claims.Roles, nil
}

// ExtractClaim re-verifies the token and applies extract to its claims.
func (ts *TokenService) ExtractClaim(tokenString string, extract func(*IdentityClaims) any) (any, error) {
	claims, err := ts.parse(tokenString)
	if err != nil {
		return nil, err
	}
	return extract(claims), nil
}

func (ts *TokenService) parse(tokenString string) (*IdentityClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			ts.logger.Error("TokenService encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, goerrors.New("unexpected signing method", goerrors.CategoryAuth)
		}
		return ts.publicKey, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case goerrors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case goerrors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService could not decode or validate claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
