package idp

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation. TokenService satisfies it through
// ValidatorFor.
type TokenValidator interface {
	ValidateToken(tokenString string) (*IdentityClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (*IdentityClaims, error)

// ValidateToken satisfies the TokenValidator interface.
func (f TokenValidatorFunc) ValidateToken(tokenString string) (*IdentityClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(tokenString)
}

// ValidatorFor returns a TokenValidator bound to expectedSubject, for
// authentication filters that already know which principal they expect.
func (ts *TokenService) ValidatorFor(expectedSubject string) TokenValidator {
	return TokenValidatorFunc(func(tokenString string) (*IdentityClaims, error) {
		return ts.Validate(tokenString, expectedSubject)
	})
}

// MultiTokenValidator tries validators in order until one succeeds. It
// treats a malformed token as "try next" and returns the last malformed
// error if all validators fail.
type MultiTokenValidator struct {
	validators []TokenValidator
}

// NewMultiTokenValidator filters nil validators and returns a composite validator.
func NewMultiTokenValidator(validators ...TokenValidator) *MultiTokenValidator {
	filtered := make([]TokenValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &MultiTokenValidator{validators: filtered}
}

// ValidateToken satisfies the TokenValidator interface.
func (m *MultiTokenValidator) ValidateToken(tokenString string) (*IdentityClaims, error) {
	var lastErr error
	for _, v := range m.validators {
		claims, err := v.ValidateToken(tokenString)
		if err == nil {
			return claims, nil
		}
		if HasTextCode(err, TextCodeTokenMalformed) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrTokenMalformed
}
