package idp

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to callers alongside error categories. These are the
// stable identifiers clients can branch on; messages may change.
const (
	TextCodeValidationFailed     = "VALIDATION_FAILED"
	TextCodeDeletionFailed       = "DELETION_FAILED"
	TextCodeUserNotFound         = "USER_NOT_FOUND"
	TextCodeClientAlreadyExists  = "CLIENT_ALREADY_EXISTS"
	TextCodeClientNotFound       = "CLIENT_NOT_FOUND"
	TextCodeInvalidCreds         = "INVALID_CREDENTIALS"
	TextCodeResetTokenValidation = "RESET_PASSWORD_TOKEN_VALIDATION_FAILED"
	TextCodeNotAuthorized        = "NOT_AUTHORIZED"
	TextCodeTokenExpired         = "TOKEN_EXPIRED"
	TextCodeTokenMalformed       = "TOKEN_MALFORMED"
	TextCodeTokenSignature       = "TOKEN_SIGNATURE_INVALID"
	TextCodeSubjectMismatch      = "TOKEN_SUBJECT_MISMATCH"
)

// ErrMismatchedHashAndPassword is returned when a password does not verify
// against its stored hash.
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoEmptyString rejects empty secrets before they reach a hasher.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeValidationFailed)

// ErrResetTokenInvalid covers missing, expired, and already used reset tokens.
// A single code for all three keeps callers from enumerating accounts.
var ErrResetTokenInvalid = goerrors.New("invalid or expired password reset token", goerrors.CategoryValidation).
	WithTextCode(TextCodeResetTokenValidation)

// ErrTokenExpired is returned when a JWT is past its expiry claim.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned when a JWT cannot be parsed at all.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenSignatureInvalid is returned when a JWT parses but its signature
// does not verify against the configured public key.
var ErrTokenSignatureInvalid = goerrors.New("token signature is invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenSignature)

// ErrSubjectMismatch is returned when a valid token belongs to a different
// principal than the one the caller expected.
var ErrSubjectMismatch = goerrors.New("token subject does not match expected principal", goerrors.CategoryAuth).
	WithTextCode(TextCodeSubjectMismatch)

func newValidationError(msg string) *goerrors.Error {
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithTextCode(TextCodeValidationFailed)
}

func wrapValidationError(err error, msg string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, msg).
		WithTextCode(TextCodeValidationFailed)
}

func newAuthzError(msg string) *goerrors.Error {
	return goerrors.New(msg, goerrors.CategoryAuthz).
		WithTextCode(TextCodeNotAuthorized)
}

// IsValidationError reports whether err carries the validation category.
func IsValidationError(err error) bool {
	return hasCategory(err, goerrors.CategoryValidation)
}

// IsAuthorizationError reports whether err was raised by a capability check.
func IsAuthorizationError(err error) bool {
	return hasCategory(err, goerrors.CategoryAuthz)
}

// IsNotFoundError reports whether err represents a missing user or client.
func IsNotFoundError(err error) bool {
	return hasCategory(err, goerrors.CategoryNotFound)
}

// IsConflictError reports whether err represents a uniqueness conflict.
func IsConflictError(err error) bool {
	return hasCategory(err, goerrors.CategoryConflict)
}

// HasTextCode reports whether err carries the given stable text code.
func HasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

func hasCategory(err error, category goerrors.Category) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == category
}
