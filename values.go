package idp

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Username identifies an account holder. It is trimmed on construction and
// only ever holds a validated value.
type Username string

// NewUsername validates raw and returns a Username, or a validation error.
func NewUsername(raw string) (Username, error) {
	trimmed := strings.TrimSpace(raw)
	err := validation.Validate(trimmed,
		validation.Required,
		validation.Length(3, 50),
		validation.Match(usernamePattern).Error("must contain only letters, digits, underscore, or dash"),
	)
	if err != nil {
		return "", wrapValidationError(err, "invalid username")
	}
	return Username(trimmed), nil
}

func (u Username) String() string { return string(u) }

// Email is a normalized (lower-cased, trimmed) account email.
type Email string

// NewEmail validates raw and returns a normalized Email.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	err := validation.Validate(normalized,
		validation.Required,
		validation.Length(1, 255),
		is.Email,
	)
	if err != nil {
		return "", wrapValidationError(err, "invalid email")
	}
	return Email(normalized), nil
}

func (e Email) String() string { return string(e) }
