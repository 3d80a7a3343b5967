package idp

import (
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	scopePattern    = regexp.MustCompile(`^[A-Za-z0-9_:./-]+$`)
)

// ClientID is the public identifier a relying party presents to the
// authorization server. Global uniqueness is enforced at the storage layer.
type ClientID string

// NewClientID validates raw and returns a ClientID.
func NewClientID(raw string) (ClientID, error) {
	trimmed := strings.TrimSpace(raw)
	err := validation.Validate(trimmed,
		validation.Required,
		validation.Length(3, 100),
		validation.Match(clientIDPattern).Error("must contain only letters, digits, underscore, or dash"),
	)
	if err != nil {
		return "", wrapValidationError(err, "invalid client id")
	}
	return ClientID(trimmed), nil
}

func (c ClientID) String() string { return string(c) }

// ClientName is the human readable client label shown on consent screens.
type ClientName string

// NewClientName validates raw and returns a ClientName.
func NewClientName(raw string) (ClientName, error) {
	trimmed := strings.TrimSpace(raw)
	err := validation.Validate(trimmed,
		validation.Required,
		validation.Length(1, 200),
	)
	if err != nil {
		return "", wrapValidationError(err, "invalid client name")
	}
	return ClientName(trimmed), nil
}

func (c ClientName) String() string { return string(c) }

// GrantType is an OAuth2 grant the external authorization server supports.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantRefreshToken      GrantType = "refresh_token"
	GrantClientCredentials GrantType = "client_credentials"
)

// NewGrantType validates raw against the supported grant types.
func NewGrantType(raw string) (GrantType, error) {
	trimmed := strings.TrimSpace(raw)
	err := validation.Validate(trimmed,
		validation.Required,
		validation.In(
			string(GrantAuthorizationCode),
			string(GrantRefreshToken),
			string(GrantClientCredentials),
		).Error("unsupported grant type"),
	)
	if err != nil {
		return "", wrapValidationError(err, "invalid grant type")
	}
	return GrantType(trimmed), nil
}

// NewGrantTypeSet validates every element and rejects an empty input; a
// client without grants cannot take part in any flow.
func NewGrantTypeSet(raws []string) ([]GrantType, error) {
	if len(raws) == 0 {
		return nil, newValidationError("at least one grant type is required")
	}
	out := make([]GrantType, 0, len(raws))
	for _, raw := range raws {
		grant, err := NewGrantType(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, grant)
	}
	return out, nil
}

// AuthMethod is a client authentication method at the token endpoint.
type AuthMethod string

const (
	AuthMethodSecretBasic AuthMethod = "client_secret_basic"
	AuthMethodSecretPost  AuthMethod = "client_secret_post"
	AuthMethodNone        AuthMethod = "none"
)

// NewAuthMethod validates raw against the supported authentication methods.
func NewAuthMethod(raw string) (AuthMethod, error) {
	trimmed := strings.TrimSpace(raw)
	err := validation.Validate(trimmed,
		validation.Required,
		validation.In(
			string(AuthMethodSecretBasic),
			string(AuthMethodSecretPost),
			string(AuthMethodNone),
		).Error("unsupported client authentication method"),
	)
	if err != nil {
		return "", wrapValidationError(err, "invalid client authentication method")
	}
	return AuthMethod(trimmed), nil
}

// NewAuthMethodSet validates every element and rejects an empty input.
func NewAuthMethodSet(raws []string) ([]AuthMethod, error) {
	if len(raws) == 0 {
		return nil, newValidationError("at least one client authentication method is required")
	}
	out := make([]AuthMethod, 0, len(raws))
	for _, raw := range raws {
		method, err := NewAuthMethod(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, method)
	}
	return out, nil
}

// RedirectURI is an absolute URI a client may receive callbacks on.
type RedirectURI string

// NewRedirectURI validates raw as an absolute URI with a scheme.
func NewRedirectURI(raw string) (RedirectURI, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", newValidationError("redirect uri must not be blank")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || !parsed.IsAbs() || parsed.Scheme == "" {
		return "", newValidationError("redirect uri must be an absolute uri with a scheme")
	}
	return RedirectURI(trimmed), nil
}

func (r RedirectURI) String() string { return string(r) }

// NewRedirectURISet validates every element; redirect URIs are required so an
// empty input is rejected.
func NewRedirectURISet(raws []string) ([]RedirectURI, error) {
	if len(raws) == 0 {
		return nil, newValidationError("at least one redirect uri is required")
	}
	return redirectURIs(raws)
}

// NewPostLogoutURISet validates every element; post-logout URIs are optional
// so an empty input is valid.
func NewPostLogoutURISet(raws []string) ([]RedirectURI, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	return redirectURIs(raws)
}

func redirectURIs(raws []string) ([]RedirectURI, error) {
	out := make([]RedirectURI, 0, len(raws))
	for _, raw := range raws {
		uri, err := NewRedirectURI(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, uri)
	}
	return out, nil
}

// Scope is an access scope a client may request.
type Scope string

// NewScope validates raw and returns a Scope.
func NewScope(raw string) (Scope, error) {
	trimmed := strings.TrimSpace(raw)
	err := validation.Validate(trimmed,
		validation.Required,
		validation.Match(scopePattern).Error("must contain only letters, digits, or _:./- characters"),
	)
	if err != nil {
		return "", wrapValidationError(err, "invalid scope")
	}
	return Scope(trimmed), nil
}

func (s Scope) String() string { return string(s) }

// NewScopeSet validates every element and rejects an empty input; a client
// must be able to request at least one scope.
func NewScopeSet(raws []string) ([]Scope, error) {
	if len(raws) == 0 {
		return nil, newValidationError("at least one scope is required")
	}
	out := make([]Scope, 0, len(raws))
	for _, raw := range raws {
		scope, err := NewScope(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, scope)
	}
	return out, nil
}
