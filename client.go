package idp

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ClientFinder is the lookup surface client registration needs to enforce
// client-id uniqueness. The full Clients repository satisfies it.
type ClientFinder interface {
	GetByClientID(ctx context.Context, clientID string, criteria ...repository.SelectCriteria) (*Client, error)
}

// ClientRegistration is the raw input for registering a client. Fields are
// validated inside RegisterClient in a fixed order so error precedence stays
// deterministic.
type ClientRegistration struct {
	ClientID       string         `json:"client_id"`
	Name           string         `json:"name"`
	GrantTypes     []string       `json:"grant_types"`
	AuthMethods    []string       `json:"auth_methods"`
	RedirectURIs   []string       `json:"redirect_uris"`
	PostLogoutURIs []string       `json:"post_logout_uris"`
	Scopes         []string       `json:"scopes"`
	TokenSettings  *TokenSettings `json:"token_settings"`
	ClientSettings ClientSettings `json:"client_settings"`
}

// ClientUpdate is the raw input for updating a client. Client id and secret
// are not part of an update and never change.
type ClientUpdate struct {
	Name           string         `json:"name"`
	GrantTypes     []string       `json:"grant_types"`
	AuthMethods    []string       `json:"auth_methods"`
	RedirectURIs   []string       `json:"redirect_uris"`
	PostLogoutURIs []string       `json:"post_logout_uris"`
	Scopes         []string       `json:"scopes"`
	TokenSettings  *TokenSettings `json:"token_settings"`
	ClientSettings ClientSettings `json:"client_settings"`
}

// RegisterClient validates reg field by field, confirms client-id uniqueness,
// generates a secret, and returns the creation event. Validation order: id
// format, uniqueness, name, grants, auth methods, redirect URIs, post-logout
// URIs, scopes. The first failure wins and no secret is generated for
// invalid input.
func RegisterClient(ctx context.Context, reg ClientRegistration, repo ClientFinder, hasher PasswordHasher) (*ClientCreatedEvent, error) {
	clientID, err := NewClientID(reg.ClientID)
	if err != nil {
		return nil, err
	}

	if _, err := repo.GetByClientID(ctx, clientID.String()); err == nil {
		return nil, goerrors.New("a client with this id already exists", goerrors.CategoryConflict).
			WithTextCode(TextCodeClientAlreadyExists)
	} else if !isRecordNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not check client id uniqueness")
	}

	fields, err := validateClientFields(reg.Name, reg.GrantTypes, reg.AuthMethods, reg.RedirectURIs, reg.PostLogoutURIs, reg.Scopes)
	if err != nil {
		return nil, err
	}

	settings, err := resolveTokenSettings(reg.TokenSettings)
	if err != nil {
		return nil, err
	}

	secret, err := GenerateClientSecret(hasher)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	client := &Client{
		ID:             uuid.New(),
		ClientID:       clientID.String(),
		Name:           fields.name.String(),
		SecretHash:     secret.Encoded(),
		GrantTypes:     fields.grants,
		AuthMethods:    fields.authMethods,
		RedirectURIs:   fields.redirectURIs,
		PostLogoutURIs: fields.postLogoutURIs,
		Scopes:         fields.scopes,
		TokenSettings:  settings,
		ClientSettings: reg.ClientSettings,
		IssuedAt:       &now,
		CreatedAt:      &now,
	}

	return &ClientCreatedEvent{Client: client, PlainSecret: secret.Plaintext()}, nil
}

// FindClient loads a registered client by its public id, for update, secret
// rotation, and deletion commands.
func FindClient(ctx context.Context, rawID string, repo ClientFinder) (*Client, error) {
	clientID, err := NewClientID(rawID)
	if err != nil {
		return nil, err
	}

	client, err := repo.GetByClientID(ctx, clientID.String())
	if err != nil {
		if isRecordNotFound(err) {
			return nil, goerrors.New("no client with this id exists", goerrors.CategoryNotFound).
				WithTextCode(TextCodeClientNotFound)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve client")
	}

	return client, nil
}

// Update applies upd in place after validating it in the registration order
// minus id and uniqueness. The client id and secret are immutable here.
func (c *Client) Update(upd ClientUpdate) (*ClientUpdatedEvent, error) {
	fields, err := validateClientFields(upd.Name, upd.GrantTypes, upd.AuthMethods, upd.RedirectURIs, upd.PostLogoutURIs, upd.Scopes)
	if err != nil {
		return nil, err
	}

	settings, err := resolveTokenSettings(upd.TokenSettings)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.Name = fields.name.String()
	c.GrantTypes = fields.grants
	c.AuthMethods = fields.authMethods
	c.RedirectURIs = fields.redirectURIs
	c.PostLogoutURIs = fields.postLogoutURIs
	c.Scopes = fields.scopes
	c.TokenSettings = settings
	c.ClientSettings = upd.ClientSettings
	c.UpdatedAt = &now

	return &ClientUpdatedEvent{Client: c}, nil
}

// RegenerateSecret replaces the client secret in place and returns the event
// carrying the new one-time plaintext. The previous secret is invalid as soon
// as the event is triggered. Only the random source can fail here.
func (c *Client) RegenerateSecret(hasher PasswordHasher) (*ClientSecretRegeneratedEvent, error) {
	secret, err := GenerateClientSecret(hasher)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.SecretHash = secret.Encoded()
	c.UpdatedAt = &now

	return &ClientSecretRegeneratedEvent{Client: c, PlainSecret: secret.Plaintext()}, nil
}

// Delete returns the deletion event. Existence checks are the caller's
// responsibility before invoking.
func (c *Client) Delete() *ClientDeletedEvent {
	return &ClientDeletedEvent{ID: c.ID, ClientID: c.ClientID}
}

type clientFields struct {
	name           ClientName
	grants         []GrantType
	authMethods    []AuthMethod
	redirectURIs   []RedirectURI
	postLogoutURIs []RedirectURI
	scopes         []Scope
}

func validateClientFields(name string, grants, authMethods, redirectURIs, postLogoutURIs, scopes []string) (clientFields, error) {
	var fields clientFields
	var err error

	if fields.name, err = NewClientName(name); err != nil {
		return clientFields{}, err
	}
	if fields.grants, err = NewGrantTypeSet(grants); err != nil {
		return clientFields{}, err
	}
	if fields.authMethods, err = NewAuthMethodSet(authMethods); err != nil {
		return clientFields{}, err
	}
	if fields.redirectURIs, err = NewRedirectURISet(redirectURIs); err != nil {
		return clientFields{}, err
	}
	if fields.postLogoutURIs, err = NewPostLogoutURISet(postLogoutURIs); err != nil {
		return clientFields{}, err
	}
	if fields.scopes, err = NewScopeSet(scopes); err != nil {
		return clientFields{}, err
	}

	return fields, nil
}

func resolveTokenSettings(settings *TokenSettings) (TokenSettings, error) {
	if settings == nil {
		return DefaultTokenSettings(), nil
	}
	return NewTokenSettings(
		settings.AccessTokenTTL,
		settings.RefreshTokenTTL,
		settings.AuthorizationCodeTTL,
		settings.ReuseRefreshTokens,
	)
}
