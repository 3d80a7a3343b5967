package idp_test

import (
	"context"
	"testing"
	"time"

	idp "github.com/goliatone/go-idp"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() idp.ClientRegistration {
	return idp.ClientRegistration{
		ClientID:       "web-portal",
		Name:           "Web Portal",
		GrantTypes:     []string{"authorization_code", "refresh_token"},
		AuthMethods:    []string{"client_secret_basic"},
		RedirectURIs:   []string{"https://portal.example.com/callback"},
		Scopes:         []string{"openid", "profile"},
		ClientSettings: idp.NewClientSettings(true, false),
	}
}

func TestRegisterClient(t *testing.T) {
	ctx := context.Background()
	hasher := testHasher(t)

	t.Run("valid registration issues a secret", func(t *testing.T) {
		repo := new(MockClientFinder)
		repo.On("GetByClientID", ctx, "web-portal").
			Return(nil, repository.NewRecordNotFound()).Once()

		event, err := idp.RegisterClient(ctx, validRegistration(), repo, hasher)
		require.NoError(t, err)
		require.NotNil(t, event)

		assert.Equal(t, "client.created", event.Type())
		assert.Equal(t, "web-portal", event.Client.ClientID)
		assert.Equal(t, "Web Portal", event.Client.Name)
		assert.NotEmpty(t, event.PlainSecret)
		assert.NoError(t, hasher.Verify(event.PlainSecret, event.Client.SecretHash))
		assert.Equal(t, idp.NewClientSettings(true, false), event.Client.ClientSettings)
		repo.AssertExpectations(t)
	})

	t.Run("missing token settings fall back to defaults", func(t *testing.T) {
		repo := new(MockClientFinder)
		repo.On("GetByClientID", ctx, "web-portal").
			Return(nil, repository.NewRecordNotFound()).Once()

		event, err := idp.RegisterClient(ctx, validRegistration(), repo, hasher)
		require.NoError(t, err)
		assert.Equal(t, idp.DefaultTokenSettings(), event.Client.TokenSettings)
	})

	t.Run("explicit token settings are validated and kept", func(t *testing.T) {
		repo := new(MockClientFinder)
		repo.On("GetByClientID", ctx, "web-portal").
			Return(nil, repository.NewRecordNotFound()).Once()

		reg := validRegistration()
		reg.TokenSettings = &idp.TokenSettings{
			AccessTokenTTL:       10 * time.Minute,
			RefreshTokenTTL:      2 * time.Hour,
			AuthorizationCodeTTL: time.Minute,
			ReuseRefreshTokens:   false,
		}

		event, err := idp.RegisterClient(ctx, reg, repo, hasher)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, event.Client.TokenSettings.AccessTokenTTL)
		assert.False(t, event.Client.TokenSettings.ReuseRefreshTokens)
	})

	t.Run("malformed client id fails before the uniqueness check", func(t *testing.T) {
		repo := new(MockClientFinder)

		reg := validRegistration()
		reg.ClientID = "ab"

		event, err := idp.RegisterClient(ctx, reg, repo, hasher)
		assert.Nil(t, event)
		assert.True(t, idp.IsValidationError(err))
		repo.AssertNotCalled(t, "GetByClientID")
	})

	t.Run("duplicate client id fails with a conflict", func(t *testing.T) {
		existing := &idp.Client{ClientID: "web-portal"}

		repo := new(MockClientFinder)
		repo.On("GetByClientID", ctx, "web-portal").Return(existing, nil).Once()

		event, err := idp.RegisterClient(ctx, validRegistration(), repo, hasher)
		assert.Nil(t, event)
		assert.True(t, idp.IsConflictError(err))
		assert.True(t, idp.HasTextCode(err, idp.TextCodeClientAlreadyExists))
	})

	t.Run("invalid fields fail after uniqueness but before the secret", func(t *testing.T) {
		repo := new(MockClientFinder)
		repo.On("GetByClientID", ctx, "web-portal").
			Return(nil, repository.NewRecordNotFound())

		tests := []struct {
			name   string
			mutate func(*idp.ClientRegistration)
		}{
			{"empty name", func(r *idp.ClientRegistration) { r.Name = "" }},
			{"unknown grant", func(r *idp.ClientRegistration) { r.GrantTypes = []string{"implicit"} }},
			{"empty grants", func(r *idp.ClientRegistration) { r.GrantTypes = nil }},
			{"unknown auth method", func(r *idp.ClientRegistration) { r.AuthMethods = []string{"mtls"} }},
			{"relative redirect", func(r *idp.ClientRegistration) { r.RedirectURIs = []string{"/callback"} }},
			{"empty redirects", func(r *idp.ClientRegistration) { r.RedirectURIs = nil }},
			{"malformed scope", func(r *idp.ClientRegistration) { r.Scopes = []string{"bad scope"} }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				reg := validRegistration()
				tt.mutate(&reg)

				event, err := idp.RegisterClient(ctx, reg, repo, hasher)
				assert.Nil(t, event)
				assert.True(t, idp.IsValidationError(err), "expected validation error, got %v", err)
			})
		}
	})

	t.Run("empty post-logout set is allowed", func(t *testing.T) {
		repo := new(MockClientFinder)
		repo.On("GetByClientID", ctx, "web-portal").
			Return(nil, repository.NewRecordNotFound()).Once()

		reg := validRegistration()
		reg.PostLogoutURIs = nil

		event, err := idp.RegisterClient(ctx, reg, repo, hasher)
		require.NoError(t, err)
		assert.Empty(t, event.Client.PostLogoutURIs)
	})
}

func TestClientUpdate(t *testing.T) {
	ctx := context.Background()
	hasher := testHasher(t)

	registered := func(t *testing.T) *idp.Client {
		t.Helper()
		repo := new(MockClientFinder)
		repo.On("GetByClientID", ctx, "web-portal").
			Return(nil, repository.NewRecordNotFound()).Once()
		event, err := idp.RegisterClient(ctx, validRegistration(), repo, hasher)
		require.NoError(t, err)
		return event.Client
	}

	t.Run("update preserves id, client id and secret", func(t *testing.T) {
		client := registered(t)
		originalID := client.ID
		originalSecret := client.SecretHash

		event, err := client.Update(idp.ClientUpdate{
			Name:         "Portal v2",
			GrantTypes:   []string{"client_credentials"},
			AuthMethods:  []string{"client_secret_post"},
			RedirectURIs: []string{"https://v2.example.com/cb"},
			Scopes:       []string{"openid"},
		})
		require.NoError(t, err)

		assert.Equal(t, "client.updated", event.Type())
		assert.Equal(t, originalID, client.ID)
		assert.Equal(t, "web-portal", client.ClientID)
		assert.Equal(t, originalSecret, client.SecretHash)
		assert.Equal(t, "Portal v2", client.Name)
		assert.Equal(t, []idp.GrantType{idp.GrantClientCredentials}, client.GrantTypes)
	})

	t.Run("invalid update leaves the client untouched", func(t *testing.T) {
		client := registered(t)
		originalName := client.Name

		event, err := client.Update(idp.ClientUpdate{
			Name:         "Broken",
			GrantTypes:   []string{"password"},
			AuthMethods:  []string{"client_secret_basic"},
			RedirectURIs: []string{"https://example.com/cb"},
			Scopes:       []string{"openid"},
		})
		assert.Nil(t, event)
		assert.True(t, idp.IsValidationError(err))
		assert.Equal(t, originalName, client.Name)
	})
}

func TestRegenerateSecret(t *testing.T) {
	ctx := context.Background()
	hasher := testHasher(t)

	repo := new(MockClientFinder)
	repo.On("GetByClientID", ctx, "web-portal").
		Return(nil, repository.NewRecordNotFound()).Once()

	event, err := idp.RegisterClient(ctx, validRegistration(), repo, hasher)
	require.NoError(t, err)
	client := event.Client
	oldHash := client.SecretHash
	oldPlain := event.PlainSecret

	regen, err := client.RegenerateSecret(hasher)
	require.NoError(t, err)

	assert.Equal(t, "client.secret_regenerated", regen.Type())
	assert.NotEqual(t, oldHash, client.SecretHash)
	assert.NotEqual(t, oldPlain, regen.PlainSecret)
	assert.NoError(t, hasher.Verify(regen.PlainSecret, client.SecretHash))
	assert.Error(t, hasher.Verify(oldPlain, client.SecretHash))
}

func TestFindClient(t *testing.T) {
	ctx := context.Background()

	t.Run("existing client is returned", func(t *testing.T) {
		existing := &idp.Client{ClientID: "web-portal"}

		repo := new(MockClientFinder)
		repo.On("GetByClientID", ctx, "web-portal").Return(existing, nil).Once()

		client, err := idp.FindClient(ctx, "web-portal", repo)
		require.NoError(t, err)
		assert.Equal(t, existing, client)
	})

	t.Run("missing client fails with the not-found code", func(t *testing.T) {
		repo := new(MockClientFinder)
		repo.On("GetByClientID", ctx, "ghost-portal").
			Return(nil, repository.NewRecordNotFound()).Once()

		client, err := idp.FindClient(ctx, "ghost-portal", repo)
		assert.Nil(t, client)
		assert.True(t, idp.IsNotFoundError(err))
		assert.True(t, idp.HasTextCode(err, idp.TextCodeClientNotFound))
	})

	t.Run("malformed id fails before the lookup", func(t *testing.T) {
		repo := new(MockClientFinder)

		_, err := idp.FindClient(ctx, "ab", repo)
		assert.True(t, idp.IsValidationError(err))
		repo.AssertNotCalled(t, "GetByClientID")
	})
}

func TestClientDelete(t *testing.T) {
	client := &idp.Client{ClientID: "web-portal"}
	event := client.Delete()

	assert.Equal(t, "client.deleted", event.Type())
	assert.Equal(t, "web-portal", event.ClientID)
}
