package idp_test

import (
	"testing"
	"time"

	idp "github.com/goliatone/go-idp"
	"github.com/stretchr/testify/assert"
)

func TestNewClientID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "Valid id", raw: "my-client"},
		{name: "Minimum length", raw: "abc"},
		{name: "Too short", raw: "ab", wantErr: true},
		{name: "Illegal characters", raw: "my client", wantErr: true},
		{name: "Empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := idp.NewClientID(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, idp.IsValidationError(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.raw, id.String())
		})
	}
}

func TestNewGrantTypeSet(t *testing.T) {
	t.Run("valid grants", func(t *testing.T) {
		grants, err := idp.NewGrantTypeSet([]string{"authorization_code", "refresh_token"})
		assert.NoError(t, err)
		assert.Equal(t, []idp.GrantType{idp.GrantAuthorizationCode, idp.GrantRefreshToken}, grants)
	})

	t.Run("empty set is invalid", func(t *testing.T) {
		_, err := idp.NewGrantTypeSet(nil)
		assert.Error(t, err)
		assert.True(t, idp.IsValidationError(err))
	})

	t.Run("short circuits on first invalid element", func(t *testing.T) {
		_, err := idp.NewGrantTypeSet([]string{"authorization_code", "implicit"})
		assert.Error(t, err)
		assert.True(t, idp.IsValidationError(err))
	})
}

func TestNewAuthMethodSet(t *testing.T) {
	t.Run("valid methods", func(t *testing.T) {
		methods, err := idp.NewAuthMethodSet([]string{"client_secret_basic", "none"})
		assert.NoError(t, err)
		assert.Len(t, methods, 2)
	})

	t.Run("empty set is invalid", func(t *testing.T) {
		_, err := idp.NewAuthMethodSet([]string{})
		assert.Error(t, err)
	})

	t.Run("unknown method is invalid", func(t *testing.T) {
		_, err := idp.NewAuthMethodSet([]string{"private_key_jwt"})
		assert.Error(t, err)
	})
}

func TestNewRedirectURI(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "Valid https uri", raw: "https://app.example.com/callback"},
		{name: "Custom scheme", raw: "myapp://callback"},
		{name: "Relative uri", raw: "/callback", wantErr: true},
		{name: "Missing scheme", raw: "app.example.com/callback", wantErr: true},
		{name: "Blank", raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := idp.NewRedirectURI(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, idp.IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRedirectURISets(t *testing.T) {
	t.Run("redirect uris are required", func(t *testing.T) {
		_, err := idp.NewRedirectURISet(nil)
		assert.Error(t, err)
	})

	t.Run("post logout uris are optional", func(t *testing.T) {
		uris, err := idp.NewPostLogoutURISet(nil)
		assert.NoError(t, err)
		assert.Empty(t, uris)
	})

	t.Run("post logout uris still validate elements", func(t *testing.T) {
		_, err := idp.NewPostLogoutURISet([]string{"not a uri", "https://ok.example.com"})
		assert.Error(t, err)
	})
}

func TestNewScopeSet(t *testing.T) {
	t.Run("valid scopes", func(t *testing.T) {
		scopes, err := idp.NewScopeSet([]string{"openid", "profile", "api:read", "files/write"})
		assert.NoError(t, err)
		assert.Len(t, scopes, 4)
	})

	t.Run("empty set is invalid", func(t *testing.T) {
		_, err := idp.NewScopeSet(nil)
		assert.Error(t, err)
	})

	t.Run("scope with spaces is invalid", func(t *testing.T) {
		_, err := idp.NewScopeSet([]string{"openid profile"})
		assert.Error(t, err)
	})
}

func TestNewTokenSettings(t *testing.T) {
	t.Run("valid settings", func(t *testing.T) {
		settings, err := idp.NewTokenSettings(5*time.Minute, time.Hour, 5*time.Minute, true)
		assert.NoError(t, err)
		assert.True(t, settings.ReuseRefreshTokens)
	})

	t.Run("non positive ttl is invalid", func(t *testing.T) {
		_, err := idp.NewTokenSettings(0, time.Hour, 5*time.Minute, false)
		assert.Error(t, err)
		assert.True(t, idp.IsValidationError(err))
	})
}
