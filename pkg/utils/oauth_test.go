package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jakechorley/event-planner/internal/config"
)

func TestMissingScopes(t *testing.T) {
	assert.Empty(t, MissingScopes(ScopeGmailSend+" openid "+ScopeSheets))
	assert.Equal(t, []string{ScopeGmailSend}, MissingScopes(ScopeSheets))
	assert.Equal(t, RequiredScopes(), MissingScopes(""))
}

func TestTokenFile_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	token, err := LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, token)

	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, SaveTokenToFile("test", &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: expiry}))

	token, err = LoadTokenFromFile("test")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "r", token.RefreshToken)
	assert.True(t, token.Expiry.Equal(expiry))

	require.NoError(t, DeleteTokenFile("test"))
	require.NoError(t, DeleteTokenFile("test"))
	token, err = LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestGetOAuthConfig_UsesLocalRedirect(t *testing.T) {
	cfg := &config.OAuthClientConfig{Installed: &config.OAuthClient{
		ClientID:     "id.apps.googleusercontent.com",
		AuthURI:      "https://accounts.google.com/o/oauth2/auth",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientSecret: "secret",
		RedirectURIs: []string{"http://localhost"},
	}}

	oauthConfig, err := GetOAuthConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/oauth/callback", oauthConfig.RedirectURL)
	assert.ElementsMatch(t, RequiredScopes(), oauthConfig.Scopes)
}
