package provider_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devhire/authkit/flowstore"
	"github.com/devhire/authkit/provider"
)

func TestGitHubBinding(t *testing.T) {
	p := provider.GitHub("gh-client", "http://localhost:3000")

	require.Equal(t, "github", p.Name)
	require.Equal(t, provider.UserTypeDeveloper, p.UserType)
	require.Equal(t, flowstore.GitHubStateKey, p.StateKey)
	require.Equal(t, "/api/auth/github/callback", p.CallbackPath)
	require.Equal(t, "http://localhost:3000/auth/github/callback", p.RedirectURL())
}

func TestGoogleBinding(t *testing.T) {
	p := provider.Google("goog-client", "http://localhost:3000/")

	require.Equal(t, "google", p.Name)
	require.Equal(t, provider.UserTypeRecruiter, p.UserType)
	require.Equal(t, flowstore.GoogleStateKey, p.StateKey)
	require.Equal(t, "/api/auth/google/callback", p.CallbackPath)
	// trailing slash on the origin must not double up
	require.Equal(t, "http://localhost:3000/auth/google/callback", p.RedirectURL())
}

func TestAuthCodeURLCarriesFlowParameters(t *testing.T) {
	p := provider.GitHub("gh-client", "https://app.example.com")

	raw := p.AuthCodeURL("state-123")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	require.Equal(t, "github.com", parsed.Host)
	query := parsed.Query()
	require.Equal(t, "gh-client", query.Get("client_id"))
	require.Equal(t, "state-123", query.Get("state"))
	require.Equal(t, "code", query.Get("response_type"))
	require.Equal(t, "https://app.example.com/auth/github/callback", query.Get("redirect_uri"))
	require.Equal(t, "read:user user:email", query.Get("scope"))
}

func TestGoogleScopes(t *testing.T) {
	p := provider.Google("goog-client", "https://app.example.com")

	parsed, err := url.Parse(p.AuthCodeURL("s"))
	require.NoError(t, err)
	require.Equal(t, "openid email profile", parsed.Query().Get("scope"))
}

func TestUserTypeValid(t *testing.T) {
	require.True(t, provider.UserTypeDeveloper.Valid())
	require.True(t, provider.UserTypeRecruiter.Valid())
	require.False(t, provider.UserType("admin").Valid())
	require.False(t, provider.UserType("").Valid())
}
