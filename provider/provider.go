// Package provider models the two external identity providers as configured
// instances of one adapter, so the GitHub and Google flows cannot drift apart.
package provider

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/devhire/authkit/flowstore"
)

// UserType discriminates the two account classes. Each provider is bound to
// exactly one of them and the binding never crosses.
type UserType string

const (
	UserTypeDeveloper UserType = "developer"
	UserTypeRecruiter UserType = "recruiter"
)

// Valid reports whether t is one of the two known user classes.
func (t UserType) Valid() bool {
	return t == UserTypeDeveloper || t == UserTypeRecruiter
}

// Provider binds one identity provider to one user class, with everything a
// flow needs: the storage key for its state, the backend endpoint that
// exchanges its codes, and the oauth2 configuration for the authorization URL.
type Provider struct {
	Name         string
	UserType     UserType
	StateKey     string
	CallbackPath string

	oauth oauth2.Config
}

// GitHub configures the developer-facing provider.
func GitHub(clientID, publicOrigin string) Provider {
	return Provider{
		Name:         "github",
		UserType:     UserTypeDeveloper,
		StateKey:     flowstore.GitHubStateKey,
		CallbackPath: "/api/auth/github/callback",
		oauth: oauth2.Config{
			ClientID:    clientID,
			Endpoint:    endpoints.GitHub,
			RedirectURL: redirectURL(publicOrigin, "/auth/github/callback"),
			Scopes:      []string{"read:user", "user:email"},
		},
	}
}

// Google configures the recruiter-facing provider.
func Google(clientID, publicOrigin string) Provider {
	return Provider{
		Name:         "google",
		UserType:     UserTypeRecruiter,
		StateKey:     flowstore.GoogleStateKey,
		CallbackPath: "/api/auth/google/callback",
		oauth: oauth2.Config{
			ClientID:    clientID,
			Endpoint:    endpoints.Google,
			RedirectURL: redirectURL(publicOrigin, "/auth/google/callback"),
			Scopes:      []string{"openid", "email", "profile"},
		},
	}
}

// AuthCodeURL builds the provider authorization URL carrying the given state.
func (p Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// RedirectURL returns the callback URL registered with the provider.
func (p Provider) RedirectURL() string {
	return p.oauth.RedirectURL
}

func redirectURL(origin, path string) string {
	for len(origin) > 0 && origin[len(origin)-1] == '/' {
		origin = origin[:len(origin)-1]
	}
	return origin + path
}
