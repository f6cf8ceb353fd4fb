package session

import "github.com/devhire/authkit/provider"

// User is the session owner as observed through the introspection endpoint.
// The raw credential never reaches the client; this is everything it sees.
type User struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	UserType provider.UserType `json:"user_type"`

	// External-profile fields, present when the account came in through a
	// provider.
	GitHubUsername string `json:"github_username,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	Company        string `json:"company,omitempty"`

	IsActive bool `json:"is_active"`
}

// Result is what every auth operation reports to the caller. The public API
// never fails with a Go error: outcomes, including transport failures, are
// normalized into this shape.
type Result struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type callbackRequest struct {
	Code     string            `json:"code"`
	UserType provider.UserType `json:"userType"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}
