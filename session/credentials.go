package session

import (
	"context"
	"strings"

	"github.com/devhire/authkit/provider"
)

// SignupParams carries everything the signup endpoint accepts.
type SignupParams struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Password string            `json:"password"`
	UserType provider.UserType `json:"user_type"`

	// GitHubUsername is meaningful for developers, Company for recruiters.
	GitHubUsername string `json:"github_username,omitempty"`
	Company        string `json:"company,omitempty"`
}

func (p SignupParams) validate() string {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return "name is required"
	case strings.TrimSpace(p.Email) == "":
		return "email is required"
	case p.Password == "":
		return "password is required"
	case !p.UserType.Valid():
		return "user_type must be developer or recruiter"
	}
	return ""
}

// Login creates a session from email/password credentials.
func (m *Manager) Login(ctx context.Context, email, password string) Result {
	if strings.TrimSpace(email) == "" || password == "" {
		return Result{Error: "email and password are required"}
	}
	return m.postForSession(ctx, routeLogin, loginRequest{Email: email, Password: password})
}

// Signup registers an account and creates its first session. Fields are
// checked client-side before anything goes on the wire.
func (m *Manager) Signup(ctx context.Context, params SignupParams) Result {
	if msg := params.validate(); msg != "" {
		return Result{Error: msg}
	}
	return m.postForSession(ctx, routeSignup, params)
}
