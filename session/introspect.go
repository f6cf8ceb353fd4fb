package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// CurrentUser asks the backend who owns the session cookie. There is no
// client-side cache: the cookie is httpOnly, so the server is the only source
// of truth. Any non-200 outcome, including transport failure, means nil.
func (m *Manager) CurrentUser(ctx context.Context) *User {
	resp, err := m.api.Get(ctx, routeMe)
	if err != nil {
		log.Debug().Err(err).Msg("session introspection failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var payload struct {
		User *User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Debug().Err(err).Msg("decoding session introspection response")
		return nil
	}
	return payload.User
}

// IsAuthenticated reports whether a live session exists.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.CurrentUser(ctx) != nil
}

// Logout ends the current device's session.
func (m *Manager) Logout(ctx context.Context) {
	m.logout(ctx, routeLogout)
}

// LogoutAllDevices ends every session for the account.
func (m *Manager) LogoutAllDevices(ctx context.Context) {
	m.logout(ctx, routeLogoutAll)
}

// logout POSTs best-effort, then unconditionally wipes client-side state and
// navigates to the login page. The ordering matters: the user asked to leave,
// so local state goes even when the server call fails.
func (m *Manager) logout(ctx context.Context, path string) {
	resp, err := m.api.Post(ctx, path, nil)
	if err != nil {
		log.Warn().Err(err).Msg("logout request failed, clearing local state anyway")
	} else {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Warn().Int("status", resp.StatusCode).Msg("logout endpoint returned an error, clearing local state anyway")
		}
		resp.Body.Close()
	}

	m.api.CSRF().Invalidate()
	m.flows.Clear()
	m.navigate(loginPagePath)
}
