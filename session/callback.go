package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/devhire/authkit/dedup"
	errs "github.com/devhire/authkit/internal/errors"
	"github.com/devhire/authkit/provider"
	"github.com/devhire/authkit/stateguard"
)

// ErrorCSRF is the error string reported when state verification fails.
// Callers must restart the flow; the code is never retried.
const ErrorCSRF = "csrf"

// HandleGitHubCallback processes the developer provider's callback.
func (m *Manager) HandleGitHubCallback(ctx context.Context, code, state string) Result {
	return m.handleCallback(ctx, m.github, code, state)
}

// HandleGoogleCallback processes the recruiter provider's callback.
func (m *Manager) HandleGoogleCallback(ctx context.Context, code, state string) Result {
	return m.handleCallback(ctx, m.google, code, state)
}

// handleCallback gates the exchange behind the pending-callback registry:
// for a given (provider, code, state) tuple at most one exchange is ever
// issued, and a duplicate delivery attaches to the first one's outcome.
func (m *Manager) handleCallback(ctx context.Context, p provider.Provider, code, state string) Result {
	key := dedup.Key(p.Name, code, state)
	val, _ := m.pending.Run(key, func() (any, error) {
		return m.exchange(ctx, p, code, state), nil
	})

	res, ok := val.(Result)
	if !ok {
		return Result{Error: "internal: unexpected exchange result"}
	}
	return res
}

func (m *Manager) exchange(ctx context.Context, p provider.Provider, code, state string) Result {
	switch m.guard.VerifyAndConsume(p.StateKey, state) {
	case stateguard.VerdictMismatch:
		log.Warn().Str("provider", p.Name).Msg("oauth state mismatch, aborting callback")
		return Result{Error: ErrorCSRF}
	case stateguard.VerdictUnknown:
		// No stored state to compare against. Kept permissive for flows
		// started before this process existed; a stored value that disagrees
		// is the only hard failure.
		log.Debug().Str("provider", p.Name).Msg("no stored oauth state for callback")
	}

	if code == "" {
		return Result{Error: errs.ErrMissingCode.Error()}
	}

	res := m.postForSession(ctx, p.CallbackPath, callbackRequest{Code: code, UserType: p.UserType})
	if res.Success {
		log.Info().Str("provider", p.Name).Str("user_type", string(p.UserType)).Msg("oauth callback exchanged for session")
	} else {
		log.Warn().Str("provider", p.Name).Str("error", res.Error).Msg("oauth callback exchange failed")
	}
	return res
}

// postForSession performs a session-creating POST (callback exchange, login,
// signup) and normalizes every outcome into a Result. The CSRF token is
// invalidated on success because the server rotates it with the session.
func (m *Manager) postForSession(ctx context.Context, path string, body any) Result {
	resp, err := m.api.Post(ctx, path, body)
	if err != nil {
		return Result{Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// A 401 can mean the cached token went stale after a server-side
		// rotation; drop it so the next attempt fetches a fresh one.
		if resp.StatusCode == http.StatusUnauthorized {
			m.api.CSRF().Invalidate()
		}
		return Result{Error: decodeError(resp)}
	}

	var payload authResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{Error: errs.ErrBadResponse.Error()}
	}

	m.api.CSRF().Invalidate()
	return Result{Success: true, User: payload.User, Message: payload.Message}
}

// decodeError extracts the backend's error message from a non-2xx response,
// falling back to the HTTP status text.
func decodeError(resp *http.Response) string {
	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}
