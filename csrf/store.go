// Package csrf owns the anti-forgery token attached to state-changing
// requests. The token is distinct from the OAuth state parameter: it protects
// the application's own API calls, not the provider redirect.
package csrf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const tokenPath = "/api/auth/csrf-token"

// TokenStore caches the per-session anti-forgery token and refetches it
// lazily after invalidation. No other component mutates the token.
type TokenStore struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	token string
}

// NewTokenStore creates a TokenStore. The http.Client must carry the same
// cookie jar as the rest of the authenticated calls, since the token is bound
// to the session cookie.
func NewTokenStore(baseURL string, client *http.Client) *TokenStore {
	return &TokenStore{
		baseURL: baseURL,
		client:  client,
	}
}

// Token returns the cached token, fetching one first if the cache is empty.
// It never fails: when the backend cannot produce a token the result is the
// empty string and callers omit the header, leaving rejection to the server.
// Two concurrent first calls may both fetch; the GET is idempotent and the
// last write wins.
func (s *TokenStore) Token(ctx context.Context) string {
	s.mu.Lock()
	cached := s.token
	s.mu.Unlock()
	if cached != "" {
		return cached
	}

	token, err := s.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("csrf token fetch failed, mutating requests will omit the header")
		return ""
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return token
}

// Invalidate clears the cache so the next Token call refetches. Called after
// login, signup, and logout, when the server rotates the token.
func (s *TokenStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *TokenStore) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+tokenPath, nil)
	if err != nil {
		return "", errors.Wrap(err, "[TokenStore.fetch] building request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "[TokenStore.fetch] requesting token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("[TokenStore.fetch] token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "[TokenStore.fetch] decoding token response")
	}
	if payload.CSRFToken == "" {
		return "", errors.New("[TokenStore.fetch] empty token in response")
	}
	return payload.CSRFToken, nil
}
