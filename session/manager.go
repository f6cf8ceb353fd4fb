// Package session orchestrates authentication for both user classes: it
// starts each provider's redirect, processes callbacks exactly once per
// authorization code, answers session queries, and keeps the session fresh
// in the background.
package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/devhire/authkit/apiclient"
	"github.com/devhire/authkit/dedup"
	"github.com/devhire/authkit/flowstore"
	"github.com/devhire/authkit/internal/config"
	"github.com/devhire/authkit/provider"
	"github.com/devhire/authkit/stateguard"
)

// Navigator is invoked when a flow needs the user agent to move: the browser
// build navigates the page, the CLI opens the system browser, tests record
// the URL.
type Navigator func(url string)

// Manager is the façade over the whole auth layer. All mutable state (CSRF
// cache, pending-callback registry, flow store) hangs off the instance, so
// independent Managers are fully isolated.
type Manager struct {
	api     *apiclient.Client
	flows   flowstore.Store
	guard   *stateguard.Guard
	pending *dedup.Group

	github provider.Provider
	google provider.Provider

	navigate     Navigator
	refreshEvery time.Duration

	refreshMu sync.Mutex
	refresh   *refresher
}

// Option modifies a Manager at construction time.
type Option func(*Manager)

// WithNavigator sets the navigation callback.
func WithNavigator(n Navigator) Option {
	return func(m *Manager) {
		m.navigate = n
	}
}

// WithFlowStore substitutes the ephemeral flow store (primarily for tests and
// non-process-scoped hosts).
func WithFlowStore(s flowstore.Store) Option {
	return func(m *Manager) {
		m.flows = s
		m.guard = stateguard.New(s)
	}
}

// WithRefreshInterval overrides the silent-refresh cadence.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.refreshEvery = d
	}
}

// New creates a Manager from configuration.
func New(cfg *config.Config, options ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("[session.New] config is required")
	}

	api, err := apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "[session.New] creating api client")
	}

	flows := flowstore.NewInMemory()
	m := &Manager{
		api:          api,
		flows:        flows,
		guard:        stateguard.New(flows),
		pending:      dedup.NewGroup(),
		github:       provider.GitHub(cfg.GitHubClientID, cfg.PublicOrigin),
		google:       provider.Google(cfg.GoogleClientID, cfg.PublicOrigin),
		navigate:     func(string) {},
		refreshEvery: cfg.RefreshInterval,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// RedirectToGitHub begins the developer login flow and returns the
// authorization URL. Navigation is terminal for the calling page.
func (m *Manager) RedirectToGitHub() string {
	return m.redirect(m.github)
}

// RedirectToGoogle begins the recruiter login flow and returns the
// authorization URL.
func (m *Manager) RedirectToGoogle() string {
	return m.redirect(m.google)
}

func (m *Manager) redirect(p provider.Provider) string {
	state := m.guard.BeginFlow(p.StateKey, p.Name)
	url := p.AuthCodeURL(state)
	log.Debug().Str("provider", p.Name).Msg("starting oauth redirect")
	m.navigate(url)
	return url
}
