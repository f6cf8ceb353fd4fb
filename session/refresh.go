package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type refresher struct {
	cron *cron.Cron
}

// StartAutoRefresh installs the recurring silent-refresh job. On each tick,
// if a session exists it is refreshed; failures are non-fatal, since the next
// introspection simply reports unauthenticated. Calling it twice is a no-op.
func (m *Manager) StartAutoRefresh() error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	if m.refresh != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", m.refreshEvery), m.refreshTick); err != nil {
		return errors.Wrap(err, "[Manager.StartAutoRefresh] scheduling refresh job")
	}
	c.Start()
	m.refresh = &refresher{cron: c}

	log.Info().Dur("interval", m.refreshEvery).Msg("auto refresh started")
	return nil
}

// StopAutoRefresh stops the scheduler. Safe to call when never started.
func (m *Manager) StopAutoRefresh() {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	if m.refresh == nil {
		return
	}
	m.refresh.cron.Stop()
	m.refresh = nil
	log.Info().Msg("auto refresh stopped")
}

func (m *Manager) refreshTick() {
	ctx := context.Background()
	if !m.IsAuthenticated(ctx) {
		return
	}
	m.Refresh(ctx)
}

// Refresh extends the server-side session. Best-effort: outcomes are logged,
// never surfaced.
func (m *Manager) Refresh(ctx context.Context) {
	resp, err := m.api.Post(ctx, routeRefresh, nil)
	if err != nil {
		log.Warn().Err(err).Msg("session refresh failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			m.api.CSRF().Invalidate()
		}
		log.Warn().Int("status", resp.StatusCode).Msg("session refresh rejected")
		return
	}
	log.Debug().Msg("session refreshed")
}
