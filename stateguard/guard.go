// Package stateguard generates and verifies the OAuth state parameter that
// binds an outgoing authorization redirect to its returning callback.
package stateguard

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/devhire/authkit/flowstore"
)

// Verdict is the outcome of verifying a returned state value.
type Verdict int

const (
	// VerdictOK means the stored and returned values matched.
	VerdictOK Verdict = iota
	// VerdictMismatch means a stored value exists and disagrees. The flow
	// must be aborted without contacting the server.
	VerdictMismatch
	// VerdictUnknown means no stored value exists: either the flow started
	// elsewhere or the state was already consumed. Callers decide whether to
	// proceed; the historical behavior is permissive here, and only here.
	VerdictUnknown
)

// Guard owns the flow-state storage for all providers.
type Guard struct {
	store flowstore.Store
}

// New creates a Guard backed by the given store.
func New(store flowstore.Store) *Guard {
	return &Guard{store: store}
}

// BeginFlow generates a fresh state value (32 random bytes, base64url),
// stores it under the provider's key together with a flow-type marker, and
// returns it for inclusion in the authorization URL.
func (g *Guard) BeginFlow(stateKey, flowType string) string {
	state := randomState()
	g.store.Set(stateKey, state)
	g.store.Set(flowstore.FlowTypeKey, flowType)
	return state
}

// VerifyAndConsume checks the returned state against the stored one. Storage
// is cleared on every path, success or failure, so a state value can never
// validate a second callback.
func (g *Guard) VerifyAndConsume(stateKey, returned string) Verdict {
	stored, ok := g.store.Get(stateKey)

	g.store.Delete(stateKey)
	g.store.Delete(flowstore.FlowTypeKey)

	if !ok || stored == "" {
		return VerdictUnknown
	}
	if stored != returned {
		return VerdictMismatch
	}
	return VerdictOK
}

// randomState creates a random base64url string with 256 bits of entropy
func randomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
