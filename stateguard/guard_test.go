package stateguard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devhire/authkit/flowstore"
	"github.com/devhire/authkit/stateguard"
)

func requireNoResidue(t *testing.T, store flowstore.Store, stateKey string) {
	t.Helper()

	_, ok := store.Get(stateKey)
	require.False(t, ok, "state residue left under %q", stateKey)
	_, ok = store.Get(flowstore.FlowTypeKey)
	require.False(t, ok, "flow type marker left behind")
}

func TestBeginFlowStoresStateAndMarker(t *testing.T) {
	store := flowstore.NewInMemory()
	guard := stateguard.New(store)

	state := guard.BeginFlow(flowstore.GitHubStateKey, "github")
	require.NotEmpty(t, state)
	// 32 bytes base64url encode to 43 characters
	require.Len(t, state, 43)

	stored, ok := store.Get(flowstore.GitHubStateKey)
	require.True(t, ok)
	require.Equal(t, state, stored)

	flowType, ok := store.Get(flowstore.FlowTypeKey)
	require.True(t, ok)
	require.Equal(t, "github", flowType)
}

func TestStatesAreUnique(t *testing.T) {
	guard := stateguard.New(flowstore.NewInMemory())

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		state := guard.BeginFlow(flowstore.GitHubStateKey, "github")
		require.False(t, seen[state], "state generated twice")
		seen[state] = true
	}
}

func TestRoundTrip(t *testing.T) {
	store := flowstore.NewInMemory()
	guard := stateguard.New(store)

	state := guard.BeginFlow(flowstore.GoogleStateKey, "google")
	verdict := guard.VerifyAndConsume(flowstore.GoogleStateKey, state)

	require.Equal(t, stateguard.VerdictOK, verdict)
	requireNoResidue(t, store, flowstore.GoogleStateKey)
}

func TestTamperedStateRejectedAndCleared(t *testing.T) {
	store := flowstore.NewInMemory()
	guard := stateguard.New(store)

	guard.BeginFlow(flowstore.GitHubStateKey, "github")
	verdict := guard.VerifyAndConsume(flowstore.GitHubStateKey, "forged-value")

	require.Equal(t, stateguard.VerdictMismatch, verdict)
	requireNoResidue(t, store, flowstore.GitHubStateKey)

	// A retried forged callback must not find anything left to validate.
	verdict = guard.VerifyAndConsume(flowstore.GitHubStateKey, "forged-value")
	require.Equal(t, stateguard.VerdictUnknown, verdict)
}

func TestMissingReturnedStateIsMismatchWhenStored(t *testing.T) {
	store := flowstore.NewInMemory()
	guard := stateguard.New(store)

	guard.BeginFlow(flowstore.GitHubStateKey, "github")
	verdict := guard.VerifyAndConsume(flowstore.GitHubStateKey, "")

	require.Equal(t, stateguard.VerdictMismatch, verdict)
	requireNoResidue(t, store, flowstore.GitHubStateKey)
}

func TestUnknownWhenNothingStored(t *testing.T) {
	store := flowstore.NewInMemory()
	guard := stateguard.New(store)

	verdict := guard.VerifyAndConsume(flowstore.GitHubStateKey, "whatever")
	require.Equal(t, stateguard.VerdictUnknown, verdict)
}

func TestStateIsSingleUse(t *testing.T) {
	store := flowstore.NewInMemory()
	guard := stateguard.New(store)

	state := guard.BeginFlow(flowstore.GitHubStateKey, "github")
	require.Equal(t, stateguard.VerdictOK, guard.VerifyAndConsume(flowstore.GitHubStateKey, state))
	require.Equal(t, stateguard.VerdictUnknown, guard.VerifyAndConsume(flowstore.GitHubStateKey, state))
}
