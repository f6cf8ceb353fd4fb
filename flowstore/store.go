// Package flowstore holds the short-lived state an OAuth flow needs to
// survive the redirect round trip. It is the counterpart of the browser's
// tab-scoped sessionStorage: values live for the process, not beyond it.
package flowstore

// Keys mirror the storage keys the web client uses, so the backend sees
// identical flow semantics regardless of which client started the flow.
const (
	GitHubStateKey = "github_oauth_state"
	GoogleStateKey = "google_oauth_state"
	FlowTypeKey    = "auth_flow_type"
)

// Store is a small key-value store with session-scoped semantics.
type Store interface {
	Set(key, value string)
	Get(key string) (string, bool)
	Delete(key string)
	Clear()
}
