// Package dedup collapses concurrent invocations that share a key into a
// single execution. Authorization codes are single-use at the provider, so a
// duplicate callback delivery must attach to the in-flight exchange instead
// of issuing a second one.
package dedup

import "sync"

// sentinel used in keys when the callback carried no state parameter.
const noState = "nostate"

type call struct {
	done chan struct{}
	val  any
	err  error
}

// Group tracks in-flight calls by key.
type Group struct {
	mu    sync.Mutex
	calls map[string]*call
}

// NewGroup creates an empty Group.
func NewGroup() *Group {
	return &Group{
		calls: make(map[string]*call),
	}
}

// Run executes fn unless a call with the same key is already in flight, in
// which case it waits for that call and returns its result. The entry is
// removed once the call settles, so a later attempt with the same key runs
// fresh.
func (g *Group) Run(key string, fn func() (any, error)) (any, error) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err
	}
	c := &call{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	// Settle in a defer so a panicking fn still releases waiters and frees
	// the key.
	defer func() {
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(c.done)
	}()

	c.val, c.err = fn()
	return c.val, c.err
}

// Key builds a deterministic dedup key for a callback exchange. The provider
// name leads so identical codes from different providers can never collide.
func Key(provider, code, state string) string {
	if state == "" {
		state = noState
	}
	return provider + "|" + code + "|" + state
}
