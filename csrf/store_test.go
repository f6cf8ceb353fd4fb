package csrf_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devhire/authkit/csrf"
)

func newTokenServer(t *testing.T, token string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/csrf-token", r.URL.Path)
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"csrf_token":%q}`, token)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestTokenIsFetchedLazilyAndCached(t *testing.T) {
	srv, hits := newTokenServer(t, "tok-1")
	store := csrf.NewTokenStore(srv.URL, srv.Client())

	require.Equal(t, int32(0), hits.Load(), "no fetch before first use")

	require.Equal(t, "tok-1", store.Token(context.Background()))
	require.Equal(t, "tok-1", store.Token(context.Background()))
	require.Equal(t, int32(1), hits.Load(), "second call must hit the cache")
}

func TestInvalidateForcesRefetch(t *testing.T) {
	srv, hits := newTokenServer(t, "tok-2")
	store := csrf.NewTokenStore(srv.URL, srv.Client())

	store.Token(context.Background())
	store.Invalidate()
	store.Token(context.Background())

	require.Equal(t, int32(2), hits.Load())
}

func TestFetchFailureYieldsEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	store := csrf.NewTokenStore(srv.URL, srv.Client())
	require.Empty(t, store.Token(context.Background()))
}

func TestTransportFailureYieldsEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := srv.Client()
	srv.Close()

	store := csrf.NewTokenStore(srv.URL, client)
	require.Empty(t, store.Token(context.Background()))
}

func TestEmptyTokenInResponseIsAnError(t *testing.T) {
	srv, _ := newTokenServer(t, "")
	store := csrf.NewTokenStore(srv.URL, srv.Client())

	require.Empty(t, store.Token(context.Background()))
}
