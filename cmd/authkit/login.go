package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devhire/authkit/internal/config"
	errs "github.com/devhire/authkit/internal/errors"
	"github.com/devhire/authkit/session"
)

// runLogin drives a full browser login: a loopback listener receives the
// provider redirect and feeds code/state into the session manager, exactly
// like the web client's callback page would.
func runLogin(ctx context.Context, cfg *config.Config, providerName string) error {
	// The provider must redirect back into this process.
	cfg.PublicOrigin = fmt.Sprintf("http://127.0.0.1:%d", cfg.CallbackPort)

	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	results := make(chan session.Result, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/github/callback", callbackHandler(mgr.HandleGitHubCallback, results))
	mux.HandleFunc("/auth/google/callback", callbackHandler(mgr.HandleGoogleCallback, results))

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", cfg.CallbackPort),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("callback listener failed")
		}
	}()

	var authURL string
	switch providerName {
	case "github":
		authURL = mgr.RedirectToGitHub()
	case "google":
		authURL = mgr.RedirectToGoogle()
	default:
		_ = shutdown(srv)
		return errs.Wrapf(errs.ErrUnknownProvider, "%q (want github or google)", providerName)
	}

	fmt.Printf("Opening your browser. If nothing happens, visit:\n\n  %s\n\n", authURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case res := <-results:
		shutdownErr := shutdown(srv)
		if !res.Success {
			return fmt.Errorf("login failed: %s", res.Error)
		}
		fmt.Printf("Logged in as %s <%s> (%s)\n", res.User.Name, res.User.Email, res.User.UserType)
		return shutdownErr
	case <-stop:
		_ = shutdown(srv)
		return fmt.Errorf("login interrupted")
	}
}

// callbackHandler parses the provider redirect. Browsers occasionally deliver
// it twice (prefetch, reload); the session manager's dedup layer makes the
// second delivery share the first one's outcome.
func callbackHandler(handle func(context.Context, string, string) session.Result, results chan<- session.Result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if errParam := r.FormValue("error"); errParam != "" {
			desc := r.FormValue("error_description")
			http.Error(w, fmt.Sprintf("Authorization failed: %s - %s", errParam, desc), http.StatusBadRequest)
			deliver(results, session.Result{Error: errParam})
			return
		}

		code := r.FormValue("code")
		state := r.FormValue("state")
		if code == "" {
			http.Error(w, "Missing code parameter", http.StatusBadRequest)
			return
		}

		res := handle(r.Context(), code, state)
		if res.Success {
			fmt.Fprintln(w, "Login complete. You can close this window.")
		} else {
			http.Error(w, "Login failed: "+res.Error, http.StatusBadGateway)
		}
		deliver(results, res)
	}
}

// deliver hands the result to the waiting command without blocking when the
// first delivery already won.
func deliver(results chan<- session.Result, res session.Result) {
	select {
	case results <- res:
	default:
	}
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
