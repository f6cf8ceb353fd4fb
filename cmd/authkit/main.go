package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devhire/authkit/internal/config"
	"github.com/devhire/authkit/session"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("authkit failed")
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if len(args) == 0 {
		printUsage()
		return errors.New("missing command")
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	ctx := context.Background()

	switch args[0] {
	case "login":
		if len(args) < 2 {
			return errors.New("usage: authkit login github|google")
		}
		displayAppname(cfg.AppName)
		return runLogin(ctx, cfg, args[1])
	case "whoami":
		return runWhoami(ctx, cfg)
	case "logout":
		return runLogout(ctx, cfg, len(args) > 1 && args[1] == "--all")
	case "refresh":
		return runRefreshDaemon(cfg)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newManager(cfg *config.Config) (*session.Manager, error) {
	return session.New(cfg, session.WithNavigator(openBrowser))
}

func runWhoami(ctx context.Context, cfg *config.Config) error {
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	user := mgr.CurrentUser(ctx)
	if user == nil {
		fmt.Println("Not authenticated.")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.UserType)
	return nil
}

func runLogout(ctx context.Context, cfg *config.Config, allDevices bool) error {
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	if allDevices {
		mgr.LogoutAllDevices(ctx)
	} else {
		mgr.Logout(ctx)
	}
	fmt.Println("Logged out.")
	return nil
}

func runRefreshDaemon(cfg *config.Config) error {
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}

	if err := mgr.StartAutoRefresh(); err != nil {
		return err
	}
	log.Info().Msg("refresh daemon running, press Ctrl-C to stop")
	waitForStopSignal()
	mgr.StopAutoRefresh()
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: authkit <command>

commands:
  login github|google   log in through a provider (opens the browser)
  whoami                show the current session's user
  logout [--all]        end the session (--all: on every device)
  refresh               keep the session fresh until interrupted`)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
