package main

import (
	"os/exec"
	"runtime"

	"github.com/rs/zerolog/log"
)

// openBrowser launches the system browser at url. Failure is not fatal; the
// login command also prints the URL for manual use.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		log.Warn().Err(err).Msg("could not open browser")
	}
}
