package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/career-runner/internal/platform/tui"
	"github.com/vovakirdan/career-runner/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagVariant     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the runner SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own run. The session command picks the
variant; without one the --variant default is played. Runs of every
user go into the same history database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.career-runner/host_key

Examples:
  runner serve                           # Listen on :23234 with auto-generated key
  runner serve --ssh :2222               # Listen on port 2222
  runner serve --variant freeroam        # Default sessions to free roam
  runner serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh -t localhost -p 23234
  ssh -t localhost -p 23234 freeroam`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagVariant, "variant", "platformer", "Variant played when the session names none")
}

func runServe(_ *cobra.Command, _ []string) {
	if !registry.Exists(flagVariant) {
		fail("unknown variant %q", flagVariant)
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.DefaultVariant = flagVariant
	cfg.Runner = loadConfig()

	logger := newLogger(os.Stderr, "runner-ssh")

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		fail("creating server: %v", err)
	}

	logger.Info("connect with: ssh -t localhost -p <port>", "address", server.Addr())
	logger.Info("press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}
