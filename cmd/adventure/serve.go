package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-adventure/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the adventure SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own world and map picker. Actor snapshots
are keyed by the SSH user name, so reconnecting resumes the same player.
Runs are stored per-server (all users share the same scoreboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.adventure/host_key

Examples:
  adventure serve                           # Listen on :23234
  adventure serve --ssh :2222               # Listen on port 2222
  adventure serve --store sqlite            # Keep snapshots in the database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	e, err := openEnv(false)
	if err != nil {
		fail("%v", err)
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.Runs = e.runs
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Logger = e.logger.WithPrefix("adventure-ssh")

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		e.close() //nolint:errcheck
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting adventure SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe(context.Background())
	closeErr := e.close()

	if serveErr != nil {
		fail("server: %v", serveErr)
	}
	if closeErr != nil {
		fail("saving: %v", closeErr)
	}
}
