// Command server hosts remote blockfall sessions over WebSocket. Every
// connection plays its own independent game.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hersh/blockfall/internal/config"
	"github.com/hersh/blockfall/internal/logging"
	"github.com/hersh/blockfall/internal/server"
)

var (
	flagConfig      string
	flagAddr        string
	flagMaxSessions int
	flagSeed        int64
	flagLogLevel    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall-server",
	Short: "Serve remote blockfall sessions",
	Long: `Start a WebSocket server for remote play. The server runs each game
and pushes a snapshot to the client whenever it changes.

Endpoints:
  /ws      - game sessions
  /health  - liveness probe

Examples:
  blockfall-server
  blockfall-server --addr :9000 --max-sessions 16`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", -1, "Session cap, 0 = unlimited (overrides config)")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed for every session (0 = random)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}
	if flagMaxSessions >= 0 {
		cfg.Server.MaxSessions = flagMaxSessions
	}
	if cmd.Flags().Changed("seed") {
		cfg.Engine.Seed = flagSeed
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger, err := logging.New(os.Stderr, "server", cfg.Log.Level)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Addr:          cfg.Server.Addr,
		FrameInterval: cfg.Server.FrameInterval,
		MaxSessions:   cfg.Server.MaxSessions,
		Game:          cfg.Game(),
	}, logger)

	return srv.ListenAndServe(ctx)
}
