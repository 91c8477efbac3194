// Command client plays a remote blockfall session.
package main

import (
	"fmt"
	"os"
	"os/user"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hersh/blockfall/internal/config"
	"github.com/hersh/blockfall/internal/logging"
	"github.com/hersh/blockfall/internal/netclient"
	"github.com/hersh/blockfall/internal/tui"
)

var (
	flagConfig   string
	flagServer   string
	flagName     string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall-client",
	Short: "Play a game hosted by a blockfall server",
	Long: `Connect to a blockfall server and play a game it runs. Key presses
are sent to the server and its snapshots are drawn as they arrive.

Examples:
  blockfall-client
  blockfall-client --server ws://example.com:8080/ws --name ada`,
	SilenceUsage: true,
	RunE:         runClient,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.Flags().StringVar(&flagServer, "server", "ws://localhost:8080/ws", "WebSocket server address")
	rootCmd.Flags().StringVar(&flagName, "name", "", "Player name (defaults to OS username)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
}

func runClient(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger := logging.Discard()
	if flagLogFile != "" {
		var f *os.File
		logger, f, err = logging.OpenFile(flagLogFile, "client", cfg.Log.Level)
		if err != nil {
			return err
		}
		defer f.Close()
	}

	client, err := netclient.Dial(flagServer, logger)
	if err != nil {
		return fmt.Errorf("%w\nmake sure the server is running (go run ./cmd/server)", err)
	}
	defer client.Close()
	client.Start()

	name := flagName
	if name == "" {
		name = "Player"
		if u, err := user.Current(); err == nil && u.Username != "" {
			name = u.Username
		}
	}

	model := tui.NewModel(name, client, tui.Options{
		FrameRate: cfg.UI.FrameRate,
		ShowGhost: cfg.UI.ShowGhost,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
