// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall                    - Play a local game
//	blockfall --seed 42          - Play a reproducible piece sequence
//
// For remote play, use:
//
//	Server: go run ./cmd/server
//	Client: go run ./cmd/client --server ws://localhost:8080/ws
package main

import (
	"fmt"
	"os"
	"os/user"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hersh/blockfall/internal/config"
	"github.com/hersh/blockfall/internal/game"
	"github.com/hersh/blockfall/internal/logging"
	"github.com/hersh/blockfall/internal/tui"
)

var (
	flagConfig     string
	flagSeed       int64
	flagRandomizer string
	flagFPS        int
	flagName       string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Play falling blocks in your terminal",
	Long: `Blockfall drops pieces onto a 10x20 well. Fill a row to clear it and
score 10 points. The game ends when the stack reaches the top.

Examples:
  blockfall
  blockfall --seed 42 --randomizer bag
  blockfall --config ./my.yaml --log-file blockfall.log`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.Flags().StringVar(&flagRandomizer, "randomizer", "", "Piece randomizer: uniform or bag")
	rootCmd.Flags().IntVar(&flagFPS, "fps", 0, "Frame rate (overrides config)")
	rootCmd.Flags().StringVar(&flagName, "name", "", "Player name (defaults to OS username)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Engine.Seed = flagSeed
	}
	if flagRandomizer != "" {
		cfg.Engine.Randomizer = flagRandomizer
	}
	if flagFPS > 0 {
		cfg.UI.FrameRate = flagFPS
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger := logging.Discard()
	if flagLogFile != "" {
		var f *os.File
		logger, f, err = logging.OpenFile(flagLogFile, "blockfall", cfg.Log.Level)
		if err != nil {
			return err
		}
		defer f.Close()
	}

	g, err := game.New(cfg.Game(), game.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	return runTUI(playerName(flagName), tui.NewLocalDriver(g), cfg, logger)
}

func runTUI(name string, driver tui.Driver, cfg config.Config, logger *log.Logger) error {
	model := tui.NewModel(name, driver, tui.Options{
		FrameRate: cfg.UI.FrameRate,
		ShowGhost: cfg.UI.ShowGhost,
	})

	logger.Info("starting", "player", name)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func playerName(name string) string {
	if name != "" {
		return name
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "Player"
}
