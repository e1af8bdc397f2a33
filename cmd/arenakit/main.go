package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/pavanmanishd/arena/v2"
	"github.com/pavanmanishd/arena/v2/cli"
	"github.com/pavanmanishd/arena/v2/internal/config"
	"github.com/pavanmanishd/arena/v2/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arenakit",
	Short: "Region allocator toolkit",
	Long: `arenakit exercises the arena module: it builds single-header C libraries
with the arena-backed argument parser and measures container workloads.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	configPath string
	verbose    bool
	noColor    bool

	// cfg is loaded once by setup before any command runs.
	cfg = config.Default()
)

// exitCode is returned by commands that already reported their failure.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

func main() {
	defer arena.Exit()

	rootCmd.AddCommand(newAmalgamateCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to "+config.FileName+" (default: search upward)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	os.Exit(execute())
}

func execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var code exitCode
	if errors.As(err, &code) {
		return int(code)
	}
	fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
	return 1
}

// setup loads configuration and initializes logging.
func setup(cmd *cobra.Command, _ []string) error {
	if noColor {
		color.NoColor = true
	}

	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, configPath, err = config.Discover(".")
	}
	if err != nil {
		return err
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger.Init(logger.Options{
		Enabled: true,
		Output:  cmd.ErrOrStderr(),
		Level:   level,
		JSON:    cfg.Log.Format == "json",
	})
	logger.Debug("configuration loaded", "path", configPath, "chunk_size", cfg.Arena.ChunkSize, "source", cfg.Arena.Source)
	return nil
}

// newArena builds an arena from the loaded configuration.
func newArena() *arena.Arena {
	src, err := cfg.Arena.ChunkSource()
	if err != nil {
		logger.Warn("falling back to heap chunks", "error", err)
		src = arena.HeapChunks{}
	}
	return arena.NewArena(cfg.Arena.ChunkSize, arena.WithChunkSource(src), arena.WithLogger(logger.L))
}

// helpWidth is the configured help wrap width, or the terminal's.
func helpWidth() int {
	if cfg.CLI.Width > 0 {
		return cfg.CLI.Width
	}
	return cli.TerminalWidth()
}
