// whack is a timed whack-a-mole game for the terminal.
//
// Usage:
//
//	whack play               - Play a session in this terminal
//	whack serve              - Start SSH server for remote play
//	whack autoplay           - Run a headless session with a simulated player
//	whack best [clear]       - Show or clear the saved best score
//	whack scores             - Show the session history
//
// Global flags:
//
//	--config <path>     - Game config YAML (default: search ~/.whack/configs, ./configs)
//	--seed <value>      - Set RNG seed for reproducible target placement
//	--db <path>         - Set database path (default: $WHACK_DB or ~/.whack/whack.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Append logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-whack/internal/config"
	"github.com/vovakirdan/tui-whack/internal/storage"
)

const defaultDBPath = "~/.whack/whack.db"

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	// Registered after .env is loaded so WHACK_DB can come from it
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", getEnv("WHACK_DB", defaultDBPath), "Path to scores database")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "whack",
	Short: "Whack - tap the glowing tile before it moves",
	Long: `Whack is a timed reaction game for the terminal.

A target jumps between the tiles of a grid. Tap it before it moves to score
a point; tapping anything else costs one. A session lasts 30 seconds and
the best score is kept between runs.

Available commands:
  play      - Play in this terminal
  serve     - Start SSH server for remote play
  autoplay  - Watch a simulated player
  best      - Show or clear the best score
  scores    - View the session history

Examples:
  whack play
  whack play --seed 42
  whack serve --ssh :2222
  whack autoplay --accuracy 0.9
  whack scores --owner alice`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(autoplayCmd)
	rootCmd.AddCommand(bestCmd)
	rootCmd.AddCommand(scoresCmd)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newLogger builds the command logger. Logs go to --log-file when set,
// otherwise to fallback. The returned closer releases the log file.
func newLogger(fallback io.Writer, prefix string) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w, closer := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// loadConfig loads the game configuration from --config or the search path.
func loadConfig() (config.WhackConfig, error) {
	cfg, err := config.LoadWhack(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("cannot load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the database. When optional is set a failure is logged and
// the game continues without persistence.
func openStore(logger *log.Logger, optional bool) (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err == nil {
		return store, nil
	}
	if !optional {
		return nil, fmt.Errorf("cannot open scores database: %w", err)
	}
	logger.Warn("could not open scores database, scores will not be saved", "err", err)
	return nil, nil
}
