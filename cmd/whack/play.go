package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-whack/internal/core"
	"github.com/vovakirdan/tui-whack/internal/platform/tui"
	"github.com/vovakirdan/tui-whack/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a session",
	Long: `Start the game in this terminal.

Controls:
  Space/Enter  - Start, or stop a running session
  1-9 / click  - Tap a tile
  R            - Reset to idle
  C            - Clear the best score (asks first)
  ?            - Show all keys
  Q/Ctrl+C     - Quit

Examples:
  whack play
  whack play --seed 42
  whack play --config ./my-whack.yaml --log-file whack.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	// The alternate screen owns the terminal, so logs only go to --log-file.
	logger, closeLog, err := newLogger(io.Discard, "whack")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Continue without storage - the game still works
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("playing without storage", "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	runtime := core.DefaultConfig()
	runtime.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		runtime.ScreenW, runtime.ScreenH = w, h
	}

	return tui.Run(tui.GameOptions{
		Game:    cfg,
		Runtime: runtime,
		Store:   store,
		Logger:  logger,
	})
}
