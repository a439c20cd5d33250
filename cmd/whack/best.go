package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-whack/internal/core"
	"github.com/vovakirdan/tui-whack/internal/games/whack"
)

var (
	flagBestOwner string
	flagYes       bool
)

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "Show the saved best score",
	Long: `Show the best score kept between sessions.

Local play uses the "local" owner. SSH players each have their own best
score under their SSH user name.

Examples:
  whack best
  whack best --owner alice
  whack best clear --yes`,
	Args: cobra.NoArgs,
	RunE: runBest,
}

var bestClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the saved best score to 0",
	Args:  cobra.NoArgs,
	RunE:  runBestClear,
}

func init() {
	bestCmd.PersistentFlags().StringVar(&flagBestOwner, "owner", core.LocalOwner, "Whose best score to use")
	bestClearCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	bestCmd.AddCommand(bestClearCmd)
}

// bestKey returns the storage key for the --owner best score.
func bestKey() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return whack.OwnerKey(cfg.Storage.BestScoreKey, flagBestOwner), nil
}

func runBest(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(os.Stderr, "whack")
	if err != nil {
		return err
	}
	defer closeLog()

	key, err := bestKey()
	if err != nil {
		return err
	}
	store, err := openStore(logger, false)
	if err != nil {
		return err
	}
	defer store.Close()

	// Same parsing rules as the game: missing or malformed means 0
	best := whack.LoadBestScore(store, key, logger)
	fmt.Printf("Best (%s): %d\n", flagBestOwner, best.Value())
	return nil
}

func runBestClear(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(os.Stderr, "whack")
	if err != nil {
		return err
	}
	defer closeLog()

	key, err := bestKey()
	if err != nil {
		return err
	}

	if !flagYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Clear best score for %s? (y/n) ", flagBestOwner)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	store, err := openStore(logger, false)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Remove(key); err != nil {
		return fmt.Errorf("cannot clear best score: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Best score for %s cleared.\n", flagBestOwner)
	return nil
}
