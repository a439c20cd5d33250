package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-whack/internal/platform/tui"
)

var (
	flagOwner  string
	flagLimit  int
	flagBrowse bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the session history",
	Long: `Display the top sessions, best first.

Sessions played in this terminal are recorded as "local"; sessions played
over SSH are recorded under the SSH user name.

Examples:
  whack scores
  whack scores --owner alice --limit 20
  whack scores --browse`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagOwner, "owner", "", "Only show this player's sessions (default: everyone)")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions to show")
	scoresCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive scoreboard")
}

func runScores(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(os.Stderr, "whack")
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore(logger, false)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, flagOwner, width, height)
	}

	sessions, err := store.TopSessions(flagOwner, flagLimit)
	if err != nil {
		return fmt.Errorf("cannot retrieve sessions: %w", err)
	}

	title := "everyone"
	if flagOwner != "" {
		title = flagOwner
	}
	fmt.Printf("Top Sessions - %s\n", title)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'whack play' to set the first score!")
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-5s  %-5s  %-8s  %-5s  %s\n", "Rank", "Player", "Score", "Best", "Ended", "Time", "Date")
	fmt.Printf("  %-4s  %-12s  %-5s  %-5s  %-8s  %-5s  %s\n", "----", "------", "-----", "----", "-----", "----", "----")
	for i, s := range sessions {
		fmt.Printf("  %-4d  %-12s  %-5d  %-5d  %-8s  %-5s  %s\n",
			i+1, s.Owner, s.Score, s.Best, s.Reason,
			fmt.Sprintf("%ds", s.DurationSecs), s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(flagOwner)
	if err != nil {
		return fmt.Errorf("cannot retrieve stats: %w", err)
	}
	fmt.Println()
	fmt.Printf("Sessions: %d  High: %d  Average: %.1f\n", stats.Sessions, stats.HighScore, stats.AvgScore)
	return nil
}
