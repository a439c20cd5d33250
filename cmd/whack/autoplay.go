package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-whack/internal/core"
	"github.com/vovakirdan/tui-whack/internal/games/whack"
	"github.com/vovakirdan/tui-whack/internal/sched"
)

var (
	flagAccuracy float64
	flagReaction time.Duration
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Run a session with a simulated player",
	Long: `Run one full session without a screen. A simulated player taps once
per reaction interval and hits the target with the given accuracy.

The session is timed in real time, uses the same config as play, and is
recorded in the history and the best score like any other session.
Press Ctrl+C to stop early.

Examples:
  whack autoplay
  whack autoplay --accuracy 1 --reaction 100ms
  whack autoplay --seed 7 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runAutoplay,
}

func init() {
	autoplayCmd.Flags().Float64Var(&flagAccuracy, "accuracy", 0.8, "Chance that a tap lands on the target (0-1)")
	autoplayCmd.Flags().DurationVar(&flagReaction, "reaction", 250*time.Millisecond, "Time between taps")
}

func runAutoplay(cmd *cobra.Command, _ []string) error {
	if flagReaction <= 0 {
		return fmt.Errorf("--reaction must be positive, got %s", flagReaction)
	}

	logger, closeLog, err := newLogger(os.Stderr, "whack-auto")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, _ := openStore(logger, true)
	if store != nil {
		defer store.Close()
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var kv whack.KV
	if store != nil {
		kv = store
	}
	loop := sched.NewLoop(nil)
	ctrl := whack.NewController(cfg, whack.Deps{
		Scheduler: loop,
		Best:      whack.LoadBestScore(kv, whack.OwnerKey(cfg.Storage.BestScoreKey, core.LocalOwner), logger),
		Rand:      rand.New(rand.NewSource(seed)),
		Logger:    logger,
	})
	bot := whack.NewBot(ctrl, loop, flagReaction, flagAccuracy, rand.New(rand.NewSource(seed+1)))
	bot.OnTap(func(cell int, outcome whack.TapOutcome) {
		logger.Debug("tap", "cell", cell+1, "outcome", outcome)
	})

	done := make(chan whack.Result, 1)
	ctrl.OnEnd(func(r whack.Result) {
		if store != nil {
			if _, err := store.SaveResult(core.LocalOwner, r); err != nil {
				logger.Warn("session not recorded", "err", err)
			}
		}
		select {
		case done <- r:
		default:
		}
	})

	// The loop outlives the signal context so Close can still run on it.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	g := new(errgroup.Group)
	g.Go(func() error {
		if err := loop.Run(loopCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("session started", "seconds", cfg.Session.LengthSeconds,
		"accuracy", flagAccuracy, "reaction", flagReaction, "seed", seed)
	loop.Call(func() {
		ctrl.Start()
		bot.Start()
	})

	var result whack.Result
	select {
	case result = <-done:
	case <-sigCtx.Done():
		logger.Info("interrupted, stopping session")
		loop.Call(ctrl.Close)
		result = <-done
	}

	var hits, misses int
	loop.Call(func() {
		bot.Stop()
		hits, misses = bot.Taps()
	})
	stopLoop()
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Score %d  Best %d  Hits %d  Misses %d  (%s after %s)\n",
		result.Score, result.Best, hits, misses, result.Reason, result.Played.Round(time.Second))
	if result.NewBest {
		fmt.Println("New best score!")
	}
	return nil
}
