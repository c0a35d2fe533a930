package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/conneroisu/fluentcarousel/internal/carousel"
	"github.com/conneroisu/fluentcarousel/internal/config"
	"github.com/conneroisu/fluentcarousel/internal/logging"
	"github.com/spf13/cobra"
)

var (
	playTicks    int
	playDuration time.Duration
)

var playCmd = &cobra.Command{
	Use:     "play",
	Aliases: []string{"p"},
	Short:   "Run the carousel autoplay in the terminal",
	Long: `Run the autoplay scheduler against the configured items and print
every item change. Autoplay is always enabled for this command.

Examples:
  carousel play                         # until interrupted
  carousel play --ticks 5 --loop        # stop after five changes
  carousel play --interval 500 --for 10s`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), carouselFlagBindings)
	},
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	addCarouselFlags(playCmd)
	playCmd.Flags().IntVarP(&playTicks, "ticks", "n", 0, "stop after this many item changes (0 = no limit)")
	playCmd.Flags().DurationVar(&playDuration, "for", 0, "stop after this long (0 = no limit)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, err = play(ctx, cmd.OutOrStdout(), cfg.Carousel, playTicks, playDuration, logger)
	return err
}

// play runs autoplay until ticks changes were printed, d elapsed or ctx
// ended, and returns the number of changes seen.
func play(ctx context.Context, out io.Writer, cfg config.CarouselConfig, ticks int, d time.Duration, logger logging.Logger) (int, error) {
	cfg.AutoPlay = true

	c, _, err := newEngine(cfg, logger)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	if c.Len() < 2 {
		return 0, fmt.Errorf("autoplay needs at least two items, got %d", c.Len())
	}

	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	events, unsubscribe := c.Subscribe()
	defer unsubscribe()

	if item, ok := c.CurrentItem(); ok {
		printItem(out, c.Index(), c.Len(), item.Label(), "start")
	}

	seen := 0
	for ticks <= 0 || seen < ticks {
		select {
		case <-ctx.Done():
			return seen, nil
		case event, ok := <-events:
			if !ok {
				return seen, nil
			}
			if event.Type != carousel.EventItemChange {
				continue
			}
			seen++
			printItem(out, event.Index, c.Len(), event.Item.Label(), string(event.Source))
		}
	}

	return seen, nil
}

func printItem(out io.Writer, index, total int, label, source string) {
	fmt.Fprintf(out, "[%-10s] %d/%d %s\n", source, index+1, total, label)
}
