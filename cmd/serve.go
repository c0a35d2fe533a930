package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/conneroisu/fluentcarousel/internal/carousel"
	"github.com/conneroisu/fluentcarousel/internal/config"
	"github.com/conneroisu/fluentcarousel/internal/logging"
	"github.com/conneroisu/fluentcarousel/internal/server"
	"github.com/conneroisu/fluentcarousel/internal/watcher"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the carousel showcase server",
	Long: `Start the showcase server. The page renders the carousel, forwards
clicks, navigation and hover to the engine over WebSocket and shows every
itemChange and itemClick notification.

The items file and the configuration file are watched; changes are pushed
into the running carousel without restarting it.

Examples:
  carousel serve
  carousel serve --items slides.yml --autoplay --loop
  carousel serve --port 9090 --interval 5000`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), serveFlagBindings())
	},
	RunE: runServe,
}

func serveFlagBindings() map[string]string {
	bindings := map[string]string{
		"server.port":   "port",
		"server.host":   "host",
		"watch.enabled": "watch",
	}
	for k, v := range carouselFlagBindings {
		bindings[k] = v
	}
	return bindings
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("watch", true, "Reload the items file when it changes")
	addCarouselFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	c, syncer, err := newEngine(cfg.Carousel, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Watch.Enabled && cfg.Carousel.ItemsFile != "" {
		fw, err := watcher.WatchItems(ctx, cfg.Carousel.ItemsFile, cfg.Watch.DebounceDelay(), logger, syncer.SetItems)
		if err != nil {
			return err
		}
		defer fw.Stop()
	}

	if cfg.Watch.Enabled {
		watchConfig(ctx, syncer, logger)
	}

	srv, err := server.New(cfg, c, logger)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn(shutdownCtx, err, "error during server shutdown")
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting carousel showcase at http://%s\n", cfg.Server.Addr())

	return srv.Start(ctx)
}

// watchConfig pushes edits of the configuration file into the running
// carousel. Invalid edits are logged and leave the carousel untouched.
func watchConfig(ctx context.Context, syncer *carousel.Sync, logger logging.Logger) {
	if viper.ConfigFileUsed() == "" {
		return
	}

	viper.OnConfigChange(func(event fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		applyConfigChange(ctx, syncer, logger, event.Name)
	})
	viper.WatchConfig()
}

func applyConfigChange(ctx context.Context, syncer *carousel.Sync, logger logging.Logger, name string) []string {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn(ctx, err, "configuration change rejected", "file", name)
		return nil
	}

	items, err := loadItems(cfg.Carousel)
	if err != nil {
		logger.Warn(ctx, err, "items file rejected", "file", cfg.Carousel.ItemsFile)
		return nil
	}

	changed := syncer.Apply(cfg.Carousel.SyncConfig(items))
	if len(changed) > 0 {
		logger.Info(ctx, "configuration applied", "file", name, "changed", changed)
	}
	return changed
}
