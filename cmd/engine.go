package cmd

import (
	"github.com/conneroisu/fluentcarousel/internal/carousel"
	"github.com/conneroisu/fluentcarousel/internal/config"
	"github.com/conneroisu/fluentcarousel/internal/logging"
	"github.com/conneroisu/fluentcarousel/internal/types"
)

// loadItems reads the configured items file, or returns the built-in
// samples when none is configured.
func loadItems(cfg config.CarouselConfig) ([]types.Item, error) {
	if cfg.ItemsFile == "" {
		return config.SampleItems(), nil
	}
	return config.LoadItems(cfg.ItemsFile)
}

// newEngine creates a carousel and pushes the configured inputs into it
// through a Sync, the same path later reloads take.
func newEngine(cfg config.CarouselConfig, logger logging.Logger, opts ...carousel.Option) (*carousel.Carousel, *carousel.Sync, error) {
	items, err := loadItems(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]carousel.Option{carousel.WithID("main"), carousel.WithLogger(logger)}, opts...)
	c := carousel.New(opts...)
	syncer := carousel.NewSync(c)
	syncer.Apply(cfg.SyncConfig(items))

	return c, syncer, nil
}
