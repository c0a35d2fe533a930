package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/conneroisu/fluentcarousel/internal/config"
	"github.com/conneroisu/fluentcarousel/internal/logging"
	"github.com/conneroisu/fluentcarousel/internal/types"
)

// WatchItems reloads the items file at path whenever it changes and hands
// the new collection to apply. A file that fails to parse is reported and
// the previous collection stays in place; a deleted file is ignored until
// it reappears.
func WatchItems(
	ctx context.Context,
	path string,
	debounce time.Duration,
	logger logging.Logger,
	apply func([]types.Item),
) (*FileWatcher, error) {
	fw, err := NewFileWatcher(debounce, logger)
	if err != nil {
		return nil, err
	}

	fw.AddFilter(ItemsFileFilter)
	fw.AddFilter(BaseNameFilter(path))
	fw.AddHandler(func(events []ChangeEvent) error {
		for _, event := range events {
			if event.Type == EventTypeDeleted {
				fw.logger.Warn(ctx, nil, "items file removed; keeping current items", "path", path)
				return nil
			}
		}

		items, err := config.LoadItems(path)
		if err != nil {
			return fmt.Errorf("reloading items: %w", err)
		}
		apply(items)
		fw.logger.Info(ctx, "items reloaded", "path", path, "items", len(items))
		return nil
	})

	dir := filepath.Dir(path)
	if err := fw.AddPath(dir); err != nil {
		_ = fw.Stop()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return nil, err
	}

	return fw, nil
}
