package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/chaek-labs/bindery-cli/internal/core/ports/driving"
	"github.com/chaek-labs/bindery-cli/internal/logger"
)

// settleDelay is how long a changed file must sit quiet before a rescan.
// Dropping a large dump into the directory fires many write events; the
// delay coalesces them into a single conversion pass.
const settleDelay = 2 * time.Second

// watchAssets re-runs a conversion pass whenever a text file appears or
// changes under dir. It returns when ctx is cancelled.
func watchAssets(ctx context.Context, cmd *cobra.Command, dir string, runOnce func(context.Context) (*driving.BatchResult, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	cmd.Printf("Watching %s for new books (Ctrl+C to stop)\n", dir)

	ticker := time.NewTicker(settleDelay)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".txt") {
				continue
			}
			logger.Debug("Asset change: %s", ev)
			pending = true

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", werr)

		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			if _, err := runOnce(ctx); err != nil {
				logger.Error("Conversion pass failed: %v", err)
			}
		}
	}
}
