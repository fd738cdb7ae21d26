package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brubcam/GEOG-464-Lab-8/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog file at path whenever it changes and passes each
// successfully parsed catalog to onReload. A file that fails to parse is
// logged and ignored so the caller keeps serving the previous catalog.
func Watch(ctx context.Context, path string, onReload func(*Catalog)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	dir := filepath.Dir(target)

	// Editors often replace files rather than write in place, so watch the directory.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			c, err := LoadFile(os.DirFS(dir), filepath.Base(target))
			if err != nil {
				logger.Warn("Catalog reload failed, keeping previous catalog: %v", err)
				continue
			}
			logger.Muted("Catalog reloaded from %s: %d stations, %d skipped", target, c.Len(), c.Skipped)
			onReload(c)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Catalog watcher error: %v", err)
		}
	}
}
