package generate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events an editor save produces.
var watchDebounce = 200 * time.Millisecond

// Watch calls run every time the file at path is written or replaced, until
// ctx is cancelled. The parent directory is watched so editors that save via
// rename are still seen. Errors from run are logged, not returned.
func Watch(ctx context.Context, path string, logger *slog.Logger, run func(context.Context) error) error {
	w, err := watchFile(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return watchLoop(ctx, w, path, logger, run)
}

func watchFile(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(filepath.Clean(path))); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return w, nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, logger *slog.Logger, run func(context.Context) error) error {
	path = filepath.Clean(path)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			logger.Info("schema changed, regenerating", "path", path)
			if err := run(ctx); err != nil {
				logger.Error("regeneration failed", "err", err)
			}
		}
	}
}
