package ingestion

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/scholarkb/extract"
)

// watchDebounce is how long a file must stay quiet before it is
// re-ingested. Editors and sync tools fire several events per save.
const watchDebounce = 2 * time.Second

// Watcher re-ingests documents as they change on disk.
type Watcher struct {
	ingester *Ingester
	logger   *slog.Logger
}

// NewWatcher creates a watcher driving the given ingester.
func NewWatcher(ingester *Ingester) *Watcher {
	return &Watcher{
		ingester: ingester,
		logger:   slog.Default().With("component", "watcher"),
	}
}

// Watch blocks, re-ingesting supported files under root whenever they
// are created or written, until the context is cancelled. Events for
// the same path within the debounce window collapse into one run.
func (w *Watcher) Watch(ctx context.Context, root string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// Watch root and all current subdirectories
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		if timer, ok := timers[path]; ok {
			timer.Stop()
		}
		timers[path] = time.AfterFunc(watchDebounce, func() {
			mu.Lock()
			delete(timers, path)
			mu.Unlock()

			stats := &Stats{}
			if err := w.ingester.IngestFile(ctx, path, false, stats); err != nil {
				w.logger.Error("re-ingestion failed", "path", path, "err", err)
			}
		})
	}

	w.logger.Info("watching for changes", "root", root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			// New directories need their own watch
			if isDir(event.Name) {
				if err := fsw.Add(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "err", err)
				}
				continue
			}
			if extract.SupportedPath(event.Name) {
				schedule(event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "err", err)
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
