package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"sitecontent/internal/scheduler"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher rebuilds the static collection when content files change. Bursts
// of events (an editor saving several files) collapse into one rebuild.
type Watcher struct {
	dir      string
	patterns []string
	builder  scheduler.Builder
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher for dir. Only files matching patterns, and the
// categories file, trigger rebuilds.
func New(dir string, patterns []string, builder scheduler.Builder, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if len(patterns) == 0 {
		patterns = []string{"*.mdx", "*.md"}
	}
	return &Watcher{
		dir:      dir,
		patterns: patterns,
		builder:  builder,
		debounce: debounce,
		logger:   logger.With("component", "watcher", "dir", dir),
	}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching content")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(fsw, event) {
				continue
			}
			w.logger.Debug("content changed", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)

		case <-fire:
			fire = nil
			if _, err := w.builder.Build(ctx); err != nil {
				w.logger.Error("rebuild failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fsw, event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return true
		}
	}

	name := filepath.Base(event.Name)
	if name == "categories.yaml" {
		return true
	}
	for _, pattern := range w.patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// addTree watches root and every directory below it. fsnotify is not
// recursive.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fsw.Add(path)
	})
}
