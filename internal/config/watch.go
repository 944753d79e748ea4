package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 100 * time.Millisecond

// Watcher reloads a config file and its includes when they change on disk.
type Watcher struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	files   map[string]struct{}
}

// NewWatcher starts watching the directories of path and of every file it
// includes. Directories are watched rather than files so that editors which
// replace the file on save are still noticed.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	w := &Watcher{path: path, logger: logger, watcher: fw, files: make(map[string]struct{})}
	if err := w.track(path); err != nil {
		fw.Close()
		return nil, err
	}
	if res, err := LoadFromPath(path); err == nil {
		for _, f := range res.Files {
			if err := w.track(f); err != nil {
				fw.Close()
				return nil, err
			}
		}
	}
	return w, nil
}

func (w *Watcher) track(file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if _, ok := w.files[abs]; ok {
		return nil
	}
	w.files[abs] = struct{}{}
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return nil
}

// Run calls onChange with the reloaded configuration after each change
// until ctx is done. Changes that fail to load or validate are logged and
// skipped. Bursts of events are coalesced into one reload.
func (w *Watcher) Run(ctx context.Context, onChange func(*LoadResult)) {
	defer w.watcher.Close()

	timer := time.NewTimer(reloadDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, tracked := w.files[name]; !tracked {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(reloadDelay)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		case <-timer.C:
			res, err := LoadFromPath(w.path)
			if err != nil {
				w.logger.Warn("config reload failed", "path", w.path, "error", err)
				continue
			}
			for _, f := range res.Files {
				if err := w.track(f); err != nil {
					w.logger.Warn("failed to watch included config", "file", f, "error", err)
				}
			}
			w.logger.Info("config reloaded", "path", w.path)
			onChange(res)
		}
	}
}
