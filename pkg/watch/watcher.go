// Package watch reloads the remapper configuration when its file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/oscremap/pkg/config"
	"github.com/oscremap/pkg/logger"
	"github.com/oscremap/pkg/metrics"
)

// Target receives every newly loaded model
type Target interface {
	Load(model *config.Model)
}

// Watcher loads a configuration file into a Target and reloads it on change
type Watcher struct {
	path     string
	target   Target
	debounce time.Duration
	logger   *logger.Logger
}

// New creates a watcher for the config file at path
func New(logger *logger.Logger, path string, target Target, debounce time.Duration) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		target:   target,
		debounce: debounce,
		logger:   logger,
	}
}

// Reload loads the file and hands the result to the target. A file that
// cannot be loaded still replaces the active model with the fallback model;
// the error says why.
func (w *Watcher) Reload() error {
	model, err := config.LoadFromFile(w.path, w.logger)
	if err != nil {
		metrics.ConfigLoads.WithLabelValues(metrics.ResultFallback).Inc()
	} else {
		metrics.ConfigLoads.WithLabelValues(metrics.ResultOK).Inc()
	}
	w.target.Load(model)
	return err
}

// Run watches the file's directory until ctx is done, reloading after
// changes to the file settle for the debounce interval. Watching the
// directory keeps editors that replace the file by rename covered.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Info("Watching %s for changes", w.path)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !relevant(ev.Op) {
				continue
			}
			w.logger.Debug("Config file event: %s", ev)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error: %v", err)

		case <-timer.C:
			if err := w.Reload(); err != nil {
				w.logger.Error("Reload fell back to default configuration: %v", err)
			} else {
				w.logger.Info("Reloaded configuration from %s", w.path)
			}
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}
