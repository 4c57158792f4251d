package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher re-runs a full render pass whenever the templates directory or
// the output root changes. Changes are debounced so a burst of events
// (editor saves, bulk copies) yields a single pass. Passes stay
// sequential; watching only decides when one starts.
type Watcher struct {
	logger   *slog.Logger
	renderer *Renderer
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a Watcher over the renderer's templates directory,
// output root, and the root's immediate subdirectories. A non-positive
// debounce falls back to the default.
func NewWatcher(logger *slog.Logger, renderer *Renderer, debounce time.Duration) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		logger:   logger,
		renderer: renderer,
		watcher:  fsw,
		debounce: debounce,
	}

	for _, path := range w.watchPaths() {
		if err := fsw.Add(path); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
		logger.Debug("watching", "path", path)
	}

	return w, nil
}

// watchPaths lists the templates dir, the output root, and the root's
// immediate subdirectories (release notes nest at most one level).
func (w *Watcher) watchPaths() []string {
	paths := []string{w.renderer.templatesDir, w.renderer.root}

	entries, err := os.ReadDir(w.renderer.root)
	if err != nil {
		return paths
	}
	for _, entry := range entries {
		if entry.IsDir() {
			paths = append(paths, filepath.Join(w.renderer.root, entry.Name()))
		}
	}
	return paths
}

// Run blocks until the context is cancelled, re-rendering after each
// debounced change burst. Render failures are logged and watching
// continues; a human fixes the offending file and the next change
// triggers another pass.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.isOwnOutput(event.Name) {
				continue
			}
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			if err := w.renderer.Render(); err != nil {
				w.logger.Error("render pass failed", "error", err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// isOwnOutput reports whether a change is one of the renderer's own
// output files, which would otherwise re-trigger the pass that wrote
// them. The atomic write goes through a temp file named after the
// output, so matching on the output-name prefix covers both.
func (w *Watcher) isOwnOutput(path string) bool {
	if filepath.Dir(path) != w.renderer.root {
		return false
	}
	entries, err := os.ReadDir(w.renderer.templatesDir)
	if err != nil {
		return false
	}
	base := filepath.Base(path)
	for _, entry := range entries {
		if renderable(entry.Name()) && strings.HasPrefix(base, outputName(entry.Name())) {
			return true
		}
	}
	return false
}
