// Package watch triggers a callback when a local file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// ChangeFunc is called once per debounced burst of changes.
type ChangeFunc func(ctx context.Context) error

// Watcher watches a single file. The parent directory is watched so that
// editors replacing the file by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange ChangeFunc
	logger   logging.Logger
	fsw      *fsnotify.Watcher
}

// Option configures a Watcher
type Option func(*Watcher)

// WithLogger sets the watcher logger
func WithLogger(logger logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets the quiet period before onChange fires
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New starts watching path. Events are only delivered once Run is called;
// Close releases the watch if Run is never called.
func New(path string, onChange ChangeFunc, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   logging.NewNopLogger(),
		fsw:      fsw,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(logging.Component("watch"), logging.Path(abs))
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers debounced changes until ctx is done. It closes the underlying
// watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", logging.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				w.logger.Warn("change handler failed", logging.Error(err))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

// Close stops watching without running
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
