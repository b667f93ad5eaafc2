package scene

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// DefaultDebounce is how long a scene file must stay quiet before a change is reported
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a single scene file. It watches the parent
// directory so editors that save by renaming a temp file are still seen.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   core.Logger
}

// NewWatcher starts watching path. Events are only delivered once Run is called.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		fsnotify: fsWatch,
		path:     abs,
		debounce: DefaultDebounce,
		logger:   core.NopLogger{},
	}, nil
}

// SetDebounce changes the quiet period. Non-positive values report every event.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// SetLogger sets the logger used for watcher errors
func (w *Watcher) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	w.logger = logger
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching. Run returns once the event channels drain.
func (w *Watcher) Close() error {
	return w.fsnotify.Close()
}

// Run blocks until ctx is cancelled or the watcher is closed, calling onChange
// on the Run goroutine after each burst of writes to the scene file settles.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.fsnotify.Close()

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != w.path || e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.logger.Debugf("scene file event: %s", e)

			if w.debounce <= 0 {
				onChange()
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.debounce)
			}

		case <-fire:
			onChange()

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// Events were dropped, so assume the file changed
				onChange()
				continue
			}
			w.logger.Warnf("scene watcher: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
