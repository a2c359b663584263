package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/apriori/internal/logging"
)

// DefaultDebounce is the quiet period used when New is given zero.
const DefaultDebounce = 500 * time.Millisecond

// Watcher invokes a callback once per burst of changes to a single file.
type Watcher struct {
	matcher  *matcher
	dir      string
	debounce time.Duration
	onChange func()

	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// New creates a Watcher for path. The callback runs on the watcher's
// goroutine, so consecutive callbacks never overlap.
func New(path string, debounce time.Duration, onChange func()) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("onChange callback cannot be nil")
	}
	m, err := newMatcher(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		matcher:  m,
		dir:      filepath.Dir(m.path),
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.matcher.path
}

// Start subscribes to the file's directory and begins delivering callbacks.
// A stopped watcher may be started again.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return errors.New("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return errors.Wrapf(err, "failed to watch %s", w.dir)
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.started = true

	w.wg.Add(1)
	go w.run()

	logging.Logger.Debugw("watching file", "path", w.matcher.path, "debounce", w.debounce)
	return nil
}

// run forwards matching events through the debounce timer until stopped.
func (w *Watcher) run() {
	defer w.wg.Done()

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
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matcher.matches(ev) {
				continue
			}
			logging.Logger.Debugw("file event", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Logger.Warnw("file watcher error", "error", err)

		case <-fire:
			fire = nil
			w.onChange()

		case <-w.stopCh:
			return
		}
	}
}

// Stop halts the watcher and waits for a running callback to return.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil
	}
	w.started = false

	close(w.stopCh)
	w.wg.Wait()

	if err := w.fsw.Close(); err != nil {
		return errors.Wrap(err, "failed to close file watcher")
	}
	return nil
}
