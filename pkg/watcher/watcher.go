// Package watcher reports changes to a single file on disk. neuralx uses it
// to follow the config file while the TUI runs, so edits to the proximity
// window or wrap width apply without a restart.
//
// fsnotify is used where the filesystem supports it. Remote and FUSE mounts,
// or NEURALX_FORCE_POLL=1, fall back to stat polling.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/neuralx/pkg/debug"
)

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// detectFilesystemTypeFunc is swapped in tests.
var detectFilesystemTypeFunc = DetectFilesystemType

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithOnChange sets the callback invoked when the file changes.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// Watcher monitors one file. It is safe for concurrent use.
type Watcher struct {
	path             string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool

	mu        sync.RWMutex
	started   bool
	polling   bool
	fsType    FilesystemType
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	lastMtime time.Time
	lastSize  int64
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	changeCh  chan struct{}
}

// NewWatcher creates a watcher for path. The file does not need to exist yet.
func NewWatcher(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching. The watch ends on Stop or when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	info, err := os.Stat(w.path)
	switch {
	case err == nil:
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	case os.IsPermission(err):
		return ErrPermission
	default:
		w.lastMtime = time.Time{}
		w.lastSize = 0
	}

	w.fsType = detectFilesystemTypeFunc(w.path)
	w.polling = w.forcePoll || envBool("NEURALX_FORCE_POLL") || envBool("NEURALX_FORCE_POLLING") ||
		isRemoteFilesystem(w.fsType)

	ctx, w.cancel = context.WithCancel(ctx)

	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			// The directory is watched so editors that replace the file
			// atomically keep being tracked.
			if err := fsw.Add(filepath.Dir(w.path)); err != nil {
				_ = fsw.Close()
				w.polling = true
			} else {
				w.fsWatcher = fsw
			}
		} else {
			w.polling = true
		}
	}

	w.wg.Add(1)
	if w.polling {
		go w.watchPolling(ctx)
	} else {
		go w.watchFsnotify(ctx, w.fsWatcher)
	}

	debug.Log("watcher: %s (fs=%s polling=%v)", w.path, w.fsType, w.polling)
	w.started = true
	return nil
}

// Stop stops watching and waits for the watch goroutine to exit. It is safe
// to call more than once.
//
// The Changed channel is not closed, so a reader blocked on it stays blocked
// instead of seeing a spurious change.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.cancel()
	if w.fsWatcher != nil {
		_ = w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.mu.Unlock()

	w.wg.Wait()
}

// IsPolling reports whether the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives after each debounced change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the absolute watched path.
func (w *Watcher) Path() string {
	return w.path
}

// FilesystemType returns the filesystem classification made by Start.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the polling interval used in polling mode.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func (w *Watcher) watchFsnotify(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	target := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove):
				w.onError(ErrFileRemoved)
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.poll() {
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

// poll stats the file once and reports whether it changed since the last
// observation.
func (w *Watcher) poll() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			w.mu.Lock()
			hadFile := !w.lastMtime.IsZero()
			w.lastMtime, w.lastSize = time.Time{}, 0
			w.mu.Unlock()
			if hadFile {
				w.onError(ErrFileRemoved)
			}
		case os.IsPermission(err):
			w.onError(ErrPermission)
		default:
			w.onError(err)
		}
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.lastMtime) && info.Size() == w.lastSize {
		return false
	}
	w.lastMtime = info.ModTime()
	w.lastSize = info.Size()
	return true
}

func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
