package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 callback invocation, got %d", n)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not run after Cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	if d := NewDebouncer(0); d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	path := writeConfig(t, "ui:\n  proximity_window: 12\n")

	var changed atomic.Bool
	w, err := NewWatcher(path,
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("ui:\n  proximity_window: 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)

	if !changed.Load() {
		t.Error("expected change to be detected")
	}
}

func TestWatcher_PollingFallback(t *testing.T) {
	path := writeConfig(t, "ui: {}\n")

	var changed atomic.Bool
	w, err := NewWatcher(path,
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("ui:\n  word_wrap: 60\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	if !changed.Load() {
		t.Error("expected change to be detected via polling")
	}
}

func TestWatcher_ChangedChannel(t *testing.T) {
	path := writeConfig(t, "ui: {}\n")

	w, err := NewWatcher(path,
		WithDebounceDuration(30*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("ui:\n  dark: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(time.Second):
		t.Error("timeout waiting for change notification")
	}
}

func TestWatcher_ContextCancelStopsWatch(t *testing.T) {
	path := writeConfig(t, "ui: {}\n")

	var calls atomic.Int32
	w, err := NewWatcher(path,
		WithDebounceDuration(10*time.Millisecond),
		WithPollInterval(20*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(func() { calls.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("ui:\n  word_wrap: 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	w.Stop()

	if n := calls.Load(); n != 0 {
		t.Errorf("expected no callbacks after context cancel, got %d", n)
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	for _, name := range []string{"NEURALX_FORCE_POLL", "NEURALX_FORCE_POLLING"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, "true")
			path := writeConfig(t, "ui: {}\n")

			w, err := NewWatcher(path, WithPollInterval(25*time.Millisecond))
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Start(context.Background()); err != nil {
				t.Fatal(err)
			}
			defer w.Stop()

			if !w.IsPolling() {
				t.Fatalf("expected polling mode when %s is set", name)
			}
		})
	}
}

func TestWatcher_RemoteFilesystem_UsesPolling(t *testing.T) {
	path := writeConfig(t, "ui: {}\n")

	orig := detectFilesystemTypeFunc
	detectFilesystemTypeFunc = func(string) FilesystemType { return FSTypeNFS }
	t.Cleanup(func() { detectFilesystemTypeFunc = orig })

	w, err := NewWatcher(path, WithPollInterval(25*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling on a remote filesystem")
	}
	if got := w.FilesystemType(); got != FSTypeNFS {
		t.Fatalf("expected filesystem type %v, got %v", FSTypeNFS, got)
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	path := writeConfig(t, "ui: {}\n")

	var (
		mu  sync.Mutex
		got error
	)
	w, err := NewWatcher(path,
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			mu.Lock()
			got = err
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(30 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(got, ErrFileRemoved) {
		t.Errorf("expected ErrFileRemoved, got %v", got)
	}
}

func TestWatcher_MissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var changed atomic.Bool
	w, err := NewWatcher(path,
		WithDebounceDuration(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(func() { changed.Store(true) }),
		WithOnError(func(err error) { t.Errorf("unexpected error: %v", err) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("ui: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if !changed.Load() {
		t.Error("creating the file should count as a change")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	path := writeConfig(t, "ui: {}\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if w.IsStarted() {
		t.Error("watcher should not be started initially")
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !w.IsStarted() {
		t.Error("watcher should be started after Start")
	}
	if err := w.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should not be started after Stop")
	}
	w.Stop()
}

func TestWatcher_PathAndPollInterval(t *testing.T) {
	path := writeConfig(t, "ui: {}\n")

	w, err := NewWatcher(path, WithPollInterval(500*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	absPath, _ := filepath.Abs(path)
	if w.Path() != absPath {
		t.Errorf("expected path %s, got %s", absPath, w.Path())
	}
	if got := w.PollInterval(); got != 500*time.Millisecond {
		t.Errorf("expected poll interval 500ms, got %v", got)
	}

	w, _ = NewWatcher(path, WithPollInterval(0))
	if got := w.PollInterval(); got != DefaultPollInterval {
		t.Errorf("non-positive interval should keep the default, got %v", got)
	}
}

func TestFilesystemType_String(t *testing.T) {
	tests := []struct {
		fsType   FilesystemType
		expected string
	}{
		{FSTypeUnknown, "unknown"},
		{FSTypeLocal, "local"},
		{FSTypeNFS, "nfs"},
		{FSTypeSMB, "smb"},
		{FSTypeSSHFS, "sshfs"},
		{FSTypeFUSE, "fuse"},
		{FilesystemType(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.fsType.String(); got != tc.expected {
			t.Errorf("FilesystemType(%d).String() = %q, expected %q", tc.fsType, got, tc.expected)
		}
	}
}

func TestIsRemoteFilesystem(t *testing.T) {
	if isRemoteFilesystem(FSTypeLocal) || isRemoteFilesystem(FSTypeUnknown) {
		t.Error("local and unknown filesystems should use fsnotify")
	}
	for _, ft := range []FilesystemType{FSTypeNFS, FSTypeSMB, FSTypeSSHFS, FSTypeFUSE} {
		if !isRemoteFilesystem(ft) {
			t.Errorf("%s should be treated as remote", ft)
		}
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"y", true},
		{"on", true},
		{" on ", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"invalid", false},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("NEURALX_TEST_BOOL", tc.value)
			if got := envBool("NEURALX_TEST_BOOL"); got != tc.expected {
				t.Errorf("envBool(%q) = %v, expected %v", tc.value, got, tc.expected)
			}
		})
	}
}

func TestDetectFilesystemType_EmptyPath(t *testing.T) {
	if got := DetectFilesystemType(""); got != FSTypeUnknown {
		t.Errorf("DetectFilesystemType(\"\") = %v, expected FSTypeUnknown", got)
	}
}

func TestDetectFilesystemType_NonExistentPath(t *testing.T) {
	// Falls back to the parent directory; must not panic.
	_ = DetectFilesystemType(filepath.Join(t.TempDir(), "missing.yaml"))
}
