package hooks

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook tests use sh")
	}
}

func writeHooksFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ProjectFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write hooks.yaml: %v", err)
	}
	return path
}

func TestExportContextToEnv(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	env := ExportContext{ExportPath: "out/paper.md", ExportFormat: "markdown", SectionCount: 5, Timestamp: ts}.ToEnv()

	want := []string{
		"NEURALX_EXPORT_PATH=out/paper.md",
		"NEURALX_EXPORT_FORMAT=markdown",
		"NEURALX_SECTION_COUNT=5",
		"NEURALX_TIMESTAMP=2024-03-01T12:00:00Z",
	}
	if len(env) != len(want) {
		t.Fatalf("got %d vars, want %d", len(env), len(want))
	}
	for i := range want {
		if env[i] != want[i] {
			t.Errorf("env[%d] = %q, want %q", i, env[i], want[i])
		}
	}
}

func TestLoaderNoConfig(t *testing.T) {
	l := NewLoader(WithProjectDir(t.TempDir()))
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.HasHooks() || l.Path() != "" {
		t.Errorf("expected no hooks, path %q", l.Path())
	}
}

func TestLoaderDefaults(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, `
hooks:
  pre-export:
    - command: echo pre
      timeout: 5s
  post-export:
    - name: upload
      command: echo post
      timeout: 2
      env:
        TARGET: $NEURALX_EXPORT_PATH
    - command: "  "
`)
	l := NewLoader(WithProjectDir(dir))
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	pre := l.GetHooks(PreExport)
	if len(pre) != 1 {
		t.Fatalf("pre hooks = %d", len(pre))
	}
	if pre[0].Name != "pre-export-1" || pre[0].OnError != OnErrorFail || pre[0].Timeout != 5*time.Second {
		t.Errorf("pre hook defaults: %+v", pre[0])
	}

	post := l.GetHooks(PostExport)
	if len(post) != 1 {
		t.Fatalf("empty command should be dropped, got %d post hooks", len(post))
	}
	if post[0].OnError != OnErrorContinue || post[0].Timeout != 2*time.Second {
		t.Errorf("post hook defaults: %+v", post[0])
	}
	if len(l.Warnings()) != 1 {
		t.Errorf("warnings = %v", l.Warnings())
	}
	if l.GetHooks("other") != nil {
		t.Error("unknown phase should have no hooks")
	}
}

func TestLoaderFallsBackToConfigDir(t *testing.T) {
	cfgDir := t.TempDir()
	path := filepath.Join(cfgDir, "hooks.yaml")
	if err := os.WriteFile(path, []byte("hooks:\n  post-export:\n    - command: echo ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(WithProjectDir(t.TempDir()), WithConfigDir(cfgDir))
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !l.HasHooks() || l.Path() != path {
		t.Errorf("expected hooks from %s, got path %q", path, l.Path())
	}
}

func TestLoaderInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, "hooks: [")
	if err := NewLoader(WithProjectDir(dir)).Load(); err == nil {
		t.Fatal("expected parse error")
	}

	writeHooksFile(t, dir, "hooks:\n  pre-export:\n    - command: x\n      timeout: soon\n")
	if err := NewLoader(WithProjectDir(dir)).Load(); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestExecutorRunSimpleHook(t *testing.T) {
	skipOnWindows(t)
	cfg := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "hello", Command: "echo hello", Timeout: 5 * time.Second, OnError: OnErrorFail},
	}}}
	e := NewExecutor(cfg, ExportContext{})
	if err := e.RunPreExport(); err != nil {
		t.Fatalf("RunPreExport: %v", err)
	}
	res := e.Results()
	if len(res) != 1 || !res[0].Success || strings.TrimSpace(res[0].Stdout) != "hello" {
		t.Fatalf("results = %+v", res)
	}
}

func TestExecutorPreExportStopsOnFail(t *testing.T) {
	skipOnWindows(t)
	cfg := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "fail", Command: "exit 3", Timeout: time.Second, OnError: OnErrorFail},
		{Name: "never", Command: "echo never", Timeout: time.Second, OnError: OnErrorFail},
	}}}
	e := NewExecutor(cfg, ExportContext{})
	if err := e.RunPreExport(); err == nil {
		t.Fatal("expected error")
	}
	if len(e.Results()) != 1 {
		t.Errorf("second hook should not run, got %d results", len(e.Results()))
	}
}

func TestExecutorPostExportRunsAll(t *testing.T) {
	skipOnWindows(t)
	cfg := &Config{Hooks: HooksByPhase{PostExport: []Hook{
		{Name: "fail", Command: "exit 1", Timeout: time.Second, OnError: OnErrorFail},
		{Name: "soft", Command: "exit 1", Timeout: time.Second, OnError: OnErrorContinue},
		{Name: "ok", Command: "true", Timeout: time.Second, OnError: OnErrorContinue},
	}}}
	e := NewExecutor(cfg, ExportContext{})
	err := e.RunPostExport()
	if err == nil || !strings.Contains(err.Error(), `"fail"`) {
		t.Fatalf("expected error naming the failing hook, got %v", err)
	}
	if len(e.Results()) != 3 {
		t.Fatalf("expected every hook to run, got %d", len(e.Results()))
	}
}

func TestExecutorContinueOnlyFailureIsNotAnError(t *testing.T) {
	skipOnWindows(t)
	cfg := &Config{Hooks: HooksByPhase{PostExport: []Hook{
		{Name: "soft", Command: "exit 1", Timeout: time.Second, OnError: OnErrorContinue},
	}}}
	if err := NewExecutor(cfg, ExportContext{}).RunPostExport(); err != nil {
		t.Fatalf("continue hooks must not fail the phase: %v", err)
	}
}

func TestExecutorTimeout(t *testing.T) {
	skipOnWindows(t)
	cfg := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "slow", Command: "sleep 5", Timeout: 100 * time.Millisecond, OnError: OnErrorFail},
	}}}
	e := NewExecutor(cfg, ExportContext{})
	start := time.Now()
	if err := e.RunPreExport(); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 4*time.Second {
		t.Errorf("timeout not enforced, took %s", time.Since(start))
	}
	if !strings.Contains(e.Results()[0].Err.Error(), "timed out") {
		t.Errorf("err = %v", e.Results()[0].Err)
	}
}

func TestExecutorEnvironment(t *testing.T) {
	skipOnWindows(t)
	cfg := &Config{Hooks: HooksByPhase{PostExport: []Hook{{
		Name:    "env",
		Command: `echo "$NEURALX_EXPORT_FORMAT $TARGET"`,
		Timeout: time.Second,
		Env:     map[string]string{"TARGET": "dest:${NEURALX_EXPORT_PATH}"},
		OnError: OnErrorFail,
	}}}}
	e := NewExecutor(cfg, ExportContext{ExportPath: "out", ExportFormat: "all"})
	if err := e.RunPostExport(); err != nil {
		t.Fatalf("RunPostExport: %v", err)
	}
	if got := strings.TrimSpace(e.Results()[0].Stdout); got != "all dest:out" {
		t.Errorf("stdout = %q", got)
	}
}

func TestExecutorSummary(t *testing.T) {
	skipOnWindows(t)
	if got := NewExecutor(nil, ExportContext{}).Summary(); got != "No hooks executed" {
		t.Errorf("empty summary = %q", got)
	}

	cfg := &Config{Hooks: HooksByPhase{
		PreExport:  []Hook{{Name: "ok", Command: "true", Timeout: time.Second, OnError: OnErrorFail}},
		PostExport: []Hook{{Name: "bad", Command: "echo boom >&2; exit 1", Timeout: time.Second, OnError: OnErrorContinue}},
	}}
	e := NewExecutor(cfg, ExportContext{})
	_ = e.RunPreExport()
	_ = e.RunPostExport()

	s := e.Summary()
	for _, want := range []string{"1/2 succeeded", "✓ [pre-export] ok", "✗ [post-export] bad", "boom"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestRunHooks(t *testing.T) {
	dir := t.TempDir()
	if e, err := RunHooks(dir, "", ExportContext{}, false); e != nil || err != nil {
		t.Fatalf("no config: e=%v err=%v", e, err)
	}

	writeHooksFile(t, dir, "hooks:\n  pre-export:\n    - command: echo hi\n")
	if e, err := RunHooks(dir, "", ExportContext{}, true); e != nil || err != nil {
		t.Fatalf("noHooks should short-circuit: e=%v err=%v", e, err)
	}

	e, err := RunHooks(dir, "", ExportContext{}, false)
	if err != nil || e == nil {
		t.Fatalf("expected executor: e=%v err=%v", e, err)
	}
	if len(e.Results()) != 0 {
		t.Errorf("results before any run: %v", e.Results())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefghijklmnopqrstuvwxyz", 8); got != "abcde..." {
		t.Errorf("truncate = %q", got)
	}
}
