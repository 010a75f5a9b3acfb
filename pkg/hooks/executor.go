package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/vanderheijden86/neuralx/pkg/debug"
)

// maxSummaryOutput bounds the stderr quoted per hook in Summary.
const maxSummaryOutput = 200

// HookResult records one hook run.
type HookResult struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error
}

// Executor runs the hooks of a Config for one export.
type Executor struct {
	config  *Config
	context ExportContext
	results []HookResult
}

// NewExecutor creates an executor. A nil config runs nothing.
func NewExecutor(config *Config, ctx ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, context: ctx}
}

// RunHooks loads the hooks for projectDir (falling back to configDir) and
// returns an executor, or nil when noHooks is set or nothing is configured.
func RunHooks(projectDir, configDir string, ctx ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	loader := NewLoader(WithProjectDir(projectDir), WithConfigDir(configDir))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	for _, w := range loader.Warnings() {
		debug.Log("hooks: %s", w)
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), ctx), nil
}

// RunPreExport runs the pre-export hooks in order. The first failing hook
// with on_error=fail stops the run and its error is returned.
func (e *Executor) RunPreExport() error {
	return e.runPhase(PreExport, e.config.Hooks.PreExport, true)
}

// RunPostExport runs every post-export hook. It returns the first failure of
// a hook with on_error=fail, after all hooks have run.
func (e *Executor) RunPostExport() error {
	return e.runPhase(PostExport, e.config.Hooks.PostExport, false)
}

func (e *Executor) runPhase(phase HookPhase, hooks []Hook, stopOnFail bool) error {
	var firstErr error
	for _, h := range hooks {
		res := e.run(phase, h)
		e.results = append(e.results, res)
		if res.Success {
			continue
		}
		debug.Log("hooks: %s %q failed: %v", phase, h.Name, res.Err)
		if h.OnError == OnErrorContinue {
			continue
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("%s hook %q: %w", phase, h.Name, res.Err)
		}
		if stopOnFail {
			return firstErr
		}
	}
	return firstErr
}

func (e *Executor) run(phase HookPhase, h Hook) HookResult {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := shellCommand(ctx, h.Command)
	cmd.Env = e.environ(h)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Do not wait on grandchildren holding the pipes after a timeout.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	res := HookResult{
		Hook:     h,
		Phase:    phase,
		Success:  err == nil,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		Err:      err,
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Success = false
		res.Err = fmt.Errorf("timed out after %s", timeout)
	}
	return res
}

// environ is the process environment plus the export context plus the
// hook's own variables, which may reference the former.
func (e *Executor) environ(h Hook) []string {
	env := append(os.Environ(), e.context.ToEnv()...)
	lookup := make(map[string]string, len(env))
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			lookup[k] = v
		}
	}
	for k, v := range h.Env {
		env = append(env, k+"="+os.Expand(v, func(name string) string { return lookup[name] }))
	}
	return env
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// Results returns every hook run so far, in order.
func (e *Executor) Results() []HookResult {
	return e.results
}

// Summary is a short human-readable report of the runs.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return "No hooks executed"
	}
	ok := 0
	for _, r := range e.results {
		if r.Success {
			ok++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hooks: %d/%d succeeded", ok, len(e.results))
	for _, r := range e.results {
		mark := "✓"
		if !r.Success {
			mark = "✗"
		}
		fmt.Fprintf(&b, "\n  %s [%s] %s (%s)", mark, r.Phase, r.Hook.Name, r.Duration.Round(time.Millisecond))
		if !r.Success {
			msg := strings.TrimSpace(r.Stderr)
			if msg == "" && r.Err != nil {
				msg = r.Err.Error()
			}
			fmt.Fprintf(&b, ": %s", truncate(msg, maxSummaryOutput))
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
