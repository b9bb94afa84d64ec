// Package executor runs a generated project's entry file under a wall-clock
// deadline and classifies the outcome.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/Saikiran1923/Aura-x/pkg/config"
	"github.com/Saikiran1923/Aura-x/pkg/filesystem"
	"github.com/Saikiran1923/Aura-x/pkg/pythonruntime"
	"github.com/Saikiran1923/Aura-x/pkg/utils"
)

// waitDelay bounds how long Wait keeps reading pipes held open by a process
// that left the group.
const waitDelay = 2 * time.Second

// Engine launches entry files with one interpreter.
type Engine struct {
	interpreter string
	maxOutput   int
	timeout     time.Duration
	logger      *utils.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterpreter skips interpreter discovery.
func WithInterpreter(path string) Option {
	return func(e *Engine) {
		e.interpreter = path
	}
}

// WithLogger sets the logger.
func WithLogger(logger *utils.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New builds an Engine from cfg, resolving the interpreter from
// cfg.PythonPath or PATH unless WithInterpreter is given.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		maxOutput: cfg.MaxOutputBytes,
		timeout:   cfg.ExecTimeout(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.interpreter == "" {
		interp, err := pythonruntime.Resolve(cfg.PythonPath)
		if err != nil {
			return nil, err
		}
		e.interpreter = interp.Path
		e.logger.Logf("using interpreter %s", interp)
	}
	return e, nil
}

// Interpreter returns the interpreter path.
func (e *Engine) Interpreter() string {
	return e.interpreter
}

// Run executes entry (relative to projectDir) with projectDir as working
// directory and an empty stdin. A zero timeout uses the configured one.
//
// The program and everything it spawned are killed when the deadline passes
// or ctx is cancelled, and reaped before Run returns. A program that ran to
// completion, or was killed at the deadline, yields a Result; launch
// problems and caller cancellation yield an error.
func (e *Engine) Run(ctx context.Context, projectDir, entry string, timeout time.Duration) (*Result, error) {
	if timeout <= 0 {
		timeout = e.timeout
	}
	abs, err := filesystem.ResolveWithin(projectDir, entry)
	if err != nil {
		return nil, err
	}
	rel, err := filesystem.CleanRelative(entry)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("entry file %s: %w", entry, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout := newCapture(e.maxOutput)
	stderr := newCapture(e.maxOutput)
	cmd := exec.CommandContext(runCtx, e.interpreter, rel)
	cmd.Dir = projectDir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = append(cmd.Environ(), "PYTHONUNBUFFERED=1", "PYTHONDONTWRITEBYTECODE=1")
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	e.logger.Logf("executing %s %s (dir=%s timeout=%s)", e.interpreter, entry, projectDir, timeout)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", e.interpreter, err)
	}
	waitErr := cmd.Wait()
	duration := time.Since(start)
	killTree(cmd)

	res := &Result{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		StdoutTruncated: stdout.Truncated(),
		StderrTruncated: stderr.Truncated(),
		Duration:        duration,
		Timeout:         timeout,
	}

	switch {
	case ctx.Err() != nil:
		return nil, fmt.Errorf("execution of %s aborted: %w", entry, ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
	case waitErr == nil, errors.Is(waitErr, exec.ErrWaitDelay):
		code := cmd.ProcessState.ExitCode()
		res.ExitCode = &code
	default:
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("waiting for %s: %w", entry, waitErr)
		}
		code := exitErr.ExitCode()
		res.ExitCode = &code
	}

	e.logger.Logf("execution finished: outcome=%s duration=%s stdout=%dB stderr=%dB",
		res.Outcome(), duration.Round(time.Millisecond), len(res.Stdout), len(res.Stderr))
	return res, nil
}
