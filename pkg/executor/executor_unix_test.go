//go:build !windows

package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Saikiran1923/Aura-x/pkg/config"
	"github.com/Saikiran1923/Aura-x/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShellEngine(t *testing.T, maxOutput int) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.MaxOutputBytes = maxOutput
	e, err := New(cfg, WithInterpreter("/bin/sh"))
	require.NoError(t, err)
	return e
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, filesystem.WriteFileWithDir(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestRunSuccess(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "main.py", "echo hello\n")

	res, err := newShellEngine(t, 64*1024).Run(context.Background(), dir, "main.py", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, res.Outcome())
	require.NotNil(t, res.ExitCode)
	assert.Equal(t, 0, *res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestRunRuntimeFailure(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "app/main.py", "echo 'ValueError: boom' >&2\nexit 3\n")

	res, err := newShellEngine(t, 64*1024).Run(context.Background(), dir, "app/main.py", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRuntimeFailure, res.Outcome())
	assert.Equal(t, 3, *res.ExitCode)
	assert.Contains(t, res.Diagnostic(), "ValueError: boom")
	assert.ErrorIs(t, res.Err(), ErrExecutionRuntimeFailure)
}

func TestRunTimeoutKillsProcessGroup(t *testing.T) {
	dir := t.TempDir()
	// The background sleep keeps stdout open; Run only returns quickly if
	// the whole group is killed.
	writeScript(t, dir, "main.py", "sleep 30 &\necho started\nwait\n")

	start := time.Now()
	res, err := newShellEngine(t, 64*1024).Run(context.Background(), dir, "main.py", 300*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, res.TimedOut)
	assert.Nil(t, res.ExitCode)
	assert.Equal(t, OutcomeTimeout, res.Outcome())
	assert.ErrorIs(t, res.Err(), ErrExecutionTimeout)
	assert.Contains(t, res.Diagnostic(), "timed out after 300ms")
	assert.Less(t, time.Since(start), waitDelay)
}

func TestRunCallerCancel(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "main.py", "sleep 30\n")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	res, err := newShellEngine(t, 64*1024).Run(ctx, dir, "main.py", 10*time.Second)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunTruncatesRunawayOutput(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "main.py", "i=0\nwhile [ $i -lt 2000 ]; do echo line$i; i=$((i+1)); done\n")

	res, err := newShellEngine(t, 1024).Run(context.Background(), dir, "main.py", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, res.StdoutTruncated)
	assert.False(t, res.StderrTruncated)
	assert.Contains(t, res.Stdout, "line0\n")
	assert.Contains(t, res.Stdout, "line1999\n")
	assert.Contains(t, res.Stdout, "bytes truncated")
	assert.Less(t, len(res.Stdout), 1200)
}

func TestRunLaunchErrors(t *testing.T) {
	dir := t.TempDir()
	e := newShellEngine(t, 1024)

	_, err := e.Run(context.Background(), dir, "missing.py", time.Second)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = e.Run(context.Background(), dir, "../main.py", time.Second)
	assert.ErrorIs(t, err, filesystem.ErrPathEscape)

	writeScript(t, dir, "main.py", "echo hi\n")
	broken, err := New(config.Default(), WithInterpreter(filepath.Join(dir, "no-such-interpreter")))
	require.NoError(t, err)
	_, err = broken.Run(context.Background(), dir, "main.py", time.Second)
	assert.Error(t, err)
}
