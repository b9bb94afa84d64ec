package orchestration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Saikiran1923/Aura-x/pkg/coder"
	"github.com/Saikiran1923/Aura-x/pkg/config"
	"github.com/Saikiran1923/Aura-x/pkg/debugger"
	"github.com/Saikiran1923/Aura-x/pkg/executor"
	"github.com/Saikiran1923/Aura-x/pkg/filesystem"
	"github.com/Saikiran1923/Aura-x/pkg/llm"
	"github.com/Saikiran1923/Aura-x/pkg/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanner struct {
	replies     []planReply
	makeCalls   int
	repairCalls int
	repairCause error
}

type planReply struct {
	plan *planner.Plan
	err  error
}

func (f *fakePlanner) next() (*planner.Plan, error) {
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply.plan, reply.err
}

func (f *fakePlanner) MakePlan(ctx context.Context, _ string) (*planner.Plan, error) {
	f.makeCalls++
	if err := ctx.Err(); err != nil {
		return nil, &llm.Error{Kind: llm.ErrGenerationUnavailable, Attempts: 1, Err: err}
	}
	return f.next()
}

func (f *fakePlanner) RepairPlan(_ context.Context, _ string, cause error) (*planner.Plan, error) {
	f.repairCalls++
	f.repairCause = cause
	return f.next()
}

type fakeMaterializer struct {
	err          error
	materialized int
	writes       map[string]string
}

func (f *fakeMaterializer) Materialize(_ context.Context, plan *planner.Plan, dir string) ([]coder.GeneratedFile, error) {
	f.materialized++
	if f.err != nil {
		return nil, f.err
	}
	var files []coder.GeneratedFile
	for _, spec := range plan.Files {
		abs := filepath.Join(dir, filepath.FromSlash(spec.Path))
		if err := filesystem.WriteFileWithDir(abs, []byte("raise SystemExit(1)\n"), 0o644); err != nil {
			return files, err
		}
		files = append(files, coder.GeneratedFile{Path: spec.Path, AbsPath: abs, Bytes: 20})
	}
	return files, nil
}

func (f *fakeMaterializer) WriteFile(dir, rel, content string) (coder.GeneratedFile, error) {
	if f.writes == nil {
		f.writes = map[string]string{}
	}
	f.writes[rel] = content
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	return coder.GeneratedFile{Path: rel, AbsPath: abs, Bytes: len(content)}, os.WriteFile(abs, []byte(content), 0o644)
}

type fakeRunner struct {
	results []*executor.Result
	errs    []error
	calls   int
}

func (f *fakeRunner) Run(_ context.Context, _, _ string, _ time.Duration) (*executor.Result, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.results[i], nil
}

type fakeCorrector struct {
	fixed      string
	err        error
	calls      int
	original   string
	diagnostic string
}

func (f *fakeCorrector) Correct(_ context.Context, _, original, diagnostic string) (string, error) {
	f.calls++
	f.original = original
	f.diagnostic = diagnostic
	return f.fixed, f.err
}

func exited(code int, stderr string) *executor.Result {
	return &executor.Result{ExitCode: &code, Stderr: stderr, Duration: 10 * time.Millisecond}
}

func timedOut() *executor.Result {
	return &executor.Result{TimedOut: true, Timeout: 45 * time.Second}
}

func onePlan(paths ...string) *planner.Plan {
	plan := &planner.Plan{}
	for _, p := range paths {
		plan.Files = append(plan.Files, planner.FileSpec{Path: p, Description: "does " + p})
	}
	return plan
}

func malformed(reason string) error {
	return &planner.PlanError{Reason: reason, Snippet: "Sure! Here is your project"}
}

type harness struct {
	planner      *fakePlanner
	materializer *fakeMaterializer
	runner       *fakeRunner
	corrector    *fakeCorrector
	orch         *Orchestrator
	root         string
	states       []State
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		planner:      &fakePlanner{replies: []planReply{{plan: onePlan("main.py")}}},
		materializer: &fakeMaterializer{},
		runner:       &fakeRunner{results: []*executor.Result{exited(0, "")}},
		corrector:    &fakeCorrector{fixed: "print('fixed')\n"},
		root:         t.TempDir(),
	}
	cfg := config.Default()
	cfg.ProjectsRoot = h.root
	h.orch = New(cfg, Deps{
		Planner:      h.planner,
		Materializer: h.materializer,
		Runner:       h.runner,
		Corrector:    h.corrector,
	}, nil)
	h.orch.OnTransition = func(_, to State, _ *Report) {
		h.states = append(h.states, to)
	}
	return h
}

func (h *harness) run(request string) *Report {
	return h.orch.Run(context.Background(), Request{Text: request})
}

func TestRunSucceedsFirstTime(t *testing.T) {
	h := newHarness(t)

	report := h.run("print hello")
	assert.True(t, report.Succeeded())
	assert.Equal(t, "SUCCEEDED", report.Status())
	assert.Equal(t, []State{StateMaterializing, StateExecuting, StateSucceeded}, h.states)
	assert.Equal(t, "print-hello", report.ProjectName)
	assert.Equal(t, filepath.Join(h.root, "print-hello"), report.ProjectDir)
	assert.Equal(t, "main.py", report.Entry)
	assert.Same(t, report.Initial, report.Final)
	assert.Nil(t, report.Correction)
	assert.Zero(t, h.corrector.calls)
	assert.NotEmpty(t, report.RunID)
	assert.NoError(t, report.Err)
}

func TestRunCorrectsOnceAndSucceeds(t *testing.T) {
	h := newHarness(t)
	h.runner.results = []*executor.Result{exited(1, "ZeroDivisionError: division by zero"), exited(0, "")}

	report := h.run("divide numbers")
	require.True(t, report.Succeeded(), report.Diagnostic)
	assert.Equal(t, []State{StateMaterializing, StateExecuting, StateCorrecting, StateReExecuting, StateSucceeded}, h.states)
	assert.Equal(t, 1, h.corrector.calls)
	assert.Equal(t, "raise SystemExit(1)\n", h.corrector.original)
	assert.Equal(t, "ZeroDivisionError: division by zero", h.corrector.diagnostic)
	assert.Equal(t, "print('fixed')\n", h.materializer.writes["main.py"])
	assert.Equal(t, 2, h.runner.calls)

	require.NotNil(t, report.Correction)
	assert.Equal(t, "main.py", report.Correction.File)
	assert.Equal(t, 1, report.Correction.Summary.Added)
	assert.NotSame(t, report.Initial, report.Final)
}

func TestRunTimeoutTriggersCorrection(t *testing.T) {
	h := newHarness(t)
	h.runner.results = []*executor.Result{timedOut(), exited(0, "")}

	report := h.run("loop forever")
	assert.True(t, report.Succeeded())
	assert.Contains(t, h.corrector.diagnostic, "timed out after 45s")
}

func TestRunUnrecoveredAfterOneCorrection(t *testing.T) {
	h := newHarness(t)
	h.runner.results = []*executor.Result{exited(1, "first failure"), exited(2, "second failure")}

	report := h.run("broken thing")
	assert.Equal(t, StateFailed, report.State)
	assert.Equal(t, ReasonUnrecovered, report.Reason)
	assert.Equal(t, "FAILED(unrecovered)", report.Status())
	assert.Equal(t, 1, h.corrector.calls)
	assert.Equal(t, 2, h.runner.calls)
	assert.Equal(t, "second failure", report.Diagnostic)
	assert.Equal(t, 2, *report.Final.ExitCode)
	assert.ErrorIs(t, report.Err, executor.ErrExecutionRuntimeFailure)
	assert.Equal(t, StateFailed, h.states[len(h.states)-1])
	assert.NotContains(t, h.states[3:], StateCorrecting)
}

func TestRunPlanRepromptedOnce(t *testing.T) {
	h := newHarness(t)
	h.planner.replies = []planReply{{err: malformed("no JSON array found")}, {plan: onePlan("main.py")}}

	report := h.run("make a thing")
	assert.True(t, report.Succeeded())
	assert.Equal(t, 1, h.planner.makeCalls)
	assert.Equal(t, 1, h.planner.repairCalls)
	assert.ErrorIs(t, h.planner.repairCause, planner.ErrPlanMalformed)
}

func TestRunPlanErrorAfterReprompt(t *testing.T) {
	h := newHarness(t)
	h.planner.replies = []planReply{{err: malformed("no JSON array found")}, {err: malformed("plan lists no files")}}

	report := h.run("make a thing")
	assert.Equal(t, "FAILED(plan_error)", report.Status())
	assert.Equal(t, 1, h.planner.repairCalls)
	assert.Equal(t, "plan lists no files\nSure! Here is your project", report.Diagnostic)
	assert.Equal(t, []State{StateFailed}, h.states)
	assert.Zero(t, h.materializer.materialized)
	assert.NoDirExists(t, report.ProjectDir)
}

func TestRunPathEscapeIsNotReprompted(t *testing.T) {
	h := newHarness(t)
	_, escape := filesystem.CleanRelative("../evil.py")
	h.planner.replies = []planReply{{err: &planner.PlanError{Reason: "entry 1: unsafe", Err: escape}}}

	report := h.run("escape")
	assert.Equal(t, ReasonPlanError, report.Reason)
	assert.ErrorIs(t, report.Err, filesystem.ErrPathEscape)
	assert.Zero(t, h.planner.repairCalls)
}

func TestRunGenerationUnavailableIsNotReprompted(t *testing.T) {
	h := newHarness(t)
	h.planner.replies = []planReply{{err: &llm.Error{Kind: llm.ErrGenerationUnavailable, Attempts: 3, Err: errors.New("connection refused")}}}

	report := h.run("anything")
	assert.Equal(t, ReasonPlanError, report.Reason)
	assert.ErrorIs(t, report.Err, llm.ErrGenerationUnavailable)
	assert.Zero(t, h.planner.repairCalls)
}

func TestRunMaterializeError(t *testing.T) {
	h := newHarness(t)
	h.materializer.err = fmt.Errorf("generating main.py: %w", llm.ErrGenerationUnavailable)

	report := h.run("anything")
	assert.Equal(t, "FAILED(materialize_error)", report.Status())
	assert.Zero(t, h.runner.calls)
}

func TestRunNoEntryPoint(t *testing.T) {
	h := newHarness(t)
	h.planner.replies = []planReply{{plan: onePlan("README.md", "data.json")}}

	report := h.run("docs only")
	assert.Equal(t, ReasonNoEntryPoint, report.Reason)
	assert.ErrorIs(t, report.Err, coder.ErrNoEntryPoint)
	assert.Zero(t, h.materializer.materialized)
}

func TestRunEntrySelection(t *testing.T) {
	h := newHarness(t)
	h.planner.replies = []planReply{{plan: onePlan("src/app/main.py", "src/main.py", "helpers.py")}}

	report := h.run("nested")
	assert.True(t, report.Succeeded())
	assert.Equal(t, "src/main.py", report.Entry)
}

func TestRunCorrectionUnavailable(t *testing.T) {
	h := newHarness(t)
	h.runner.results = []*executor.Result{exited(1, "NameError: x")}
	h.corrector.err = &debugger.CorrectionError{File: "main.py", Err: llm.ErrGenerationUnavailable}

	report := h.run("anything")
	assert.Equal(t, "FAILED(correction_unavailable)", report.Status())
	assert.ErrorIs(t, report.Err, debugger.ErrCorrectionUnavailable)
	assert.Equal(t, "NameError: x", report.Diagnostic)
	assert.Equal(t, 1, h.runner.calls)
	assert.Empty(t, h.materializer.writes)
}

func TestRunExecutionLaunchError(t *testing.T) {
	h := newHarness(t)
	h.runner.errs = []error{errors.New("failed to start python3: executable file not found")}

	report := h.run("anything")
	assert.Equal(t, ReasonExecutionError, report.Reason)
	assert.Zero(t, h.corrector.calls)
}

func TestRunInvalidRequest(t *testing.T) {
	h := newHarness(t)

	report := h.run("   ")
	assert.Equal(t, "FAILED(invalid_request)", report.Status())
	assert.ErrorIs(t, report.Err, planner.ErrEmptyRequest)
	assert.Zero(t, h.planner.makeCalls)
	assert.Empty(t, h.states)

	report = h.orch.Run(context.Background(), Request{Text: "ok", ProjectName: "../outside"})
	assert.Equal(t, ReasonInvalidRequest, report.Reason)
	assert.ErrorIs(t, report.Err, filesystem.ErrPathEscape)
	assert.Zero(t, h.planner.makeCalls)
}

func TestRunCallerCancelled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := h.orch.Run(ctx, Request{Text: "anything", RunID: "fixed-id"})
	assert.Equal(t, "FAILED(plan_error)", report.Status())
	assert.ErrorIs(t, report.Err, context.Canceled)
	assert.Zero(t, h.planner.repairCalls)
	assert.Equal(t, "fixed-id", report.RunID)
}

func TestProjectName(t *testing.T) {
	assert.Equal(t, "custom", ProjectName("whatever", " custom "))
	assert.Equal(t, "build-a-small-todo-list-app", ProjectName("Build a small todo-list app, with tags and due dates", ""))
	assert.Equal(t, "project", ProjectName("!!!", ""))
}
