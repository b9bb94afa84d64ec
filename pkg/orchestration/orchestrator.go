// Package orchestration drives one request through planning, file
// generation, execution and at most one automated correction.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Saikiran1923/Aura-x/pkg/coder"
	"github.com/Saikiran1923/Aura-x/pkg/config"
	"github.com/Saikiran1923/Aura-x/pkg/debugger"
	"github.com/Saikiran1923/Aura-x/pkg/executor"
	"github.com/Saikiran1923/Aura-x/pkg/filesystem"
	"github.com/Saikiran1923/Aura-x/pkg/planner"
	"github.com/Saikiran1923/Aura-x/pkg/prompts"
	"github.com/Saikiran1923/Aura-x/pkg/utils"
	"github.com/google/uuid"
)

// PlanMaker produces plans. *planner.Planner implements it.
type PlanMaker interface {
	MakePlan(ctx context.Context, request string) (*planner.Plan, error)
	RepairPlan(ctx context.Context, request string, cause error) (*planner.Plan, error)
}

// Materializer writes project files. *coder.Coder implements it.
type Materializer interface {
	Materialize(ctx context.Context, plan *planner.Plan, projectDir string) ([]coder.GeneratedFile, error)
	WriteFile(projectDir, relPath, content string) (coder.GeneratedFile, error)
}

// Runner executes the entry file. *executor.Engine implements it.
type Runner interface {
	Run(ctx context.Context, projectDir, entry string, timeout time.Duration) (*executor.Result, error)
}

// Corrector repairs a failing file. *debugger.Debugger implements it.
type Corrector interface {
	Correct(ctx context.Context, filePath, original, diagnostic string) (string, error)
}

// Deps are the pipeline stages.
type Deps struct {
	Planner      PlanMaker
	Materializer Materializer
	Runner       Runner
	Corrector    Corrector
}

// TransitionFunc observes state changes as they happen.
type TransitionFunc func(from, to State, report *Report)

// Request is one unit of work.
type Request struct {
	Text        string
	ProjectName string // derived from Text when empty
	RunID       string // generated when empty
}

// Orchestrator runs requests. It keeps no state between runs.
type Orchestrator struct {
	deps         Deps
	projectsRoot string
	execTimeout  time.Duration
	logger       *utils.Logger
	OnTransition TransitionFunc
}

// New creates an Orchestrator writing projects under cfg.ProjectsRoot.
func New(cfg *config.Config, deps Deps, logger *utils.Logger) *Orchestrator {
	return &Orchestrator{
		deps:         deps,
		projectsRoot: cfg.ProjectsRoot,
		execTimeout:  cfg.ExecTimeout(),
		logger:       logger,
	}
}

// run is the mutable state of a single Run call.
type run struct {
	report *Report
}

type stateHandler func(ctx context.Context, r *run) State

// Run executes the pipeline for req and returns its report. The report is
// never nil; Report.Err holds the error behind a FAILED state.
func (o *Orchestrator) Run(ctx context.Context, req Request) *Report {
	report := &Report{
		RunID:   req.RunID,
		Request: strings.TrimSpace(req.Text),
		Started: time.Now(),
	}
	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}
	defer func() { report.Finished = time.Now() }()

	r := &run{report: report}
	if err := o.prepare(r, req.ProjectName); err != nil {
		report.State = StateFailed
		report.Reason = ReasonInvalidRequest
		report.Err = err
		report.Diagnostic = err.Error()
		o.logger.LogError(err)
		return report
	}

	handlers := map[State]stateHandler{
		StatePlanning:      o.planning,
		StateMaterializing: o.materializing,
		StateExecuting:     o.executing,
		StateCorrecting:    o.correcting,
		StateReExecuting:   o.reExecuting,
	}

	o.logger.Logf("run %s started: project=%s request=%q", report.RunID, report.ProjectName, report.Request)
	state := StatePlanning
	report.State = state
	for !state.Terminal() {
		next := handlers[state](ctx, r)
		if !allowed(state, next) {
			next = r.fail(ReasonNone, fmt.Errorf("illegal transition %s -> %s", state, next))
		}
		o.transition(r, state, next)
		state = next
	}

	o.logger.LogProcessStep(fmt.Sprintf("Run %s finished: %s", report.RunID, report.Status()))
	return report
}

func (o *Orchestrator) transition(r *run, from, to State) {
	r.report.State = to
	r.report.Transitions = append(r.report.Transitions, Transition{From: from, To: to, At: time.Now()})
	o.logger.Logf("state %s -> %s", from, to)
	if o.OnTransition != nil {
		o.OnTransition(from, to, r.report)
	}
}

// fail records err as the cause of a FAILED end state.
func (r *run) fail(reason FailureReason, err error) State {
	r.report.Reason = reason
	r.report.Err = err
	if r.report.Diagnostic == "" && err != nil {
		r.report.Diagnostic = err.Error()
	}
	return StateFailed
}

// prepare validates the request and fixes the project directory.
func (o *Orchestrator) prepare(r *run, name string) error {
	if r.report.Request == "" {
		return planner.ErrEmptyRequest
	}
	name = ProjectName(r.report.Request, name)
	dir, err := filesystem.ResolveWithin(o.projectsRoot, name)
	if err != nil {
		return fmt.Errorf("invalid project name %q: %w", name, err)
	}
	r.report.ProjectName = name
	r.report.ProjectDir = dir
	return nil
}

func (o *Orchestrator) planning(ctx context.Context, r *run) State {
	plan, err := o.deps.Planner.MakePlan(ctx, r.report.Request)
	if err != nil && ctx.Err() == nil && planner.Repairable(err) {
		o.logger.LogProcessStep(prompts.PlanRejected(planProblem(err)))
		plan, err = o.deps.Planner.RepairPlan(ctx, r.report.Request, err)
	}
	if err != nil {
		var planErr *planner.PlanError
		if errors.As(err, &planErr) && planErr.Snippet != "" {
			r.report.Diagnostic = fmt.Sprintf("%s\n%s", planErr.Reason, planErr.Snippet)
		}
		return r.fail(ReasonPlanError, err)
	}
	r.report.Plan = plan
	o.logger.LogProcessStep(prompts.PlanReady(len(plan.Files), r.report.ProjectDir))
	return StateMaterializing
}

func planProblem(err error) string {
	var planErr *planner.PlanError
	if errors.As(err, &planErr) {
		return planErr.Reason
	}
	return err.Error()
}

func (o *Orchestrator) materializing(ctx context.Context, r *run) State {
	entry, err := coder.SelectEntry(r.report.Plan.Paths())
	if err != nil {
		return r.fail(ReasonNoEntryPoint, err)
	}
	r.report.Entry = entry

	files, err := o.deps.Materializer.Materialize(ctx, r.report.Plan, r.report.ProjectDir)
	r.report.Files = files
	if err != nil {
		return r.fail(ReasonMaterializeError, err)
	}
	return StateExecuting
}

func (o *Orchestrator) executing(ctx context.Context, r *run) State {
	o.logger.LogProcessStep(prompts.RunningEntry(r.report.Entry))
	res, err := o.deps.Runner.Run(ctx, r.report.ProjectDir, r.report.Entry, o.execTimeout)
	if err != nil {
		return r.fail(ReasonExecutionError, err)
	}
	r.report.Initial = res
	r.report.Final = res
	if res.Succeeded() {
		o.logger.LogProcessStep(prompts.ExecutionSucceeded(res.Duration))
		return StateSucceeded
	}
	o.logger.LogProcessStep(prompts.ExecutionFailed(string(res.Outcome()), res.Duration))
	return StateCorrecting
}

func (o *Orchestrator) correcting(ctx context.Context, r *run) State {
	entry := r.report.Entry
	abs := filepath.Join(r.report.ProjectDir, filepath.FromSlash(entry))
	diagnostic := r.report.Initial.Diagnostic()

	original, err := filesystem.ReadFile(abs)
	if err != nil {
		r.report.Diagnostic = diagnostic
		return r.fail(ReasonMaterializeError, err)
	}
	fixed, err := o.deps.Corrector.Correct(ctx, abs, original, diagnostic)
	if err != nil {
		r.report.Diagnostic = diagnostic
		return r.fail(ReasonCorrectionUnavailable, err)
	}
	if _, err := o.deps.Materializer.WriteFile(r.report.ProjectDir, entry, fixed); err != nil {
		r.report.Diagnostic = diagnostic
		return r.fail(ReasonMaterializeError, err)
	}

	summary := debugger.Summarize(original, fixed)
	r.report.Correction = &Correction{File: entry, Summary: summary}
	o.logger.Logf("correction applied to %s: %s", entry, summary)
	return StateReExecuting
}

func (o *Orchestrator) reExecuting(ctx context.Context, r *run) State {
	o.logger.LogProcessStep(prompts.RerunningAfterFix(r.report.Entry))
	res, err := o.deps.Runner.Run(ctx, r.report.ProjectDir, r.report.Entry, o.execTimeout)
	if err != nil {
		return r.fail(ReasonExecutionError, err)
	}
	r.report.Final = res
	if res.Succeeded() {
		o.logger.LogProcessStep(prompts.ExecutionSucceeded(res.Duration))
		return StateSucceeded
	}
	r.report.Diagnostic = res.Diagnostic()
	return r.fail(ReasonUnrecovered, res.Err())
}
