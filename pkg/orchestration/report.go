package orchestration

import (
	"time"

	"github.com/Saikiran1923/Aura-x/pkg/coder"
	"github.com/Saikiran1923/Aura-x/pkg/debugger"
	"github.com/Saikiran1923/Aura-x/pkg/executor"
	"github.com/Saikiran1923/Aura-x/pkg/planner"
)

// Transition is one recorded state change.
type Transition struct {
	From State     `json:"from" yaml:"from"`
	To   State     `json:"to" yaml:"to"`
	At   time.Time `json:"at" yaml:"at"`
}

// Correction records the single repair attempt.
type Correction struct {
	File    string           `json:"file" yaml:"file"`
	Summary debugger.Summary `json:"summary" yaml:"summary"`
}

// Report is the outcome of one run. Initial and Final are the first and last
// execution results; they are the same value when no correction happened.
type Report struct {
	RunID       string                `json:"run_id" yaml:"run_id"`
	Request     string                `json:"request" yaml:"request"`
	ProjectName string                `json:"project_name" yaml:"project_name"`
	ProjectDir  string                `json:"project_dir,omitempty" yaml:"project_dir,omitempty"`
	State       State                 `json:"state" yaml:"state"`
	Reason      FailureReason         `json:"reason,omitempty" yaml:"reason,omitempty"`
	Plan        *planner.Plan         `json:"plan,omitempty" yaml:"plan,omitempty"`
	Files       []coder.GeneratedFile `json:"files,omitempty" yaml:"files,omitempty"`
	Entry       string                `json:"entry,omitempty" yaml:"entry,omitempty"`
	Initial     *executor.Result      `json:"initial,omitempty" yaml:"initial,omitempty"`
	Final       *executor.Result      `json:"final,omitempty" yaml:"final,omitempty"`
	Correction  *Correction           `json:"correction,omitempty" yaml:"correction,omitempty"`
	Diagnostic  string                `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
	Transitions []Transition          `json:"transitions" yaml:"transitions"`
	Started     time.Time             `json:"started" yaml:"started"`
	Finished    time.Time             `json:"finished" yaml:"finished"`
	Err         error                 `json:"-" yaml:"-"`
}

func (r *Report) Succeeded() bool {
	return r.State == StateSucceeded
}

// Status is the final state with its reason, e.g. "FAILED(plan_error)".
func (r *Report) Status() string {
	if r.State == StateFailed && r.Reason != ReasonNone {
		return string(r.State) + "(" + string(r.Reason) + ")"
	}
	return string(r.State)
}
