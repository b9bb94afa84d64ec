package executor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrExecutionTimeout means the program was killed at its deadline.
	ErrExecutionTimeout = errors.New("execution timed out")
	// ErrExecutionRuntimeFailure means the program exited nonzero.
	ErrExecutionRuntimeFailure = errors.New("execution failed")
)

// Outcome classifies a finished run.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeRuntimeFailure Outcome = "runtime_failure"
	OutcomeTimeout        Outcome = "timeout"
)

const stdoutTailInDiagnostic = 2000

// Result is one execution of the entry file. ExitCode is nil when the
// program was killed at the deadline.
type Result struct {
	ExitCode        *int          `json:"exit_code" yaml:"exit_code"`
	Stdout          string        `json:"stdout" yaml:"stdout"`
	Stderr          string        `json:"stderr" yaml:"stderr"`
	TimedOut        bool          `json:"timed_out" yaml:"timed_out"`
	StdoutTruncated bool          `json:"stdout_truncated,omitempty" yaml:"stdout_truncated,omitempty"`
	StderrTruncated bool          `json:"stderr_truncated,omitempty" yaml:"stderr_truncated,omitempty"`
	Duration        time.Duration `json:"duration" yaml:"duration"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout"`
}

func (r *Result) Outcome() Outcome {
	switch {
	case r.TimedOut:
		return OutcomeTimeout
	case r.ExitCode != nil && *r.ExitCode == 0:
		return OutcomeSuccess
	default:
		return OutcomeRuntimeFailure
	}
}

func (r *Result) Succeeded() bool {
	return r.Outcome() == OutcomeSuccess
}

// Diagnostic is the text handed to the correction step and shown to the
// user: stderr, a timeout notice when the deadline hit, and the end of
// stdout when stderr alone says nothing.
func (r *Result) Diagnostic() string {
	var parts []string
	if s := strings.TrimSpace(r.Stderr); s != "" {
		parts = append(parts, s)
	}
	if r.TimedOut {
		parts = append(parts, fmt.Sprintf("Execution timed out after %s.", r.Timeout))
	} else if len(parts) == 0 && r.ExitCode != nil && *r.ExitCode != 0 {
		parts = append(parts, fmt.Sprintf("Process exited with status %d and no error output.", *r.ExitCode))
		if out := strings.TrimSpace(r.Stdout); out != "" {
			if len(out) > stdoutTailInDiagnostic {
				out = out[len(out)-stdoutTailInDiagnostic:]
			}
			parts = append(parts, "Last output:\n"+out)
		}
	}
	return strings.Join(parts, "\n")
}

// Err returns nil for a successful run and an *ExecutionError otherwise.
func (r *Result) Err() error {
	if r.Succeeded() {
		return nil
	}
	return &ExecutionError{Outcome: r.Outcome(), ExitCode: r.ExitCode, Diagnostic: r.Diagnostic()}
}

// ExecutionError carries a failed run's classification.
type ExecutionError struct {
	Outcome    Outcome
	ExitCode   *int
	Diagnostic string
}

func (e *ExecutionError) Error() string {
	if e.Outcome == OutcomeTimeout {
		return ErrExecutionTimeout.Error()
	}
	if e.ExitCode != nil {
		return fmt.Sprintf("%v: exit status %d", ErrExecutionRuntimeFailure, *e.ExitCode)
	}
	return ErrExecutionRuntimeFailure.Error()
}

func (e *ExecutionError) Is(target error) bool {
	switch target {
	case ErrExecutionTimeout:
		return e.Outcome == OutcomeTimeout
	case ErrExecutionRuntimeFailure:
		return e.Outcome == OutcomeRuntimeFailure
	}
	return false
}
