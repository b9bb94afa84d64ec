package orchestration

// State is a pipeline stage.
type State string

const (
	StatePlanning      State = "PLANNING"
	StateMaterializing State = "MATERIALIZING"
	StateExecuting     State = "EXECUTING"
	StateCorrecting    State = "CORRECTING"
	StateReExecuting   State = "RE_EXECUTING"
	StateSucceeded     State = "SUCCEEDED"
	StateFailed        State = "FAILED"
)

// Terminal reports whether the run ends in s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// FailureReason qualifies StateFailed.
type FailureReason string

const (
	ReasonNone                  FailureReason = ""
	ReasonInvalidRequest        FailureReason = "invalid_request"
	ReasonPlanError             FailureReason = "plan_error"
	ReasonMaterializeError      FailureReason = "materialize_error"
	ReasonNoEntryPoint          FailureReason = "no_entry_point"
	ReasonExecutionError        FailureReason = "execution_error"
	ReasonCorrectionUnavailable FailureReason = "correction_unavailable"
	ReasonUnrecovered           FailureReason = "unrecovered"
)

// transitions lists every legal edge. CORRECTING is reachable only from
// EXECUTING, so a run corrects at most once.
var transitions = map[State][]State{
	StatePlanning:      {StateMaterializing, StateFailed},
	StateMaterializing: {StateExecuting, StateFailed},
	StateExecuting:     {StateSucceeded, StateCorrecting, StateFailed},
	StateCorrecting:    {StateReExecuting, StateFailed},
	StateReExecuting:   {StateSucceeded, StateFailed},
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
