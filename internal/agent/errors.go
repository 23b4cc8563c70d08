package agent

import "fmt"

// TurnError reports which stage of a conversation turn failed. Retrieval and
// tool-resolution failures are degraded in place and never surface as a
// TurnError; only history persistence and model invocation abort a turn.
type TurnError struct {
	Stage string // "history" or "model"
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn failed at %s: %v", e.Stage, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

func turnErr(stage string, err error) *TurnError {
	return &TurnError{Stage: stage, Err: err}
}
