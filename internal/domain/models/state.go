package models

import "time"

// State is a step of request orchestration.
type State string

const (
	StateValidating           State = "Validating"
	StateAcquiring            State = "Acquiring"
	StateTranscoding          State = "Transcoding"
	StatePersisting           State = "Persisting"
	StateAwaitingConfirmation State = "AwaitingConfirmation"
	StateAnalyzing            State = "Analyzing"
	StateCompleted            State = "Completed"
	StateFailed               State = "Failed"
	StateCancelled            State = "Cancelled"
)

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// ProgressEvent is one state transition of one request.
type ProgressEvent struct {
	RequestID string    `json:"request_id"`
	State     State     `json:"state"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}
