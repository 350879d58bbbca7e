package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies pipeline failures by the stage that produced them.
type ErrorKind string

const (
	KindValidation      ErrorKind = "ValidationError"
	KindInvalidInput    ErrorKind = "InvalidInput"
	KindAcquisition     ErrorKind = "AcquisitionFailed"
	KindTranscode       ErrorKind = "TranscodeFailed"
	KindAnalysis        ErrorKind = "AnalysisError"
	KindNotFound        ErrorKind = "NotFound"
	KindMismatch        ErrorKind = "Mismatch"
	KindUnknownCategory ErrorKind = "UnknownCategory"
)

// Sentinels for errors.Is comparisons against a kind.
var (
	ErrValidation      = &PipelineError{Kind: KindValidation}
	ErrInvalidInput    = &PipelineError{Kind: KindInvalidInput}
	ErrAcquisition     = &PipelineError{Kind: KindAcquisition}
	ErrTranscode       = &PipelineError{Kind: KindTranscode}
	ErrAnalysis        = &PipelineError{Kind: KindAnalysis}
	ErrNotFound        = &PipelineError{Kind: KindNotFound}
	ErrMismatch        = &PipelineError{Kind: KindMismatch}
	ErrUnknownCategory = &PipelineError{Kind: KindUnknownCategory}
)

// PipelineError is the single error type surfaced by the pipeline. Cmd and
// Output are set for failed subprocess invocations.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Cmd     string
	Output  string
	Err     error
}

func (e *PipelineError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cmd != "" {
		msg = fmt.Sprintf("%s: Command failed: %s\nOutput: %s", msg, e.Cmd, e.Output)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Is matches on Kind so sentinels compare equal to any error of that kind.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// HTTPStatus maps the kind onto the status code the front door answers with.
func (e *PipelineError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindInvalidInput, KindUnknownCategory:
		return http.StatusBadRequest
	case KindNotFound, KindMismatch:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewError builds a PipelineError with a formatted message.
func NewError(kind ErrorKind, format string, a ...any) *PipelineError {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// CommandError builds a PipelineError for a failed subprocess.
func CommandError(kind ErrorKind, cmd, output string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: string(kind), Cmd: cmd, Output: output, Err: err}
}

// KindOf returns the kind of err, or "" when err is not a PipelineError.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
