package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Stage identifies the pipeline stage an error originated from.
type Stage string

const (
	StageAuth       Stage = "authentication"
	StageInput      Stage = "input"
	StageTranscribe Stage = "transcription"
	StageRender     Stage = "rendering"
)

// Sentinel errors for expected failure modes
var (
	ErrNoInput          = errors.New("no file or YouTube URL provided")
	ErrInvalidURL       = errors.New("invalid YouTube URL format")
	ErrMissingOutput    = errors.New("expected output file not found")
	ErrToolNotInstalled = errors.New("required tool not installed")
)

// PipelineError represents a failure in one pipeline stage. No raw
// collaborator error crosses a stage boundary without being wrapped
// in one of these.
type PipelineError struct {
	Stage  Stage
	Detail string // user-visible message
	Stderr string // collaborator diagnostic output, if any
	Cause  error
}

func (e *PipelineError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %s: %s", e.Stage, e.Detail, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Detail)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Unauthenticated reports a rejected or unverifiable credential.
func Unauthenticated(detail string, cause error) *PipelineError {
	return &PipelineError{Stage: StageAuth, Detail: detail, Cause: cause}
}

// Input reports a failure acquiring the audio source.
func Input(detail string, cause error) *PipelineError {
	return &PipelineError{Stage: StageInput, Detail: detail, Cause: cause}
}

// Transcription reports a note-detection failure.
func Transcription(detail, stderr string, cause error) *PipelineError {
	return &PipelineError{Stage: StageTranscribe, Detail: detail, Stderr: stderr, Cause: cause}
}

// Rendering reports a score-rendering failure.
func Rendering(detail, stderr string, cause error) *PipelineError {
	return &PipelineError{Stage: StageRender, Detail: detail, Stderr: stderr, Cause: cause}
}

// HTTPStatus maps a pipeline error to the response status the API
// returns for it. Absent input and a malformed remote URL are caller
// mistakes; everything else in the pipeline is a server-side failure.
func HTTPStatus(err error) int {
	var pe *PipelineError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	switch {
	case pe.Stage == StageAuth:
		return http.StatusUnauthorized
	case errors.Is(err, ErrNoInput), errors.Is(err, ErrInvalidURL):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the user-visible message for an error, including any
// collaborator diagnostics. Stack traces are never exposed.
func Detail(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		if pe.Stderr != "" {
			return pe.Detail + ": " + pe.Stderr
		}
		return pe.Detail
	}
	return err.Error()
}
