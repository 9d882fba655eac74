package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure for the caller.
type Kind string

const (
	KindDocumentUnreadable   Kind = "DocumentUnreadable"
	KindRemoteServiceFailure Kind = "RemoteServiceFailure"
	KindRenderFailure        Kind = "RenderFailure"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageExtract Stage = "extracting"
	StageMerge   Stage = "merging"
	StageRender  Stage = "rendering"
)

var (
	// ErrUnknownMode is returned for a merge mode that is neither heuristic
	// nor llm.
	ErrUnknownMode = errors.New("unknown merge mode")
	// ErrLLMUnavailable is returned when llm mode is requested but no
	// text-generation client was configured.
	ErrLLMUnavailable = errors.New("llm merging is not configured")
)

// Error is the only error type returned by Run once a request has started.
type Error struct {
	Kind  Kind
	Stage Stage
	Input string // "template" or "notes" for extraction failures
	Err   error
}

func (e *Error) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Stage, e.Input, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a pipeline error, or "" if err is not one.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
