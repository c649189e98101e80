package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// Voice pipeline error kinds.
var (
	// ErrUnusableTranscript means transcription succeeded but produced too
	// little text to build a brief from.
	ErrUnusableTranscript = errors.New("unusable transcript")

	// ErrMalformedGeneration means the language model returned output that
	// does not decode into a valid brief.
	ErrMalformedGeneration = errors.New("malformed generation output")

	// ErrStageTimeout means a pipeline stage hit its deadline.
	ErrStageTimeout = errors.New("stage timeout")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Stage names one step of the voice note pipeline.
type Stage string

const (
	StageDownload   Stage = "download"
	StageTranscribe Stage = "transcribe"
	StageGenerate   Stage = "generate"
	StagePersist    Stage = "persist"
	StageReply      Stage = "reply"
)

func (s Stage) String() string { return string(s) }

// StageError wraps a failure of a single pipeline stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageOf reports the stage a pipeline error originated from, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
