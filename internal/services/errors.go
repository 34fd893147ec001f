package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrProcessing    = errors.New("processing error")
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
)

// ValidationError reports input that was rejected before any separation work
// started: a missing input file or an unknown two-stem choice.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for the named input.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ProcessingError carries any failure raised while loading the model,
// separating, composing or encoding. Causes are not distinguished.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	if e.Err == nil {
		return "processing failed"
	}
	return e.Err.Error()
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrProcessing) match.
func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessing
}

// Processing wraps err as a ProcessingError. A nil err stays nil and an
// existing ProcessingError is returned unchanged.
func Processing(err error) error {
	if err == nil {
		return nil
	}
	var existing *ProcessingError
	if errors.As(err, &existing) {
		return err
	}
	return &ProcessingError{Err: err}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProcessing
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
