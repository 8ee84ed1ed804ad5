package common

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Pipeline error kinds.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrParseFailed          = errors.New("parse failed")
	ErrClassificationFailed = errors.New("classification failed")
	ErrExtractionFailed     = errors.New("extraction failed")
	ErrCompletionFailed     = errors.New("completion failed")
	ErrMalformedOutput      = errors.New("malformed model output")
	ErrValidationSkipped    = errors.New("validation skipped")
)

// Pipeline stages.
const (
	StageParse    = "parse"
	StageClassify = "classify"
	StageExtract  = "extract"
	StageValidate = "validate"
)

// AppError represents application-specific errors.
// Kind is one of the sentinels above; Cause is whatever the collaborator returned.
type AppError struct {
	Code    string
	Stage   string
	Message string
	Kind    error
	Cause   error
}

func (e *AppError) Error() string {
	prefix := e.Code
	if e.Stage != "" {
		prefix = e.Code + "[" + e.Stage + "]"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *AppError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// NewAppError builds an error without a stage.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewStageError builds a pipeline error of the given kind.
func NewStageError(stage string, kind error, message string, cause error) *AppError {
	return &AppError{
		Code:    codeFor(kind),
		Stage:   stage,
		Message: message,
		Kind:    kind,
		Cause:   cause,
	}
}

func codeFor(kind error) string {
	switch {
	case errors.Is(kind, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(kind, ErrParseFailed):
		return "PARSE_FAILED"
	case errors.Is(kind, ErrClassificationFailed):
		return "CLASSIFICATION_FAILED"
	case errors.Is(kind, ErrExtractionFailed):
		return "EXTRACTION_FAILED"
	case errors.Is(kind, ErrCompletionFailed):
		return "COMPLETION_FAILED"
	case errors.Is(kind, ErrMalformedOutput):
		return "MALFORMED_OUTPUT"
	case errors.Is(kind, ErrValidationSkipped):
		return "VALIDATION_SKIPPED"
	default:
		return "INTERNAL"
	}
}

// ToStatus maps a pipeline error onto a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrParseFailed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrClassificationFailed),
		errors.Is(err, ErrExtractionFailed),
		errors.Is(err, ErrCompletionFailed),
		errors.Is(err, ErrMalformedOutput):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...interface{}) error {
	return status.Error(codes.Internal, fmt.Sprintf(format, args...))
}
