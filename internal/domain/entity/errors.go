package entity

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMissingInput       = errors.New("missing input")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrMaxIterations      = errors.New("max iterations exceeded")
	ErrNoStages           = errors.New("pipeline has no stages")
)

type FailureKind string

const (
	FailureTimeout      FailureKind = "timeout"
	FailureServiceError FailureKind = "service_error"
)

const (
	ServiceLLM    = "llm"
	ServiceSearch = "search"
)

// ExternalError is the single typed failure for a call to the language model
// or the search service.
type ExternalError struct {
	Service string
	Kind    FailureKind
	Err     error
}

func NewExternalError(service string, err error) *ExternalError {
	kind := FailureServiceError
	if errors.Is(err, context.DeadlineExceeded) {
		kind = FailureTimeout
	}
	return &ExternalError{Service: service, Kind: kind, Err: err}
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Kind, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailureKindOf reports the external failure kind carried by err, if any.
func FailureKindOf(err error) (FailureKind, bool) {
	var ext *ExternalError
	if errors.As(err, &ext) {
		return ext.Kind, true
	}
	return "", false
}
