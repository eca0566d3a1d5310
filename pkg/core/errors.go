package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// DriverError signals a transport/communication failure with the automation
// driver. It is the only error that propagates out of a resolution stage
// un-recovered: "not found" is never an error, and stage-local misses are
// absorbed by the pipeline.
type DriverError struct {
	Op    string // operation that failed: query, gesture, switch_surface, ...
	Cause error
}

// Error implements the error interface.
func (e *DriverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("driver %s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("driver %s failed", e.Op)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DriverError) Unwrap() error {
	return e.Cause
}

// NewDriverError wraps a transport failure. If cause already is a
// *DriverError it is returned unchanged so the original operation is kept.
func NewDriverError(op string, cause error) *DriverError {
	var de *DriverError
	if errors.As(cause, &de) {
		return de
	}
	return &DriverError{Op: op, Cause: cause}
}

// IsDriverError reports whether err is (or wraps) a DriverError.
func IsDriverError(err error) bool {
	var de *DriverError
	return errors.As(err, &de)
}

// ResolutionFailure is the terminal outcome after every stage is exhausted.
// It records which stages were attempted for diagnostics.
type ResolutionFailure struct {
	Locator     locator.Locator
	Description string
	Stages      []Stage
	Attempts    int
	Trace       []Attempt // one record per try, in order
}

// Error implements the error interface.
func (e *ResolutionFailure) Error() string {
	names := make([]string, len(e.Stages))
	for i, s := range e.Stages {
		names[i] = s.String()
	}
	return fmt.Sprintf("could not resolve %s after %d attempts (stages: %s)",
		e.Locator, e.Attempts, strings.Join(names, ", "))
}

// Attempted reports whether the given stage was reached.
func (e *ResolutionFailure) Attempted(s Stage) bool {
	for _, st := range e.Stages {
		if st == s {
			return true
		}
	}
	return false
}
