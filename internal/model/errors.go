package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteAssignment is reported while at least one candidate has no role.
var ErrIncompleteAssignment = errors.New("incomplete role assignment")

// IncompleteError lists the candidates still waiting for a role.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %d user(s) without role (%s)", ErrIncompleteAssignment, len(e.Missing), strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error { return ErrIncompleteAssignment }

// SourceError a failed call against the project-management API.
type SourceError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ReportError a failed report emission.
type ReportError struct {
	Op  string
	Err error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }
