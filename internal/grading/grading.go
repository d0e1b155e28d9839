// Package grading defines the grading collaborator used by the submission
// service and a deterministic stand-in for it.
package grading

import (
	"context"
	"fmt"
	"io"

	"github.com/abhisek/pathwise/internal/models"
)

// Result is a grader's verdict on one submission.
type Result struct {
	Score    int // 0-100
	Feedback string
}

// Grader scores a submitted archive.
type Grader interface {
	Grade(ctx context.Context, sub models.Submission, archive io.Reader) (Result, error)
}

// ErrInvalidScore is returned when a grader produces a score outside 0-100.
type ErrInvalidScore struct {
	Score int
}

func (e *ErrInvalidScore) Error() string {
	return fmt.Sprintf("grader returned score %d outside 0-100", e.Score)
}

// ErrGraderUnavailable wraps a failure to reach the grader.
type ErrGraderUnavailable struct {
	Err error
}

func (e *ErrGraderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("grader unavailable: %v", e.Err)
	}
	return "grader unavailable"
}

func (e *ErrGraderUnavailable) Unwrap() error { return e.Err }

// Check validates r.
func (r Result) Check() error {
	if r.Score < 0 || r.Score > 100 {
		return &ErrInvalidScore{Score: r.Score}
	}
	return nil
}
