// Package readiness classifies a task for one user as completed, locked,
// skill-gapped or active.
package readiness

import (
	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/skillmatch"
	"github.com/abhisek/pathwise/internal/taskgraph"
)

// Status is a task's state relative to the learner.
type Status int

const (
	StatusLocked    Status = iota // One or more prerequisites not completed
	StatusSkillGap                // Workable, but recommended skills are missing
	StatusActive                  // Workable and fully skill-matched
	StatusCompleted               // Passing submission recorded
)

// String returns the machine name used in views and CLI output.
func (s Status) String() string {
	switch s {
	case StatusLocked:
		return "locked"
	case StatusSkillGap:
		return "skill-gap"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Label returns the display label for a status.
func (s Status) Label() string {
	switch s {
	case StatusLocked:
		return "Locked"
	case StatusSkillGap:
		return "Skill gap"
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Result is the classification of one task.
type Result struct {
	Status  Status
	Missing []int64 // recommended skills the user lacks; set only for StatusSkillGap
}

// Submittable reports whether the user may submit work for the task.
// A skill gap is advisory and does not block submission.
func (r Result) Submittable() bool {
	return r.Status == StatusSkillGap || r.Status == StatusActive
}

// Classify evaluates, in order, Completed, Locked, SkillGap and Active; the
// first match wins.
func Classify(task models.Task, completed map[int64]bool, userSkills skillmatch.Set) Result {
	if completed[task.ID] {
		return Result{Status: StatusCompleted}
	}
	if taskgraph.IsLocked(task, completed) {
		return Result{Status: StatusLocked}
	}
	if !skillmatch.IsFullyMatched(task.RecommendedSkills, userSkills) {
		return Result{
			Status:  StatusSkillGap,
			Missing: skillmatch.MissingSkills(task.RecommendedSkills, userSkills),
		}
	}
	return Result{Status: StatusActive}
}

// ClassifyAll classifies every task, keyed by task ID.
func ClassifyAll(tasks []models.Task, completed map[int64]bool, userSkills skillmatch.Set) map[int64]Result {
	out := make(map[int64]Result, len(tasks))
	for _, t := range tasks {
		out[t.ID] = Classify(t, completed, userSkills)
	}
	return out
}
