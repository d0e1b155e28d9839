package models

import (
	"slices"
	"time"
)

// Difficulty is a project's difficulty level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Weight returns the ranking multiplier for the difficulty.
// Unknown difficulties weigh the same as beginner.
func (d Difficulty) Weight() int {
	switch d {
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	default:
		return 1
	}
}

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Skill is immutable reference data.
type Skill struct {
	ID       int64
	Name     string
	Category string
}

// SkillRequirement links a project to a recommended skill.
type SkillRequirement struct {
	SkillID     int64
	Proficiency string // optional
}

// Project is a catalog entry composed of tasks.
type Project struct {
	ID          int64
	Title       string
	Description string
	Difficulty  Difficulty
	Skills      []SkillRequirement
}

// SkillIDs returns the IDs of the project's recommended skills.
func (p Project) SkillIDs() []int64 {
	ids := make([]int64, 0, len(p.Skills))
	for _, s := range p.Skills {
		ids = append(ids, s.SkillID)
	}
	return ids
}

// Task is a unit of work inside a project. Prerequisites reference other
// tasks of the same project and form a DAG.
type Task struct {
	ID                int64
	ProjectID         int64
	Title             string
	Description       string
	Scenario          string
	ExpectedOutcome   string
	Category          string
	ResourceRef       string
	Prerequisites     []int64
	RecommendedSkills []int64
}

// HasPrerequisite reports whether id is a direct prerequisite of t.
func (t Task) HasPrerequisite(id int64) bool {
	return slices.Contains(t.Prerequisites, id)
}

// User is a learner.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// UserSkill is one entry of a user's skill profile.
type UserSkill struct {
	SkillID     int64
	Proficiency string
}

// UserTaskStatus is the cached per-user state of a task.
type UserTaskStatus string

const (
	UserTaskLocked    UserTaskStatus = "locked"
	UserTaskUnlocked  UserTaskStatus = "unlocked"
	UserTaskCompleted UserTaskStatus = "completed"
)

// UserTask joins one user to one task.
type UserTask struct {
	ID          int64
	UserID      int64
	TaskID      int64
	Status      UserTaskStatus
	CompletedAt *time.Time
}

// EnrollmentStatus tracks a user's participation in a project.
type EnrollmentStatus string

const (
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
)

// Enrollment is a user's active participation in a project.
type Enrollment struct {
	ID        int64
	UserID    int64
	ProjectID int64
	Status    EnrollmentStatus
	Progress  int // percentage, 0-100
	StartedAt time.Time
}

// SubmissionStatus is the grading state of a submission.
type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionGraded  SubmissionStatus = "graded"
)

// Submission is one uploaded attempt at a task.
type Submission struct {
	ID         int64
	UserTaskID int64
	FileRef    string
	Attempt    int
	Status     SubmissionStatus
	Score      *int
	Feedback   *string
	CreatedAt  time.Time
}

// CompletedSet builds the completion lookup used by the dependency
// evaluator from a user's task rows.
func CompletedSet(userTasks []UserTask) map[int64]bool {
	done := make(map[int64]bool, len(userTasks))
	for _, ut := range userTasks {
		if ut.Status == UserTaskCompleted {
			done[ut.TaskID] = true
		}
	}
	return done
}
