package store

import (
	"context"
	"time"

	"github.com/abhisek/pathwise/internal/models"
)

// UserRepo manages learners.
type UserRepo interface {
	Create(ctx context.Context, name string) (models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
}

// SkillRepo manages the skill catalog.
type SkillRepo interface {
	Create(ctx context.Context, name, category string) (models.Skill, error)
	GetByName(ctx context.Context, name string) (models.Skill, error)
	ListAll(ctx context.Context) ([]models.Skill, error)
}

// ProjectRepo manages catalog projects and their recommended skills.
type ProjectRepo interface {
	// Create inserts the project and its skill requirements. p.ID is ignored.
	Create(ctx context.Context, p models.Project) (models.Project, error)
	Get(ctx context.Context, id int64) (models.Project, error)
	GetByTitle(ctx context.Context, title string) (models.Project, error)
	// ListAll returns every project, skills populated, ordered by ID.
	ListAll(ctx context.Context) ([]models.Project, error)
}

// TaskRepo manages a project's tasks and their prerequisite edges.
type TaskRepo interface {
	// Create inserts the task and its recommended skills. Prerequisites are
	// added separately with AddPrerequisite once all tasks exist.
	Create(ctx context.Context, t models.Task) (models.Task, error)
	AddPrerequisite(ctx context.Context, taskID, prerequisiteID int64) error
	Get(ctx context.Context, id int64) (models.Task, error)
	// ListByProject returns tasks ordered by ID with prerequisites and
	// recommended skills populated.
	ListByProject(ctx context.Context, projectID int64) ([]models.Task, error)
}

// UserSkillRepo manages a user's skill profile.
type UserSkillRepo interface {
	// ListByUser returns the user's skill IDs in ascending order.
	ListByUser(ctx context.Context, userID int64) ([]int64, error)
	List(ctx context.Context, userID int64) ([]models.UserSkill, error)
	// Set replaces the user's skill profile.
	Set(ctx context.Context, userID int64, skills []models.UserSkill) error
}

// UserTaskRepo manages per-user task state.
type UserTaskRepo interface {
	CreateMany(ctx context.Context, uts []models.UserTask) ([]models.UserTask, error)
	// ListByUser returns the user's rows for tasks of projectID, ordered by
	// task ID.
	ListByUser(ctx context.Context, userID, projectID int64) ([]models.UserTask, error)
	Get(ctx context.Context, userID, taskID int64) (models.UserTask, error)
	GetByID(ctx context.Context, id int64) (models.UserTask, error)
	// MarkCompleted moves a row that is not yet completed to completed. It
	// reports false when the row was already completed.
	MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error)
	// SetStatus rewrites the cached status of a row that is not completed.
	SetStatus(ctx context.Context, id int64, status models.UserTaskStatus) error
	DeleteByUserAndTasks(ctx context.Context, userID int64, taskIDs []int64) (int64, error)
}

// EnrollmentRepo manages user/project enrollments.
type EnrollmentRepo interface {
	Create(ctx context.Context, e models.Enrollment) (models.Enrollment, error)
	Get(ctx context.Context, userID, projectID int64) (models.Enrollment, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Enrollment, error)
	UpdateProgress(ctx context.Context, id int64, progress int, status models.EnrollmentStatus) error
	Delete(ctx context.Context, id int64) error
}

// SubmissionRepo manages uploaded attempts.
type SubmissionRepo interface {
	Create(ctx context.Context, s models.Submission) (models.Submission, error)
	Get(ctx context.Context, id int64) (models.Submission, error)
	// LatestAttempt returns the highest attempt number for the user task,
	// or 0 when there are none.
	LatestAttempt(ctx context.Context, userTaskID int64) (int, error)
	// RecordGrade sets score and feedback on a pending submission. It
	// reports false when the submission was already graded.
	RecordGrade(ctx context.Context, id int64, score int, feedback string) (bool, error)
	ListByUserTasks(ctx context.Context, userTaskIDs []int64) ([]models.Submission, error)
	DeleteByUserTasks(ctx context.Context, userTaskIDs []int64) (int64, error)
}

// Repos bundles the repositories bound to one connection or transaction.
type Repos struct {
	Users       UserRepo
	Skills      SkillRepo
	Projects    ProjectRepo
	Tasks       TaskRepo
	UserSkills  UserSkillRepo
	UserTasks   UserTaskRepo
	Enrollments EnrollmentRepo
	Submissions SubmissionRepo
}

func newRepos(c conn) *Repos {
	return &Repos{
		Users:       &userRepo{c},
		Skills:      &skillRepo{c},
		Projects:    &projectRepo{c},
		Tasks:       &taskRepo{c},
		UserSkills:  &userSkillRepo{c},
		UserTasks:   &userTaskRepo{c},
		Enrollments: &enrollmentRepo{c},
		Submissions: &submissionRepo{c},
	}
}
