// Package engine answers the questions a learner's screens ask: what a
// project looks like for them, which projects to try next, and what
// happens when they enroll, leave or submit work.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/abhisek/pathwise/internal/blob"
	"github.com/abhisek/pathwise/internal/enrollment"
	"github.com/abhisek/pathwise/internal/grading"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/pathing"
	"github.com/abhisek/pathwise/internal/ranking"
	"github.com/abhisek/pathwise/internal/readiness"
	"github.com/abhisek/pathwise/internal/skillmatch"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/submission"
	"github.com/abhisek/pathwise/internal/taskgraph"
)

// TaskStore lists a project's tasks with prerequisites and recommended
// skills populated.
type TaskStore interface {
	ListByProject(ctx context.Context, projectID int64) ([]models.Task, error)
}

// UserTaskStore lists a user's task rows within a project.
type UserTaskStore interface {
	ListByUser(ctx context.Context, userID, projectID int64) ([]models.UserTask, error)
}

// UserSkillStore lists the skill IDs a user holds.
type UserSkillStore interface {
	ListByUser(ctx context.Context, userID int64) ([]int64, error)
}

// ProjectStore reads the project catalog.
type ProjectStore interface {
	ListAll(ctx context.Context) ([]models.Project, error)
	Get(ctx context.Context, id int64) (models.Project, error)
}

// UserStore looks up users.
type UserStore interface {
	Get(ctx context.Context, id int64) (models.User, error)
}

// EnrollmentStore looks up a user's enrollment in a project.
type EnrollmentStore interface {
	Get(ctx context.Context, userID, projectID int64) (models.Enrollment, error)
}

// Stores groups the read-side collaborators.
type Stores struct {
	Users       UserStore
	Projects    ProjectStore
	Tasks       TaskStore
	UserTasks   UserTaskStore
	UserSkills  UserSkillStore
	Enrollments EnrollmentStore
}

// Options tunes an Engine.
type Options struct {
	DashboardLimit int // 0 means ranking.DefaultLimit
	PassScore      int // 0 means submission.DefaultPassScore
}

// Engine is the facade over the recommendation and lifecycle components.
type Engine struct {
	stores      Stores
	lifecycle   *enrollment.Manager
	submissions *submission.Service
	blobs       blob.Store
	log         *logger.Logger
	limit       int
}

// New assembles an engine from explicit collaborators.
func New(stores Stores, lifecycle *enrollment.Manager, submissions *submission.Service, blobs blob.Store, log *logger.Logger, opts Options) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	limit := opts.DashboardLimit
	if limit <= 0 {
		limit = ranking.DefaultLimit
	}
	return &Engine{
		stores:      stores,
		lifecycle:   lifecycle,
		submissions: submissions,
		blobs:       blobs,
		log:         log.Named("engine"),
		limit:       limit,
	}
}

// NewFromStore wires an engine whose reads and writes go to st.
func NewFromStore(st *store.Store, blobs blob.Store, grader grading.Grader, log *logger.Logger, opts Options) *Engine {
	r := st.Repos()
	lifecycle := enrollment.NewManager(st, log)
	subs := submission.NewService(st, lifecycle, blobs, grader, log, submission.Options{PassScore: opts.PassScore})
	return New(Stores{
		Users:       r.Users,
		Projects:    r.Projects,
		Tasks:       r.Tasks,
		UserTasks:   r.UserTasks,
		UserSkills:  r.UserSkills,
		Enrollments: r.Enrollments,
	}, lifecycle, subs, blobs, log, opts)
}

// TaskView is one task as a specific user sees it.
type TaskView struct {
	Task    models.Task
	Status  readiness.Status
	Missing []int64 // recommended skills the user lacks
}

// ProjectView is a project page for one user.
type ProjectView struct {
	Project         models.Project
	Tasks           []TaskView // ordered by task ID
	RecommendedPath []models.Task
	NextRecommended *models.Task
	// Enrollment is nil when the user is not enrolled.
	Enrollment *models.Enrollment
	// RecommendationErr is set when no path could be computed. The rest of
	// the view is still valid.
	RecommendationErr error
}

// GetProjectView classifies every task of the project for the user and
// computes the recommended path. An inconsistent task state degrades the
// view instead of failing it.
func (e *Engine) GetProjectView(ctx context.Context, projectID, userID int64) (ProjectView, error) {
	if _, err := e.stores.Users.Get(ctx, userID); err != nil {
		return ProjectView{}, fmt.Errorf("project view: %w", err)
	}
	project, err := e.stores.Projects.Get(ctx, projectID)
	if err != nil {
		return ProjectView{}, fmt.Errorf("project view: %w", err)
	}
	tasks, err := e.stores.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return ProjectView{}, fmt.Errorf("project view: %w", err)
	}
	uts, err := e.stores.UserTasks.ListByUser(ctx, userID, projectID)
	if err != nil {
		return ProjectView{}, fmt.Errorf("project view: %w", err)
	}
	skills, err := e.userSkills(ctx, userID)
	if err != nil {
		return ProjectView{}, err
	}

	view := ProjectView{Project: project}
	enr, err := e.stores.Enrollments.Get(ctx, userID, projectID)
	switch {
	case err == nil:
		view.Enrollment = &enr
	case !store.IsNotFound(err):
		return ProjectView{}, fmt.Errorf("project view: %w", err)
	}

	completed := models.CompletedSet(uts)
	results := readiness.ClassifyAll(tasks, completed, skills)
	for _, t := range tasks {
		res := results[t.ID]
		view.Tasks = append(view.Tasks, TaskView{Task: t, Status: res.Status, Missing: res.Missing})
	}

	path, err := pathing.BuildPath(tasks, completed, skills)
	var inconsistent *pathing.ErrInconsistentState
	switch {
	case errors.As(err, &inconsistent):
		e.log.Error("no recommendation possible",
			"project", projectID,
			"user", userID,
			"remaining", inconsistent.Remaining,
			"cycle", taskgraph.New(tasks).HasCycle(),
		)
		view.RecommendationErr = err
	case err != nil:
		return ProjectView{}, fmt.Errorf("project view: %w", err)
	default:
		view.RecommendedPath = path
		if len(path) > 0 {
			next := path[0]
			view.NextRecommended = &next
		}
	}
	return view, nil
}

// GetDashboardRecommendations ranks every project for the user and returns
// the top limit. A limit of 0 or less uses the configured default.
func (e *Engine) GetDashboardRecommendations(ctx context.Context, userID int64, limit int) ([]ranking.Recommendation, error) {
	if _, err := e.stores.Users.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	skills, err := e.userSkills(ctx, userID)
	if err != nil {
		return nil, err
	}
	projects, err := e.stores.Projects.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if limit <= 0 {
		limit = e.limit
	}
	return ranking.Top(projects, skills, limit), nil
}

// Enroll enrolls the user in the project. Enrolling twice is harmless.
func (e *Engine) Enroll(ctx context.Context, userID, projectID int64) (enrollment.Enrolled, error) {
	return e.lifecycle.OnEnroll(ctx, userID, projectID)
}

// Unenroll removes the user's progress in the project, then deletes the
// uploaded files of the removed submissions. File cleanup is best effort.
func (e *Engine) Unenroll(ctx context.Context, userID, projectID int64) (enrollment.Unenrolled, error) {
	out, err := e.lifecycle.OnUnenroll(ctx, userID, projectID)
	if err != nil {
		return out, err
	}
	if e.blobs == nil {
		return out, nil
	}
	for _, key := range out.FileRefs {
		if err := e.blobs.Delete(ctx, key); err != nil {
			e.log.Warn("delete submission file", "key", key, "error", err)
		}
	}
	return out, nil
}

// Submit uploads and grades a solution for the task.
func (e *Engine) Submit(ctx context.Context, userID, taskID int64, archive io.Reader) (submission.Outcome, error) {
	return e.submissions.Submit(ctx, userID, taskID, archive)
}

func (e *Engine) userSkills(ctx context.Context, userID int64) (skillmatch.Set, error) {
	ids, err := e.stores.UserSkills.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user skills: %w", err)
	}
	return skillmatch.NewSet(ids...), nil
}
