// Package enrollment owns the per-user task state of a project: it creates
// it on enroll, tears it down on leave, and completes tasks when a
// submission passes.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/taskgraph"
)

// TxRunner runs fn inside a single database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(*store.Repos) error) error
}

// Manager applies enrollment lifecycle transitions. Every public method is
// atomic.
type Manager struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewManager returns a manager that writes through tx.
func NewManager(tx TxRunner, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{tx: tx, log: log.Named("enrollment"), now: time.Now}
}

// Enrolled is the state created (or found) by OnEnroll.
type Enrolled struct {
	Enrollment models.Enrollment
	UserTasks  []models.UserTask
	Created    bool // false when the user was already enrolled
}

// OnEnroll enrolls the user in the project. Each task gets a user task that
// starts locked when it has prerequisites and unlocked otherwise. Enrolling
// twice returns the existing state unchanged.
func (m *Manager) OnEnroll(ctx context.Context, userID, projectID int64) (Enrolled, error) {
	var out Enrolled
	err := m.tx.WithTx(ctx, func(r *store.Repos) error {
		if _, err := r.Users.Get(ctx, userID); err != nil {
			return err
		}
		if _, err := r.Projects.Get(ctx, projectID); err != nil {
			return err
		}

		existing, err := r.Enrollments.Get(ctx, userID, projectID)
		switch {
		case err == nil:
			uts, err := r.UserTasks.ListByUser(ctx, userID, projectID)
			if err != nil {
				return err
			}
			out = Enrolled{Enrollment: existing, UserTasks: uts}
			return nil
		case !store.IsNotFound(err):
			return err
		}

		tasks, err := r.Tasks.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		seed := make([]models.UserTask, len(tasks))
		for i, t := range tasks {
			status := models.UserTaskUnlocked
			if len(t.Prerequisites) > 0 {
				status = models.UserTaskLocked
			}
			seed[i] = models.UserTask{UserID: userID, TaskID: t.ID, Status: status}
		}
		uts, err := r.UserTasks.CreateMany(ctx, seed)
		if err != nil {
			return err
		}
		e, err := r.Enrollments.Create(ctx, models.Enrollment{
			UserID:    userID,
			ProjectID: projectID,
			Status:    models.EnrollmentInProgress,
			StartedAt: m.now(),
		})
		if err != nil {
			return err
		}
		out = Enrolled{Enrollment: e, UserTasks: uts, Created: true}
		return nil
	})
	if err != nil {
		return Enrolled{}, fmt.Errorf("enroll user %d in project %d: %w", userID, projectID, err)
	}
	if out.Created {
		m.log.Info("enrolled", "user", userID, "project", projectID, "tasks", len(out.UserTasks))
	}
	return out, nil
}

// Unenrolled reports what OnUnenroll removed.
type Unenrolled struct {
	Enrollment  models.Enrollment
	UserTasks   int64
	Submissions int64
	// FileRefs are the blob keys of the deleted submissions. The caller
	// removes them from the blob store after the transaction commits.
	FileRefs []string
}

// OnUnenroll deletes the enrollment, the user's task rows for the project
// and their submissions. It is a no-op when the user is not enrolled.
func (m *Manager) OnUnenroll(ctx context.Context, userID, projectID int64) (Unenrolled, error) {
	var out Unenrolled
	err := m.tx.WithTx(ctx, func(r *store.Repos) error {
		e, err := r.Enrollments.Get(ctx, userID, projectID)
		if store.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		out.Enrollment = e

		tasks, err := r.Tasks.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		uts, err := r.UserTasks.ListByUser(ctx, userID, projectID)
		if err != nil {
			return err
		}
		utIDs := make([]int64, len(uts))
		for i, ut := range uts {
			utIDs[i] = ut.ID
		}

		subs, err := r.Submissions.ListByUserTasks(ctx, utIDs)
		if err != nil {
			return err
		}
		for _, s := range subs {
			out.FileRefs = append(out.FileRefs, s.FileRef)
		}
		if out.Submissions, err = r.Submissions.DeleteByUserTasks(ctx, utIDs); err != nil {
			return err
		}

		taskIDs := make([]int64, len(tasks))
		for i, t := range tasks {
			taskIDs[i] = t.ID
		}
		if out.UserTasks, err = r.UserTasks.DeleteByUserAndTasks(ctx, userID, taskIDs); err != nil {
			return err
		}
		return r.Enrollments.Delete(ctx, e.ID)
	})
	if err != nil {
		return Unenrolled{}, fmt.Errorf("unenroll user %d from project %d: %w", userID, projectID, err)
	}
	if out.Enrollment.ID != 0 {
		m.log.Info("unenrolled", "user", userID, "project", projectID,
			"user_tasks", out.UserTasks, "submissions", out.Submissions)
	}
	return out, nil
}

// Transition records a status change of one user task.
type Transition struct {
	TaskID  int64
	From    models.UserTaskStatus
	To      models.UserTaskStatus
	Trigger string
}

// Completion reports the effects of completing a task.
type Completion struct {
	UserTask   models.UserTask
	Enrollment models.Enrollment
	// Already is true when the task was completed before this call; nothing
	// was written.
	Already     bool
	Transitions []Transition
}

// OnTaskPassed completes the user task in its own transaction.
func (m *Manager) OnTaskPassed(ctx context.Context, userTaskID int64) (Completion, error) {
	var out Completion
	err := m.tx.WithTx(ctx, func(r *store.Repos) error {
		var err error
		out, err = m.Complete(ctx, r, userTaskID)
		return err
	})
	if err != nil {
		return Completion{}, err
	}
	return out, nil
}

// Complete marks the user task completed using r, which should be bound to
// the caller's transaction. Dependents whose prerequisites are now all
// complete move from locked to unlocked, and enrollment progress is
// recomputed. Completing a locked task fails with ErrTaskLocked.
func (m *Manager) Complete(ctx context.Context, r *store.Repos, userTaskID int64) (Completion, error) {
	ut, err := r.UserTasks.GetByID(ctx, userTaskID)
	if err != nil {
		return Completion{}, fmt.Errorf("complete task: %w", err)
	}
	task, err := r.Tasks.Get(ctx, ut.TaskID)
	if err != nil {
		return Completion{}, fmt.Errorf("complete task: %w", err)
	}
	st, err := loadState(ctx, r, ut.UserID, task.ProjectID)
	if err != nil {
		return Completion{}, err
	}

	out := Completion{UserTask: ut, Enrollment: st.enrollment}
	if st.completed[task.ID] {
		out.Already = true
		return out, nil
	}
	if pending := pendingPrerequisites(task, st.completed); len(pending) > 0 {
		return Completion{}, &ErrTaskLocked{TaskID: task.ID, Pending: pending}
	}

	at := m.now()
	ok, err := r.UserTasks.MarkCompleted(ctx, ut.ID, at)
	if err != nil {
		return Completion{}, err
	}
	if !ok {
		out.Already = true
		return out, nil
	}
	at = at.UTC()
	out.UserTask.Status = models.UserTaskCompleted
	out.UserTask.CompletedAt = &at
	out.Transitions = append(out.Transitions, Transition{
		TaskID:  task.ID,
		From:    ut.Status,
		To:      models.UserTaskCompleted,
		Trigger: "passed",
	})
	st.completed[task.ID] = true

	unlocked, err := reconcile(ctx, r, st)
	if err != nil {
		return Completion{}, err
	}
	out.Transitions = append(out.Transitions, unlocked...)

	progress, status := Progress(st.tasks, st.completed)
	if err := r.Enrollments.UpdateProgress(ctx, st.enrollment.ID, progress, status); err != nil {
		return Completion{}, err
	}
	out.Enrollment.Progress = progress
	out.Enrollment.Status = status

	m.log.Info("task completed", "user", ut.UserID, "task", task.ID,
		"progress", progress, "unlocked", len(unlocked))
	return out, nil
}

// CheckSubmittable returns the user's task row when the task accepts
// submissions: the user is enrolled in its project and every prerequisite
// is complete. Skill gaps do not block submission.
func CheckSubmittable(ctx context.Context, r *store.Repos, userID, taskID int64) (models.UserTask, error) {
	task, err := r.Tasks.Get(ctx, taskID)
	if err != nil {
		return models.UserTask{}, err
	}
	st, err := loadState(ctx, r, userID, task.ProjectID)
	if err != nil {
		return models.UserTask{}, err
	}
	if pending := pendingPrerequisites(task, st.completed); len(pending) > 0 {
		return models.UserTask{}, &ErrTaskLocked{TaskID: taskID, Pending: pending}
	}
	ut, ok := st.byTask[taskID]
	if !ok {
		// Enrolled before the task was added to the catalog.
		return models.UserTask{}, &ErrNotEnrolled{UserID: userID, ProjectID: task.ProjectID}
	}
	return ut, nil
}

// Progress returns the completion percentage, rounded down, and the
// enrollment status it implies.
func Progress(tasks []models.Task, completed map[int64]bool) (int, models.EnrollmentStatus) {
	if len(tasks) == 0 {
		return 0, models.EnrollmentInProgress
	}
	done := 0
	for _, t := range tasks {
		if completed[t.ID] {
			done++
		}
	}
	if done == len(tasks) {
		return 100, models.EnrollmentCompleted
	}
	return done * 100 / len(tasks), models.EnrollmentInProgress
}

type state struct {
	enrollment models.Enrollment
	tasks      []models.Task
	userTasks  []models.UserTask
	byTask     map[int64]models.UserTask
	completed  map[int64]bool
}

func loadState(ctx context.Context, r *store.Repos, userID, projectID int64) (*state, error) {
	e, err := r.Enrollments.Get(ctx, userID, projectID)
	if store.IsNotFound(err) {
		return nil, &ErrNotEnrolled{UserID: userID, ProjectID: projectID}
	}
	if err != nil {
		return nil, err
	}
	tasks, err := r.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	uts, err := r.UserTasks.ListByUser(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	byTask := make(map[int64]models.UserTask, len(uts))
	for _, ut := range uts {
		byTask[ut.TaskID] = ut
	}
	return &state{
		enrollment: e,
		tasks:      tasks,
		userTasks:  uts,
		byTask:     byTask,
		completed:  models.CompletedSet(uts),
	}, nil
}

// reconcile rewrites the cached status of every incomplete user task to
// match its computed lock state.
func reconcile(ctx context.Context, r *store.Repos, st *state) ([]Transition, error) {
	var out []Transition
	for _, t := range st.tasks {
		ut, ok := st.byTask[t.ID]
		if !ok || st.completed[t.ID] {
			continue
		}
		want := models.UserTaskUnlocked
		if taskgraph.IsLocked(t, st.completed) {
			want = models.UserTaskLocked
		}
		if ut.Status == want {
			continue
		}
		if err := r.UserTasks.SetStatus(ctx, ut.ID, want); err != nil {
			return nil, err
		}
		trigger := "prerequisites-complete"
		if want == models.UserTaskLocked {
			trigger = "resync"
		}
		out = append(out, Transition{TaskID: t.ID, From: ut.Status, To: want, Trigger: trigger})
	}
	return out, nil
}

func pendingPrerequisites(t models.Task, completed map[int64]bool) []int64 {
	var pending []int64
	for _, p := range t.Prerequisites {
		if !completed[p] {
			pending = append(pending, p)
		}
	}
	return pending
}

// IsLocked reports whether err is an ErrTaskLocked.
func IsLocked(err error) bool {
	var e *ErrTaskLocked
	return errors.As(err, &e)
}

// IsNotEnrolled reports whether err is an ErrNotEnrolled.
func IsNotEnrolled(err error) bool {
	var e *ErrNotEnrolled
	return errors.As(err, &e)
}
