package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/models"
)

type userTaskRow struct {
	ID          int64      `sql:"id"`
	UserID      int64      `sql:"user_id"`
	TaskID      int64      `sql:"task_id"`
	Status      string     `sql:"status"`
	CompletedAt *time.Time `sql:"completed_at"`
}

func (r userTaskRow) model() models.UserTask {
	return models.UserTask{
		ID:          r.ID,
		UserID:      r.UserID,
		TaskID:      r.TaskID,
		Status:      models.UserTaskStatus(r.Status),
		CompletedAt: r.CompletedAt,
	}
}

var userTaskColumns = []string{"id", "user_id", "task_id", "status", "completed_at"}

// userTaskRepo implements UserTaskRepo.
type userTaskRepo struct {
	c conn
}

func (r *userTaskRepo) CreateMany(ctx context.Context, uts []models.UserTask) ([]models.UserTask, error) {
	out := make([]models.UserTask, 0, len(uts))
	for _, ut := range uts {
		var completedAt any
		if ut.CompletedAt != nil {
			completedAt = ut.CompletedAt.UTC()
		}
		id, err := r.c.insert(ctx, r.c.builder().Insert(userTasksTable).
			Columns("user_id", "task_id", "status", "completed_at").
			Values(ut.UserID, ut.TaskID, string(ut.Status), completedAt))
		if err != nil {
			return nil, fmt.Errorf("create user task for task %d: %w", ut.TaskID, err)
		}
		ut.ID = id
		out = append(out, ut)
	}
	return out, nil
}

func (r *userTaskRepo) ListByUser(ctx context.Context, userID, projectID int64) ([]models.UserTask, error) {
	projectTasks := r.c.builder().Select("id").From(r.c.table(tasksTable)).
		Where(entsql.EQ("project_id", projectID))
	return r.query(ctx, entsql.And(
		entsql.EQ("user_id", userID),
		entsql.In("task_id", projectTasks),
	))
}

func (r *userTaskRepo) Get(ctx context.Context, userID, taskID int64) (models.UserTask, error) {
	uts, err := r.query(ctx, entsql.And(entsql.EQ("user_id", userID), entsql.EQ("task_id", taskID)))
	if err != nil {
		return models.UserTask{}, err
	}
	if len(uts) == 0 {
		return models.UserTask{}, notFound("user task", fmt.Sprintf("user=%d task=%d", userID, taskID))
	}
	return uts[0], nil
}

func (r *userTaskRepo) GetByID(ctx context.Context, id int64) (models.UserTask, error) {
	uts, err := r.query(ctx, entsql.EQ("id", id))
	if err != nil {
		return models.UserTask{}, err
	}
	if len(uts) == 0 {
		return models.UserTask{}, notFound("user task", id)
	}
	return uts[0], nil
}

func (r *userTaskRepo) query(ctx context.Context, p *entsql.Predicate) ([]models.UserTask, error) {
	var rows []userTaskRow
	q := r.c.builder().Select(userTaskColumns...).From(r.c.table(userTasksTable)).
		Where(p).
		OrderBy("task_id")
	if err := r.c.all(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("query user tasks: %w", err)
	}
	out := make([]models.UserTask, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out, nil
}

func (r *userTaskRepo) MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error) {
	n, err := r.c.exec(ctx, r.c.builder().Update(userTasksTable).
		Set("status", string(models.UserTaskCompleted)).
		Set("completed_at", at.UTC()).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.NEQ("status", string(models.UserTaskCompleted)),
		)))
	if err != nil {
		return false, fmt.Errorf("complete user task %d: %w", id, err)
	}
	return n == 1, nil
}

func (r *userTaskRepo) SetStatus(ctx context.Context, id int64, status models.UserTaskStatus) error {
	_, err := r.c.exec(ctx, r.c.builder().Update(userTasksTable).
		Set("status", string(status)).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.NEQ("status", string(models.UserTaskCompleted)),
		)))
	if err != nil {
		return fmt.Errorf("set user task %d status: %w", id, err)
	}
	return nil
}

func (r *userTaskRepo) DeleteByUserAndTasks(ctx context.Context, userID int64, taskIDs []int64) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	n, err := r.c.exec(ctx, r.c.builder().Delete(userTasksTable).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.In("task_id", int64Args(taskIDs)...),
		)))
	if err != nil {
		return 0, fmt.Errorf("delete user tasks: %w", err)
	}
	return n, nil
}
