package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/models"
)

type submissionRow struct {
	ID         int64     `sql:"id"`
	UserTaskID int64     `sql:"user_task_id"`
	FileRef    string    `sql:"file_ref"`
	Attempt    int       `sql:"attempt"`
	Status     string    `sql:"status"`
	Score      *int64    `sql:"score"`
	Feedback   *string   `sql:"feedback"`
	CreatedAt  time.Time `sql:"created_at"`
}

func (r submissionRow) model() models.Submission {
	s := models.Submission{
		ID:         r.ID,
		UserTaskID: r.UserTaskID,
		FileRef:    r.FileRef,
		Attempt:    r.Attempt,
		Status:     models.SubmissionStatus(r.Status),
		Feedback:   r.Feedback,
		CreatedAt:  r.CreatedAt,
	}
	if r.Score != nil {
		score := int(*r.Score)
		s.Score = &score
	}
	return s
}

var submissionColumns = []string{"id", "user_task_id", "file_ref", "attempt", "status", "score", "feedback", "created_at"}

// submissionRepo implements SubmissionRepo.
type submissionRepo struct {
	c conn
}

func (r *submissionRepo) Create(ctx context.Context, s models.Submission) (models.Submission, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.CreatedAt = s.CreatedAt.UTC()
	id, err := r.c.insert(ctx, r.c.builder().Insert(submissionsTable).
		Columns("user_task_id", "file_ref", "attempt", "status", "created_at").
		Values(s.UserTaskID, s.FileRef, s.Attempt, string(s.Status), s.CreatedAt))
	if err != nil {
		return models.Submission{}, fmt.Errorf("create submission: %w", err)
	}
	s.ID = id
	return s, nil
}

func (r *submissionRepo) Get(ctx context.Context, id int64) (models.Submission, error) {
	subs, err := r.query(ctx, entsql.EQ("id", id))
	if err != nil {
		return models.Submission{}, err
	}
	if len(subs) == 0 {
		return models.Submission{}, notFound("submission", id)
	}
	return subs[0], nil
}

func (r *submissionRepo) LatestAttempt(ctx context.Context, userTaskID int64) (int, error) {
	var attempts []int
	q := r.c.builder().Select("attempt").From(r.c.table(submissionsTable)).
		Where(entsql.EQ("user_task_id", userTaskID)).
		OrderBy(entsql.Desc("attempt")).
		Limit(1)
	if err := r.c.all(ctx, q, &attempts); err != nil {
		return 0, fmt.Errorf("query latest attempt: %w", err)
	}
	if len(attempts) == 0 {
		return 0, nil
	}
	return attempts[0], nil
}

func (r *submissionRepo) RecordGrade(ctx context.Context, id int64, score int, feedback string) (bool, error) {
	n, err := r.c.exec(ctx, r.c.builder().Update(submissionsTable).
		Set("status", string(models.SubmissionGraded)).
		Set("score", score).
		Set("feedback", feedback).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("status", string(models.SubmissionPending)),
		)))
	if err != nil {
		return false, fmt.Errorf("grade submission %d: %w", id, err)
	}
	return n == 1, nil
}

func (r *submissionRepo) ListByUserTasks(ctx context.Context, userTaskIDs []int64) ([]models.Submission, error) {
	if len(userTaskIDs) == 0 {
		return nil, nil
	}
	return r.query(ctx, entsql.In("user_task_id", int64Args(userTaskIDs)...))
}

func (r *submissionRepo) query(ctx context.Context, p *entsql.Predicate) ([]models.Submission, error) {
	var rows []submissionRow
	q := r.c.builder().Select(submissionColumns...).From(r.c.table(submissionsTable)).
		Where(p).
		OrderBy("user_task_id", "attempt")
	if err := r.c.all(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	out := make([]models.Submission, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out, nil
}

func (r *submissionRepo) DeleteByUserTasks(ctx context.Context, userTaskIDs []int64) (int64, error) {
	if len(userTaskIDs) == 0 {
		return 0, nil
	}
	n, err := r.c.exec(ctx, r.c.builder().Delete(submissionsTable).
		Where(entsql.In("user_task_id", int64Args(userTaskIDs)...)))
	if err != nil {
		return 0, fmt.Errorf("delete submissions: %w", err)
	}
	return n, nil
}
