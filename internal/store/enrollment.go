package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/models"
)

type enrollmentRow struct {
	ID        int64     `sql:"id"`
	UserID    int64     `sql:"user_id"`
	ProjectID int64     `sql:"project_id"`
	Status    string    `sql:"status"`
	Progress  int       `sql:"progress"`
	StartedAt time.Time `sql:"started_at"`
}

func (r enrollmentRow) model() models.Enrollment {
	return models.Enrollment{
		ID:        r.ID,
		UserID:    r.UserID,
		ProjectID: r.ProjectID,
		Status:    models.EnrollmentStatus(r.Status),
		Progress:  r.Progress,
		StartedAt: r.StartedAt,
	}
}

var enrollmentColumns = []string{"id", "user_id", "project_id", "status", "progress", "started_at"}

// enrollmentRepo implements EnrollmentRepo.
type enrollmentRepo struct {
	c conn
}

func (r *enrollmentRepo) Create(ctx context.Context, e models.Enrollment) (models.Enrollment, error) {
	e.StartedAt = e.StartedAt.UTC()
	id, err := r.c.insert(ctx, r.c.builder().Insert(enrollmentsTable).
		Columns("user_id", "project_id", "status", "progress", "started_at").
		Values(e.UserID, e.ProjectID, string(e.Status), e.Progress, e.StartedAt))
	if err != nil {
		return models.Enrollment{}, fmt.Errorf("create enrollment: %w", err)
	}
	e.ID = id
	return e, nil
}

func (r *enrollmentRepo) Get(ctx context.Context, userID, projectID int64) (models.Enrollment, error) {
	es, err := r.query(ctx, entsql.And(entsql.EQ("user_id", userID), entsql.EQ("project_id", projectID)))
	if err != nil {
		return models.Enrollment{}, err
	}
	if len(es) == 0 {
		return models.Enrollment{}, notFound("enrollment", fmt.Sprintf("user=%d project=%d", userID, projectID))
	}
	return es[0], nil
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, userID int64) ([]models.Enrollment, error) {
	return r.query(ctx, entsql.EQ("user_id", userID))
}

func (r *enrollmentRepo) query(ctx context.Context, p *entsql.Predicate) ([]models.Enrollment, error) {
	var rows []enrollmentRow
	q := r.c.builder().Select(enrollmentColumns...).From(r.c.table(enrollmentsTable)).
		Where(p).
		OrderBy("id")
	if err := r.c.all(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	out := make([]models.Enrollment, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out, nil
}

func (r *enrollmentRepo) UpdateProgress(ctx context.Context, id int64, progress int, status models.EnrollmentStatus) error {
	n, err := r.c.exec(ctx, r.c.builder().Update(enrollmentsTable).
		Set("progress", progress).
		Set("status", string(status)).
		Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("update enrollment %d: %w", id, err)
	}
	if n == 0 {
		return notFound("enrollment", id)
	}
	return nil
}

func (r *enrollmentRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.c.exec(ctx, r.c.builder().Delete(enrollmentsTable).
		Where(entsql.EQ("id", id))); err != nil {
		return fmt.Errorf("delete enrollment %d: %w", id, err)
	}
	return nil
}
