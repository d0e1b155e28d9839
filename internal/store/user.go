package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/models"
)

type userRow struct {
	ID        int64     `sql:"id"`
	Name      string    `sql:"name"`
	CreatedAt time.Time `sql:"created_at"`
}

func (r userRow) model() models.User {
	return models.User{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

var userColumns = []string{"id", "name", "created_at"}

// userRepo implements UserRepo.
type userRepo struct {
	c conn
}

func (r *userRepo) Create(ctx context.Context, name string) (models.User, error) {
	now := time.Now().UTC()
	id, err := r.c.insert(ctx, r.c.builder().Insert(usersTable).
		Columns("name", "created_at").
		Values(name, now))
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return models.User{ID: id, Name: name, CreatedAt: now}, nil
}

func (r *userRepo) Get(ctx context.Context, id int64) (models.User, error) {
	var rows []userRow
	q := r.c.builder().Select(userColumns...).From(r.c.table(usersTable)).
		Where(entsql.EQ("id", id))
	if err := r.c.all(ctx, q, &rows); err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	if len(rows) == 0 {
		return models.User{}, notFound("user", id)
	}
	return rows[0].model(), nil
}

func (r *userRepo) ListAll(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	q := r.c.builder().Select(userColumns...).From(r.c.table(usersTable)).
		OrderBy("id")
	if err := r.c.all(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]models.User, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out, nil
}
