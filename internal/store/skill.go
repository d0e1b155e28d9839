package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/models"
)

type skillRow struct {
	ID       int64  `sql:"id"`
	Name     string `sql:"name"`
	Category string `sql:"category"`
}

var skillColumns = []string{"id", "name", "category"}

// skillRepo implements SkillRepo.
type skillRepo struct {
	c conn
}

func (r *skillRepo) Create(ctx context.Context, name, category string) (models.Skill, error) {
	id, err := r.c.insert(ctx, r.c.builder().Insert(skillsTable).
		Columns("name", "category").
		Values(name, category))
	if err != nil {
		return models.Skill{}, fmt.Errorf("create skill %q: %w", name, err)
	}
	return models.Skill{ID: id, Name: name, Category: category}, nil
}

func (r *skillRepo) GetByName(ctx context.Context, name string) (models.Skill, error) {
	var rows []skillRow
	q := r.c.builder().Select(skillColumns...).From(r.c.table(skillsTable)).
		Where(entsql.EQ("name", name))
	if err := r.c.all(ctx, q, &rows); err != nil {
		return models.Skill{}, fmt.Errorf("query skill: %w", err)
	}
	if len(rows) == 0 {
		return models.Skill{}, notFound("skill", name)
	}
	return models.Skill(rows[0]), nil
}

func (r *skillRepo) ListAll(ctx context.Context) ([]models.Skill, error) {
	var rows []skillRow
	q := r.c.builder().Select(skillColumns...).From(r.c.table(skillsTable)).
		OrderBy("id")
	if err := r.c.all(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	out := make([]models.Skill, len(rows))
	for i, row := range rows {
		out[i] = models.Skill(row)
	}
	return out, nil
}
