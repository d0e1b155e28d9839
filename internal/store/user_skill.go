package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/models"
)

type userSkillRow struct {
	SkillID     int64  `sql:"skill_id"`
	Proficiency string `sql:"proficiency"`
}

// userSkillRepo implements UserSkillRepo.
type userSkillRepo struct {
	c conn
}

func (r *userSkillRepo) ListByUser(ctx context.Context, userID int64) ([]int64, error) {
	skills, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(skills))
	for i, s := range skills {
		ids[i] = s.SkillID
	}
	return ids, nil
}

func (r *userSkillRepo) List(ctx context.Context, userID int64) ([]models.UserSkill, error) {
	var rows []userSkillRow
	q := r.c.builder().Select("skill_id", "proficiency").From(r.c.table(userSkillsTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("skill_id")
	if err := r.c.all(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("list user skills: %w", err)
	}
	out := make([]models.UserSkill, len(rows))
	for i, row := range rows {
		out[i] = models.UserSkill(row)
	}
	return out, nil
}

func (r *userSkillRepo) Set(ctx context.Context, userID int64, skills []models.UserSkill) error {
	_, err := r.c.exec(ctx, r.c.builder().Delete(userSkillsTable).
		Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return fmt.Errorf("clear user skills: %w", err)
	}
	if len(skills) == 0 {
		return nil
	}

	ib := r.c.builder().Insert(userSkillsTable).
		Columns("user_id", "skill_id", "proficiency").
		OnConflict(entsql.ConflictColumns("user_id", "skill_id"), entsql.DoNothing())
	for _, s := range skills {
		ib.Values(userID, s.SkillID, s.Proficiency)
	}
	if _, err := r.c.exec(ctx, ib); err != nil {
		return fmt.Errorf("set user skills: %w", err)
	}
	return nil
}
