package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/models"
)

type projectRow struct {
	ID          int64  `sql:"id"`
	Title       string `sql:"title"`
	Description string `sql:"description"`
	Difficulty  string `sql:"difficulty"`
}

type projectSkillRow struct {
	ProjectID   int64  `sql:"project_id"`
	SkillID     int64  `sql:"skill_id"`
	Proficiency string `sql:"proficiency"`
}

var projectColumns = []string{"id", "title", "description", "difficulty"}

// projectRepo implements ProjectRepo.
type projectRepo struct {
	c conn
}

func (r *projectRepo) Create(ctx context.Context, p models.Project) (models.Project, error) {
	id, err := r.c.insert(ctx, r.c.builder().Insert(projectsTable).
		Columns("title", "description", "difficulty").
		Values(p.Title, p.Description, string(p.Difficulty)))
	if err != nil {
		return models.Project{}, fmt.Errorf("create project %q: %w", p.Title, err)
	}
	p.ID = id

	for _, req := range p.Skills {
		_, err := r.c.exec(ctx, r.c.builder().Insert(projectSkillsTable).
			Columns("project_id", "skill_id", "proficiency").
			Values(id, req.SkillID, req.Proficiency))
		if err != nil {
			return models.Project{}, fmt.Errorf("link project %d to skill %d: %w", id, req.SkillID, err)
		}
	}
	return p, nil
}

func (r *projectRepo) Get(ctx context.Context, id int64) (models.Project, error) {
	projects, err := r.query(ctx, entsql.EQ("id", id))
	if err != nil {
		return models.Project{}, err
	}
	if len(projects) == 0 {
		return models.Project{}, notFound("project", id)
	}
	return projects[0], nil
}

func (r *projectRepo) GetByTitle(ctx context.Context, title string) (models.Project, error) {
	projects, err := r.query(ctx, entsql.EQ("title", title))
	if err != nil {
		return models.Project{}, err
	}
	if len(projects) == 0 {
		return models.Project{}, notFound("project", title)
	}
	return projects[0], nil
}

func (r *projectRepo) ListAll(ctx context.Context) ([]models.Project, error) {
	return r.query(ctx, nil)
}

// query loads projects matching p (all when nil) with their skills.
func (r *projectRepo) query(ctx context.Context, p *entsql.Predicate) ([]models.Project, error) {
	var rows []projectRow
	q := r.c.builder().Select(projectColumns...).From(r.c.table(projectsTable)).
		OrderBy("id")
	if p != nil {
		q.Where(p)
	}
	if err := r.c.all(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	var links []projectSkillRow
	sq := r.c.builder().Select("project_id", "skill_id", "proficiency").
		From(r.c.table(projectSkillsTable)).
		Where(entsql.In("project_id", int64Args(ids)...)).
		OrderBy("project_id", "skill_id")
	if err := r.c.all(ctx, sq, &links); err != nil {
		return nil, fmt.Errorf("query project skills: %w", err)
	}
	skills := make(map[int64][]models.SkillRequirement, len(rows))
	for _, l := range links {
		skills[l.ProjectID] = append(skills[l.ProjectID], models.SkillRequirement{
			SkillID:     l.SkillID,
			Proficiency: l.Proficiency,
		})
	}

	out := make([]models.Project, len(rows))
	for i, row := range rows {
		out[i] = models.Project{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Difficulty:  models.Difficulty(row.Difficulty),
			Skills:      skills[row.ID],
		}
	}
	return out, nil
}
