package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/models"
)

type taskRow struct {
	ID              int64  `sql:"id"`
	ProjectID       int64  `sql:"project_id"`
	Title           string `sql:"title"`
	Description     string `sql:"description"`
	Scenario        string `sql:"scenario"`
	ExpectedOutcome string `sql:"expected_outcome"`
	Category        string `sql:"category"`
	ResourceRef     string `sql:"resource_ref"`
}

// edgeRow scans either join table; only the selected columns are set.
type edgeRow struct {
	TaskID         int64 `sql:"task_id"`
	PrerequisiteID int64 `sql:"prerequisite_id"`
	SkillID        int64 `sql:"skill_id"`
}

func (e edgeRow) other(column string) int64 {
	if column == "skill_id" {
		return e.SkillID
	}
	return e.PrerequisiteID
}

var taskColumns = []string{
	"id", "project_id", "title", "description",
	"scenario", "expected_outcome", "category", "resource_ref",
}

// taskRepo implements TaskRepo.
type taskRepo struct {
	c conn
}

func (r *taskRepo) Create(ctx context.Context, t models.Task) (models.Task, error) {
	id, err := r.c.insert(ctx, r.c.builder().Insert(tasksTable).
		Columns(taskColumns[1:]...).
		Values(t.ProjectID, t.Title, t.Description, t.Scenario, t.ExpectedOutcome, t.Category, t.ResourceRef))
	if err != nil {
		return models.Task{}, fmt.Errorf("create task %q: %w", t.Title, err)
	}
	t.ID = id

	for _, skillID := range t.RecommendedSkills {
		_, err := r.c.exec(ctx, r.c.builder().Insert(taskSkillsTable).
			Columns("task_id", "skill_id").
			Values(id, skillID))
		if err != nil {
			return models.Task{}, fmt.Errorf("link task %d to skill %d: %w", id, skillID, err)
		}
	}
	return t, nil
}

func (r *taskRepo) AddPrerequisite(ctx context.Context, taskID, prerequisiteID int64) error {
	_, err := r.c.exec(ctx, r.c.builder().Insert(taskPrerequisitesTable).
		Columns("task_id", "prerequisite_id").
		Values(taskID, prerequisiteID).
		OnConflict(entsql.ConflictColumns("task_id", "prerequisite_id"), entsql.DoNothing()))
	if err != nil {
		return fmt.Errorf("add prerequisite %d to task %d: %w", prerequisiteID, taskID, err)
	}
	return nil
}

func (r *taskRepo) Get(ctx context.Context, id int64) (models.Task, error) {
	tasks, err := r.query(ctx, entsql.EQ("id", id))
	if err != nil {
		return models.Task{}, err
	}
	if len(tasks) == 0 {
		return models.Task{}, notFound("task", id)
	}
	return tasks[0], nil
}

func (r *taskRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	return r.query(ctx, entsql.EQ("project_id", projectID))
}

func (r *taskRepo) query(ctx context.Context, p *entsql.Predicate) ([]models.Task, error) {
	var rows []taskRow
	q := r.c.builder().Select(taskColumns...).From(r.c.table(tasksTable)).
		Where(p).
		OrderBy("id")
	if err := r.c.all(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	prereqs, err := r.edges(ctx, taskPrerequisitesTable, "prerequisite_id", ids)
	if err != nil {
		return nil, fmt.Errorf("query task prerequisites: %w", err)
	}
	skills, err := r.edges(ctx, taskSkillsTable, "skill_id", ids)
	if err != nil {
		return nil, fmt.Errorf("query task skills: %w", err)
	}

	out := make([]models.Task, len(rows))
	for i, row := range rows {
		out[i] = models.Task{
			ID:                row.ID,
			ProjectID:         row.ProjectID,
			Title:             row.Title,
			Description:       row.Description,
			Scenario:          row.Scenario,
			ExpectedOutcome:   row.ExpectedOutcome,
			Category:          row.Category,
			ResourceRef:       row.ResourceRef,
			Prerequisites:     prereqs[row.ID],
			RecommendedSkills: skills[row.ID],
		}
	}
	return out, nil
}

// edges loads a task_id -> column adjacency list from a join table.
func (r *taskRepo) edges(ctx context.Context, table, column string, taskIDs []int64) (map[int64][]int64, error) {
	var rows []edgeRow
	q := r.c.builder().Select("task_id", column).
		From(r.c.table(table)).
		Where(entsql.In("task_id", int64Args(taskIDs)...)).
		OrderBy("task_id", column)
	if err := r.c.all(ctx, q, &rows); err != nil {
		return nil, err
	}
	out := make(map[int64][]int64)
	for _, e := range rows {
		out[e.TaskID] = append(out[e.TaskID], e.other(column))
	}
	return out, nil
}
