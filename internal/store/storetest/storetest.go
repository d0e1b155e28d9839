// Package storetest opens isolated in-memory stores and seeds fixtures for
// tests in other packages.
package storetest

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/store"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// DSN returns an in-memory SQLite DSN private to name.
func DSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(name, "_"))
}

// Open returns a fresh in-memory store closed at test cleanup.
func Open(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(DSN(t.Name()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TaskSpec describes a fixture task. Prereqs and Skills index into the
// fixture's task and skill lists.
type TaskSpec struct {
	Title   string
	Prereqs []int
	Skills  []int
}

// Fixture is a seeded project with its skills and tasks, in spec order.
type Fixture struct {
	Project models.Project
	Skills  []models.Skill
	Tasks   []models.Task
}

// SeedProject creates skills, a project recommending all of them, and the
// described tasks.
func SeedProject(t testing.TB, s *store.Store, title string, difficulty models.Difficulty, skillNames []string, tasks []TaskSpec) Fixture {
	t.Helper()
	ctx := context.Background()
	repos := s.Repos()

	var fx Fixture
	for _, name := range skillNames {
		sk, err := repos.Skills.GetByName(ctx, name)
		if store.IsNotFound(err) {
			sk, err = repos.Skills.Create(ctx, name, "general")
		}
		if err != nil {
			t.Fatalf("seed skill %q: %v", name, err)
		}
		fx.Skills = append(fx.Skills, sk)
	}

	p := models.Project{Title: title, Difficulty: difficulty}
	for _, sk := range fx.Skills {
		p.Skills = append(p.Skills, models.SkillRequirement{SkillID: sk.ID})
	}
	p, err := repos.Projects.Create(ctx, p)
	if err != nil {
		t.Fatalf("seed project %q: %v", title, err)
	}
	fx.Project = p

	for _, spec := range tasks {
		task := models.Task{ProjectID: p.ID, Title: spec.Title}
		for _, i := range spec.Skills {
			task.RecommendedSkills = append(task.RecommendedSkills, fx.Skills[i].ID)
		}
		task, err := repos.Tasks.Create(ctx, task)
		if err != nil {
			t.Fatalf("seed task %q: %v", spec.Title, err)
		}
		fx.Tasks = append(fx.Tasks, task)
	}
	for i, spec := range tasks {
		for _, j := range spec.Prereqs {
			if err := repos.Tasks.AddPrerequisite(ctx, fx.Tasks[i].ID, fx.Tasks[j].ID); err != nil {
				t.Fatalf("seed prerequisite: %v", err)
			}
			fx.Tasks[i].Prerequisites = append(fx.Tasks[i].Prerequisites, fx.Tasks[j].ID)
		}
	}
	return fx
}

// SeedUser creates a user holding the given skills.
func SeedUser(t testing.TB, s *store.Store, name string, skills ...models.Skill) models.User {
	t.Helper()
	ctx := context.Background()
	repos := s.Repos()

	u, err := repos.Users.Create(ctx, name)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	var us []models.UserSkill
	for _, sk := range skills {
		us = append(us, models.UserSkill{SkillID: sk.ID})
	}
	if err := repos.UserSkills.Set(ctx, u.ID, us); err != nil {
		t.Fatalf("seed user skills: %v", err)
	}
	return u
}

// Scenario seeds the three-task project used across packages:
// T1 (no prerequisites), T2 and T3 (both require T1). T3 recommends the
// "sql" skill; T1 and T2 recommend "go".
func Scenario(t testing.TB, s *store.Store) Fixture {
	t.Helper()
	return SeedProject(t, s, "Inventory API", models.DifficultyIntermediate,
		[]string{"go", "sql"},
		[]TaskSpec{
			{Title: "T1", Skills: []int{0}},
			{Title: "T2", Prereqs: []int{0}, Skills: []int{0}},
			{Title: "T3", Prereqs: []int{0}, Skills: []int{1}},
		})
}
