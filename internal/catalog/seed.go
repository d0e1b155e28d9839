package catalog

import (
	"context"
	"fmt"

	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/store"
)

// TxRunner runs fn inside a single database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(*store.Repos) error) error
}

// SeedResult summarizes what Seed wrote.
type SeedResult struct {
	SkillsCreated int
	SkillsReused  int
	Created       []string // project titles inserted
	Skipped       []string // project titles already present
	Tasks         int
}

// Seed writes the catalog in one transaction. Skills are matched by name
// and reused; projects whose title already exists are skipped.
func Seed(ctx context.Context, tx TxRunner, cat *Catalog) (SeedResult, error) {
	if err := cat.Check(); err != nil {
		return SeedResult{}, err
	}
	var res SeedResult
	err := tx.WithTx(ctx, func(r *store.Repos) error {
		res = SeedResult{}
		skillIDs := make(map[string]int64, len(cat.Skills))
		for _, s := range cat.Skills {
			sk, err := r.Skills.GetByName(ctx, s.Name)
			switch {
			case err == nil:
				res.SkillsReused++
			case store.IsNotFound(err):
				if sk, err = r.Skills.Create(ctx, s.Name, s.Category); err != nil {
					return err
				}
				res.SkillsCreated++
			default:
				return err
			}
			skillIDs[s.Name] = sk.ID
		}

		for _, p := range cat.Projects {
			_, err := r.Projects.GetByTitle(ctx, p.Title)
			if err == nil {
				res.Skipped = append(res.Skipped, p.Title)
				continue
			}
			if !store.IsNotFound(err) {
				return err
			}
			n, err := seedProject(ctx, r, p, skillIDs)
			if err != nil {
				return fmt.Errorf("seed project %q: %w", p.Title, err)
			}
			res.Created = append(res.Created, p.Title)
			res.Tasks += n
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, fmt.Errorf("seed catalog: %w", err)
	}
	return res, nil
}

func seedProject(ctx context.Context, r *store.Repos, p Project, skillIDs map[string]int64) (int, error) {
	mp := models.Project{
		Title:       p.Title,
		Description: p.Description,
		Difficulty:  models.Difficulty(p.Difficulty),
	}
	for _, ref := range p.Skills {
		mp.Skills = append(mp.Skills, models.SkillRequirement{
			SkillID:     skillIDs[ref.Name],
			Proficiency: ref.Proficiency,
		})
	}
	mp, err := r.Projects.Create(ctx, mp)
	if err != nil {
		return 0, err
	}

	ids := make(map[string]int64, len(p.Tasks))
	for _, t := range p.Tasks {
		mt := models.Task{
			ProjectID:       mp.ID,
			Title:           t.Title,
			Description:     t.Description,
			Scenario:        t.Scenario,
			ExpectedOutcome: t.ExpectedOutcome,
			Category:        t.Category,
			ResourceRef:     t.Resource,
		}
		for _, name := range t.Skills {
			mt.RecommendedSkills = append(mt.RecommendedSkills, skillIDs[name])
		}
		created, err := r.Tasks.Create(ctx, mt)
		if err != nil {
			return 0, err
		}
		ids[t.Key] = created.ID
	}
	for _, t := range p.Tasks {
		for _, pk := range t.Prerequisites {
			if err := r.Tasks.AddPrerequisite(ctx, ids[t.Key], ids[pk]); err != nil {
				return 0, err
			}
		}
	}
	return len(p.Tasks), nil
}
