// Package ranking scores catalog projects against a user's skill profile.
package ranking

import (
	"sort"

	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/skillmatch"
)

// DefaultLimit is the number of projects shown on the dashboard.
const DefaultLimit = 3

// Recommendation is one ranked project.
type Recommendation struct {
	Project         models.Project
	MatchPercentage float64
	Score           float64
}

// Rank scores each project as match percentage times difficulty weight and
// sorts by score descending, then project ID ascending.
func Rank(projects []models.Project, userSkills skillmatch.Set) []Recommendation {
	recs := make([]Recommendation, 0, len(projects))
	for _, p := range projects {
		pct := skillmatch.Percentage(p.SkillIDs(), userSkills)
		recs = append(recs, Recommendation{
			Project:         p,
			MatchPercentage: pct,
			Score:           pct * float64(p.Difficulty.Weight()),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Project.ID < recs[j].Project.ID
	})
	return recs
}

// Top returns the first n ranked projects. n <= 0 means DefaultLimit.
func Top(projects []models.Project, userSkills skillmatch.Set, n int) []Recommendation {
	if n <= 0 {
		n = DefaultLimit
	}
	recs := Rank(projects, userSkills)
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
