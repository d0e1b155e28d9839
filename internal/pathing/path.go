// Package pathing orders a project's workable tasks into a recommended path.
package pathing

import (
	"fmt"
	"sort"

	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/skillmatch"
	"github.com/abhisek/pathwise/internal/taskgraph"
)

// ErrInconsistentState is returned when incomplete tasks remain but none of
// them can be started. It indicates a prerequisite cycle or a completion flag
// out of sync with prerequisite state.
type ErrInconsistentState struct {
	ProjectID int64
	Remaining int
}

func (e *ErrInconsistentState) Error() string {
	return fmt.Sprintf("project %d: %d incomplete tasks but none unlocked", e.ProjectID, e.Remaining)
}

// BuildPath ranks every task that is neither completed nor locked:
//  1. tasks whose recommended skills the user fully holds
//  2. tasks that are a direct prerequisite of more locked, incomplete tasks
//  3. lower task ID
//
// Each task is ranked against the current state only; completing the first
// task is not simulated. An empty path with a nil error means the project is
// finished.
func BuildPath(tasks []models.Task, completed map[int64]bool, userSkills skillmatch.Set) ([]models.Task, error) {
	g := taskgraph.New(tasks)

	candidates := g.AvailableTasks(completed)
	if len(candidates) == 0 {
		if remaining := g.Remaining(completed); remaining > 0 {
			return nil, &ErrInconsistentState{ProjectID: projectOf(tasks), Remaining: remaining}
		}
		return nil, nil
	}

	matched := make(map[int64]bool, len(candidates))
	unblocks := make(map[int64]int, len(candidates))
	for _, c := range candidates {
		matched[c.ID] = skillmatch.IsFullyMatched(c.RecommendedSkills, userSkills)
		for _, depID := range g.Dependents(c.ID) {
			dep, _ := g.Task(depID)
			if !completed[depID] && g.IsLocked(dep, completed) {
				unblocks[c.ID]++
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if matched[a.ID] != matched[b.ID] {
			return matched[a.ID]
		}
		if unblocks[a.ID] != unblocks[b.ID] {
			return unblocks[a.ID] > unblocks[b.ID]
		}
		return a.ID < b.ID
	})
	return candidates, nil
}

// NextRecommended returns the head of BuildPath, or nil when nothing is left.
func NextRecommended(tasks []models.Task, completed map[int64]bool, userSkills skillmatch.Set) (*models.Task, error) {
	path, err := BuildPath(tasks, completed, userSkills)
	if err != nil || len(path) == 0 {
		return nil, err
	}
	next := path[0]
	return &next, nil
}

func projectOf(tasks []models.Task) int64 {
	if len(tasks) == 0 {
		return 0
	}
	return tasks[0].ProjectID
}
