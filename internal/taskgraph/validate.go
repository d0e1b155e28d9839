package taskgraph

import (
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/models"
)

// ValidationError lists every structural problem found in a task set.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("task graph validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// Validate checks a task set for duplicate IDs, dangling or cross-project
// prerequisites, self-dependencies, cycles and the absence of a root task.
// It returns a *ValidationError describing all problems, or nil.
func Validate(tasks []models.Task) error {
	var errs []string

	byID := make(map[int64]models.Task, len(tasks))
	for _, t := range tasks {
		if _, dup := byID[t.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate task ID: %d", t.ID))
			continue
		}
		byID[t.ID] = t
	}

	for _, t := range tasks {
		for _, pid := range t.Prerequisites {
			p, ok := byID[pid]
			switch {
			case pid == t.ID:
				errs = append(errs, fmt.Sprintf("task %d lists itself as a prerequisite", t.ID))
			case !ok:
				errs = append(errs, fmt.Sprintf("task %d references nonexistent prerequisite %d", t.ID, pid))
			case p.ProjectID != t.ProjectID:
				errs = append(errs, fmt.Sprintf("task %d (project %d) references prerequisite %d from project %d",
					t.ID, t.ProjectID, pid, p.ProjectID))
			}
		}
	}

	// Kahn's algorithm over known, distinct edges.
	inDegree := make(map[int64]int, len(byID))
	adj := make(map[int64][]int64)
	for id := range byID {
		inDegree[id] = 0
	}
	for id, t := range byID {
		for _, pid := range distinct(t.Prerequisites) {
			if _, ok := byID[pid]; !ok {
				continue
			}
			inDegree[id]++
			adj[pid] = append(adj[pid], id)
		}
	}

	var queue []int64
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, dep := range adj[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if visited < len(byID) {
		var cycle []int64
		for id, deg := range inDegree {
			if deg > 0 {
				cycle = append(cycle, id)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving tasks: %s", joinIDs(distinct(cycle))))
	}

	if len(tasks) > 0 {
		hasRoot := false
		for _, t := range tasks {
			if len(t.Prerequisites) == 0 {
				hasRoot = true
				break
			}
		}
		if !hasRoot {
			errs = append(errs, "no root tasks found (at least one task must have no prerequisites)")
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
