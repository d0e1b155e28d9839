// Package taskgraph evaluates the prerequisite graph of a single project's
// tasks. Lock checks only look at direct prerequisites, so they terminate
// even when stored data contains a cycle; cycles are reported separately
// by Validate at catalog authoring time.
package taskgraph

import (
	"slices"
	"sort"

	"github.com/abhisek/pathwise/internal/models"
)

// Graph indexes one project's tasks. It is built per request from the
// store's task list and never cached.
type Graph struct {
	tasks      []models.Task
	byID       map[int64]*models.Task
	dependents map[int64][]int64
	roots      []models.Task
	topoOrder  []models.Task
}

// New builds a Graph over tasks. Prerequisites that reference unknown tasks
// are kept on the task but produce no dependents edge.
func New(tasks []models.Task) *Graph {
	g := &Graph{
		tasks:      slices.Clone(tasks),
		byID:       make(map[int64]*models.Task, len(tasks)),
		dependents: make(map[int64][]int64),
	}
	sort.Slice(g.tasks, func(i, j int) bool { return g.tasks[i].ID < g.tasks[j].ID })

	for i := range g.tasks {
		g.byID[g.tasks[i].ID] = &g.tasks[i]
	}

	for i := range g.tasks {
		t := &g.tasks[i]
		for _, pid := range distinct(t.Prerequisites) {
			if _, ok := g.byID[pid]; ok && pid != t.ID {
				g.dependents[pid] = append(g.dependents[pid], t.ID)
			}
		}
		if len(t.Prerequisites) == 0 {
			g.roots = append(g.roots, *t)
		}
	}

	g.topoOrder = g.kahn()
	return g
}

// kahn returns tasks in topological order, lowest ID first among ready
// tasks. Tasks on a cycle are omitted.
func (g *Graph) kahn() []models.Task {
	inDegree := make(map[int64]int, len(g.tasks))
	for _, t := range g.tasks {
		for _, pid := range distinct(t.Prerequisites) {
			if _, ok := g.byID[pid]; ok && pid != t.ID {
				inDegree[t.ID]++
			}
		}
		if t.HasPrerequisite(t.ID) {
			// A self edge can never be satisfied.
			inDegree[t.ID]++
		}
	}

	var queue []int64
	for _, t := range g.tasks {
		if inDegree[t.ID] == 0 {
			queue = append(queue, t.ID)
		}
	}

	order := make([]models.Task, 0, len(g.tasks))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, *g.byID[id])

		for _, dep := range g.dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
		slices.Sort(queue)
	}
	return order
}

// Task returns the task with the given ID.
func (g *Graph) Task(id int64) (models.Task, bool) {
	t, ok := g.byID[id]
	if !ok {
		return models.Task{}, false
	}
	return *t, true
}

// Tasks returns all tasks ordered by ID.
func (g *Graph) Tasks() []models.Task {
	return slices.Clone(g.tasks)
}

// Roots returns the tasks with no prerequisites.
func (g *Graph) Roots() []models.Task {
	return slices.Clone(g.roots)
}

// Dependents returns the IDs of tasks that list id as a direct prerequisite.
func (g *Graph) Dependents(id int64) []int64 {
	return slices.Clone(g.dependents[id])
}

// TopologicalOrder returns the tasks in a valid execution order. When the
// graph has a cycle the tasks on it are missing from the result.
func (g *Graph) TopologicalOrder() []models.Task {
	return slices.Clone(g.topoOrder)
}

// HasCycle reports whether some task can never become unlocked because it
// sits on a prerequisite cycle.
func (g *Graph) HasCycle() bool {
	return len(g.topoOrder) < len(g.tasks)
}

// IsLocked reports whether t is blocked by an incomplete direct
// prerequisite. A prerequisite ID missing from completed, including one that
// references a deleted task, counts as incomplete.
func IsLocked(t models.Task, completed map[int64]bool) bool {
	for _, pid := range t.Prerequisites {
		if !completed[pid] {
			return true
		}
	}
	return false
}

// IsLocked is the graph-scoped variant of the package-level IsLocked. It
// additionally treats prerequisites outside this graph as incomplete.
func (g *Graph) IsLocked(t models.Task, completed map[int64]bool) bool {
	for _, pid := range t.Prerequisites {
		if _, ok := g.byID[pid]; !ok || !completed[pid] {
			return true
		}
	}
	return false
}

// AvailableTasks returns tasks that are neither completed nor locked, ordered
// by ID.
func (g *Graph) AvailableTasks(completed map[int64]bool) []models.Task {
	var out []models.Task
	for _, t := range g.tasks {
		if !completed[t.ID] && !g.IsLocked(t, completed) {
			out = append(out, t)
		}
	}
	return out
}

// Remaining counts tasks not yet completed.
func (g *Graph) Remaining(completed map[int64]bool) int {
	n := 0
	for _, t := range g.tasks {
		if !completed[t.ID] {
			n++
		}
	}
	return n
}

func distinct(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
