// Package skillmatch computes the overlap between a user's skill profile and
// the recommended skills of a task or project.
package skillmatch

import "slices"

// Set is an order-irrelevant collection of skill IDs.
type Set map[int64]struct{}

// NewSet builds a Set from the given IDs. Duplicates collapse.
func NewSet(ids ...int64) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// MatchRatio returns |required ∩ user| / |required|, in [0, 1].
// An empty required set is vacuously fully matched.
func MatchRatio(required []int64, user Set) float64 {
	req := NewSet(required...)
	if len(req) == 0 {
		return 1.0
	}
	hit := 0
	for id := range req {
		if user.Has(id) {
			hit++
		}
	}
	return float64(hit) / float64(len(req))
}

// IsFullyMatched reports whether the user holds every required skill.
func IsFullyMatched(required []int64, user Set) bool {
	for _, id := range required {
		if !user.Has(id) {
			return false
		}
	}
	return true
}

// MissingSkills returns required - user, sorted ascending.
func MissingSkills(required []int64, user Set) []int64 {
	missing := make(Set)
	for _, id := range required {
		if !user.Has(id) {
			missing[id] = struct{}{}
		}
	}
	return missing.Sorted()
}

// Percentage is MatchRatio scaled to 0-100.
func Percentage(required []int64, user Set) float64 {
	return MatchRatio(required, user) * 100
}
