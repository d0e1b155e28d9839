package readiness

import (
	"slices"
	"testing"

	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/skillmatch"
)

const (
	skillX int64 = 100
	skillY int64 = 101
)

func scenarioTasks() []models.Task {
	return []models.Task{
		{ID: 1, Title: "T1"},
		{ID: 2, Title: "T2", Prerequisites: []int64{1}},
		{ID: 3, Title: "T3", Prerequisites: []int64{1}, RecommendedSkills: []int64{skillX, skillY}},
	}
}

func TestClassify_Precedence(t *testing.T) {
	task := models.Task{ID: 5, Prerequisites: []int64{1}, RecommendedSkills: []int64{skillX}}

	tests := []struct {
		name      string
		completed map[int64]bool
		skills    skillmatch.Set
		want      Status
	}{
		// Completed wins even if the prerequisite is somehow incomplete.
		{"completed beats locked", map[int64]bool{5: true}, nil, StatusCompleted},
		{"locked beats skill gap", map[int64]bool{}, nil, StatusLocked},
		{"skill gap", map[int64]bool{1: true}, skillmatch.NewSet(), StatusSkillGap},
		{"active", map[int64]bool{1: true}, skillmatch.NewSet(skillX), StatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(task, tt.completed, tt.skills).Status; got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassify_NoRecommendedSkillsIsActive(t *testing.T) {
	got := Classify(models.Task{ID: 1}, nil, nil)
	if got.Status != StatusActive {
		t.Errorf("Classify = %s, want active", got.Status)
	}
	if len(got.Missing) != 0 {
		t.Errorf("Missing = %v, want empty", got.Missing)
	}
}

func TestClassify_SkillGapIsAdvisory(t *testing.T) {
	task := models.Task{ID: 1, RecommendedSkills: []int64{skillX, skillY}}
	got := Classify(task, map[int64]bool{}, skillmatch.NewSet(skillX))

	if got.Status != StatusSkillGap {
		t.Fatalf("Classify = %s, want skill-gap", got.Status)
	}
	if !slices.Equal(got.Missing, []int64{skillY}) {
		t.Errorf("Missing = %v, want [%d]", got.Missing, skillY)
	}
	if !got.Submittable() {
		t.Error("skill-gap task should remain submittable")
	}
}

func TestSubmittable(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusLocked, false},
		{StatusSkillGap, true},
		{StatusActive, true},
		{StatusCompleted, false},
	}
	for _, tt := range tests {
		if got := (Result{Status: tt.status}).Submittable(); got != tt.want {
			t.Errorf("Submittable(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestClassifyAll_ScenarioAfterRootCompleted(t *testing.T) {
	tasks := scenarioTasks()

	before := ClassifyAll(tasks, map[int64]bool{}, skillmatch.NewSet())
	if before[1].Status != StatusActive {
		t.Errorf("T1 before = %s, want active", before[1].Status)
	}
	for _, id := range []int64{2, 3} {
		if before[id].Status != StatusLocked {
			t.Errorf("T%d before = %s, want locked", id, before[id].Status)
		}
	}

	after := ClassifyAll(tasks, map[int64]bool{1: true}, skillmatch.NewSet(skillX))
	if after[1].Status != StatusCompleted {
		t.Errorf("T1 after = %s, want completed", after[1].Status)
	}
	if after[2].Status != StatusActive {
		t.Errorf("T2 after = %s, want active", after[2].Status)
	}
	if after[3].Status != StatusSkillGap {
		t.Errorf("T3 after = %s, want skill-gap", after[3].Status)
	}
	for id, r := range after {
		if r.Status == StatusLocked {
			t.Errorf("T%d still locked after its only prerequisite completed", id)
		}
	}
}

func TestStatusStrings(t *testing.T) {
	if StatusSkillGap.String() != "skill-gap" {
		t.Errorf("String = %q", StatusSkillGap.String())
	}
	if Status(99).Label() != "Unknown" {
		t.Errorf("Label for unknown = %q", Status(99).Label())
	}
}
