package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/pathwise/internal/blob"
	"github.com/abhisek/pathwise/internal/grading"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/pathing"
	"github.com/abhisek/pathwise/internal/readiness"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/store/storetest"
)

type fixture struct {
	eng   *Engine
	store *store.Store
	fs    afero.Fs
	fx    storetest.Fixture
	user  models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := storetest.Open(t)
	fx := storetest.Scenario(t, s)
	u := storetest.SeedUser(t, s, "ada", fx.Skills[0]) // holds go, lacks sql
	fs := afero.NewMemMapFs()
	eng := NewFromStore(s, blob.NewFSStore(fs), grading.NewMock(), nil, Options{})
	return &fixture{eng: eng, store: s, fs: fs, fx: fx, user: u}
}

func statusByTitle(v ProjectView) map[string]readiness.Status {
	out := make(map[string]readiness.Status, len(v.Tasks))
	for _, tv := range v.Tasks {
		out[tv.Task.Title] = tv.Status
	}
	return out
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestProjectViewWalkthrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.fx.Project.ID

	_, err := f.eng.Enroll(ctx, f.user.ID, pid)
	require.NoError(t, err)

	v, err := f.eng.GetProjectView(ctx, pid, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inventory API", v.Project.Title)
	require.NotNil(t, v.Enrollment)
	assert.Equal(t, 0, v.Enrollment.Progress)
	assert.Equal(t, map[string]readiness.Status{
		"T1": readiness.StatusActive,
		"T2": readiness.StatusLocked,
		"T3": readiness.StatusLocked,
	}, statusByTitle(v))
	require.NotNil(t, v.NextRecommended)
	assert.Equal(t, "T1", v.NextRecommended.Title)
	assert.Equal(t, []string{"T1"}, titles(v.RecommendedPath))
	assert.NoError(t, v.RecommendationErr)

	out, err := f.eng.Submit(ctx, f.user.ID, f.fx.Tasks[0].ID, strings.NewReader("zip"))
	require.NoError(t, err)
	require.True(t, out.Passed)

	v, err = f.eng.GetProjectView(ctx, pid, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]readiness.Status{
		"T1": readiness.StatusCompleted,
		"T2": readiness.StatusActive,
		"T3": readiness.StatusSkillGap,
	}, statusByTitle(v))
	assert.Equal(t, []int64{f.fx.Skills[1].ID}, v.Tasks[2].Missing)
	assert.Equal(t, []string{"T2", "T3"}, titles(v.RecommendedPath))
	assert.Equal(t, "T2", v.NextRecommended.Title)
	assert.Equal(t, 33, v.Enrollment.Progress)
}

func TestProjectViewWithoutEnrollment(t *testing.T) {
	f := newFixture(t)
	v, err := f.eng.GetProjectView(context.Background(), f.fx.Project.ID, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, v.Enrollment)
	assert.Len(t, v.Tasks, 3)
	require.NotNil(t, v.NextRecommended)
	assert.Equal(t, "T1", v.NextRecommended.Title)
}

func TestProjectViewFinishedProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.eng.Enroll(ctx, f.user.ID, f.fx.Project.ID)
	require.NoError(t, err)
	for _, task := range f.fx.Tasks {
		_, err := f.eng.Submit(ctx, f.user.ID, task.ID, strings.NewReader("zip"))
		require.NoError(t, err)
	}

	v, err := f.eng.GetProjectView(ctx, f.fx.Project.ID, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, v.RecommendedPath)
	assert.Nil(t, v.NextRecommended)
	assert.NoError(t, v.RecommendationErr)
	assert.Equal(t, models.EnrollmentCompleted, v.Enrollment.Status)
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.eng.GetProjectView(ctx, 999, f.user.ID)
	assert.True(t, store.IsNotFound(err))
	_, err = f.eng.GetProjectView(ctx, f.fx.Project.ID, 999)
	assert.True(t, store.IsNotFound(err))
	_, err = f.eng.GetDashboardRecommendations(ctx, 999, 3)
	assert.True(t, store.IsNotFound(err))
}

func TestDashboardRecommendations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// Inventory API: intermediate, {go, sql} -> 50% * 2 = 100
	storetest.SeedProject(t, f.store, "Hello CLI", models.DifficultyBeginner, []string{"go"}, nil)            // 100% * 1 = 100
	storetest.SeedProject(t, f.store, "Compiler", models.DifficultyAdvanced, []string{"go", "rust"}, nil)     // 50% * 3 = 150
	storetest.SeedProject(t, f.store, "Data Lake", models.DifficultyBeginner, []string{"python", "sql"}, nil) // 0

	recs, err := f.eng.GetDashboardRecommendations(ctx, f.user.ID, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	got := []string{recs[0].Project.Title, recs[1].Project.Title, recs[2].Project.Title}
	assert.Equal(t, []string{"Compiler", "Inventory API", "Hello CLI"}, got)
	assert.InDelta(t, 150.0, recs[0].Score, 1e-9)
	assert.InDelta(t, 50.0, recs[1].MatchPercentage, 1e-9)

	recs, err = f.eng.GetDashboardRecommendations(ctx, f.user.ID, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Compiler", recs[0].Project.Title)

	recs, err = f.eng.GetDashboardRecommendations(ctx, f.user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 4)
}

func TestEnrollUnenrollLeavesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.fx.Project.ID

	_, err := f.eng.Enroll(ctx, f.user.ID, pid)
	require.NoError(t, err)
	_, err = f.eng.Enroll(ctx, f.user.ID, pid)
	require.NoError(t, err)
	out, err := f.eng.Submit(ctx, f.user.ID, f.fx.Tasks[0].ID, strings.NewReader("zip"))
	require.NoError(t, err)
	exists, err := afero.Exists(f.fs, out.Submission.FileRef)
	require.NoError(t, err)
	require.True(t, exists)

	gone, err := f.eng.Unenroll(ctx, f.user.ID, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(3), gone.UserTasks)

	exists, err = afero.Exists(f.fs, out.Submission.FileRef)
	require.NoError(t, err)
	assert.False(t, exists, "submission file removed")

	uts, err := f.store.Repos().UserTasks.ListByUser(ctx, f.user.ID, pid)
	require.NoError(t, err)
	assert.Empty(t, uts)

	v, err := f.eng.GetProjectView(ctx, pid, f.user.ID)
	require.NoError(t, err)
	assert.Nil(t, v.Enrollment)

	// Leaving twice is a no-op.
	_, err = f.eng.Unenroll(ctx, f.user.ID, pid)
	assert.NoError(t, err)
}

// In-memory collaborators for states the store refuses to hold.

type fakeUsers struct{}

func (fakeUsers) Get(_ context.Context, id int64) (models.User, error) {
	return models.User{ID: id, Name: "u"}, nil
}

type fakeProjects struct{ p models.Project }

func (f fakeProjects) ListAll(context.Context) ([]models.Project, error) {
	return []models.Project{f.p}, nil
}

func (f fakeProjects) Get(context.Context, int64) (models.Project, error) { return f.p, nil }

type fakeTasks []models.Task

func (f fakeTasks) ListByProject(context.Context, int64) ([]models.Task, error) { return f, nil }

type fakeUserTasks []models.UserTask

func (f fakeUserTasks) ListByUser(context.Context, int64, int64) ([]models.UserTask, error) {
	return f, nil
}

type fakeSkills []int64

func (f fakeSkills) ListByUser(context.Context, int64) ([]int64, error) { return f, nil }

type noEnrollment struct{}

func (noEnrollment) Get(_ context.Context, userID, projectID int64) (models.Enrollment, error) {
	return models.Enrollment{}, &store.ErrNotFound{Entity: "enrollment", ID: projectID}
}

func TestProjectViewDegradesOnCycle(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	tasks := fakeTasks{
		{ID: 1, ProjectID: 7, Title: "A", Prerequisites: []int64{2}},
		{ID: 2, ProjectID: 7, Title: "B", Prerequisites: []int64{1}},
	}
	eng := New(Stores{
		Users:       fakeUsers{},
		Projects:    fakeProjects{p: models.Project{ID: 7, Title: "Loop"}},
		Tasks:       tasks,
		UserTasks:   fakeUserTasks{},
		UserSkills:  fakeSkills{},
		Enrollments: noEnrollment{},
	}, nil, nil, nil, logger.FromZap(zap.New(core)), Options{})

	v, err := eng.GetProjectView(context.Background(), 7, 1)
	require.NoError(t, err)

	var inconsistent *pathing.ErrInconsistentState
	require.ErrorAs(t, v.RecommendationErr, &inconsistent)
	assert.Equal(t, int64(7), inconsistent.ProjectID)
	assert.Equal(t, 2, inconsistent.Remaining)
	assert.Nil(t, v.NextRecommended)
	assert.Len(t, v.Tasks, 2)
	for _, tv := range v.Tasks {
		assert.Equal(t, readiness.StatusLocked, tv.Status)
	}
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, true, logs.All()[0].ContextMap()["cycle"])
}
