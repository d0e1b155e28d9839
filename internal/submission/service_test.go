package submission

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/blob"
	"github.com/abhisek/pathwise/internal/enrollment"
	"github.com/abhisek/pathwise/internal/grading"
	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/store/storetest"
)

type harness struct {
	svc    *Service
	store  *store.Store
	fs     afero.Fs
	blobs  *blob.FSStore
	grader *grading.Mock
	fx     storetest.Fixture
	user   models.User
}

func newHarness(t *testing.T, enroll bool) *harness {
	t.Helper()
	s := storetest.Open(t)
	fx := storetest.Scenario(t, s)
	u := storetest.SeedUser(t, s, "ada", fx.Skills[0])

	mgr := enrollment.NewManager(s, nil)
	if enroll {
		_, err := mgr.OnEnroll(context.Background(), u.ID, fx.Project.ID)
		require.NoError(t, err)
	}

	fs := afero.NewMemMapFs()
	blobs := blob.NewFSStore(fs)
	grader := grading.NewMock()
	return &harness{
		svc:    NewService(s, mgr, blobs, grader, nil, Options{}),
		store:  s,
		fs:     fs,
		blobs:  blobs,
		grader: grader,
		fx:     fx,
		user:   u,
	}
}

func (h *harness) submit(t *testing.T, task int) (Outcome, error) {
	t.Helper()
	return h.svc.Submit(context.Background(), h.user.ID, h.fx.Tasks[task].ID, strings.NewReader("PK\x03\x04 archive"))
}

func TestSubmitPassingCompletesTask(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	out, err := h.submit(t, 0)
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, 1, out.Submission.Attempt)
	assert.Equal(t, models.SubmissionGraded, out.Submission.Status)
	require.NotNil(t, out.Submission.Score)
	assert.Equal(t, 100, *out.Submission.Score)
	require.NotNil(t, out.Completion)
	assert.False(t, out.Completion.Already)
	assert.Equal(t, 33, out.Completion.Enrollment.Progress)

	stored, err := h.store.Repos().Submissions.Get(ctx, out.Submission.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionGraded, stored.Status)
	require.NotNil(t, stored.Feedback)
	assert.Equal(t, "looks good", *stored.Feedback)

	rc, err := h.blobs.Open(ctx, stored.FileRef)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "PK\x03\x04 archive", string(data))
	assert.Equal(t, string(data), string(mustRead(t, h.fs, stored.FileRef)))

	ut, err := h.store.Repos().UserTasks.Get(ctx, h.user.ID, h.fx.Tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserTaskCompleted, ut.Status)
}

func mustRead(t *testing.T, fs afero.Fs, key string) []byte {
	t.Helper()
	data, err := afero.ReadFile(fs, key)
	require.NoError(t, err)
	return data
}

func TestSubmitBelowPassScore(t *testing.T) {
	h := newHarness(t, true)
	h.grader.Add(grading.Canned{Result: grading.Result{Score: 69, Feedback: "close"}})

	out, err := h.submit(t, 0)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Nil(t, out.Completion)
	assert.Equal(t, 69, *out.Submission.Score)

	ut, err := h.store.Repos().UserTasks.Get(context.Background(), h.user.ID, h.fx.Tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserTaskUnlocked, ut.Status)
}

func TestSubmitLockedTaskRejected(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.submit(t, 1)
	assert.True(t, enrollment.IsLocked(err), "got %v", err)
	assert.Zero(t, h.grader.CallCount())

	exists, err := afero.DirExists(h.fs, "submissions")
	require.NoError(t, err)
	assert.False(t, exists, "nothing stored for a rejected submission")
}

func TestSubmitNotEnrolled(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.submit(t, 0)
	assert.True(t, enrollment.IsNotEnrolled(err), "got %v", err)
}

func TestSubmitSkillGapTaskAccepted(t *testing.T) {
	h := newHarness(t, true)
	_, err := h.submit(t, 0)
	require.NoError(t, err)

	// T3 recommends sql, which the user lacks. It still accepts work.
	out, err := h.submit(t, 2)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestSubmitGraderFailureLeavesPending(t *testing.T) {
	h := newHarness(t, true)
	boom := errors.New("grader down")
	h.grader.Add(grading.Canned{Err: boom})

	out, err := h.submit(t, 0)
	require.ErrorIs(t, err, boom)
	require.NotZero(t, out.Submission.ID)

	stored, err := h.store.Repos().Submissions.Get(context.Background(), out.Submission.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionPending, stored.Status)
	assert.Nil(t, stored.Score)

	// The next attempt gets a fresh number.
	next, err := h.submit(t, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Submission.Attempt)
}

func TestSubmitInvalidScore(t *testing.T) {
	h := newHarness(t, true)
	h.grader.Add(grading.Canned{Result: grading.Result{Score: 120}})

	_, err := h.submit(t, 0)
	var inv *grading.ErrInvalidScore
	assert.True(t, errors.As(err, &inv), "got %v", err)
}

func TestResubmitAfterCompletion(t *testing.T) {
	h := newHarness(t, true)
	_, err := h.submit(t, 0)
	require.NoError(t, err)

	out, err := h.submit(t, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Submission.Attempt)
	require.NotNil(t, out.Completion)
	assert.True(t, out.Completion.Already)
}

func TestConcurrentSubmissions(t *testing.T) {
	h := newHarness(t, true)
	const n = 8

	var wg sync.WaitGroup
	outcomes := make([]Outcome, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = h.submit(t, 0)
		}(i)
	}
	wg.Wait()

	var attempts []int
	fresh := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		attempts = append(attempts, outcomes[i].Submission.Attempt)
		if c := outcomes[i].Completion; c != nil && !c.Already {
			fresh++
		}
	}
	sort.Ints(attempts)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, attempts)
	assert.Equal(t, 1, fresh, "exactly one submission completes the task")
	assert.Zero(t, h.svc.locks.size())
}

func TestPassScoreOption(t *testing.T) {
	s := NewService(nil, nil, nil, nil, nil, Options{})
	assert.Equal(t, DefaultPassScore, s.PassScore())
	s = NewService(nil, nil, nil, nil, nil, Options{PassScore: 50})
	assert.Equal(t, 50, s.PassScore())
}
