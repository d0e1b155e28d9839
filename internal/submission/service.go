// Package submission stores, grades and records task submissions.
package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/abhisek/pathwise/internal/blob"
	"github.com/abhisek/pathwise/internal/enrollment"
	"github.com/abhisek/pathwise/internal/grading"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/models"
	"github.com/abhisek/pathwise/internal/store"
)

// DefaultPassScore is the minimum score that completes a task.
const DefaultPassScore = 70

// ErrAlreadyGraded is returned when a grade is recorded for a submission
// that already has one.
var ErrAlreadyGraded = errors.New("submission already graded")

// Options tunes a Service.
type Options struct {
	PassScore int // 0 means DefaultPassScore
}

// Service runs the submission pipeline.
type Service struct {
	tx        enrollment.TxRunner
	lifecycle *enrollment.Manager
	blobs     blob.Store
	grader    grading.Grader
	passScore int
	log       *logger.Logger
	locks     *keyedMutex
	now       func() time.Time
}

// NewService wires a submission service.
func NewService(tx enrollment.TxRunner, lifecycle *enrollment.Manager, blobs blob.Store, grader grading.Grader, log *logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.Nop()
	}
	pass := opts.PassScore
	if pass <= 0 {
		pass = DefaultPassScore
	}
	return &Service{
		tx:        tx,
		lifecycle: lifecycle,
		blobs:     blobs,
		grader:    grader,
		passScore: pass,
		log:       log.Named("submission"),
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// PassScore returns the score needed to complete a task.
func (s *Service) PassScore() int {
	return s.passScore
}

// Outcome is the result of one submission.
type Outcome struct {
	Submission models.Submission
	Passed     bool
	// Completion is set when the submission passed. Completion.Already is
	// true when the task had been completed by an earlier attempt.
	Completion *enrollment.Completion
}

// Submit stores archive as the next attempt at the task, grades it and, when
// the score reaches the pass mark, completes the task. Locked tasks and
// tasks outside the user's enrollments are rejected before anything is
// stored.
//
// Grading runs outside any transaction. If it fails the submission stays
// pending and the error is returned.
func (s *Service) Submit(ctx context.Context, userID, taskID int64, archive io.Reader) (Outcome, error) {
	var ut models.UserTask
	err := s.tx.WithTx(ctx, func(r *store.Repos) error {
		var err error
		ut, err = enrollment.CheckSubmittable(ctx, r, userID, taskID)
		return err
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("submit task %d: %w", taskID, err)
	}

	unlock := s.locks.Lock(ut.ID)
	defer unlock()

	key := blob.NewKey(fmt.Sprintf("submissions/%d", ut.ID), ".zip")
	size, err := s.blobs.Put(ctx, key, archive)
	if err != nil {
		return Outcome{}, fmt.Errorf("store submission: %w", err)
	}

	var sub models.Submission
	err = s.tx.WithTx(ctx, func(r *store.Repos) error {
		// Re-check under the lock: the user may have left the project.
		if _, err := enrollment.CheckSubmittable(ctx, r, userID, taskID); err != nil {
			return err
		}
		latest, err := r.Submissions.LatestAttempt(ctx, ut.ID)
		if err != nil {
			return err
		}
		sub, err = r.Submissions.Create(ctx, models.Submission{
			UserTaskID: ut.ID,
			FileRef:    key,
			Attempt:    latest + 1,
			Status:     models.SubmissionPending,
			CreatedAt:  s.now(),
		})
		return err
	})
	if err != nil {
		if derr := s.blobs.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.log.Warn("orphaned upload", "key", key, "error", derr)
		}
		return Outcome{}, fmt.Errorf("submit task %d: %w", taskID, err)
	}
	s.log.Debug("submission stored", "user_task", ut.ID, "attempt", sub.Attempt, "bytes", size)

	result, err := s.grade(ctx, sub)
	if err != nil {
		s.log.Error("grading failed", "submission", sub.ID, "error", err)
		return Outcome{Submission: sub}, fmt.Errorf("grade submission %d: %w", sub.ID, err)
	}

	out := Outcome{Submission: sub, Passed: result.Score >= s.passScore}
	err = s.tx.WithTx(ctx, func(r *store.Repos) error {
		ok, err := r.Submissions.RecordGrade(ctx, sub.ID, result.Score, result.Feedback)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyGraded
		}
		if !out.Passed {
			return nil
		}
		c, err := s.lifecycle.Complete(ctx, r, ut.ID)
		if err != nil {
			return err
		}
		out.Completion = &c
		return nil
	})
	if err != nil {
		return Outcome{Submission: sub}, fmt.Errorf("record grade for submission %d: %w", sub.ID, err)
	}

	out.Submission.Status = models.SubmissionGraded
	out.Submission.Score = &result.Score
	out.Submission.Feedback = &result.Feedback

	s.log.Info("submission graded",
		"user_task", ut.ID,
		"attempt", sub.Attempt,
		"score", result.Score,
		"passed", out.Passed,
	)
	return out, nil
}

func (s *Service) grade(ctx context.Context, sub models.Submission) (grading.Result, error) {
	rc, err := s.blobs.Open(ctx, sub.FileRef)
	if err != nil {
		return grading.Result{}, err
	}
	defer rc.Close()

	result, err := s.grader.Grade(ctx, sub, rc)
	if err != nil {
		return grading.Result{}, err
	}
	if err := result.Check(); err != nil {
		return grading.Result{}, err
	}
	return result, nil
}
