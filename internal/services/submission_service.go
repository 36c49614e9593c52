// Package services – SubmissionService
//
// This file implements the SubmissionService, which accepts new survey
// responses. It validates the payload (consent, answer set, optional email),
// verifies the target survey exists and is active, and persists the response
// with its answers atomically. When a client supplies an Idempotency-Key the
// service deduplicates retries by replaying the originally created response
// ID instead of writing twice.
//
// Every accepted submission invalidates the cached dashboard payload for the
// affected survey, so the next read re-derives from raw answers until the
// next scheduled rollup.
package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mempulse/go-survey-backend/internal/domain"
	"github.com/mempulse/go-survey-backend/internal/repo"
)

// Submission is the validated input for one respondent submission.
type Submission struct {
	SurveySlug      string
	RespondentName  string
	RespondentEmail string
	Consent         bool
	// Answers maps question slug to the chosen value. Slugs that do not match
	// a question of the survey are ignored, mirroring the form contract.
	Answers map[string]string

	// Client metadata recorded with the response, never used by aggregation.
	IPAddress string
	UserAgent string

	// IdempotencyKey, when non-empty, makes the submission safely retryable.
	IdempotencyKey string
}

// SubmissionResult reports the outcome of a submission.
type SubmissionResult struct {
	ResponseID string
	// Replayed is true when an idempotent retry matched a previous submission
	// and no new rows were written.
	Replayed bool
}

// SubmissionService implements the survey write path.
type SubmissionService struct {
	// DB is the database handle used for all submission operations.
	DB *gorm.DB
	// Cache is the dashboard payload cache invalidated on accepted writes.
	Cache *DashboardCache
	// IdempotencyTTL bounds how long a given Idempotency-Key is honored.
	IdempotencyTTL time.Duration
}

// Submit validates and persists one submission.
//
// Semantics and validation:
//   - Consent must be given; otherwise ErrConsentRequired.
//   - At least one answer must be present; otherwise ErrNoAnswers.
//   - RespondentEmail, when non-empty, must parse as an address; otherwise
//     ErrInvalidEmail.
//   - The survey must exist (ErrSurveyNotFound) and be active
//     (ErrSurveyInactive).
//   - Only answers whose slug matches a question of the survey are stored.
//
// Concurrency & atomicity:
//   - The response, its answers, and the idempotency record are written in
//     one transaction.
//
// Errors:
//   - Returns the service-level sentinel errors above for validation cases.
//   - Returns the underlying DB error for unexpected failures.
func (s *SubmissionService) Submit(ctx context.Context, sub Submission) (*SubmissionResult, error) {
	if !sub.Consent {
		return nil, ErrConsentRequired
	}
	if len(sub.Answers) == 0 {
		return nil, ErrNoAnswers
	}
	email := strings.TrimSpace(sub.RespondentEmail)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, ErrInvalidEmail
		}
	}

	survey, err := repo.GetSurveyBySlug(ctx, s.DB, sub.SurveySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	if !survey.IsActive {
		return nil, ErrSurveyInactive
	}

	// Replay a previously completed submission for the same key, if any.
	if sub.IdempotencyKey != "" {
		if rec, err := repo.GetIdempotency(ctx, s.DB, sub.IdempotencyKey, time.Now().UTC()); err == nil && rec != nil {
			return &SubmissionResult{ResponseID: rec.ResponseID, Replayed: true}, nil
		}
	}

	resp := &domain.Response{
		ID:              uuid.NewString(),
		SurveyID:        survey.ID,
		RespondentName:  normalizeTitle(sub.RespondentName),
		RespondentEmail: email,
		IPAddress:       sub.IPAddress,
		UserAgent:       sub.UserAgent,
		CreatedAt:       time.Now().UTC(),
	}
	for _, q := range survey.Questions {
		value, ok := sub.Answers[q.Slug]
		if !ok || value == "" {
			continue
		}
		resp.Answers = append(resp.Answers, domain.Answer{
			ID:         uuid.NewString(),
			ResponseID: resp.ID,
			QuestionID: q.ID,
			Value:      value,
			CreatedAt:  resp.CreatedAt,
		})
	}
	if len(resp.Answers) == 0 {
		// All provided slugs were unknown to this survey.
		return nil, ErrNoAnswers
	}

	replayed := false
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateResponse(ctx, tx, resp); err != nil {
			return err
		}
		if sub.IdempotencyKey == "" {
			return nil
		}
		_, err := repo.CreateIdempotency(ctx, tx, sub.IdempotencyKey, survey.ID, resp.ID, 200, s.idempotencyTTL())
		if errors.Is(err, repo.ErrDuplicate) {
			// Lost a race with a concurrent retry; surface the winner.
			if rec, gerr := repo.GetIdempotency(ctx, tx, sub.IdempotencyKey, time.Now().UTC()); gerr == nil && rec != nil {
				resp.ID = rec.ResponseID
				replayed = true
				return gorm.ErrDuplicatedKey // roll back our insert
			}
		}
		return err
	})
	if err != nil && !replayed {
		return nil, err
	}

	if s.Cache != nil && !replayed {
		s.Cache.Invalidate(sub.SurveySlug)
	}
	return &SubmissionResult{ResponseID: resp.ID, Replayed: replayed}, nil
}

// idempotencyTTL returns the configured TTL with a 24h default.
func (s *SubmissionService) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return 24 * time.Hour
}
