// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the summary repository: an idempotent
// upsert/read/delete interface over precomputed per-(survey, question, day)
// summary rows.
//
// All operations are scoped to one survey; there is no cross-survey leakage.
//
// Semantics:
//   - UpsertDailySummary fully replaces the data blob on conflict
//     (last-writer-wins per key, no merge). Concurrent upserts to different
//     keys are safe and order-independent.
//   - ListSummariesSince returns rows ordered by date ascending, which is the
//     order the reconciler emits its time series in.
//   - DeleteSummariesBefore removes rows with date strictly before the cutoff
//     and reports how many were deleted.
//
// Dates are "YYYY-MM-DD" UTC day keys (see services.DayKey), so plain string
// comparison is chronological.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mempulse/go-survey-backend/internal/domain"
)

// UpsertDailySummary inserts or fully replaces the summary row identified by
// (surveyID, questionID, date). The data blob is overwritten wholesale; no
// merging with the prior row occurs, which is what makes rollup runs
// idempotent and safely re-runnable.
func UpsertDailySummary(ctx context.Context, db *gorm.DB, surveyID, questionID, date string, data domain.SummaryData) error {
	row := &domain.DailySummary{
		ID:         uuid.NewString(),
		SurveyID:   surveyID,
		QuestionID: questionID,
		Date:       date,
		Data:       data,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "survey_id"}, {Name: "question_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(row).Error
}

// ListSummariesSince returns all summary rows for surveyID with date >=
// fromDate, ordered by date ascending then question ID for determinism.
// It returns an empty slice when the survey has no summaries in the window.
func ListSummariesSince(ctx context.Context, db *gorm.DB, surveyID, fromDate string) ([]domain.DailySummary, error) {
	var out []domain.DailySummary
	err := db.WithContext(ctx).
		Where("survey_id = ? AND date >= ?", surveyID, fromDate).
		Order("date ASC, question_id ASC").
		Find(&out).Error
	return out, err
}

// DeleteSummariesBefore removes all summary rows for surveyID with date
// strictly before cutoffDate and returns the number of deleted rows.
// Rows with date >= cutoffDate are untouched.
func DeleteSummariesBefore(ctx context.Context, db *gorm.DB, surveyID, cutoffDate string) (int64, error) {
	res := db.WithContext(ctx).
		Where("survey_id = ? AND date < ?", surveyID, cutoffDate).
		Delete(&domain.DailySummary{})
	return res.RowsAffected, res.Error
}
