// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the rollup trigger for operational logging. Each function is
// context-aware and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mempulse/go-survey-backend/internal/domain"
)

// ResponsesStats returns aggregate metadata for a survey's responses: the
// total number of rows and the maximum CreatedAt timestamp among those rows.
//
// When the survey has no responses, the returned count is 0 and maxCreatedAt
// is nil.
//
// Return values:
//   - count:        total responses for surveyID
//   - maxCreatedAt: pointer to the greatest CreatedAt, or nil if no rows
//   - err:          database error, if any
func ResponsesStats(ctx context.Context, db *gorm.DB, surveyID string) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Response{}).Where("survey_id = ?", surveyID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}

// SummariesStats returns aggregate metadata for a survey's daily summaries:
// the total number of rows and the most recent day key present.
//
// When the survey has no summaries, the returned count is 0 and maxDate is "".
func SummariesStats(ctx context.Context, db *gorm.DB, surveyID string) (count int64, maxDate string, err error) {
	q := db.WithContext(ctx).Model(&domain.DailySummary{}).Where("survey_id = ?", surveyID)

	if err = q.Count(&count).Error; err != nil {
		return 0, "", err
	}
	if count == 0 {
		return 0, "", nil
	}

	var row struct {
		Date string
	}
	if err = q.Select("date").Order("date DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, "", err
	}
	return count, row.Date, nil
}
