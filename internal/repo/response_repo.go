// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Response
// and Answer models, the raw event source of the aggregation pipeline.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mempulse/go-survey-backend/internal/domain"
)

// CreateResponse inserts a response row together with its answers.
// Caller is expected to run this inside a transaction when atomicity with
// other writes (e.g. idempotency records) is required.
func CreateResponse(ctx context.Context, db *gorm.DB, r *domain.Response) error {
	return db.WithContext(ctx).Create(r).Error
}

// ListResponsesSince returns all responses for surveyID whose CreatedAt is at
// or after since, with answers preloaded, ordered deterministically
// (CreatedAt ASC, ID ASC). It returns an empty slice when no responses match.
func ListResponsesSince(ctx context.Context, db *gorm.DB, surveyID string, since time.Time) ([]domain.Response, error) {
	var out []domain.Response
	err := db.WithContext(ctx).
		Preload("Answers").
		Where("survey_id = ? AND created_at >= ?", surveyID, since).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CountResponses uses a raw COUNT so a missing table surfaces as an error.
func CountResponses(ctx context.Context, db *gorm.DB, surveyID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM responses WHERE survey_id = ? AND deleted_at IS NULL", surveyID).
		Scan(&total).Error
	return total, err
}
