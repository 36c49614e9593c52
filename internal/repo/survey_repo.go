// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Survey and
// Question models.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a survey is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Functions:
//
//   - CreateSurvey(ctx, db, survey) -> error
//     Inserts a survey together with its questions.
//
//   - GetSurveyBySlug(ctx, db, slug) -> *domain.Survey, error
//     Fetches a survey by slug with its questions preloaded in display order,
//     or ErrNotFound if missing.
//
//   - CountSurveys(ctx, db) -> (int64, error)
//     Returns the total number of surveys (used by the seeding path).
//
// This repository is designed to be wrapped by a higher-level service
// (see services.SurveyService) which enforces business rules such as the
// activation check on submissions.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mempulse/go-survey-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSurvey inserts a survey row together with its associated questions.
// Caller is responsible for assigning IDs and slugs. On failure, it returns
// a DB error.
func CreateSurvey(ctx context.Context, db *gorm.DB, s *domain.Survey) error {
	return db.WithContext(ctx).Create(s).Error
}

// GetSurveyBySlug fetches a single survey by its slug, preloading questions
// ordered by their display position. If the record does not exist, it returns
// ErrNotFound. On other DB errors, the raw error is returned.
func GetSurveyBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Survey, error) {
	var s domain.Survey
	err := db.WithContext(ctx).
		Preload("Questions", func(q *gorm.DB) *gorm.DB {
			return q.Order("position ASC")
		}).
		Where("slug = ?", slug).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountSurveys returns the total number of surveys. On DB error, it returns
// the error.
func CountSurveys(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Survey{}).
		Count(&total).Error
	return total, err
}
