// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the service contracts consumed by the handlers and the
// Handlers aggregate that wires them together. Handlers are transport-thin:
// they validate input, delegate to application services, and translate
// domain/service errors into HTTP results.
package handlers

import (
	"context"

	"github.com/mempulse/go-survey-backend/internal/domain"
	"github.com/mempulse/go-survey-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// SurveyService resolves survey definitions for the public form.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SurveyService interface {
	// Get resolves a survey by slug with questions in display order.
	Get(ctx context.Context, slug string) (*domain.Survey, error)
}

// SubmissionService accepts new survey responses.
type SubmissionService interface {
	// Submit validates and persists one respondent submission.
	Submit(ctx context.Context, sub services.Submission) (*services.SubmissionResult, error)
}

// DashboardService assembles the windowed dashboard payload for a survey.
type DashboardService interface {
	// Build returns the 30/90-day statistics and time series per question.
	Build(ctx context.Context, slug string) (*services.DashboardPayload, error)
}

// RollupService runs the aggregation batch job for a survey.
type RollupService interface {
	// Run aggregates, prunes, and invalidates caches for slug.
	Run(ctx context.Context, slug string, retentionDays int) (*services.RollupResult, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for submissions, survey definitions,
// dashboards, and the rollup trigger. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	surveySvc SurveyService
	subSvc    SubmissionService
	dashSvc   DashboardService
	rollupSvc RollupService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(surveySvc SurveyService, subSvc SubmissionService, dashSvc DashboardService, rollupSvc RollupService) *Handlers {
	return &Handlers{surveySvc: surveySvc, subSvc: subSvc, dashSvc: dashSvc, rollupSvc: rollupSvc}
}
