package handlers

import (
	"context"

	"github.com/mempulse/go-survey-backend/internal/domain"
	"github.com/mempulse/go-survey-backend/internal/services"
)

// ---- stubs to satisfy handlers.New() dependencies ----

type stubSurveySvc struct {
	get func(ctx context.Context, slug string) (*domain.Survey, error)
}

func (s stubSurveySvc) Get(ctx context.Context, slug string) (*domain.Survey, error) {
	if s.get != nil {
		return s.get(ctx, slug)
	}
	return nil, nil
}

type stubSubSvc struct {
	submit func(ctx context.Context, sub services.Submission) (*services.SubmissionResult, error)
}

func (s stubSubSvc) Submit(ctx context.Context, sub services.Submission) (*services.SubmissionResult, error) {
	if s.submit != nil {
		return s.submit(ctx, sub)
	}
	return nil, nil
}

type stubDashSvc struct {
	build func(ctx context.Context, slug string) (*services.DashboardPayload, error)
}

func (s stubDashSvc) Build(ctx context.Context, slug string) (*services.DashboardPayload, error) {
	if s.build != nil {
		return s.build(ctx, slug)
	}
	return nil, nil
}

type stubRollupSvc struct {
	run func(ctx context.Context, slug string, retentionDays int) (*services.RollupResult, error)
}

func (s stubRollupSvc) Run(ctx context.Context, slug string, retentionDays int) (*services.RollupResult, error) {
	if s.run != nil {
		return s.run(ctx, slug, retentionDays)
	}
	return nil, nil
}

// newTestHandlers wires the stubs, defaulting unset ones to no-ops.
func newTestHandlers(survey stubSurveySvc, sub stubSubSvc, dash stubDashSvc, rollup stubRollupSvc) *Handlers {
	return New(survey, sub, dash, rollup)
}
