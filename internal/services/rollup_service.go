// Package services – RollupService
//
// This file implements the daily aggregation pipeline: it converts raw answer
// events into per-(day, question) summary rows and retires rows that fell out
// of the retention window.
//
// The write is a full replace per (survey, question, day) key, never an
// accumulate, so a rollup run is idempotent: running it twice over the same
// answer set produces identical rows, and an interrupted run is safe to retry
// wholesale. Pruning happens only after all upserts for the window succeeded;
// a prune failure is logged and left for the next scheduled run, it does not
// invalidate the completed aggregation.
//
// The caller is responsible for serializing rollup runs per survey (the
// scheduler invokes the trigger at most once per interval); concurrent upserts
// to different keys are safe, same-key concurrency is last-writer-wins.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mempulse/go-survey-backend/internal/repo"
)

var (
	// rollupRuns counts rollup executions by outcome.
	rollupRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_rollup_runs_total",
			Help: "Total number of rollup runs by outcome.",
		},
		[]string{"survey", "status"},
	)

	// rollupSummariesWritten counts summary rows upserted by rollup runs.
	rollupSummariesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_rollup_summaries_written_total",
			Help: "Total number of daily summary rows upserted.",
		},
	)

	// rollupSummariesPruned counts summary rows removed by retention pruning.
	rollupSummariesPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_rollup_summaries_pruned_total",
			Help: "Total number of daily summary rows deleted by retention pruning.",
		},
	)
)

func init() {
	prometheus.MustRegister(rollupRuns, rollupSummariesWritten, rollupSummariesPruned)
}

// RollupService implements the scheduled aggregation batch job.
type RollupService struct {
	// DB is the database handle used for reads and summary writes.
	DB *gorm.DB
	// Cache is invalidated for the survey's slug after a completed run.
	Cache *DashboardCache
	// RetentionDays bounds both the aggregation window and the prune cutoff.
	// Values <= 0 fall back to 120 days.
	RetentionDays int
}

// RollupResult reports what a completed run did.
type RollupResult struct {
	// DaysProcessed is the number of distinct UTC days that produced at least
	// one summary row.
	DaysProcessed int
	// SummariesWritten is the total number of (day, question) upserts issued.
	SummariesWritten int
	// SummariesPruned is the number of rows removed by retention pruning;
	// -1 when pruning failed (the failure is logged, not fatal).
	SummariesPruned int64
}

// Run aggregates all answers of the survey identified by slug whose parent
// response was created within the retention window, grouped by UTC calendar
// day and question, and upserts one summary row per (day, question) group.
// Days with no answers for a question produce no row. After all upserts
// succeed it prunes summaries older than the retention cutoff and invalidates
// the cached dashboard.
//
// Overriding retentionDays (> 0) narrows or widens the window for this run
// only; pass 0 to use the service default.
//
// Errors: ErrSurveyNotFound when slug is unknown; otherwise the first storage
// error encountered. On error no partial success is reported and the whole
// run is safe to retry, since every write is a full-replace upsert.
func (s *RollupService) Run(ctx context.Context, slug string, retentionDays int) (*RollupResult, error) {
	if retentionDays <= 0 {
		retentionDays = s.retentionDays()
	}

	survey, err := repo.GetSurveyBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rollupRuns.WithLabelValues(slug, "not_found").Inc()
			return nil, ErrSurveyNotFound
		}
		rollupRuns.WithLabelValues(slug, "error").Inc()
		return nil, err
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -retentionDays)
	cutoffDay := DayKey(cutoff)

	responses, err := repo.ListResponsesSince(ctx, s.DB, survey.ID, cutoff)
	if err != nil {
		rollupRuns.WithLabelValues(slug, "error").Inc()
		return nil, err
	}

	// Group answer values by (UTC day, question).
	daily := make(map[string]map[string][]string)
	for _, r := range responses {
		day := DayKey(r.CreatedAt)
		byQuestion := daily[day]
		if byQuestion == nil {
			byQuestion = make(map[string][]string)
			daily[day] = byQuestion
		}
		for _, a := range r.Answers {
			byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a.Value)
		}
	}

	written := 0
	for day, byQuestion := range daily {
		for questionID, values := range byQuestion {
			data := ComputeDistribution(values)
			if err := repo.UpsertDailySummary(ctx, s.DB, survey.ID, questionID, day, data); err != nil {
				rollupRuns.WithLabelValues(slug, "error").Inc()
				return nil, err
			}
			written++
		}
	}
	rollupSummariesWritten.Add(float64(written))

	result := &RollupResult{
		DaysProcessed:    len(daily),
		SummariesWritten: written,
	}

	// Prune only after the new window is durable. A failure here is cleanup
	// debt for the next run, not a rollup failure.
	pruned, err := repo.DeleteSummariesBefore(ctx, s.DB, survey.ID, cutoffDay)
	if err != nil {
		log.Warn().Err(err).
			Str("survey", slug).
			Str("cutoff", cutoffDay).
			Msg("retention prune failed; will retry on next run")
		result.SummariesPruned = -1
	} else {
		result.SummariesPruned = pruned
		rollupSummariesPruned.Add(float64(pruned))
	}

	if s.Cache != nil {
		s.Cache.Invalidate(slug)
	}

	if count, latest, err := repo.ResponsesStats(ctx, s.DB, survey.ID); err == nil {
		ev := log.Info().
			Str("survey", slug).
			Int("days_processed", result.DaysProcessed).
			Int("summaries_written", written).
			Int64("summaries_pruned", result.SummariesPruned).
			Int64("responses", count)
		if latest != nil {
			ev = ev.Time("latest_response", *latest)
		}
		ev.Msg("rollup completed")
	}

	rollupRuns.WithLabelValues(slug, "ok").Inc()
	return result, nil
}

// retentionDays returns the configured window with the 120-day default.
func (s *RollupService) retentionDays() int {
	if s.RetentionDays > 0 {
		return s.RetentionDays
	}
	return 120
}
