// Package services – DashboardService
//
// This file implements the read-path reconciler. It assembles the dashboard
// payload for a survey from one of two sources sharing a single output shape:
//
//   - summary-backed: when at least one DailySummary row exists inside the
//     90-day window, day rows are merged into 30/90-day totals and an
//     ascending time series;
//   - raw-backed: on cold start (zero summary rows) the same shape is computed
//     directly from answers joined through responses, so the dashboard is
//     never empty before the first scheduled rollup.
//
// Both sources bucket by the same UTC day key and compare windows at day
// granularity, so they agree exactly at day boundaries. Results are cached
// per slug for a short TTL; the reconciler performs only reads and is safe
// for unlimited concurrent callers.
package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/mempulse/go-survey-backend/internal/domain"
	"github.com/mempulse/go-survey-backend/internal/repo"
)

// WindowStats is a count distribution merged over a trailing window.
type WindowStats struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// TimeseriesPoint carries one day's raw distribution for charting.
type TimeseriesPoint struct {
	Date string             `json:"date"`
	Data domain.SummaryData `json:"data"`
}

// QuestionStats is the per-question block of the dashboard payload.
type QuestionStats struct {
	QuestionID   string            `json:"questionId"`
	QuestionSlug string            `json:"questionSlug"`
	QuestionText string            `json:"questionText"`
	ThirtyDay    WindowStats       `json:"thirtyDay"`
	NinetyDay    WindowStats       `json:"ninetyDay"`
	Timeseries   []TimeseriesPoint `json:"timeseries"`
}

// SurveyInfo identifies the survey a payload belongs to.
type SurveyInfo struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// DashboardPayload is the complete dashboard document for one survey.
type DashboardPayload struct {
	Survey      SurveyInfo      `json:"survey"`
	Data        []QuestionStats `json:"data"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// DashboardService implements the on-demand reconciler.
type DashboardService struct {
	// DB is the database handle used for reads.
	DB *gorm.DB
	// Cache holds assembled payloads per slug; nil disables caching.
	Cache *DashboardCache
	// CacheTTL bounds payload staleness. Values <= 0 fall back to one minute.
	CacheTTL time.Duration
}

// Build assembles the dashboard payload for the survey identified by slug.
//
// Algorithm:
//  1. Serve from cache when a fresh payload exists.
//  2. Resolve the survey; ErrSurveyNotFound when absent or without questions.
//  3. Fetch summary rows with date >= now-90d. If any exist, merge them
//     (summary-backed). Otherwise compute the identical shape from raw
//     responses in the same window (raw-backed cold start).
//  4. Cache and return.
//
// Storage failures propagate unchanged; no partial payload is returned.
func (s *DashboardService) Build(ctx context.Context, slug string) (*DashboardPayload, error) {
	if s.Cache != nil {
		if p, ok := s.Cache.Get(slug); ok {
			return p, nil
		}
	}

	survey, err := repo.GetSurveyBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	if len(survey.Questions) == 0 {
		return nil, ErrSurveyNotFound
	}

	now := time.Now().UTC()
	cutoff30 := DayKey(now.AddDate(0, 0, -30))
	cutoff90 := DayKey(now.AddDate(0, 0, -90))

	summaries, err := repo.ListSummariesSince(ctx, s.DB, survey.ID, cutoff90)
	if err != nil {
		return nil, err
	}

	var data []QuestionStats
	if len(summaries) > 0 {
		data = buildFromSummaries(survey, summaries, cutoff30)
	} else {
		data, err = s.buildFromResponses(ctx, survey, cutoff30, cutoff90, now)
		if err != nil {
			return nil, err
		}
	}

	payload := &DashboardPayload{
		Survey:      SurveyInfo{ID: survey.ID, Slug: survey.Slug, Title: survey.Title},
		Data:        data,
		LastUpdated: now,
	}
	if s.Cache != nil {
		s.Cache.Set(slug, payload, s.cacheTTL())
	}
	return payload, nil
}

// buildFromSummaries merges precomputed day rows into windowed totals and a
// time series. Rows arrive ordered by date ascending, so the time series is
// emitted in storage order. A day absent from the summaries contributes
// nothing; it is simply skipped.
func buildFromSummaries(survey *domain.Survey, summaries []domain.DailySummary, cutoff30 string) []QuestionStats {
	byQuestion := make(map[string][]domain.DailySummary, len(survey.Questions))
	for _, row := range summaries {
		byQuestion[row.QuestionID] = append(byQuestion[row.QuestionID], row)
	}

	out := make([]QuestionStats, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		rows := byQuestion[q.ID]

		thirty := newWindowStats()
		ninety := newWindowStats()
		series := make([]TimeseriesPoint, 0, len(rows))

		for _, row := range rows {
			ninety.Total += mergeCounts(ninety.Counts, row.Data.Counts)
			if row.Date >= cutoff30 {
				thirty.Total += mergeCounts(thirty.Counts, row.Data.Counts)
			}
			series = append(series, TimeseriesPoint{Date: row.Date, Data: row.Data})
		}

		out = append(out, QuestionStats{
			QuestionID:   q.ID,
			QuestionSlug: q.Slug,
			QuestionText: q.Text,
			ThirtyDay:    thirty,
			NinetyDay:    ninety,
			Timeseries:   series,
		})
	}
	return out
}

// buildFromResponses computes the same shape directly from raw answers,
// grouping and counting exactly like the daily aggregator does on the write
// path. Window membership is decided on the bucketed day key, never on the
// raw timestamp, to match the summary-backed source.
func (s *DashboardService) buildFromResponses(ctx context.Context, survey *domain.Survey, cutoff30, cutoff90 string, now time.Time) ([]QuestionStats, error) {
	responses, err := repo.ListResponsesSince(ctx, s.DB, survey.ID, now.AddDate(0, 0, -90))
	if err != nil {
		return nil, err
	}

	// questionID -> day -> values
	grouped := make(map[string]map[string][]string, len(survey.Questions))
	for _, r := range responses {
		day := DayKey(r.CreatedAt)
		if day < cutoff90 {
			continue
		}
		for _, a := range r.Answers {
			byDay := grouped[a.QuestionID]
			if byDay == nil {
				byDay = make(map[string][]string)
				grouped[a.QuestionID] = byDay
			}
			byDay[day] = append(byDay[day], a.Value)
		}
	}

	out := make([]QuestionStats, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		byDay := grouped[q.ID]

		thirty := newWindowStats()
		ninety := newWindowStats()
		series := make([]TimeseriesPoint, 0, len(byDay))

		days := make([]string, 0, len(byDay))
		for day := range byDay {
			days = append(days, day)
		}
		sort.Strings(days)

		for _, day := range days {
			data := ComputeDistribution(byDay[day])
			ninety.Total += mergeCounts(ninety.Counts, data.Counts)
			if day >= cutoff30 {
				thirty.Total += mergeCounts(thirty.Counts, data.Counts)
			}
			series = append(series, TimeseriesPoint{Date: day, Data: data})
		}

		out = append(out, QuestionStats{
			QuestionID:   q.ID,
			QuestionSlug: q.Slug,
			QuestionText: q.Text,
			ThirtyDay:    thirty,
			NinetyDay:    ninety,
			Timeseries:   series,
		})
	}
	return out, nil
}

// newWindowStats returns an empty window with an allocated counts map so
// JSON renders {} rather than null.
func newWindowStats() WindowStats {
	return WindowStats{Counts: make(map[string]int)}
}

// cacheTTL returns the configured TTL with a one-minute default.
func (s *DashboardService) cacheTTL() time.Duration {
	if s.CacheTTL > 0 {
		return s.CacheTTL
	}
	return time.Minute
}
