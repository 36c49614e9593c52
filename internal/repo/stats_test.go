package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mempulse/go-survey-backend/internal/domain"
)

func newStatsDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("stats_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestResponsesStats_EmptyAndPopulated(t *testing.T) {
	db := newStatsDB(t, &domain.Response{})
	ctx := context.Background()

	count, maxAt, err := ResponsesStats(ctx, db, "s1")
	if err != nil {
		t.Fatalf("ResponsesStats empty: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected zero stats, got count=%d maxAt=%v", count, maxAt)
	}

	t1 := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Hour)
	for i, ts := range []time.Time{t1, t2} {
		r := domain.Response{ID: fmt.Sprintf("r%d", i), SurveyID: "s1", CreatedAt: ts}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	count, maxAt, err = ResponsesStats(ctx, db, "s1")
	if err != nil {
		t.Fatalf("ResponsesStats: %v", err)
	}
	if count != 2 || maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("unexpected stats: count=%d maxAt=%v", count, maxAt)
	}
}

func TestResponsesStats_Error_NoTable(t *testing.T) {
	db := newStatsDB(t /* no migrations */)
	if _, _, err := ResponsesStats(context.Background(), db, "s1"); err == nil {
		t.Fatalf("expected error when table missing")
	}
}

func TestSummariesStats_EmptyAndPopulated(t *testing.T) {
	db := newStatsDB(t, &domain.DailySummary{})
	ctx := context.Background()

	count, maxDate, err := SummariesStats(ctx, db, "s1")
	if err != nil {
		t.Fatalf("SummariesStats empty: %v", err)
	}
	if count != 0 || maxDate != "" {
		t.Fatalf("expected zero stats, got count=%d maxDate=%q", count, maxDate)
	}

	d := domain.SummaryData{Counts: map[string]int{"Yes": 1}, Total: 1}
	for _, date := range []string{"2025-01-01", "2025-01-05", "2025-01-03"} {
		if err := UpsertDailySummary(ctx, db, "s1", "q1", date, d); err != nil {
			t.Fatalf("seed %s: %v", date, err)
		}
	}

	count, maxDate, err = SummariesStats(ctx, db, "s1")
	if err != nil {
		t.Fatalf("SummariesStats: %v", err)
	}
	if count != 3 || maxDate != "2025-01-05" {
		t.Fatalf("unexpected stats: count=%d maxDate=%q", count, maxDate)
	}
}
