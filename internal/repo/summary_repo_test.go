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

func newSummaryRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("summary_repo_test_%d.db", time.Now().UnixNano()))
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

func TestUpsertDailySummary_Error_NoTable(t *testing.T) {
	db := newSummaryRepoDB(t /* no migrations */)
	err := UpsertDailySummary(context.Background(), db, "s1", "q1", "2025-01-01",
		domain.SummaryData{Counts: map[string]int{"Yes": 1}, Total: 1})
	if err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestUpsertDailySummary_InsertThenReplace(t *testing.T) {
	db := newSummaryRepoDB(t, &domain.DailySummary{})
	ctx := context.Background()

	first := domain.SummaryData{Counts: map[string]int{"Yes": 2, "No": 1}, Total: 3}
	if err := UpsertDailySummary(ctx, db, "s1", "q1", "2025-01-01", first); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Second write for the same key must fully replace the blob, not merge.
	second := domain.SummaryData{Counts: map[string]int{"Yes": 5}, Total: 5}
	if err := UpsertDailySummary(ctx, db, "s1", "q1", "2025-01-01", second); err != nil {
		t.Fatalf("replace: %v", err)
	}

	var rows []domain.DailySummary
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row after upsert, got %d", len(rows))
	}
	got := rows[0].Data
	if got.Total != 5 || got.Counts["Yes"] != 5 {
		t.Fatalf("data not replaced: %+v", got)
	}
	if _, stale := got.Counts["No"]; stale {
		t.Fatalf("old counts leaked through replace: %+v", got)
	}
}

func TestUpsertDailySummary_DistinctKeysCoexist(t *testing.T) {
	db := newSummaryRepoDB(t, &domain.DailySummary{})
	ctx := context.Background()

	d := domain.SummaryData{Counts: map[string]int{"Yes": 1}, Total: 1}
	if err := UpsertDailySummary(ctx, db, "s1", "q1", "2025-01-01", d); err != nil {
		t.Fatalf("k1: %v", err)
	}
	if err := UpsertDailySummary(ctx, db, "s1", "q1", "2025-01-02", d); err != nil {
		t.Fatalf("k2: %v", err)
	}
	if err := UpsertDailySummary(ctx, db, "s1", "q2", "2025-01-01", d); err != nil {
		t.Fatalf("k3: %v", err)
	}

	var n int64
	if err := db.Model(&domain.DailySummary{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
}

func TestListSummariesSince_WindowAndOrder(t *testing.T) {
	db := newSummaryRepoDB(t, &domain.DailySummary{})
	ctx := context.Background()

	d := domain.SummaryData{Counts: map[string]int{"Yes": 1}, Total: 1}
	seed := []struct{ q, date string }{
		{"q2", "2025-01-03"},
		{"q1", "2025-01-03"},
		{"q1", "2025-01-02"},
		{"q1", "2025-01-01"}, // before window
	}
	for _, s := range seed {
		if err := UpsertDailySummary(ctx, db, "s1", s.q, s.date, d); err != nil {
			t.Fatalf("seed %s/%s: %v", s.q, s.date, err)
		}
	}
	// another survey, inside window, must not leak
	if err := UpsertDailySummary(ctx, db, "s2", "q1", "2025-01-03", d); err != nil {
		t.Fatalf("seed other survey: %v", err)
	}

	rows, err := ListSummariesSince(ctx, db, "s1", "2025-01-02")
	if err != nil {
		t.Fatalf("ListSummariesSince: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows in window, got %d", len(rows))
	}
	// date ASC, then question_id ASC
	if rows[0].Date != "2025-01-02" || rows[1].Date != "2025-01-03" || rows[2].Date != "2025-01-03" {
		t.Fatalf("rows not date-ordered: %+v", rows)
	}
	if rows[1].QuestionID != "q1" || rows[2].QuestionID != "q2" {
		t.Fatalf("same-day rows not question-ordered: %+v", rows)
	}
}

func TestDeleteSummariesBefore_StrictCutoff(t *testing.T) {
	db := newSummaryRepoDB(t, &domain.DailySummary{})
	ctx := context.Background()

	d := domain.SummaryData{Counts: map[string]int{"Yes": 1}, Total: 1}
	for _, date := range []string{"2025-01-08", "2025-01-09", "2025-01-10", "2025-01-11"} {
		if err := UpsertDailySummary(ctx, db, "s1", "q1", date, d); err != nil {
			t.Fatalf("seed %s: %v", date, err)
		}
	}
	if err := UpsertDailySummary(ctx, db, "s2", "q1", "2025-01-08", d); err != nil {
		t.Fatalf("seed other survey: %v", err)
	}

	deleted, err := DeleteSummariesBefore(ctx, db, "s1", "2025-01-10")
	if err != nil {
		t.Fatalf("DeleteSummariesBefore: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	rows, err := ListSummariesSince(ctx, db, "s1", "0000-00-00")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	// The cutoff day itself survives.
	if len(rows) != 2 || rows[0].Date != "2025-01-10" || rows[1].Date != "2025-01-11" {
		t.Fatalf("unexpected survivors: %+v", rows)
	}

	// Other survey untouched.
	var n int64
	if err := db.Model(&domain.DailySummary{}).Where("survey_id = ?", "s2").Count(&n).Error; err != nil {
		t.Fatalf("count other survey: %v", err)
	}
	if n != 1 {
		t.Fatalf("other survey rows deleted: %d", n)
	}
}

func TestDeleteSummariesBefore_NothingToDelete(t *testing.T) {
	db := newSummaryRepoDB(t, &domain.DailySummary{})

	deleted, err := DeleteSummariesBefore(context.Background(), db, "s1", "2025-01-01")
	if err != nil {
		t.Fatalf("DeleteSummariesBefore: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected 0 deleted, got %d", deleted)
	}
}
