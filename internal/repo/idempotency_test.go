package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mempulse/go-survey-backend/internal/domain"
)

func newIdemRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("idem_repo_test_%d.db", time.Now().UnixNano()))
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
	if err := db.AutoMigrate(&domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateIdempotency_SuccessAndDuplicate(t *testing.T) {
	db := newIdemRepoDB(t)
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "key-1", "s1", "r1", 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.Key != "key-1" || rec.SurveyID != "s1" || rec.ResponseID != "r1" || rec.Status != 200 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.ExpiresAt.After(rec.CreatedAt) {
		t.Fatalf("expiry not in the future: %+v", rec)
	}

	// Same key again, even for another survey, is a duplicate.
	if _, err := CreateIdempotency(ctx, db, "key-1", "s2", "r2", 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetIdempotency_FoundMissingAndExpired(t *testing.T) {
	db := newIdemRepoDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Empty key short-circuits without touching the DB.
	if _, err := GetIdempotency(ctx, db, "   ", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank key, got %v", err)
	}

	// Missing
	if _, err := GetIdempotency(ctx, db, "missing", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	// Live record is returned.
	if _, err := CreateIdempotency(ctx, db, "live", "s1", "r1", 200, time.Hour); err != nil {
		t.Fatalf("seed live: %v", err)
	}
	got, err := GetIdempotency(ctx, db, "live", now)
	if err != nil {
		t.Fatalf("GetIdempotency live: %v", err)
	}
	if got.ResponseID != "r1" {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Expired record behaves as missing.
	if _, err := CreateIdempotency(ctx, db, "stale", "s1", "r2", 200, time.Hour); err != nil {
		t.Fatalf("seed stale: %v", err)
	}
	future := now.Add(2 * time.Hour)
	if _, err := GetIdempotency(ctx, db, "stale", future); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired key, got %v", err)
	}
}
