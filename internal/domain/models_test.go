package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{(Survey{}).TableName(), "surveys"},
		{(Question{}).TableName(), "questions"},
		{(Response{}).TableName(), "responses"},
		{(Answer{}).TableName(), "answers"},
		{(DailySummary{}).TableName(), "daily_summaries"},
		{(Idempotency{}).TableName(), "idempotency"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("TableName() = %q; want %q", tc.got, tc.want)
		}
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t, "domain_models")

	if err := db.AutoMigrate(&Survey{}, &Question{}, &Response{}, &Answer{}, &DailySummary{}, &Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	// Tables exist
	for _, tbl := range []any{&Survey{}, &Question{}, &Response{}, &Answer{}, &DailySummary{}, &Idempotency{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	// Indexes from tags exist
	if !m.HasIndex(&Survey{}, "ux_survey_slug") {
		t.Fatalf("expected unique index ux_survey_slug on surveys")
	}
	if !m.HasIndex(&Question{}, "ux_question_survey_slug") {
		t.Fatalf("expected unique index ux_question_survey_slug on questions")
	}
	if !m.HasIndex(&Response{}, "idx_survey_responses") {
		t.Fatalf("expected index idx_survey_responses on responses")
	}
	if !m.HasIndex(&DailySummary{}, "ux_summary_survey_question_date") {
		t.Fatalf("expected unique index ux_summary_survey_question_date on daily_summaries")
	}
	if !m.HasIndex(&Idempotency{}, "ux_idempotency_key") {
		t.Fatalf("expected unique index ux_idempotency_key on idempotency")
	}

	// Seed a survey, one question, one response with an answer
	now := time.Now().UTC()

	sv := &Survey{ID: "s1", Slug: "pulse", Title: "Pulse", IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(sv).Error; err != nil {
		t.Fatalf("insert survey: %v", err)
	}
	q := &Question{ID: "q1", SurveyID: "s1", Slug: "stay", Text: "Staying?", Type: "single", Position: 1, Options: StringList{"Yes", "No"}}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("insert question: %v", err)
	}
	resp := &Response{ID: "r1", SurveyID: "s1", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(resp).Error; err != nil {
		t.Fatalf("insert response: %v", err)
	}
	a := &Answer{ID: "a1", ResponseID: "r1", QuestionID: "q1", Value: "Yes", CreatedAt: now}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("insert answer: %v", err)
	}

	// CASCADE: deleting a response should delete its answers
	if err := db.Unscoped().Delete(&Response{}, "id = ?", "r1").Error; err != nil {
		t.Fatalf("delete response: %v", err)
	}
	var cnt int64
	if err := db.Model(&Answer{}).Where("response_id = ?", "r1").Count(&cnt).Error; err != nil {
		t.Fatalf("count answers after response delete: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected answers to cascade-delete when response deleted, got count=%d", cnt)
	}

	// CASCADE: deleting the survey should delete remaining questions
	if err := db.Unscoped().Delete(&Survey{}, "id = ?", "s1").Error; err != nil {
		t.Fatalf("delete survey: %v", err)
	}
	if err := db.Model(&Question{}).Where("survey_id = ?", "s1").Count(&cnt).Error; err != nil {
		t.Fatalf("count questions after survey delete: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected questions to cascade-delete when survey deleted, got count=%d", cnt)
	}
}

func TestUniqueConstraints(t *testing.T) {
	db := newDomainDB(t, "domain_unique")
	if err := db.AutoMigrate(&Survey{}, &Question{}, &DailySummary{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	if err := db.Create(&Survey{ID: "s1", Slug: "dup", Title: "A"}).Error; err != nil {
		t.Fatalf("insert survey: %v", err)
	}
	if err := db.Create(&Survey{ID: "s2", Slug: "dup", Title: "B"}).Error; err == nil {
		t.Fatalf("expected unique slug violation")
	}
	if err := db.Create(&Survey{ID: "sX", Slug: "other", Title: "C"}).Error; err != nil {
		t.Fatalf("insert sX: %v", err)
	}

	// Same question slug under a different survey is fine.
	if err := db.Create(&Question{ID: "q1", SurveyID: "s1", Slug: "stay", Text: "?", Position: 1}).Error; err != nil {
		t.Fatalf("insert q1: %v", err)
	}
	if err := db.Create(&Question{ID: "q2", SurveyID: "sX", Slug: "stay", Text: "?", Position: 1}).Error; err != nil {
		t.Fatalf("insert q2 under another survey: %v", err)
	}
	if err := db.Create(&Question{ID: "q3", SurveyID: "s1", Slug: "stay", Text: "?", Position: 2}).Error; err == nil {
		t.Fatalf("expected unique (survey, slug) violation")
	}

	// One summary row per (survey, question, day).
	d := DailySummary{ID: "ds1", SurveyID: "s1", QuestionID: "q1", Date: "2025-06-01", Data: SummaryData{Counts: map[string]int{"Yes": 1}, Total: 1}}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("insert summary: %v", err)
	}
	dup := DailySummary{ID: "ds2", SurveyID: "s1", QuestionID: "q1", Date: "2025-06-01", Data: SummaryData{Total: 0, Counts: map[string]int{}}}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatalf("expected unique (survey, question, date) violation")
	}
}
