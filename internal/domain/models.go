// Package domain defines the persistence models for surveys, responses, and
// derived daily summaries. These types are mapped with GORM and form the core
// data layer of the survey aggregation backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Survey represents a published questionnaire identified by a stable slug.
// A survey owns an ordered list of questions and collects anonymous responses.
// Once referenced by answers, a survey is immutable except for its activation
// flag and descriptive metadata.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Slug: URL-safe unique identifier used by the public API.
//   - Title / Description: display metadata.
//   - IsActive: whether new submissions are accepted.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Survey struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Slug        string         `json:"slug"        gorm:"type:varchar(64);not null;uniqueIndex:ux_survey_slug"`
	Title       string         `json:"title"       gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	IsActive    bool           `json:"is_active"   gorm:"not null;default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	// Questions are loaded ordered by Position when preloaded by the repo.
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:SurveyID;references:ID"`
}

// TableName returns the database table name for Survey.
func (Survey) TableName() string { return "surveys" }

// Question belongs to exactly one survey. It carries a stable slug, the
// display text, a type tag (currently only "single" choice is exercised),
// an ordered set of allowed option values, and a display order index.
//
// The aggregator does not validate answer values against Options: values
// outside the set are counted as-is.
type Question struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	SurveyID  string         `json:"-"        gorm:"type:char(36);not null;index:idx_survey_questions;uniqueIndex:ux_question_survey_slug,priority:1"`
	Slug      string         `json:"slug"     gorm:"type:varchar(64);not null;uniqueIndex:ux_question_survey_slug,priority:2"`
	Text      string         `json:"text"     gorm:"type:text;not null"`
	Type      string         `json:"type"     gorm:"type:varchar(16);not null;default:'single'"`
	Position  int            `json:"position" gorm:"column:position;not null"`
	Options   StringList     `json:"options"  gorm:"type:text"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-"        gorm:"index"`

	// Survey is the owning questionnaire. Questions are cascade-deleted
	// if their survey is removed.
	Survey Survey `json:"-" gorm:"foreignKey:SurveyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Question.
func (Question) TableName() string { return "questions" }

// Response is one respondent submission event. Its creation timestamp is the
// authoritative time dimension for all downstream aggregation; respondent
// metadata is optional and never consulted by the aggregation pipeline.
type Response struct {
	ID              string         `json:"id"         gorm:"type:char(36);primaryKey"`
	SurveyID        string         `json:"survey_id"  gorm:"type:char(36);not null;index:idx_survey_responses,priority:1"`
	RespondentName  string         `json:"-"          gorm:"type:varchar(255)"`
	RespondentEmail string         `json:"-"          gorm:"type:varchar(255)"`
	IPAddress       string         `json:"-"          gorm:"type:varchar(64)"`
	UserAgent       string         `json:"-"          gorm:"type:varchar(512)"`
	CreatedAt       time.Time      `json:"created_at" gorm:"index:idx_survey_responses,priority:2"`
	UpdatedAt       time.Time      `json:"-"`
	DeletedAt       gorm.DeletedAt `json:"-"          gorm:"index"`

	// Answers are owned by the response and cascade-deleted with it.
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:ResponseID;references:ID"`

	Survey Survey `json:"-" gorm:"foreignKey:SurveyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Response.
func (Response) TableName() string { return "responses" }

// Answer carries a single string value for one question within one response.
// At most one answer per (response, question) pair is expected, but the model
// does not enforce it; duplicates are all counted by the aggregator.
type Answer struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	ResponseID string         `json:"response_id" gorm:"type:char(36);not null;index:idx_response_answers"`
	QuestionID string         `json:"question_id" gorm:"type:char(36);not null;index:idx_question_answers"`
	Value      string         `json:"value"       gorm:"type:text;not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"-"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`

	// Response is the parent submission. Answers are cascade-deleted
	// if their response is removed.
	Response Response `json:"-" gorm:"foreignKey:ResponseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Question Question `json:"-" gorm:"foreignKey:QuestionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Answer.
func (Answer) TableName() string { return "answers" }

// DailySummary is derived, rebuildable state keyed by (survey, question, UTC
// calendar day). It holds the per-day count distribution blob written by the
// rollup pipeline. Exactly one row exists per (survey_id, question_id, date)
// and each rollup run fully replaces the Data blob for its key, which is what
// keeps the pipeline idempotent.
//
// The Date column stores the UTC day as "YYYY-MM-DD" text so that window
// comparisons stay day-granular and lexicographic order equals chronological
// order.
type DailySummary struct {
	ID         string      `json:"id"          gorm:"type:char(36);primaryKey"`
	SurveyID   string      `json:"survey_id"   gorm:"type:char(36);not null;uniqueIndex:ux_summary_survey_question_date,priority:1;index:idx_summary_survey_date,priority:1"`
	QuestionID string      `json:"question_id" gorm:"type:char(36);not null;uniqueIndex:ux_summary_survey_question_date,priority:2"`
	Date       string      `json:"date"        gorm:"type:char(10);not null;uniqueIndex:ux_summary_survey_question_date,priority:3;index:idx_summary_survey_date,priority:2"`
	Data       SummaryData `json:"data"        gorm:"type:text;not null"`
	CreatedAt  time.Time   `json:"-"`
	UpdatedAt  time.Time   `json:"-"`
}

// TableName returns the database table name for DailySummary.
func (DailySummary) TableName() string { return "daily_summaries" }
