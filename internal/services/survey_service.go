// Package services – SurveyService
//
// This file implements the SurveyService, which manages survey definitions.
// It validates and normalizes titles, coordinates repository operations for
// creating and fetching surveys, and installs the default seed survey on an
// empty database so the public form works out of the box.
//
// Service-level errors (e.g., ErrSurveyNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/mempulse/go-survey-backend/internal/domain"
)

// SurveyRepo defines the repository contract required by SurveyService.
// Implementations are responsible for persistence of survey aggregates.
type SurveyRepo interface {
	// CreateSurvey inserts a survey row together with its questions.
	CreateSurvey(ctx context.Context, db *gorm.DB, s *domain.Survey) error

	// GetSurveyBySlug fetches a survey with ordered questions preloaded.
	GetSurveyBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Survey, error)

	// CountSurveys returns the total number of surveys.
	CountSurveys(ctx context.Context, db *gorm.DB) (int64, error)
}

// QuestionSpec describes one question to create alongside a survey.
type QuestionSpec struct {
	Slug     string
	Text     string
	Type     string
	Position int
	Options  []string
}

// SurveyService provides survey-level operations such as creating surveys
// and resolving them by slug. It enforces title rules on the write path.
type SurveyService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the survey repository used by this service.
	Repo SurveyRepo

	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
	// TitleLocale is retained for locale-aware title handling.
	TitleLocale language.Tag
}

// NewSurveyService constructs a SurveyService with sane defaults for title handling.
func NewSurveyService(db *gorm.DB, r SurveyRepo) *SurveyService {
	return &SurveyService{
		DB:          db,
		Repo:        r,
		TitleMaxLen: 255,
		TitleLocale: language.Und,
	}
}

// Get resolves a survey by slug with its questions in display order.
// Returns ErrSurveyNotFound when the slug is unknown.
func (s *SurveyService) Get(ctx context.Context, slug string) (*domain.Survey, error) {
	sv, err := s.Repo.GetSurveyBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	return sv, nil
}

// Create inserts a new active survey with the given questions. Titles are
// normalized, trimmed, clipped, and a default fallback is applied.
func (s *SurveyService) Create(ctx context.Context, slug, title, description string, questions []QuestionSpec) (*domain.Survey, error) {
	title = normalizeTitle(title)
	if title == "" {
		title = "Untitled survey"
	}

	sv := &domain.Survey{
		ID:          uuid.NewString(),
		Slug:        strings.TrimSpace(slug),
		Title:       s.clip(title),
		Description: strings.TrimSpace(description),
		IsActive:    true,
	}
	for _, q := range questions {
		qType := q.Type
		if qType == "" {
			qType = "single"
		}
		sv.Questions = append(sv.Questions, domain.Question{
			ID:       uuid.NewString(),
			SurveyID: sv.ID,
			Slug:     q.Slug,
			Text:     q.Text,
			Type:     qType,
			Position: q.Position,
			Options:  q.Options,
		})
	}

	if err := s.Repo.CreateSurvey(ctx, s.DB, sv); err != nil {
		return nil, err
	}
	return sv, nil
}

// EnsureDefault installs the built-in pulse survey when no surveys exist yet.
// It is idempotent and safe to call on every startup.
func (s *SurveyService) EnsureDefault(ctx context.Context) error {
	total, err := s.Repo.CountSurveys(ctx, s.DB)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	_, err = s.Create(ctx,
		"mempulse-1",
		"Memphis Pulse Survey",
		"Quick pulse check on how Memphians feel about their city and life",
		[]QuestionSpec{
			{Slug: "stay-memphis", Text: "If you could move today, would you stay in Memphis?", Position: 1, Options: []string{"Yes", "No"}},
			{Slug: "stay-us", Text: "If you could move today, would you stay in the U.S.?", Position: 2, Options: []string{"Yes", "No"}},
			{Slug: "like-job", Text: "Do you like your job?", Position: 3, Options: []string{"Yes", "No"}},
			{Slug: "work-mode", Text: "Would you change whether you work from home or from the office?", Position: 4, Options: []string{"Keep as-is", "Switch to WFH", "Switch to Office", "Hybrid", "Not sure"}},
		},
	)
	return err
}

// clip truncates a survey title to the configured maximum rune length.
func (s *SurveyService) clip(title string) string {
	if s.TitleMaxLen > 0 && utf8.RuneCountInString(title) > s.TitleMaxLen {
		return string([]rune(title)[:s.TitleMaxLen])
	}
	return title
}

// normalizeTitle trims whitespace and collapses multiple spaces to one.
func normalizeTitle(s string) string {
	s = whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
	return s
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
