// Survey HTTP handlers.
//
// This file exposes the REST endpoint serving public survey definitions used
// to render the submission form:
//   - GET /surveys/{slug}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mempulse/go-survey-backend/internal/services"
)

// SurveyQuestion is the public projection of one question.
type SurveyQuestion struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Position int      `json:"position"`
	Options  []string `json:"options"`
}

// SurveyResponseBody is the public projection of a survey definition.
type SurveyResponseBody struct {
	ID          string           `json:"id"`
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []SurveyQuestion `json:"questions"`
}

// GetSurvey godoc
// @ID          getSurvey
// @Summary     Get a survey definition
// @Description Returns the survey title, description, and ordered questions for form rendering.
// @Tags        Surveys
// @Produce     json
//
// @Param       slug  path  string  true  "Survey slug"  example(mempulse-1)
//
// @Success     200  {object} handlers.SurveyResponseBody
// @Failure     404  {object} handlers.ErrorResponse "Survey not found or inactive"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /surveys/{slug} [get]
func (h *Handlers) GetSurvey(c *gin.Context) {
	slug := c.Param("slug")

	survey, err := h.surveySvc.Get(c.Request.Context(), slug)
	if err != nil {
		if err == services.ErrSurveyNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "survey not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if !survey.IsActive {
		// Inactive surveys are indistinguishable from missing ones.
		fail(c, http.StatusNotFound, ErrCodeNotFound, "survey not found")
		return
	}

	body := SurveyResponseBody{
		ID:          survey.ID,
		Slug:        survey.Slug,
		Title:       survey.Title,
		Description: survey.Description,
		Questions:   make([]SurveyQuestion, 0, len(survey.Questions)),
	}
	for _, q := range survey.Questions {
		body.Questions = append(body.Questions, SurveyQuestion{
			ID:       q.ID,
			Slug:     q.Slug,
			Text:     q.Text,
			Type:     q.Type,
			Position: q.Position,
			Options:  q.Options,
		})
	}

	ok(c, http.StatusOK, body)
}
