// Submission HTTP handlers.
//
// This file exposes the REST endpoint for submitting survey responses:
//   - POST /submit  (create one response with its answers)
//
// Handlers in this file are transport-thin: they validate input, delegate to
// the submission service, and translate service errors into HTTP results.
// Clients may supply an Idempotency-Key header to make retries safe; replays
// return the originally created response ID.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mempulse/go-survey-backend/internal/http/middleware"
	"github.com/mempulse/go-survey-backend/internal/services"
)

// SubmitRequest is the JSON payload for creating a survey response.
type SubmitRequest struct {
	// SurveySlug identifies the target survey.
	SurveySlug string `json:"surveySlug" binding:"required,min=1" example:"mempulse-1"`
	// RespondentName is optional display metadata.
	RespondentName string `json:"respondentName" example:"Jamie"`
	// RespondentEmail is optional; when present it must be a valid address.
	RespondentEmail string `json:"respondentEmail" example:"jamie@example.com"`
	// Consent must be true for the submission to be accepted.
	Consent bool `json:"consent" example:"true"`
	// Answers maps question slug to the chosen option value.
	Answers map[string]string `json:"answers" binding:"required"`
}

// SubmitResponseBody acknowledges an accepted submission.
type SubmitResponseBody struct {
	OK         bool   `json:"ok" example:"true"`
	ResponseID string `json:"responseId" example:"fa4dfbe0-c3bf-47bd-b32f-d7de221cf43b"`
}

// SubmitResponse godoc
// @ID          submitResponse
// @Summary     Submit a survey response
// @Description Validates and stores one respondent submission with its answers.
// @Tags        Submissions
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Safe-retry key"
// @Param       body             body    handlers.SubmitRequest true "Submission payload"
//
// @Success     200  {object} handlers.SubmitResponseBody
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object} handlers.ErrorResponse "Survey not found or inactive"
// @Failure     429  {object} handlers.ErrorResponse "Rate limited"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /submit [post]
func (h *Handlers) SubmitResponse(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid submission payload")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)

	sub := services.Submission{
		SurveySlug:      req.SurveySlug,
		RespondentName:  req.RespondentName,
		RespondentEmail: req.RespondentEmail,
		Consent:         req.Consent,
		Answers:         req.Answers,
		IPAddress:       c.ClientIP(),
		UserAgent:       c.Request.UserAgent(),
		IdempotencyKey:  idemKey,
	}

	res, err := h.subSvc.Submit(c.Request.Context(), sub)
	if err != nil {
		switch err {
		case services.ErrConsentRequired:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "you must consent to data collection")
		case services.ErrNoAnswers:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "at least one answer is required")
		case services.ErrInvalidEmail:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "respondent email is invalid")
		case services.ErrSurveyNotFound, services.ErrSurveyInactive:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "survey not found or inactive")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, SubmitResponseBody{OK: true, ResponseID: res.ResponseID})
}
