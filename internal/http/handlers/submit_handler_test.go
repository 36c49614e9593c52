package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mempulse/go-survey-backend/internal/http/middleware"
	"github.com/mempulse/go-survey-backend/internal/services"
)

func postSubmit(h *Handlers, body string, headers map[string]string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	r.POST("/submit", h.SubmitResponse)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitResponse_BindingError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sub := stubSubSvc{submit: func(context.Context, services.Submission) (*services.SubmissionResult, error) {
		t.Fatalf("service should not be called on binding error")
		return nil, nil
	}}
	h := newTestHandlers(stubSurveySvc{}, sub, stubDashSvc{}, stubRollupSvc{})

	// Missing required surveySlug and answers.
	w := postSubmit(h, `{"consent":true}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeBadRequest {
		t.Fatalf("unexpected envelope: %+v", er)
	}
}

func TestSubmitResponse_ErrorMappings(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"consent", services.ErrConsentRequired, http.StatusBadRequest},
		{"no_answers", services.ErrNoAnswers, http.StatusBadRequest},
		{"bad_email", services.ErrInvalidEmail, http.StatusBadRequest},
		{"not_found", services.ErrSurveyNotFound, http.StatusNotFound},
		{"inactive", services.ErrSurveyInactive, http.StatusNotFound},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			sub := stubSubSvc{submit: func(context.Context, services.Submission) (*services.SubmissionResult, error) {
				return nil, tc.err
			}}
			h := newTestHandlers(stubSurveySvc{}, sub, stubDashSvc{}, stubRollupSvc{})

			w := postSubmit(h, `{"surveySlug":"pulse","consent":true,"answers":{"stay":"Yes"}}`, nil)
			if w.Code != tc.wantStatus {
				t.Fatalf("status=%d, want %d. body=%s", w.Code, tc.wantStatus, w.Body.String())
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("json: %v", err)
			}
			if er.Code == "" || er.Message == "" {
				t.Fatalf("error envelope missing fields: %+v", er)
			}
		})
	}
}

func TestSubmitResponse_Success_PassesThroughFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got services.Submission
	sub := stubSubSvc{submit: func(_ context.Context, s services.Submission) (*services.SubmissionResult, error) {
		got = s
		return &services.SubmissionResult{ResponseID: "r-1"}, nil
	}}
	h := newTestHandlers(stubSurveySvc{}, sub, stubDashSvc{}, stubRollupSvc{})

	body := `{"surveySlug":"pulse","respondentName":"Jamie","respondentEmail":"j@example.com","consent":true,"answers":{"stay":"Yes","job":"No"}}`
	w := postSubmit(h, body, map[string]string{middleware.HeaderIdempotencyKey: "key-42"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var out SubmitResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !out.OK || out.ResponseID != "r-1" {
		t.Fatalf("unexpected body: %+v", out)
	}

	if got.SurveySlug != "pulse" || got.RespondentName != "Jamie" || got.RespondentEmail != "j@example.com" {
		t.Fatalf("submission fields not forwarded: %+v", got)
	}
	if !got.Consent || len(got.Answers) != 2 || got.Answers["stay"] != "Yes" {
		t.Fatalf("answers not forwarded: %+v", got)
	}
	if got.IdempotencyKey != "key-42" {
		t.Fatalf("idempotency key not forwarded: %q", got.IdempotencyKey)
	}
}
