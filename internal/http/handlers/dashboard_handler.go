// Dashboard HTTP handlers.
//
// This file exposes the authenticated REST endpoint serving aggregated
// statistics for the admin dashboard:
//   - GET /dashboard/summary?s={slug}
//
// The payload carries, per question, the 30-day and 90-day merged
// distributions plus a per-day time series, sourced from daily summaries or
// recomputed from raw answers on cold start. Authentication is enforced by
// upstream middleware.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mempulse/go-survey-backend/internal/services"
)

// DashboardSummary godoc
// @ID          dashboardSummary
// @Summary     Get dashboard statistics for a survey
// @Description Returns 30/90-day answer distributions and a per-day time series per question.
// @Tags        Dashboard
// @Produce     json
// @Security    BearerAuth
//
// @Param       s  query  string  true  "Survey slug"  example(mempulse-1)
//
// @Success     200  {object} services.DashboardPayload
// @Failure     400  {object} handlers.ErrorResponse "Missing survey slug"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid credentials"
// @Failure     404  {object} handlers.ErrorResponse "Survey not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /dashboard/summary [get]
func (h *Handlers) DashboardSummary(c *gin.Context) {
	slug := c.Query("s")
	if slug == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "survey slug parameter required")
		return
	}

	payload, err := h.dashSvc.Build(c.Request.Context(), slug)
	if err != nil {
		if err == services.ErrSurveyNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "survey not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDashboardFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, payload)
}
