// Rollup trigger HTTP handlers.
//
// This file exposes the shared-secret protected endpoint that the scheduler
// calls to run the aggregation batch job:
//   - POST /cron/rollup?s={slug}[&days=N]
//
// The trigger runs the daily aggregator, then retention pruning, then cache
// invalidation for the survey's dashboard. The scheduler is responsible for
// invoking it at most once per interval per survey; the run itself is
// idempotent. The shared-secret check is enforced by upstream middleware.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mempulse/go-survey-backend/internal/services"
	"github.com/mempulse/go-survey-backend/internal/utils"
)

// RollupResponseBody reports the outcome of a completed rollup run.
type RollupResponseBody struct {
	OK            bool   `json:"ok" example:"true"`
	Message       string `json:"message" example:"Rollup completed for mempulse-1"`
	DaysProcessed int    `json:"daysProcessed" example:"30"`
}

// TriggerRollup godoc
// @ID          triggerRollup
// @Summary     Run the aggregation batch job for a survey
// @Description Aggregates raw answers into daily summaries, prunes expired rows, and invalidates the dashboard cache.
// @Tags        Rollup
// @Produce     json
// @Security    BearerAuth
//
// @Param       s     query  string  true   "Survey slug"                      example(mempulse-1)
// @Param       days  query  int     false  "Retention override for this run"  example(120)
//
// @Success     200  {object} handlers.RollupResponseBody
// @Failure     400  {object} handlers.ErrorResponse "Missing survey slug"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid credentials"
// @Failure     404  {object} handlers.ErrorResponse "Survey not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /cron/rollup [post]
func (h *Handlers) TriggerRollup(c *gin.Context) {
	slug := c.Query("s")
	if slug == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "survey slug parameter required")
		return
	}
	days := utils.AtoiDefault(c.Query("days"), 0)

	res, err := h.rollupSvc.Run(c.Request.Context(), slug, days)
	if err != nil {
		if err == services.ErrSurveyNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "survey not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeRollupFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, RollupResponseBody{
		OK:            true,
		Message:       fmt.Sprintf("Rollup completed for %s", slug),
		DaysProcessed: res.DaysProcessed,
	})
}
