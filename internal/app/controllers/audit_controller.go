package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/app/services"
	"github.com/campusmetrics/ploboard/internal/middleware"
)

// AuditController exposes the mutation audit trail
type AuditController struct {
	audit services.AuditStore
}

// NewAuditController creates a new AuditController
func NewAuditController(audit services.AuditStore) *AuditController {
	return &AuditController{
		audit: audit,
	}
}

// ListEvents lists recent audit events
// @Summary List audit events
// @Description Retrieves recent audit events, newest first, optionally filtered by entity
// @Tags audit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entity query string false "Filter by entity (program, program_outcome, outcome_mapping)"
// @Param limit query int false "Maximum number of events (default 50)"
// @Success 200 {object} dto.APIResponse{data=[]models.AuditEvent} "Audit events retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /audit-events [get]
func (c *AuditController) ListEvents(ctx *gin.Context) {
	limit := 50
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	events, err := c.audit.ListRecent(ctx, ctx.Query("entity"), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      events,
		Timestamp: time.Now(),
	})
}
