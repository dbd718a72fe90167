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

// DashboardController serves the PLO dashboard tree and the per-user
// selection preferences.
type DashboardController struct {
	dashboardService services.DashboardService
	prefs            services.PreferenceStore
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService, prefs services.PreferenceStore) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		prefs:            prefs,
	}
}

// GetDashboard builds the PLO dashboard for a program and term
// @Summary Get the PLO dashboard
// @Description Builds the PLO → CLO → section tree for the program, with aggregates and formatted pass rates, plus the summary banner. term_id=0 resolves the default term. The resolved program is persisted as the user's last selection.
// @Tags dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param term_id query int false "Term ID (0 or absent resolves the default term)"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id}/plo-dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	requestedProgramID, ok := parseIDParam(ctx, "id", "Program ID")
	if !ok {
		return
	}

	var requestedTermID int64
	if termStr := ctx.Query("term_id"); termStr != "" {
		parsed, err := strconv.ParseInt(termStr, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid term ID")
			errorDetail = errorDetail.WithDetails("Term ID must be a valid number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		requestedTermID = parsed
	}

	programID, termID, err := c.dashboardService.ResolveSelection(ctx, middleware.UserID(ctx), requestedProgramID, requestedTermID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	tree, err := c.dashboardService.LoadTree(ctx, programID, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.DashboardResponse{
			Tree:    tree,
			Summary: services.Summarize(tree),
		},
		Timestamp: time.Now(),
	})
}

// GetPreference reads one of the caller's preference slots
// @Summary Get a user preference
// @Description Reads one preference slot for the authenticated user. A missing slot returns an empty value, not an error.
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Preference key"
// @Success 200 {object} dto.APIResponse{data=dto.PreferenceResponse} "Preference retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/preferences/{key} [get]
func (c *DashboardController) GetPreference(ctx *gin.Context) {
	key := ctx.Param("key")

	value, err := c.prefs.Get(ctx, middleware.UserID(ctx), key)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PreferenceResponse{
			Key:   key,
			Value: value,
		},
		Timestamp: time.Now(),
	})
}

// SetPreference writes one of the caller's preference slots
// @Summary Set a user preference
// @Description Writes one preference slot for the authenticated user
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Preference key"
// @Param request body dto.SetPreferenceRequest true "Preference value"
// @Success 200 {object} dto.APIResponse{data=dto.PreferenceResponse} "Preference saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/preferences/{key} [put]
func (c *DashboardController) SetPreference(ctx *gin.Context) {
	key := ctx.Param("key")

	var req dto.SetPreferenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid preference data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.prefs.Set(ctx, middleware.UserID(ctx), key, req.Value); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PreferenceResponse{
			Key:   key,
			Value: req.Value,
		},
		Timestamp: time.Now(),
	})
}
