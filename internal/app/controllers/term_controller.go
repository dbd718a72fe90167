package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/app/services"
	"github.com/campusmetrics/ploboard/internal/middleware"
)

// TermController handles academic term operations
type TermController struct {
	termService services.TermService
}

// NewTermController creates a new TermController
func NewTermController(termService services.TermService) *TermController {
	return &TermController{
		termService: termService,
	}
}

// GetAllTerms lists all known terms
// @Summary List terms
// @Description Retrieves all academic terms in feed order. With default=true, returns only the resolved default term.
// @Tags terms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param default query bool false "Return only the resolved default term"
// @Success 200 {object} dto.APIResponse{data=[]models.Term} "Terms retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms [get]
func (c *TermController) GetAllTerms(ctx *gin.Context) {
	if ctx.Query("default") == "true" {
		term, err := c.termService.DefaultTerm(ctx)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.APIResponse{
			Data:      term,
			Timestamp: time.Now(),
		})
		return
	}

	terms, err := c.termService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      terms,
		Timestamp: time.Now(),
	})
}

// ImportTerms ingests a raw SIS term feed
// @Summary Import terms
// @Description Normalizes heterogeneous SIS term records and upserts them. Unusable records are skipped, not failed.
// @Tags terms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ImportTermsRequest true "Raw SIS term records"
// @Success 200 {object} dto.APIResponse{data=dto.ImportTermsResponse} "Import finished"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/import [post]
func (c *TermController) ImportTerms(ctx *gin.Context) {
	var req dto.ImportTermsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid terms payload")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	imported, skipped, err := c.termService.Import(ctx, req.Terms)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ImportTermsResponse{
			Imported: imported,
			Skipped:  skipped,
		},
		Timestamp: time.Now(),
	})
}
