package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/app/services"
	"github.com/campusmetrics/ploboard/internal/middleware"
)

// MappingController handles the PLO-CLO mapping draft/publish workflow
type MappingController struct {
	mappingService services.MappingService
}

// NewMappingController creates a new MappingController
func NewMappingController(mappingService services.MappingService) *MappingController {
	return &MappingController{
		mappingService: mappingService,
	}
}

// EnsureDraft returns the program's open draft, creating one if none exists
// @Summary Ensure an open mapping draft
// @Description Returns the program's open draft mapping, creating one when none exists. Idempotent.
// @Tags mappings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnsureDraftRequest true "Program reference"
// @Success 200 {object} dto.APIResponse{data=dto.MappingResponse} "Open draft"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plo-mappings/draft [post]
func (c *MappingController) EnsureDraft(ctx *gin.Context) {
	var req dto.EnsureDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid draft request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	draft, err := c.mappingService.EnsureDraft(ctx, req.ProgramID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.MappingResponse{Mapping: draft},
		Timestamp: time.Now(),
	})
}

// GetUnmappedClos lists course outcomes absent from the current mapping
// @Summary List unmapped course outcomes
// @Description Lists the program's CLOs not present in the open draft, or in the latest published mapping when no draft exists. An empty list means fully mapped.
// @Tags mappings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param programId path int true "Program ID"
// @Success 200 {object} dto.APIResponse{data=dto.UnmappedClosResponse} "Unmapped course outcomes"
// @Failure 400 {object} dto.ErrorResponse "Invalid program ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plo-mappings/{programId}/unmapped-clos [get]
func (c *MappingController) GetUnmappedClos(ctx *gin.Context) {
	programID, ok := parseIDParam(ctx, "programId", "Program ID")
	if !ok {
		return
	}

	unmapped, err := c.mappingService.ListUnmapped(ctx, programID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.UnmappedClosResponse{UnmappedClos: unmapped},
		Timestamp: time.Now(),
	})
}

// AddEntry links a program outcome to a course outcome in a draft
// @Summary Add a mapping entry
// @Description Links one PLO to one CLO in the open draft
// @Tags mappings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft mapping ID"
// @Param request body dto.AddEntryRequest true "Entry to add"
// @Success 201 {object} dto.APIResponse{data=models.MappingEntry} "Entry added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Draft or outcome not found"
// @Failure 409 {object} dto.ErrorResponse "Entry already mapped or mapping not a draft"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plo-mappings/draft/{draftId}/entries [post]
func (c *MappingController) AddEntry(ctx *gin.Context) {
	draftID, ok := parseDraftID(ctx)
	if !ok {
		return
	}

	var req dto.AddEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid entry data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	entry, err := c.mappingService.AddEntry(ctx, middleware.UserID(ctx), draftID, req.ProgramOutcomeID, req.CourseOutcomeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      entry,
		Timestamp: time.Now(),
	})
}

// RemoveEntry unlinks a pair in a draft
// @Summary Remove a mapping entry
// @Description Removes one PLO-CLO link from the open draft
// @Tags mappings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft mapping ID"
// @Param request body dto.RemoveEntryRequest true "Entry to remove"
// @Success 204 "Entry removed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Draft or entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plo-mappings/draft/{draftId}/entries [delete]
func (c *MappingController) RemoveEntry(ctx *gin.Context) {
	draftID, ok := parseDraftID(ctx)
	if !ok {
		return
	}

	var req dto.RemoveEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid entry data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.mappingService.RemoveEntry(ctx, middleware.UserID(ctx), draftID, req.ProgramOutcomeID, req.CourseOutcomeID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{
		Data:      nil,
		Timestamp: time.Now(),
	})
}

// Publish freezes a draft into the next published version
// @Summary Publish a mapping draft
// @Description Publishes the draft as the next mapping version. An empty draft is rejected. When base_version is given and another publish landed in between, the request fails with a conflict.
// @Tags mappings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft mapping ID"
// @Param request body dto.PublishRequest false "Optional base version for conflict detection"
// @Success 200 {object} dto.APIResponse{data=dto.MappingResponse} "Published mapping"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Draft not found"
// @Failure 409 {object} dto.ErrorResponse "Empty draft or publish conflict"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plo-mappings/draft/{draftId}/publish [post]
func (c *MappingController) Publish(ctx *gin.Context) {
	draftID, ok := parseDraftID(ctx)
	if !ok {
		return
	}

	var req dto.PublishRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid publish request")
			errorDetail = errorDetail.WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	published, err := c.mappingService.Publish(ctx, middleware.UserID(ctx), draftID, req.BaseVersion)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.MappingResponse{Mapping: published},
		Timestamp: time.Now(),
	})
}

// Discard deletes an open draft without publishing it
// @Summary Discard a mapping draft
// @Description Deletes the open draft and its entries without publishing
// @Tags mappings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft mapping ID"
// @Success 204 "Draft discarded"
// @Failure 400 {object} dto.ErrorResponse "Invalid draft ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Draft not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plo-mappings/draft/{draftId} [delete]
func (c *MappingController) Discard(ctx *gin.Context) {
	draftID, ok := parseDraftID(ctx)
	if !ok {
		return
	}

	if err := c.mappingService.Discard(ctx, middleware.UserID(ctx), draftID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{
		Data:      nil,
		Timestamp: time.Now(),
	})
}

// parseDraftID parses the draft mapping id path parameter
func parseDraftID(ctx *gin.Context) (uuid.UUID, bool) {
	draftID, err := uuid.Parse(ctx.Param("draftId"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid draft ID")
		errorDetail = errorDetail.WithDetails("Draft ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return draftID, true
}
