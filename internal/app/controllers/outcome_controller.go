package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/app/services"
	"github.com/campusmetrics/ploboard/internal/middleware"
)

// OutcomeController handles program learning outcome operations
type OutcomeController struct {
	outcomeService services.OutcomeService
}

// NewOutcomeController creates a new OutcomeController
func NewOutcomeController(outcomeService services.OutcomeService) *OutcomeController {
	return &OutcomeController{
		outcomeService: outcomeService,
	}
}

// CreateOutcome creates a program outcome inside a program
// @Summary Create a program outcome
// @Description Creates a new program learning outcome (PLO) in the given program
// @Tags outcomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param request body dto.CreateOutcomeRequest true "Outcome information"
// @Success 201 {object} dto.APIResponse{data=models.ProgramOutcome} "Outcome created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 409 {object} dto.ErrorResponse "Outcome number already used"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id}/plos [post]
func (c *OutcomeController) CreateOutcome(ctx *gin.Context) {
	programID, ok := parseIDParam(ctx, "id", "Program ID")
	if !ok {
		return
	}

	var req dto.CreateOutcomeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid outcome data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	outcome := models.ProgramOutcome{
		ProgramID:   programID,
		Number:      req.PloNumber,
		Description: req.Description,
	}
	if err := c.outcomeService.Create(ctx, middleware.UserID(ctx), &outcome); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      outcome,
		Timestamp: time.Now(),
	})
}

// ListOutcomes lists a program's outcomes
// @Summary List program outcomes
// @Description Retrieves a program's PLOs ordered by number
// @Tags outcomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ProgramOutcome} "Outcomes retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid program ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id}/plos [get]
func (c *OutcomeController) ListOutcomes(ctx *gin.Context) {
	programID, ok := parseIDParam(ctx, "id", "Program ID")
	if !ok {
		return
	}

	outcomes, err := c.outcomeService.ListByProgram(ctx, programID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      outcomes,
		Timestamp: time.Now(),
	})
}

// UpdateOutcome rewrites an outcome's number and description
// @Summary Update a program outcome
// @Description Updates an existing PLO's number and description
// @Tags outcomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Outcome ID"
// @Param request body dto.UpdateOutcomeRequest true "Updated outcome information"
// @Success 200 {object} dto.APIResponse{data=models.ProgramOutcome} "Outcome updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Outcome not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plos/{id} [put]
func (c *OutcomeController) UpdateOutcome(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Outcome ID")
	if !ok {
		return
	}

	var req dto.UpdateOutcomeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid outcome data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	existing, err := c.outcomeService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	existing.Number = req.PloNumber
	existing.Description = req.Description
	if err := c.outcomeService.Update(ctx, middleware.UserID(ctx), existing); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      existing,
		Timestamp: time.Now(),
	})
}

// DeleteOutcome deletes an outcome
// @Summary Delete a program outcome
// @Description Deletes a PLO. Rejected with a conflict while the outcome is referenced by any mapping entry.
// @Tags outcomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Outcome ID"
// @Success 204 "Outcome deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid outcome ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Outcome not found"
// @Failure 409 {object} dto.ErrorResponse "Outcome is referenced by a mapping"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plos/{id} [delete]
func (c *OutcomeController) DeleteOutcome(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Outcome ID")
	if !ok {
		return
	}

	if err := c.outcomeService.Delete(ctx, middleware.UserID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{
		Data:      nil,
		Timestamp: time.Now(),
	})
}
