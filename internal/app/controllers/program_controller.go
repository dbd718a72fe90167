package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/app/services"
	"github.com/campusmetrics/ploboard/internal/middleware"
	"github.com/campusmetrics/ploboard/internal/pkg/helpers"
)

// ProgramController handles program-related operations
type ProgramController struct {
	programService services.ProgramService
}

// NewProgramController creates a new ProgramController
func NewProgramController(programService services.ProgramService) *ProgramController {
	return &ProgramController{
		programService: programService,
	}
}

// CreateProgram handles program creation
// @Summary Create a new program
// @Description Creates a new academic program with default presentation settings
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProgramRequest true "Program information"
// @Success 201 {object} dto.APIResponse{data=models.Program} "Program created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Program code already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs [post]
func (c *ProgramController) CreateProgram(ctx *gin.Context) {
	var req dto.CreateProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid program data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	program := models.Program{
		Code: req.Code,
		Name: req.Name,
	}
	if err := c.programService.Create(ctx, &program); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      program,
		Timestamp: time.Now(),
	})
}

// GetProgramByID retrieves a program by ID
// @Summary Get program by ID
// @Description Retrieves a specific program by its ID
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse{data=models.Program} "Program retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid program ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id} [get]
func (c *ProgramController) GetProgramByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Program ID")
	if !ok {
		return
	}

	program, err := c.programService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      program,
		Timestamp: time.Now(),
	})
}

// GetAllPrograms retrieves all programs with pagination
// @Summary Get all programs
// @Description Retrieves a paginated list of academic programs
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ProgramListResponse} "Programs retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs [get]
func (c *ProgramController) GetAllPrograms(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	programs, total, err := c.programService.GetAll(ctx, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ProgramListResponse{
			Programs:       programs,
			PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
		},
		Timestamp: time.Now(),
	})
}

// UpdateProgram updates a program's name and presentation settings
// @Summary Update a program
// @Description Updates the fields present in the request; omitted fields are left untouched
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param request body dto.UpdateProgramRequest true "Updated program information"
// @Success 200 {object} dto.APIResponse{data=models.Program} "Program updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs/{id} [put]
func (c *ProgramController) UpdateProgram(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Program ID")
	if !ok {
		return
	}

	var req dto.UpdateProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid program data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	program, err := c.programService.Update(ctx, middleware.UserID(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      program,
		Timestamp: time.Now(),
	})
}

// parseIDParam parses a numeric path parameter, writing the validation
// response itself when the value is not a number.
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	idStr := ctx.Param(name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label)
		errorDetail = errorDetail.WithDetails(label + " must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
