package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to API responses
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrProgramNotFound),
		errors.Is(err, apperrors.ErrOutcomeNotFound),
		errors.Is(err, apperrors.ErrCourseOutcomeNotFound),
		errors.Is(err, apperrors.ErrMappingNotFound),
		errors.Is(err, apperrors.ErrEntryNotFound),
		errors.Is(err, apperrors.ErrTermNotFound),
		errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, errMessage(err, "Resource not found")),
		})
		return
	case errors.Is(err, apperrors.ErrProgramAlreadyExists),
		errors.Is(err, apperrors.ErrOutcomeNumberTaken),
		errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, errMessage(err, "Resource already exists")),
		})
		return
	case errors.Is(err, apperrors.ErrEntryAlreadyMapped),
		errors.Is(err, apperrors.ErrNothingToPublish),
		errors.Is(err, apperrors.ErrMappingConflict),
		errors.Is(err, apperrors.ErrMappingNotDraft),
		errors.Is(err, apperrors.ErrOutcomeInUse),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeConflict, errMessage(err, "Conflict")),
		})
		return
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrOutcomeProgramMixup):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, errMessage(err, "Validation failed")),
		})
		return
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
		return
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
		return
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
		return
	case errors.Is(err, apperrors.ErrAccountDisabled),
		errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, errMessage(err, "Permission denied")),
		})
		return
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
		return
	}
}

// errMessage prefers the wrapped CustomError message when present, so
// validation and conflict responses carry the field-level detail the
// service attached.
func errMessage(err error, fallback string) string {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		return customErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
