package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Program errors
var (
	ErrProgramNotFound      = errors.New("program not found")
	ErrProgramAlreadyExists = errors.New("program with this code already exists")
)

// Outcome errors
var (
	ErrOutcomeNotFound       = errors.New("program outcome not found")
	ErrOutcomeNumberTaken    = errors.New("program outcome number already used in this program")
	ErrOutcomeInUse          = errors.New("program outcome is referenced by a mapping and cannot be deleted")
	ErrCourseOutcomeNotFound = errors.New("course outcome not found")
)

// Mapping errors
var (
	ErrMappingNotFound     = errors.New("mapping not found")
	ErrMappingNotDraft     = errors.New("mapping is not an open draft")
	ErrEntryAlreadyMapped  = errors.New("course outcome is already mapped to this program outcome")
	ErrEntryNotFound       = errors.New("mapping entry not found")
	ErrNothingToPublish    = errors.New("draft has no entries to publish")
	ErrMappingConflict     = errors.New("mapping was published concurrently, reload and retry")
	ErrOutcomeProgramMixup = errors.New("outcome does not belong to the draft's program")
)

// Term errors
var (
	ErrTermNotFound = errors.New("term not found")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewValidationError creates a validation error with a field-level message.
// Validation failures never reach the repositories; they are raised before
// any database work happens.
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}
