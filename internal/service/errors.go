package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the API envelope.
const (
	CodeInvalidID            = "INVALID_ID"
	CodeNotFound             = "NOT_FOUND"
	CodeTraceability         = "TRACEABILITY_ERROR"
	CodeRecallAssessment     = "RECALL_ASSESSMENT_ERROR"
	CodeRecallExecution      = "RECALL_EXECUTION_ERROR"
	CodeValidation           = "VALIDATION_ERROR"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeRunLocked            = "RUN_LOCKED"
	CodeInsufficientQuantity = "INSUFFICIENT_QUANTITY"
	CodeLotUnusable          = "LOT_UNUSABLE"
	CodeConflict             = "CONFLICT"
	CodeAlreadyRecalled      = "ALREADY_RECALLED"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInternal             = "INTERNAL_ERROR"
)

var (
	ErrInvalidID            = errors.New("identifier must be a positive integer")
	ErrLotNotFound          = errors.New("ingredient lot not found")
	ErrPalletNotFound       = errors.New("pallet not found")
	ErrRunNotFound          = errors.New("production run not found")
	ErrIngredientNotFound   = errors.New("ingredient not found")
	ErrSupplierNotFound     = errors.New("supplier not found")
	ErrRecipeNotFound       = errors.New("recipe not found")
	ErrInsufficientQuantity = errors.New("quantity exceeds lot remaining quantity")
	ErrLotUnusable          = errors.New("ingredient lot cannot be consumed")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrRunLocked            = errors.New("production run only accepts quality updates")
	ErrRunHasShippedPallets = errors.New("production run has shipped pallets")
	ErrRunNotOpen           = errors.New("production run is not accepting ingredients")
	ErrRunNotShippable      = errors.New("production run is not released for shipping")
	ErrRunNotPacking        = errors.New("production run cannot be palletized in its current status")
	ErrAlreadyRecalled      = errors.New("ingredient lot already recalled")
	ErrDuplicate            = errors.New("record already exists")
)

// AppError is an error carrying its HTTP envelope.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(status int, code, message string, err error) *AppError {
	return &AppError{Status: status, Code: code, Message: message, Err: err}
}

func invalidID(raw string) *AppError {
	e := newAppError(http.StatusBadRequest, CodeInvalidID, "Invalid identifier", ErrInvalidID)
	e.Details = map[string]interface{}{"id": raw}
	return e
}

func notFound(err error, id uint) *AppError {
	e := newAppError(http.StatusNotFound, CodeNotFound, capitalize(err.Error()), err)
	e.Details = map[string]interface{}{"id": id}
	return e
}

func validationError(message string, details map[string]interface{}) *AppError {
	e := newAppError(http.StatusBadRequest, CodeValidation, message, nil)
	e.Details = details
	return e
}

func conflict(code string, err error) *AppError {
	return newAppError(http.StatusConflict, code, capitalize(err.Error()), err)
}

// internalError hides the driver text from the caller; the cause stays in Err
// for logging.
func internalError(code, message string, err error) *AppError {
	return newAppError(http.StatusInternalServerError, code, message, err)
}

// AsAppError maps any service error onto an AppError.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return internalError(CodeInternal, "Internal Server Error", err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
