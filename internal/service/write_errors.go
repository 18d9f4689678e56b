package service

import (
	"errors"

	"go-bakery-trace/pkg/database"
	"go-bakery-trace/pkg/validator"
)

func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	return validationError(validator.FirstError(errs), map[string]interface{}{"fields": errs})
}

// storeError classifies a failed write. Constraint violations become client
// errors; anything else is an internal error with code.
func storeError(err error, code, message string) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case database.IsUniqueViolation(err):
		e := conflict(CodeConflict, ErrDuplicate)
		e.Details = map[string]interface{}{"constraint": database.ConstraintName(err)}
		return e
	case database.IsForeignKeyViolation(err):
		return validationError("Referenced record does not exist",
			map[string]interface{}{"constraint": database.ConstraintName(err)})
	}
	return internalError(code, message, err)
}
