package service

import (
	"errors"
	"fmt"

	"go-office-inventory/pkg/validator"

	"gorm.io/gorm"
)

// Error kinds. Handlers map these to status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

var (
	ErrItemNotFound     = fmt.Errorf("item %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrDuplicateSKU        = fmt.Errorf("%w: an item with this SKU already exists", ErrConflict)
	ErrDuplicateCategory   = fmt.Errorf("%w: a category with this name already exists", ErrConflict)
	ErrDuplicateUsername   = fmt.Errorf("%w: this username is already taken", ErrConflict)
	ErrItemHasTransactions = fmt.Errorf("%w: item has transaction records and cannot be deleted", ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrUserInactive       = fmt.Errorf("%w: user account is inactive", ErrForbidden)
)

// validationError wraps ErrValidation with a readable message
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// validate runs struct tags and reports the first failing field
func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return validationError("field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	return nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKey(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
