package persistence

import (
	"errors"

	"github.com/marketplace/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm errors onto domain errors. Other errors pass
// through untouched.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError("INVALID_REFERENCE", "Referenced resource does not exist")
	default:
		return err
	}
}

// deleteResult converts a Delete result into an error, reporting
// ErrNotFound when no row matched
func deleteResult(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// exists runs a COUNT on query and reports whether any row matched
func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
