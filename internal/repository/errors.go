package repository

import (
	"errors"

	"gorm.io/gorm"

	"clinic-records-server/internal/apperrors"
)

// translate maps GORM's translated driver errors onto the application
// error taxonomy so callers never depend on gorm error values.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Integrityf("duplicate value violates a unique constraint")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Integrityf("referenced entity does not exist")
	default:
		return err
	}
}
