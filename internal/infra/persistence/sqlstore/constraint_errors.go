package sqlstore

import (
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"tasktracker/internal/errors"
)

// Helper functions for constraint error checking. Dialectors with TranslateError
// enabled report gorm sentinel errors; raw driver errors are checked as a fallback.

func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return hasPgCode(err, pgerrcode.UniqueViolation) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	return hasPgCode(err, pgerrcode.ForeignKeyViolation) ||
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isNotNullConstraintViolation(err error) bool {
	return hasPgCode(err, pgerrcode.NotNullViolation) ||
		strings.Contains(err.Error(), "NOT NULL constraint failed")
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == code
}
