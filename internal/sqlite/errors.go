package sqlite

import (
	"strings"

	"github.com/letzcode/letzcode-server/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// constraintError translates constraint failures into repository errors,
// returning nil when err is some other failure.
func constraintError(err error) error {
	switch {
	case isUniqueViolation(err):
		return repository.ErrDuplicate
	case isForeignKeyViolation(err):
		return repository.ErrForeignKeyViolation
	default:
		return nil
	}
}
