package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/pnaas/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// wrapWriteError maps constraint failures onto repository sentinels.
func wrapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("failed to %s: %w", op, repository.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("failed to %s: %w", op, repository.ErrForeignKeyViolation)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
