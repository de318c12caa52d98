package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 23505 is raised directly when the violated index is partial; gorm's
	// translation only covers plain unique constraints.
	return err != nil && strings.Contains(err.Error(), "23505")
}
