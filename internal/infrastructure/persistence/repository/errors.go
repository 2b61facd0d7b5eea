package repository

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
)

// mapConstraint turns unique and primary key violations into port.ErrDuplicate
func mapConstraint(err error, what string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%s: %w", what, port.ErrDuplicate)
		}
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}
