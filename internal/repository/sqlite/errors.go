package sqlite

import (
	"errors"
	"strings"

	sqlite3 "modernc.org/sqlite"
)

// SQLITE_CONSTRAINT_UNIQUE and SQLITE_CONSTRAINT_PRIMARYKEY extended codes.
const (
	codeConstraintUnique     = 2067
	codeConstraintPrimaryKey = 1555
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var se *sqlite3.Error
	if errors.As(err, &se) {
		return se.Code() == codeConstraintUnique || se.Code() == codeConstraintPrimaryKey
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
