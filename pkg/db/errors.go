package db

import (
	"strings"

	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
// When constraintName is set the violated constraint must match it.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if fault, ok := pkgerrors.DBFaultOf(err); ok {
		if fault.SQLState != uniqueViolationCode {
			return false
		}
		return constraintName == "" || fault.Constraint == constraintName
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	// sqlite reports uniqueness failures as plain text
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
