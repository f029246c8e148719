package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique
// constraint violation. Optional hints (a constraint name, a
// table.column pair) narrow the match; the violation passes when any
// hint appears in the message. Substring checks keep the helper
// portable across the postgres and sqlite drivers.
func IsUniqueViolation(err error, hints ...string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !unique {
		return false
	}
	matched := true
	for _, hint := range hints {
		if hint == "" {
			continue
		}
		if strings.Contains(msg, hint) {
			return true
		}
		matched = false
	}
	return matched
}
