package util

import (
	"database/sql"
)

// PtrToNullString converts an optional string to sql.NullString.
// nil and empty strings are stored as NULL.
func PtrToNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullStringToPtr converts sql.NullString back to an optional string.
func NullStringToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// BoolToInt maps a bool to the 0/1 flag stored in NUMBER(1) and SMALLINT columns.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
