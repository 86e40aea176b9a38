// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"strconv"
	"strings"
)

// NullStringFromValue creates a sql.NullString from a string value.
// Trims whitespace first; an empty or whitespace-only string collapses to
// an invalid (absent) NullString.
func NullStringFromValue(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// ParseNullInt64 parses a string into sql.NullInt64.
// Empty input or a parse failure yields an invalid (absent) value rather
// than an error.
func ParseNullInt64(s string) sql.NullInt64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullInt64{}
	}
	if val, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sql.NullInt64{Int64: val, Valid: true}
	}
	return sql.NullInt64{}
}

// ParseNullFloat64 parses a string into sql.NullFloat64.
// Empty input or a parse failure yields an invalid (absent) value.
func ParseNullFloat64(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullFloat64{}
	}
	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return sql.NullFloat64{Float64: val, Valid: true}
	}
	return sql.NullFloat64{}
}

// StringFromNull returns the string value or "" when absent.
func StringFromNull(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// Int64PtrFromNull returns a pointer to the value or nil when absent.
// Used when shaping JSON responses where null must be distinguishable
// from zero.
func Int64PtrFromNull(ni sql.NullInt64) *int64 {
	if ni.Valid {
		v := ni.Int64
		return &v
	}
	return nil
}

// Float64PtrFromNull returns a pointer to the value or nil when absent.
func Float64PtrFromNull(nf sql.NullFloat64) *float64 {
	if nf.Valid {
		v := nf.Float64
		return &v
	}
	return nil
}

// StringPtrFromNull returns a pointer to the string or nil when absent.
func StringPtrFromNull(ns sql.NullString) *string {
	if ns.Valid {
		v := ns.String
		return &v
	}
	return nil
}
