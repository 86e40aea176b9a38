// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"regexp"
)

// streetNumberRegex matches a leading street number, including unit
// suffixes like "14A".
var streetNumberRegex = regexp.MustCompile(`^\d+\w*\s+`)

// StripStreetNumber removes a leading street number from an address line,
// e.g. "37 Gould Ave" becomes "Gould Ave" and "14A Main St" becomes
// "Main St". An empty input yields an empty string.
func StripStreetNumber(street string) string {
	if street == "" {
		return ""
	}
	return streetNumberRegex.ReplaceAllString(street, "")
}

// FormatBytes renders a byte count in a human-readable unit.
func FormatBytes(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.0f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
