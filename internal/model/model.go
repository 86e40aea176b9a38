// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// House lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// Story lifecycle statuses. Stories share "pending" with houses.
const (
	StoryStatusApproved = "approved"
)

// Notification frequencies for moderator profiles.
const (
	FrequencyInstant = "instant"
	FrequencyDaily   = "daily"
	FrequencyNone    = "none"
)

// ValidFrequencies contains all accepted notification frequencies.
var ValidFrequencies = []string{FrequencyInstant, FrequencyDaily, FrequencyNone}

// UI themes.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// ValidThemes contains all accepted theme values.
var ValidThemes = []string{ThemeLight, ThemeDark, ThemeSystem}

// House conditions offered on the submission form. Stored free-form; this
// list is what the API reports for form rendering.
var HouseConditions = []string{"Original", "Renovated", "At Risk", "Demolished"}

// IsValidFrequency reports whether f is an accepted notification frequency.
func IsValidFrequency(f string) bool {
	for _, v := range ValidFrequencies {
		if v == f {
			return true
		}
	}
	return false
}

// IsValidTheme reports whether t is an accepted theme value.
func IsValidTheme(t string) bool {
	for _, v := range ValidThemes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValidHouseStatus reports whether s is a house lifecycle status.
func IsValidHouseStatus(s string) bool {
	return s == StatusPending || s == StatusPublished || s == StatusRejected
}
