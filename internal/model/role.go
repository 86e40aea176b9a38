// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including House, Image, PropertyStory, and Profile structures.
package model

// User roles, ordered from lowest to highest privilege.
const (
	RoleSuperuser  = "superuser"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// ValidRoles contains all assignable user roles.
var ValidRoles = []string{RoleSuperuser, RoleAdmin, RoleSuperAdmin}

// roleLevels maps each role to its numeric privilege level.
// An unknown or empty role maps to 0 and meets no minimum.
var roleLevels = map[string]int{
	RoleSuperuser:  1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// RoleLevel returns the numeric privilege level for a role.
func RoleLevel(role string) int {
	return roleLevels[role]
}

// IsValidRole reports whether role is one of the assignable roles.
func IsValidRole(role string) bool {
	_, ok := roleLevels[role]
	return ok
}

// MeetsMinimum reports whether role has at least the privilege level of
// minimum. Every role-gated operation must route through this check.
func MeetsMinimum(role, minimum string) bool {
	min, ok := roleLevels[minimum]
	if !ok {
		// An unknown minimum cannot be met; fail closed.
		return false
	}
	return RoleLevel(role) >= min
}

// AssignableRoles returns the roles a caller may grant to another account.
// Admins may only grant superuser; super admins may grant up to admin.
// Nobody may grant super_admin through the management actions.
func AssignableRoles(callerRole string) []string {
	switch callerRole {
	case RoleSuperAdmin:
		return []string{RoleSuperuser, RoleAdmin}
	case RoleAdmin:
		return []string{RoleSuperuser}
	default:
		return nil
	}
}

// CanAssignRole reports whether a caller with callerRole may grant target.
func CanAssignRole(callerRole, target string) bool {
	for _, r := range AssignableRoles(callerRole) {
		if r == target {
			return true
		}
	}
	return false
}
