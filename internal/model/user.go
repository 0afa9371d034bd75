// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, documents, and
// chat transcripts.
package model

import "fmt"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies the access level assigned to a user account.
// The backend encodes roles as small integers; everything outside the
// known set collapses to RoleNone so that an unexpected value can never
// unlock a privileged view.
type Role int

const (
	// RoleNone is the zero value: no role has been assigned yet.
	RoleNone Role = 0
	// RoleAdmin can manage users and change role assignments.
	RoleAdmin Role = 1
	// RoleEditor can upload documents and trigger processing.
	RoleEditor Role = 2
	// RoleViewer can query documents and read chat history.
	RoleViewer Role = 3
)

// RoleFromID maps a backend role identifier to a Role.
// Unknown identifiers map to RoleNone.
func RoleFromID(id int) Role {
	switch id {
	case 1:
		return RoleAdmin
	case 2:
		return RoleEditor
	case 3:
		return RoleViewer
	default:
		return RoleNone
	}
}

// DisplayName returns a human-readable role name for UI display.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleEditor:
		return "Editor"
	case RoleViewer:
		return "Viewer"
	case RoleNone:
		return "No Role Assigned"
	default:
		return "No Role Assigned"
	}
}

// Valid reports whether the role is one of the assigned roles.
// RoleNone is a legal state for an account but not a valid assignment
// target for the role-change operation.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return fmt.Sprintf("%s (%d)", r.DisplayName(), int(r))
}

// =============================================================================
// USER PROFILE TYPE
// =============================================================================

// UserProfile is the authenticated user's account record as returned by
// the backend.
type UserProfile struct {
	// ID is the backend primary key for the account.
	ID int `json:"id"`

	// Username is the login name.
	Username string `json:"username"`

	// Email is the registered email address.
	Email string `json:"email"`

	// RoleID is the raw role identifier from the backend.
	// Use Role() for the decoded value.
	RoleID int `json:"role_id"`
}

// Role decodes the profile's role identifier.
func (u *UserProfile) Role() Role {
	return RoleFromID(u.RoleID)
}
