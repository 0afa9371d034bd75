// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router resolves routes to views based on authentication
// state and role. Resolution is a pure function: same inputs, same
// view, no I/O.
package router

import (
	"github.com/jeranaias/docvault-tui/internal/model"
)

// Route is a navigation target requested by the user.
type Route int

const (
	// RouteHome is the landing page.
	RouteHome Route = iota
	// RouteLogin is the login form.
	RouteLogin
	// RouteRegister is the registration form.
	RouteRegister
	// RouteDashboard is the role-gated workspace.
	RouteDashboard
	// RouteContact is the static contact page.
	RouteContact
	// RouteNotFound is any unrecognized target.
	RouteNotFound
)

// String implements fmt.Stringer.
func (r Route) String() string {
	switch r {
	case RouteHome:
		return "home"
	case RouteLogin:
		return "login"
	case RouteRegister:
		return "register"
	case RouteDashboard:
		return "dashboard"
	case RouteContact:
		return "contact"
	default:
		return "not-found"
	}
}

// RouteFromName maps a route name (as typed in the nav bar or passed
// on the command line) to a Route. Unknown names map to RouteNotFound.
func RouteFromName(name string) Route {
	switch name {
	case "home", "":
		return RouteHome
	case "login":
		return RouteLogin
	case "register":
		return RouteRegister
	case "dashboard":
		return RouteDashboard
	case "contact":
		return RouteContact
	default:
		return RouteNotFound
	}
}

// View is the screen the client should render.
type View int

const (
	// ViewHome is the landing screen.
	ViewHome View = iota
	// ViewLogin is the login form.
	ViewLogin
	// ViewRegister is the registration form.
	ViewRegister
	// ViewAdmin is the user-management workspace (RoleAdmin).
	ViewAdmin
	// ViewEditor is the upload-and-process workspace (RoleEditor).
	ViewEditor
	// ViewViewer is the chat workspace (RoleViewer).
	ViewViewer
	// ViewNoRole tells an authenticated user that no role has been
	// assigned yet.
	ViewNoRole
	// ViewLoading is shown while an authenticated session's profile is
	// still being fetched.
	ViewLoading
	// ViewContact is the static contact screen.
	ViewContact
	// ViewNotFound is the unknown-route screen.
	ViewNotFound
)

// String implements fmt.Stringer.
func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewAdmin:
		return "admin"
	case ViewEditor:
		return "editor"
	case ViewViewer:
		return "viewer"
	case ViewNoRole:
		return "no-role"
	case ViewLoading:
		return "loading"
	case ViewContact:
		return "contact"
	case ViewNotFound:
		return "not-found"
	default:
		return "not-found"
	}
}

// Resolve maps a route to the view to render. It is total: every
// (route, authed, profile) combination resolves, including nil
// profiles and roles outside the known set.
//
//   - The dashboard requires authentication; without it the login view
//     is shown instead.
//   - An authenticated dashboard resolves by role. An unknown or
//     unassigned role lands on ViewNoRole, never on a privileged view.
//   - Login, register, and home are pointless with a live session and
//     bounce to the dashboard resolution.
func Resolve(route Route, authed bool, profile *model.UserProfile) View {
	switch route {
	case RouteHome:
		if authed {
			return resolveDashboard(profile)
		}
		return ViewHome

	case RouteContact:
		return ViewContact

	case RouteLogin, RouteRegister:
		if authed {
			return resolveDashboard(profile)
		}
		if route == RouteRegister {
			return ViewRegister
		}
		return ViewLogin

	case RouteDashboard:
		if !authed {
			return ViewLogin
		}
		return resolveDashboard(profile)

	case RouteNotFound:
		return ViewNotFound

	default:
		return ViewNotFound
	}
}

// resolveDashboard picks the workspace for an authenticated user.
// A nil profile means the fetch has not finished yet, which is a
// different situation from a loaded profile with no role.
func resolveDashboard(profile *model.UserProfile) View {
	if profile == nil {
		return ViewLoading
	}
	switch profile.Role() {
	case model.RoleAdmin:
		return ViewAdmin
	case model.RoleEditor:
		return ViewEditor
	case model.RoleViewer:
		return ViewViewer
	case model.RoleNone:
		return ViewNoRole
	default:
		return ViewNoRole
	}
}
