// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps navigation targets to the screen to render.
//
// Resolution is a pure function of the requested route, the session
// state, and the loaded profile. It never performs I/O, so every
// navigation decision is cheap and testable.
//
// # Key Types
//
//   - Route: Navigation target (home, login, register, dashboard, contact)
//   - View: Screen the client should render
//   - Resolve: Total mapping from (route, authed, profile) to a View
//
// # Security
//
// The dashboard resolves by role. An unknown or unassigned role lands
// on the no-role screen, never on a privileged workspace; the server
// remains the actual authority on every operation.
//
// # Usage
//
//	view := router.Resolve(router.RouteDashboard, session.Authed, profile)
//	switch view {
//	case router.ViewAdmin:
//	    // user management workspace
//	case router.ViewEditor:
//	    // upload workspace
//	case router.ViewViewer:
//	    // chat workspace
//	}
package router
