// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jeranaias/docvault-tui/internal/model"
)

// =============================================================================
// ACCOUNT AND SESSION ENDPOINTS (/api/users/)
// =============================================================================

// TokenPair is the access/refresh token pair returned by login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// loginRequest is the body for the login endpoint.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerRequest is the body for the register endpoint.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// logoutRequest carries the refresh token for server-side revocation.
type logoutRequest struct {
	Refresh string `json:"refresh"`
}

// userInfoResponse wraps the profile payload.
type userInfoResponse struct {
	User model.UserProfile `json:"user"`
}

// allUsersResponse wraps the user listing payload.
type allUsersResponse struct {
	Users []model.UserProfile `json:"users"`
}

// roleUpdateRequest is the body for the role-change endpoint.
type roleUpdateRequest struct {
	RoleID int `json:"role_id"`
}

// Login exchanges credentials for a token pair. Credentials are not
// validated here; callers validate before reaching the network.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	err := c.doJSON(ctx, http.MethodPost, "/api/users/login/", loginRequest{
		Username: username,
		Password: password,
	}, &pair)
	return pair, err
}

// Register creates a new account. Registration does not log the
// account in; the caller follows up with Login.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/users/register/", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, nil)
}

// Logout asks the backend to revoke the refresh token. The access
// token authorizes the call itself.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/users/logout/", logoutRequest{
		Refresh: refreshToken,
	}, nil)
}

// UserInfo fetches the authenticated user's profile.
func (c *Client) UserInfo(ctx context.Context) (model.UserProfile, error) {
	var resp userInfoResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/users/info/", nil, &resp)
	return resp.User, err
}

// AllUsers lists every account. Admin only; non-admin sessions get
// ErrForbidden.
func (c *Client) AllUsers(ctx context.Context) ([]model.UserProfile, error) {
	var resp allUsersResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/users/allusers/", nil, &resp)
	return resp.Users, err
}

// UpdateUserRole changes a user's role assignment. Admin only.
func (c *Client) UpdateUserRole(ctx context.Context, userID int, role model.Role) (model.UserProfile, error) {
	var user model.UserProfile
	path := fmt.Sprintf("/api/users/%d/role/", userID)
	err := c.doJSON(ctx, http.MethodPut, path, roleUpdateRequest{RoleID: int(role)}, &user)
	return user, err
}
