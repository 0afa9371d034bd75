// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrBadToken indicates the access token could not be parsed as a JWT.
var ErrBadToken = errors.New("access token is not a parseable JWT")

// TokenClaims is the subset of access token claims the client reads
// for display. The token is NOT verified locally: the backend holds
// the signing key and remains the only authority. These values feed
// the status bar, nothing more.
type TokenClaims struct {
	UserID    int
	ExpiresAt time.Time
}

// ParseClaims extracts display claims from an access token without
// signature verification.
func ParseClaims(accessToken string) (TokenClaims, error) {
	var out TokenClaims
	if accessToken == "" {
		return out, ErrBadToken
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return out, ErrBadToken
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if v, ok := claims["user_id"]; ok {
		if f, ok := v.(float64); ok {
			out.UserID = int(f)
		}
	}
	return out, nil
}

// ExpiresIn returns the time remaining until expiry, clamped at zero.
func (c TokenClaims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt.IsZero() {
		return 0
	}
	d := c.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
