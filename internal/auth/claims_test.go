// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"exp":     exp.Unix(),
		"user_id": float64(7),
	})

	claims, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("ParseClaims failed: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestParseClaimsRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b"} {
		if _, err := ParseClaims(token); !errors.Is(err, ErrBadToken) {
			t.Errorf("ParseClaims(%q) err = %v, want ErrBadToken", token, err)
		}
	}
}

func TestExpiresIn(t *testing.T) {
	now := time.Now()

	c := TokenClaims{ExpiresAt: now.Add(10 * time.Minute)}
	if got := c.ExpiresIn(now); got != 10*time.Minute {
		t.Errorf("ExpiresIn = %v", got)
	}

	// Expired and missing claims clamp to zero.
	if got := (TokenClaims{ExpiresAt: now.Add(-time.Minute)}).ExpiresIn(now); got != 0 {
		t.Errorf("expired ExpiresIn = %v, want 0", got)
	}
	if got := (TokenClaims{}).ExpiresIn(now); got != 0 {
		t.Errorf("zero-claims ExpiresIn = %v, want 0", got)
	}
}
