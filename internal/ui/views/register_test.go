// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/docvault-tui/internal/auth"
	"github.com/jeranaias/docvault-tui/internal/ui/styles"
)

func TestRegisterSubmitRejectsMismatchedConfirmation(t *testing.T) {
	r := NewRegister(Deps{Theme: styles.NewTheme("dark")})
	r.username.SetValue("alice")
	r.email.SetValue("alice@example.com")
	r.password.SetValue("longenough")
	r.confirm.SetValue("different1")

	if cmd := r.submit(); cmd != nil {
		t.Fatal("mismatched confirmation must not fire the register command")
	}
	if !errors.Is(r.err, &auth.ValidationError{}) {
		t.Errorf("err = %v, want ValidationError", r.err)
	}
}

func TestRegisterViewHasConfirmField(t *testing.T) {
	r := NewRegister(Deps{Theme: styles.NewTheme("dark")})
	if out := r.View(); !strings.Contains(out, "Confirm password") {
		t.Errorf("confirmation field missing from render:\n%s", out)
	}
}
