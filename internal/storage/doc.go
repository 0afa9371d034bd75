// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for the docvault client.
//
// This package handles the encrypted session token file and the
// SQLite-backed activity journal.
//
// # Key Types
//
//   - TokenStore: Encrypted at-rest storage for the session token pair
//   - Journal: Append-only local log of client activity
//
// # Usage
//
// Open the token store and check for a session:
//
//	store, err := storage.NewTokenStore(dir)
//	if store.HasTokens() { ... }
//
// Record activity:
//
//	journal.Record(ctx, storage.EventLogin, "alice", true)
//
// # Storage Location
//
// Both files live under ~/.docvault/. The token file is written with
// mode 0600 and AES-256-GCM encryption.
package storage
