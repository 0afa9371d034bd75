// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, documents, and chat.
//
// This package defines the core domain types used throughout the application
// for representing server-side accounts, uploaded documents, and question
// transcripts.
//
// # Key Types
//
//   - UserProfile: Account identity with a server-assigned role
//   - Role: Closed role enumeration (admin, editor, viewer, none)
//   - UploadedFile: Uploaded document with processing status
//   - Transcript: Ordered question/answer log with pending entries
//   - Entry: Single transcript entry with a tagged answer state
//
// # Usage
//
// Resolve a profile's role for display:
//
//	name := profile.Role().DisplayName()
//
// Track a question through its lifecycle:
//
//	id := transcript.Append("What is the leave policy?")
//	transcript.Resolve(id, answer)
package model
