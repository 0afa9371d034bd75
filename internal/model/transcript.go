// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ANSWER STATE
// =============================================================================

// AnswerState tags the lifecycle of a transcript entry's answer.
// An entry is created Pending and moves exactly once to Resolved or
// Failed. There are no sentinel answer strings: the state is the tag.
type AnswerState int

const (
	// AnswerPending means the question has been sent and no reply has
	// arrived yet.
	AnswerPending AnswerState = iota
	// AnswerResolved means the backend returned an answer.
	AnswerResolved
	// AnswerFailed means the request errored. The entry keeps the error
	// and the question remains retryable.
	AnswerFailed
)

// String implements fmt.Stringer.
func (s AnswerState) String() string {
	switch s {
	case AnswerPending:
		return "pending"
	case AnswerResolved:
		return "resolved"
	case AnswerFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// TRANSCRIPT ENTRY
// =============================================================================

// Entry is a single question/answer exchange in a chat transcript.
type Entry struct {
	// ID uniquely identifies the entry within the client session.
	ID string

	// Question is the user's question text.
	Question string

	// State tags the answer lifecycle.
	State AnswerState

	// Answer holds the reply text. Meaningful only when State is
	// AnswerResolved.
	Answer string

	// Err holds the failure. Meaningful only when State is AnswerFailed.
	Err error

	// AskedAt is when the question was appended.
	AskedAt time.Time
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is an append-only sequence of chat entries. Entries are
// never removed or reordered; resolution mutates an entry in place,
// exactly once.
//
// Transcript is not safe for concurrent use. It is owned by a single
// UI loop; async results re-enter through that loop as messages.
type Transcript struct {
	entries []Entry
	byID    map[string]int
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		byID: make(map[string]int),
	}
}

// Append adds a pending entry for a question and returns its ID.
func (t *Transcript) Append(question string) string {
	id := "qa_" + uuid.NewString()
	t.byID[id] = len(t.entries)
	t.entries = append(t.entries, Entry{
		ID:       id,
		Question: question,
		State:    AnswerPending,
		AskedAt:  time.Now(),
	})
	return id
}

// Resolve records the answer for a pending entry. Resolving an unknown
// or already-settled entry is a no-op and returns false.
func (t *Transcript) Resolve(id, answer string) bool {
	i, ok := t.byID[id]
	if !ok || t.entries[i].State != AnswerPending {
		return false
	}
	t.entries[i].State = AnswerResolved
	t.entries[i].Answer = answer
	return true
}

// Fail records a failure for a pending entry. Failing an unknown or
// already-settled entry is a no-op and returns false.
func (t *Transcript) Fail(id string, err error) bool {
	i, ok := t.byID[id]
	if !ok || t.entries[i].State != AnswerPending {
		return false
	}
	t.entries[i].State = AnswerFailed
	t.entries[i].Err = err
	return true
}

// Entry returns a copy of the entry with the given ID.
func (t *Transcript) Entry(id string) (Entry, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of all entries in append order.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// PendingCount returns the number of entries still awaiting an answer.
func (t *Transcript) PendingCount() int {
	n := 0
	for _, e := range t.entries {
		if e.State == AnswerPending {
			n++
		}
	}
	return n
}

// HistoryExchange is a past question/answer pair from the backend's
// stored chat history.
type HistoryExchange struct {
	Question string `json:"user_question"`
	Answer   string `json:"bot_reply"`
}

// ReplaceFromHistory discards the current entries and seeds the
// transcript with resolved entries from stored history, oldest first.
func (t *Transcript) ReplaceFromHistory(history []HistoryExchange) {
	t.entries = t.entries[:0]
	t.byID = make(map[string]int)
	for _, h := range history {
		id := t.Append(h.Question)
		t.Resolve(id, h.Answer)
	}
}
