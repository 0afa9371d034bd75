// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/docvault-tui/internal/model"
)

func TestUploadDocumentMultipart(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "handbook.pdf")
	if err := os.WriteFile(docPath, []byte("%PDF-1.4 test"), 0644); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/upload/" {
			t.Errorf("path = %s, want /api/users/upload/", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not multipart: %v", err)
		}
		if got := r.FormValue("file_caption"); got != "Employee handbook" {
			t.Errorf("file_caption = %q", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file part missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "handbook.pdf" {
			t.Errorf("filename = %q, want handbook.pdf", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != model.MIMEPDF {
			t.Errorf("part Content-Type = %q, want %q", ct, model.MIMEPDF)
		}
		body, _ := io.ReadAll(file)
		if string(body) != "%PDF-1.4 test" {
			t.Errorf("file body = %q", body)
		}

		json.NewEncoder(w).Encode(model.UploadedFile{
			ID:       3,
			FileName: "handbook.pdf",
			Caption:  "Employee handbook",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens{token: "tok"})
	uploaded, err := client.UploadDocument(context.Background(), docPath, "Employee handbook")
	if err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}
	if uploaded.ID != 3 {
		t.Errorf("ID = %d, want 3", uploaded.ID)
	}
}

func TestUploadDocumentRejectsUnknownType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh"), 0644); err != nil {
		t.Fatal(err)
	}

	client := NewClient("http://localhost:1", nil)
	if _, err := client.UploadDocument(context.Background(), path, "nope"); err == nil {
		t.Fatal("expected rejection for .sh upload")
	}
}

func TestPerformRAGPath(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	if err := client.PerformRAG(context.Background(), 42); err != nil {
		t.Fatalf("PerformRAG failed: %v", err)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %s, want GET", gotMethod)
	}
	if gotPath != "/api/genai/perform-rag/42/" {
		t.Errorf("path = %s", gotPath)
	}
}

func TestQueryRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID int    `json:"user_id"`
			Query  string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if req.UserID != 9 || req.Query != "what is the policy?" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"query": "what is the policy?", "answer": "See section 2."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	result, err := client.Query(context.Background(), 9, "what is the policy?")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if result.Answer != "See section 2." {
		t.Errorf("Answer = %q", result.Answer)
	}
}

func TestChatHistoryShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/genai/chat_history/4/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"user_question": "q1", "bot_reply": "a1"},
			{"user_question": "q2", "bot_reply": "a2"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	history, err := client.ChatHistory(context.Background(), 4)
	if err != nil {
		t.Fatalf("ChatHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len = %d, want 2", len(history))
	}
	if history[0].Question != "q1" || history[1].Answer != "a2" {
		t.Errorf("history = %+v", history)
	}
}
