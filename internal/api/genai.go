// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/jeranaias/docvault-tui/internal/model"
)

// =============================================================================
// DOCUMENT AND CHAT ENDPOINTS
// =============================================================================
//
// Upload and listing live under /api/users/; retrieval and chat live
// under /api/genai/.

// queryRequest is the body for the chat query endpoint.
type queryRequest struct {
	UserID int    `json:"user_id"`
	Query  string `json:"query"`
}

// QueryResult is the backend's reply to a chat query.
type QueryResult struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// UploadDocument posts a document with its caption as multipart form
// data. The MIME whitelist has already been enforced by the caller;
// the part's Content-Type still carries the document media type so the
// backend sees what was checked.
func (c *Client) UploadDocument(ctx context.Context, path, caption string) (model.UploadedFile, error) {
	var uploaded model.UploadedFile
	if c.baseURL == "" {
		return uploaded, ErrNotConfigured
	}

	mime, ok := model.DocumentMIME(path)
	if !ok {
		return uploaded, fmt.Errorf("unsupported document type: %s", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return uploaded, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	hdr.Set("Content-Type", mime)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return uploaded, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return uploaded, fmt.Errorf("failed to read document: %w", err)
	}
	if err := w.WriteField("file_caption", caption); err != nil {
		return uploaded, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return uploaded, fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/users/upload/", &buf)
	if err != nil {
		return uploaded, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, w.FormDataContentType())

	// Uploads are not retried: the form body is consumed and the
	// backend may have partially stored the document.
	resp, err := sharedHTTPClient.Do(req)
	req.Header.Del("Authorization")
	if err != nil {
		return uploaded, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readResponse(resp)
	if err != nil {
		return uploaded, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return uploaded, handleErrorResponse(resp.StatusCode, respBody)
	}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &uploaded); err != nil {
			return uploaded, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return uploaded, nil
}

// UploadedFiles lists all uploaded documents.
func (c *Client) UploadedFiles(ctx context.Context) ([]model.UploadedFile, error) {
	var files []model.UploadedFile
	err := c.doJSON(ctx, http.MethodGet, "/api/users/uploaded-files/", nil, &files)
	return files, err
}

// PerformRAG asks the backend to ingest a document into the retrieval
// index. The call returns once ingestion has been performed; the
// refreshed file listing reports the processed flag.
func (c *Client) PerformRAG(ctx context.Context, fileID int) error {
	path := fmt.Sprintf("/api/genai/perform-rag/%d/", fileID)
	return c.doJSON(ctx, http.MethodGet, path, nil, nil)
}

// Query sends a chat question against the processed documents.
func (c *Client) Query(ctx context.Context, userID int, query string) (QueryResult, error) {
	var result QueryResult
	err := c.doJSON(ctx, http.MethodPost, "/api/genai/query/", queryRequest{
		UserID: userID,
		Query:  query,
	}, &result)
	return result, err
}

// ChatHistory fetches the stored question/answer exchanges for a user,
// oldest first.
func (c *Client) ChatHistory(ctx context.Context, userID int) ([]model.HistoryExchange, error) {
	var history []model.HistoryExchange
	path := fmt.Sprintf("/api/genai/chat_history/%d/", userID)
	err := c.doJSON(ctx, http.MethodGet, path, nil, &history)
	return history, err
}
