// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"path/filepath"
	"strings"
)

// =============================================================================
// UPLOADED FILE TYPE
// =============================================================================

// UploadedFile is a document record from the backend's uploaded-files
// listing.
type UploadedFile struct {
	// ID is the backend primary key for the document.
	ID int `json:"id"`

	// FileName is the stored file name.
	FileName string `json:"file_name"`

	// Caption is the user-supplied description attached at upload time.
	Caption string `json:"file_caption"`

	// UploadedBy is the username of the uploader.
	UploadedBy string `json:"uploaded_by"`

	// Processed reports whether the document has been ingested into the
	// retrieval index and is available for querying.
	Processed bool `json:"raged"`
}

// StatusLabel returns the processing state as a short display string.
func (f *UploadedFile) StatusLabel() string {
	if f.Processed {
		return "Processed"
	}
	return "Pending"
}

// =============================================================================
// DOCUMENT TYPE WHITELIST
// =============================================================================

// Accepted document media types. The backend enforces the same set; the
// client checks first so a rejected file never leaves the machine.
const (
	MIMEPDF  = "application/pdf"
	MIMEDoc  = "application/msword"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// mimeByExtension maps accepted file extensions to their media type.
var mimeByExtension = map[string]string{
	".pdf":  MIMEPDF,
	".doc":  MIMEDoc,
	".docx": MIMEDocx,
}

// DocumentMIME returns the media type for an accepted document path.
// The second return is false when the extension is not in the accepted
// set.
func DocumentMIME(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := mimeByExtension[ext]
	return mime, ok
}

// AcceptedExtensions returns the accepted document extensions in a
// stable order, for error messages and picker filters.
func AcceptedExtensions() []string {
	return []string{".pdf", ".doc", ".docx"}
}
