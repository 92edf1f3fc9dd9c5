// Package api is the typed client for the portal backend. Response bodies
// are decoded at this boundary into explicit result types; raw JSON is never
// trusted past it.
package api

import (
	"encoding/json"
	"fmt"
)

// Category classifies a backend failure for user-facing handling.
type Category string

const (
	CategoryValidation      Category = "validation"
	CategorySessionExpired  Category = "session_expired"
	CategoryDuplicate       Category = "duplicate"
	CategoryPayloadTooLarge Category = "payload_too_large"
	CategoryServer          Category = "server"
	CategoryNetwork         Category = "network"
)

// Error is a categorized backend failure.
type Error struct {
	Status   int
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (%d): %s", e.Category, e.Status, e.Message)
}

// categorize maps an HTTP status to a failure category.
func categorize(status int, message string) *Error {
	var cat Category
	switch {
	case status == 400:
		cat = CategoryValidation
	case status == 401:
		cat = CategorySessionExpired
	case status == 409:
		cat = CategoryDuplicate
	case status == 413:
		cat = CategoryPayloadTooLarge
	default:
		cat = CategoryServer
	}
	if message == "" {
		message = "request failed"
	}
	return &Error{Status: status, Category: cat, Message: message}
}

// envelope is the backend's duck-typed response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (e *envelope) failureMessage() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// Correction is one flagged field with its rejection reason. The reason
// list may be sparse.
type Correction struct {
	FieldKey string `json:"field_key"`
	Message  string `json:"message"`
}

// Document is a previously uploaded document's metadata.
type Document struct {
	ID           string
	DocumentType string
	FileName     string
	MimeType     string
	Meta         map[string]string
}

// documentWire matches the backend's document shape, where meta may arrive
// either as an object or as a JSON-encoded string.
type documentWire struct {
	ID           string          `json:"id"`
	DocumentType string          `json:"document_type"`
	FileName     string          `json:"file_name"`
	MimeType     string          `json:"mime_type"`
	Meta         json.RawMessage `json:"meta"`
}

func (w *documentWire) toDocument() Document {
	return Document{
		ID:           w.ID,
		DocumentType: w.DocumentType,
		FileName:     w.FileName,
		MimeType:     w.MimeType,
		Meta:         parseMeta(w.Meta),
	}
}

// parseMeta decodes document metadata, falling back to an empty map on any
// malformed input.
func parseMeta(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}
	var direct map[string]string
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct
	}
	// Meta stored as a JSON string needs a second decode pass.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		var nested map[string]string
		if err := json.Unmarshal([]byte(s), &nested); err == nil {
			return nested
		}
	}
	return map[string]string{}
}

// submitResult is the create-mode success payload.
type submitResult struct {
	ControlNumber string `json:"controlNumber"`
}
