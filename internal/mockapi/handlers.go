package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) getApplication(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[chi.URLParam(r, "appId")]
	if !ok {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	writeJSON(w, http.StatusOK, app.Fields)
}

func (s *Server) getCorrections(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[chi.URLParam(r, "appId")]
	if !ok {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	corrections := app.Corrections
	if corrections == nil {
		corrections = []Correction{}
	}
	writeJSON(w, http.StatusOK, corrections)
}

// documentOut mirrors the backend wire shape: meta travels as a JSON-encoded
// string, which clients must parse with an empty-object fallback.
type documentOut struct {
	ID           string `json:"id"`
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	MimeType     string `json:"mime_type"`
	Meta         string `json:"meta"`
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	appID := r.URL.Query().Get("applicationId")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []documentOut{}
	for _, d := range s.docs {
		if d.ApplicationID != appID {
			continue
		}
		meta := ""
		if len(d.Meta) > 0 {
			raw, err := json.Marshal(d.Meta)
			if err == nil {
				meta = string(raw)
			}
		}
		out = append(out, documentOut{
			ID:           d.ID,
			DocumentType: d.DocumentType,
			FileName:     d.FileName,
			MimeType:     d.MimeType,
			Meta:         meta,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) viewDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc, ok := s.docs[chi.URLParam(r, "docId")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, doc.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.Write(doc.Content)
}

func (s *Server) createApplication(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxBody {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}
	if err := r.ParseMultipartForm(s.maxBody); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}

	fields := map[string]string{}
	for k, vals := range r.MultipartForm.Value {
		if len(vals) > 0 {
			fields[k] = vals[0]
		}
	}
	appType := fields["application_type"]
	delete(fields, "application_type")
	if appType == "" {
		writeError(w, http.StatusBadRequest, "application_type is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// One pending application per applicant email.
	if email := fields["email"]; email != "" {
		for _, existing := range s.apps {
			if existing.Type == appType && existing.Fields["email"] == email {
				writeError(w, http.StatusConflict, "an application for this applicant is already on file")
				return
			}
		}
	}

	s.seq++
	app := &Application{
		ID:            newID(),
		Type:          appType,
		ControlNumber: controlNumber(appType, s.seq),
		Fields:        fields,
	}
	s.apps[app.ID] = app

	for key, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				continue
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				continue
			}
			id := newID()
			s.docs[id] = &StoredDocument{
				ID:            id,
				ApplicationID: app.ID,
				DocumentType:  key,
				FileName:      fh.Filename,
				MimeType:      fh.Header.Get("Content-Type"),
				Content:       content,
			}
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{"controlNumber": app.ControlNumber})
}

func (s *Server) resolveCorrections(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "appId")

	fields := map[string]string{}
	files := map[string]*StoredDocument{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(s.maxBody); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		for k, vals := range r.MultipartForm.Value {
			if len(vals) > 0 {
				fields[k] = vals[0]
			}
		}
		for key, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				f, err := fh.Open()
				if err != nil {
					continue
				}
				content, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					continue
				}
				files[key] = &StoredDocument{
					DocumentType: key,
					FileName:     fh.Filename,
					MimeType:     fh.Header.Get("Content-Type"),
					Content:      content,
				}
			}
		}
	} else {
		var req struct {
			Fields map[string]string `json:"fields"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, s.maxBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		fields = req.Fields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[appID]
	if !ok {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}

	flagged := map[string]bool{}
	for _, c := range app.Corrections {
		flagged[c.FieldKey] = true
	}

	keys := make([]string, 0, len(fields)+len(files))
	for k := range fields {
		keys = append(keys, k)
	}
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s.lastResolve = keys

	// The server must never let a resolve touch an unflagged field.
	for _, k := range keys {
		if !flagged[k] {
			writeError(w, http.StatusBadRequest, "field not flagged for correction: "+k)
			return
		}
	}

	for k, v := range fields {
		app.Fields[k] = v
	}
	for key, doc := range files {
		doc.ID = newID()
		doc.ApplicationID = app.ID
		for id, old := range s.docs {
			if old.ApplicationID == app.ID && old.DocumentType == key {
				delete(s.docs, id)
			}
		}
		s.docs[doc.ID] = doc
	}

	remaining := app.Corrections[:0]
	for _, c := range app.Corrections {
		touched := false
		for _, k := range keys {
			if c.FieldKey == k {
				touched = true
				break
			}
		}
		if !touched {
			remaining = append(remaining, c)
		}
	}
	app.Corrections = remaining

	writeJSON(w, http.StatusOK, map[string]bool{"resolved": true})
}

func newID() string {
	return uuid.New().String()
}

// controlNumber formats a human-facing tracking identifier, e.g.
// BB-DH-2026-000042.
func controlNumber(appType string, seq int) string {
	initials := ""
	for _, part := range strings.Split(appType, "_") {
		if part != "" {
			initials += strings.ToUpper(part[:1])
		}
	}
	return fmt.Sprintf("BB-%s-%d-%06d", initials, time.Now().UTC().Year(), seq)
}
