package controller

import (
	"strconv"
	"strings"

	"github.com/Vantled/balikbayani-sub001/internal/form"
	"github.com/Vantled/balikbayani-sub001/internal/schema"
)

// assembleCreateLocked builds the create-mode payload: every visible field
// plus every attached file. Numeric fields are parsed and re-stringified so
// the backend sees one canonical representation. Callers hold s.mu.
func (s *Session) assembleCreateLocked() (map[string]string, map[string]*form.Attachment) {
	fields := make(map[string]string)
	for i := range s.module.Fields {
		f := &s.module.Fields[i]
		if !schema.Visible(f, s.state.Get) {
			continue
		}
		fields[f.Key] = normalizeValue(f, s.state.Get(f.Key))
	}

	files := make(map[string]*form.Attachment)
	for key, slot := range s.state.Slots() {
		if slot.File != nil {
			files[key] = slot.File
		}
	}
	return fields, files
}

// assembleCorrectionLocked builds the correction-resolve payload: exactly
// the flagged keys, nothing else, so the backend never overwrites untouched
// fields. A flagged document contributes a file only when the user attached
// a new one; with no new files the request stays JSON. A stored USD-
// equivalent salary rides along only if its own key was flagged, so an
// untouched conversion is never recomputed against a drifted exchange rate.
func (s *Session) assembleCorrectionLocked() (map[string]string, map[string]*form.Attachment) {
	fields := make(map[string]string)
	files := make(map[string]*form.Attachment)

	for _, key := range s.differ.Flags() {
		if parts, ok := s.module.Composites[key]; ok {
			fields[key] = s.state.JoinParts(parts)
			continue
		}
		if s.module.Document(key) != nil {
			slot := s.state.Slots()[key]
			if s.differ.NewAttachment(key, slot) {
				files[key] = slot.File
			}
			continue
		}
		if f := s.module.Field(key); f != nil {
			fields[key] = normalizeValue(f, s.state.Get(key))
		}
	}
	return fields, files
}

// normalizeValue trims and canonicalizes one outbound field value.
func normalizeValue(f *schema.Field, v string) string {
	v = strings.TrimSpace(v)
	if f.Kind == schema.KindNumber && v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			v = strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	return v
}
