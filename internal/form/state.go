// Package form holds the mutable state of one form session: field values,
// document slots and the immutable snapshot used as the correction baseline.
package form

import "strings"

// Attachment is a file attached by the user (or reconstructed from a
// previously uploaded document).
type Attachment struct {
	Name        string
	ContentType string
	Content     []byte
}

// Size returns the attachment size in bytes.
func (a *Attachment) Size() int64 {
	if a == nil {
		return 0
	}
	return int64(len(a.Content))
}

// DocumentRef points at a document already stored on the backend.
type DocumentRef struct {
	ID       string
	FileName string
}

// DocumentSlot is one named upload target. File and Existing may coexist
// transiently; a new file wins over the existing reference at submission.
type DocumentSlot struct {
	Key      string
	File     *Attachment
	Existing *DocumentRef
}

// Empty reports whether the slot holds neither a new file nor a reference.
func (s *DocumentSlot) Empty() bool {
	return s == nil || (s.File == nil && s.Existing == nil)
}

// FileName returns the effective file name, preferring a new attachment.
func (s *DocumentSlot) FileName() string {
	switch {
	case s == nil:
		return ""
	case s.File != nil:
		return s.File.Name
	case s.Existing != nil:
		return s.Existing.FileName
	}
	return ""
}

// State is the form state store. It is owned by a single session and is not
// safe for concurrent use; the session serializes access.
type State struct {
	values map[string]string
	slots  map[string]*DocumentSlot
}

func NewState() *State {
	return &State{
		values: make(map[string]string),
		slots:  make(map[string]*DocumentSlot),
	}
}

// Set stores a field value.
func (st *State) Set(key, value string) {
	st.values[key] = value
}

// Get returns the current value of a field, "" when unset.
func (st *State) Get(key string) string {
	return st.values[key]
}

// Values returns a copy of all field values.
func (st *State) Values() map[string]string {
	out := make(map[string]string, len(st.values))
	for k, v := range st.values {
		out[k] = v
	}
	return out
}

// Replace swaps in a whole new value set, dropping previous values.
func (st *State) Replace(values map[string]string) {
	st.values = make(map[string]string, len(values))
	for k, v := range values {
		st.values[k] = v
	}
}

// Merge copies values in without dropping existing ones. Used for the
// draft load-time shallow merge; existing non-empty values win.
func (st *State) Merge(values map[string]string) {
	for k, v := range values {
		if st.values[k] == "" {
			st.values[k] = v
		}
	}
}

// Slot returns the slot for a document key, creating it on first use.
func (st *State) Slot(key string) *DocumentSlot {
	if s, ok := st.slots[key]; ok {
		return s
	}
	s := &DocumentSlot{Key: key}
	st.slots[key] = s
	return s
}

// Attach sets a new file on a document slot.
func (st *State) Attach(key string, a *Attachment) {
	st.Slot(key).File = a
}

// ClearFile removes a newly attached file, keeping any existing reference.
func (st *State) ClearFile(key string) {
	if s, ok := st.slots[key]; ok {
		s.File = nil
	}
}

// SetExisting records a backend document reference for a slot.
func (st *State) SetExisting(key string, ref *DocumentRef) {
	st.Slot(key).Existing = ref
}

// Slots returns the slot map (live, not a copy).
func (st *State) Slots() map[string]*DocumentSlot {
	return st.slots
}

// JoinParts joins the trimmed values of the given part fields with single
// spaces, skipping empty parts. Used for composite-field comparison.
func (st *State) JoinParts(parts []string) string {
	vals := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(st.values[p]); v != "" {
			vals = append(vals, v)
		}
	}
	return strings.Join(vals, " ")
}

// SlotSnapshot is the captured baseline of one document slot. The File
// pointer is kept for identity comparison against later state.
type SlotSnapshot struct {
	Present    bool
	File       *Attachment
	ExistingID string
	FileName   string
	Size       int64
}

// Snapshot is an immutable copy of form state captured after server data
// finishes loading. It is never mutated afterwards.
type Snapshot struct {
	values map[string]string
	slots  map[string]SlotSnapshot
}

// Snapshot captures the current state as a correction baseline.
func (st *State) Snapshot() *Snapshot {
	snap := &Snapshot{
		values: make(map[string]string, len(st.values)),
		slots:  make(map[string]SlotSnapshot, len(st.slots)),
	}
	for k, v := range st.values {
		snap.values[k] = v
	}
	for k, s := range st.slots {
		ss := SlotSnapshot{Present: !s.Empty(), File: s.File, FileName: s.FileName()}
		if s.File != nil {
			ss.Size = s.File.Size()
		}
		if s.Existing != nil {
			ss.ExistingID = s.Existing.ID
		}
		snap.slots[k] = ss
	}
	return snap
}

// Get returns the snapshotted value of a field.
func (sn *Snapshot) Get(key string) string {
	return sn.values[key]
}

// Slot returns the snapshotted slot state and whether it was captured.
func (sn *Snapshot) Slot(key string) (SlotSnapshot, bool) {
	s, ok := sn.slots[key]
	return s, ok
}

// JoinParts mirrors State.JoinParts over the snapshotted values.
func (sn *Snapshot) JoinParts(parts []string) string {
	vals := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(sn.values[p]); v != "" {
			vals = append(vals, v)
		}
	}
	return strings.Join(vals, " ")
}
