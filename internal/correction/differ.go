// Package correction implements the correction differ: it decides whether a
// resubmission is unlocked by comparing current form state against the
// baseline snapshot, restricted to the server-flagged field set.
package correction

import (
	"strings"

	"github.com/Vantled/balikbayani-sub001/internal/form"
)

// fallbackReason is shown when the server's reason list is sparse.
const fallbackReason = "This field was flagged for correction"

// Differ gates the proceed action of a form session. Fields outside the
// flagged set are ignored even when changed; they are not editable in
// correction mode, so any such change is illegitimate by construction.
type Differ struct {
	enabled    bool
	flags      map[string]struct{}
	order      []string
	reasons    map[string]string
	composites map[string][]string
	baseline   *form.Snapshot
}

// New builds a differ. enabled is false outside correction mode, in which
// case HasChanges always reports true and submission is never blocked.
func New(enabled bool, flags []string, reasons map[string]string, composites map[string][]string) *Differ {
	d := &Differ{
		enabled:    enabled,
		flags:      make(map[string]struct{}, len(flags)),
		order:      append([]string(nil), flags...),
		reasons:    reasons,
		composites: composites,
	}
	for _, f := range flags {
		d.flags[f] = struct{}{}
	}
	return d
}

// Enabled reports whether the differ is in correction mode.
func (d *Differ) Enabled() bool {
	return d.enabled
}

// Flags returns the flagged keys in server order.
func (d *Differ) Flags() []string {
	return d.order
}

// Flagged reports whether a key is in the flagged set.
func (d *Differ) Flagged(key string) bool {
	_, ok := d.flags[key]
	return ok
}

// ReasonFor returns the server's rejection reason for a flagged key,
// falling back to a generic message for sparse entries.
func (d *Differ) ReasonFor(key string) string {
	if r, ok := d.reasons[key]; ok && r != "" {
		return r
	}
	return fallbackReason
}

// CaptureBaseline records the comparison baseline. It must be called only
// after all server data, including document binaries, has resolved.
func (d *Differ) CaptureBaseline(s *form.Snapshot) {
	d.baseline = s
}

// HasChanges reports whether the proceed action should be enabled.
// Outside correction mode it is always true. In correction mode with no
// captured baseline it is false: the fail-safe default blocks submission
// until the load chain completes.
func (d *Differ) HasChanges(st *form.State) bool {
	if !d.enabled {
		return true
	}
	if d.baseline == nil {
		return false
	}
	for _, key := range d.order {
		if parts, ok := d.composites[key]; ok {
			if st.JoinParts(parts) != d.baseline.JoinParts(parts) {
				return true
			}
			continue
		}
		if snap, ok := d.baseline.Slot(key); ok {
			if slotChanged(st.Slot(key), snap) {
				return true
			}
			continue
		}
		if cur, ok := st.Slots()[key]; ok {
			// Slot created after baseline capture: any content is a change.
			if !cur.Empty() {
				return true
			}
			continue
		}
		if strings.TrimSpace(st.Get(key)) != strings.TrimSpace(d.baseline.Get(key)) {
			return true
		}
	}
	return false
}

// NewAttachment reports whether the slot carries a file the user attached
// after the baseline was captured, as opposed to one reconstructed from a
// previously uploaded document during load.
func (d *Differ) NewAttachment(key string, slot *form.DocumentSlot) bool {
	if slot == nil || slot.File == nil {
		return false
	}
	if d.baseline == nil {
		return true
	}
	snap, ok := d.baseline.Slot(key)
	if !ok {
		return true
	}
	return slot.File != snap.File
}

// slotChanged compares a document slot against its snapshot: presence
// transition first, then attachment identity, then the name+size heuristic.
// Two different attachments can share name and size; the backend re-checks
// content on resubmission, so the heuristic stays best-effort here.
func slotChanged(cur *form.DocumentSlot, snap form.SlotSnapshot) bool {
	present := !cur.Empty()
	if present != snap.Present {
		return true
	}
	if !present {
		return false
	}
	if cur.File != nil {
		if snap.File == nil {
			return true // existing reference replaced by a new file
		}
		if cur.File == snap.File {
			return false
		}
		return cur.File.Name != snap.FileName || cur.File.Size() != snap.Size
	}
	if snap.File != nil {
		return true // attachment removed, reference remains
	}
	return cur.Existing.ID != snap.ExistingID
}
