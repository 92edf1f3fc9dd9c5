package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vantled/balikbayani-sub001/internal/form"
)

var composites = map[string][]string{"name": {"first_name", "middle_name", "last_name"}}

func baseState() *form.State {
	st := form.NewState()
	st.Set("first_name", "Juan")
	st.Set("last_name", "Dela Cruz")
	st.Set("email", "a@x.com")
	st.Set("position", "Welder")
	st.Attach("document_passport", &form.Attachment{Name: "passport.pdf", Content: []byte("123")})
	return st
}

func TestCreateModeNeverBlocks(t *testing.T) {
	d := New(false, nil, nil, composites)
	assert.True(t, d.HasChanges(form.NewState()))
}

func TestFailSafeWithoutBaseline(t *testing.T) {
	d := New(true, []string{"email"}, nil, composites)
	st := baseState()
	st.Set("email", "changed@x.com")
	// No baseline captured yet: proceed must stay disabled.
	assert.False(t, d.HasChanges(st))
}

func TestScalarChangeDetected(t *testing.T) {
	st := baseState()
	d := New(true, []string{"email"}, nil, composites)
	d.CaptureBaseline(st.Snapshot())

	assert.False(t, d.HasChanges(st))
	st.Set("email", "b@x.com")
	assert.True(t, d.HasChanges(st))
}

func TestNonFlaggedChangeIgnored(t *testing.T) {
	st := baseState()
	d := New(true, []string{"email"}, nil, composites)
	d.CaptureBaseline(st.Snapshot())

	st.Set("position", "Mason")
	st.Set("first_name", "Pedro")
	assert.False(t, d.HasChanges(st), "changes outside the flagged set must never unlock proceed")
}

func TestCompositeNameComparison(t *testing.T) {
	st := baseState()
	d := New(true, []string{"name"}, nil, composites)
	d.CaptureBaseline(st.Snapshot())

	// Whitespace-only edits normalize away.
	st.Set("first_name", "  Juan ")
	assert.False(t, d.HasChanges(st))

	st.Set("middle_name", "Santos")
	assert.True(t, d.HasChanges(st))
}

func TestDocumentPresenceTransition(t *testing.T) {
	st := form.NewState()
	st.Slot("document_passport") // empty slot captured in baseline
	d := New(true, []string{"document_passport"}, nil, composites)
	d.CaptureBaseline(st.Snapshot())

	assert.False(t, d.HasChanges(st))
	st.Attach("document_passport", &form.Attachment{Name: "p.pdf", Content: []byte("x")})
	assert.True(t, d.HasChanges(st))
}

func TestDocumentIdentityAndHeuristic(t *testing.T) {
	st := baseState()
	d := New(true, []string{"document_passport"}, nil, composites)
	d.CaptureBaseline(st.Snapshot())

	// Same attachment object: unchanged.
	assert.False(t, d.HasChanges(st))

	// Different object, same name and size: the heuristic calls it equal.
	st.Attach("document_passport", &form.Attachment{Name: "passport.pdf", Content: []byte("456")})
	assert.False(t, d.HasChanges(st))

	// Different size breaks the heuristic.
	st.Attach("document_passport", &form.Attachment{Name: "passport.pdf", Content: []byte("4567")})
	assert.True(t, d.HasChanges(st))
}

func TestNewAttachment(t *testing.T) {
	st := baseState()
	d := New(true, []string{"document_passport"}, nil, composites)
	d.CaptureBaseline(st.Snapshot())

	assert.False(t, d.NewAttachment("document_passport", st.Slot("document_passport")))

	st.Attach("document_passport", &form.Attachment{Name: "renewed.pdf", Content: []byte("zz")})
	assert.True(t, d.NewAttachment("document_passport", st.Slot("document_passport")))
}

func TestReasonFallback(t *testing.T) {
	d := New(true, []string{"email", "position"}, map[string]string{"email": "Email does not match passport records"}, nil)
	assert.Equal(t, "Email does not match passport records", d.ReasonFor("email"))
	assert.Equal(t, "This field was flagged for correction", d.ReasonFor("position"))
}
