// Package controller orchestrates one form session: loading server data,
// mutating form state, gating step navigation, and assembling the final
// submission. All methods are safe for the single-goroutine UI pattern the
// engine targets; async load continuations guard against a closed session.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Vantled/balikbayani-sub001/internal/api"
	"github.com/Vantled/balikbayani-sub001/internal/correction"
	"github.com/Vantled/balikbayani-sub001/internal/draft"
	"github.com/Vantled/balikbayani-sub001/internal/form"
	"github.com/Vantled/balikbayani-sub001/internal/schema"
	"github.com/Vantled/balikbayani-sub001/internal/validate"
)

var (
	// ErrNoChanges blocks a correction-mode session whose flagged fields
	// are still untouched.
	ErrNoChanges = errors.New("no corrections made yet")
	// ErrSessionExpired aborts submission on an unusable auth session.
	ErrSessionExpired = errors.New("session expired")
	// ErrFieldLocked rejects edits to fields outside the flagged set.
	ErrFieldLocked = errors.New("field is not editable in correction mode")
)

const defaultRedirectDelay = 2 * time.Second

// Backend is the slice of the portal API the session depends on.
// *api.Client implements it.
type Backend interface {
	GetApplication(ctx context.Context, id string) (map[string]string, error)
	GetCorrections(ctx context.Context, id string) ([]api.Correction, error)
	ListDocuments(ctx context.Context, applicationID, applicationType string) ([]api.Document, error)
	FetchDocument(ctx context.Context, id string) ([]byte, string, error)
	SubmitApplication(ctx context.Context, applicationType string, fields map[string]string, files map[string]*form.Attachment) (string, error)
	ResolveCorrections(ctx context.Context, id string, fields map[string]string, files map[string]*form.Attachment) error
	SessionValid(now time.Time) bool
}

// Options configure a session.
type Options struct {
	// ApplicationID selects edit/correction mode; empty means a new
	// application.
	ApplicationID string
	// Correction enables the correction-resolve flow.
	Correction bool
	// Redirect is scheduled RedirectDelay after a session-expiry so the
	// notification is visible first.
	Redirect      func()
	RedirectDelay time.Duration
	// Now anchors date validation; defaults to time.Now.
	Now func() time.Time
}

// Session is one form-filling session over a module schema.
type Session struct {
	module   *schema.Module
	backend  Backend
	drafts   *draft.Store
	notifier Notifier
	log      *logrus.Logger
	opts     Options

	mu     sync.Mutex
	state  *form.State
	nav    *form.Navigator
	differ *correction.Differ
	closed bool
}

// NewSession builds a session. drafts may be nil to disable persistence.
func NewSession(module *schema.Module, backend Backend, drafts *draft.Store, notifier Notifier, log *logrus.Logger, opts Options) *Session {
	if opts.RedirectDelay == 0 {
		opts.RedirectDelay = defaultRedirectDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		module:   module,
		backend:  backend,
		drafts:   drafts,
		notifier: notifier,
		log:      log,
		opts:     opts,
		state:    form.NewState(),
		nav:      form.NewNavigator(),
		differ:   correction.New(false, nil, nil, module.Composites),
	}
}

// Load populates the session. For a new application it merges any saved
// draft; for an existing one it runs the load chain: application →
// corrections → document list → concurrent binary fetches → baseline
// snapshot. Preparatory failures degrade silently so the form stays usable.
func (s *Session) Load(ctx context.Context) error {
	if s.opts.ApplicationID == "" {
		s.loadDraft()
		return nil
	}

	fields, err := s.backend.GetApplication(ctx, s.opts.ApplicationID)
	if err != nil {
		s.log.WithError(err).Warn("load application failed, starting empty")
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.state.Replace(fields)
	s.mu.Unlock()

	if s.opts.Correction {
		flags := []string{}
		reasons := map[string]string{}
		corrections, err := s.backend.GetCorrections(ctx, s.opts.ApplicationID)
		if err != nil {
			s.log.WithError(err).Warn("load corrections failed, treating none as flagged")
		}
		for _, c := range corrections {
			flags = append(flags, c.FieldKey)
			if c.Message != "" {
				reasons[c.FieldKey] = c.Message
			}
		}
		s.mu.Lock()
		s.differ = correction.New(true, flags, reasons, s.module.Composites)
		s.mu.Unlock()
	}

	s.loadDocuments(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.opts.Correction {
		// The baseline is valid only once every attachment has resolved.
		s.differ.CaptureBaseline(s.state.Snapshot())
	}
	return nil
}

// loadDocuments matches stored documents to the module's slots, merges their
// metadata, and fetches binaries concurrently. A slot whose fetch fails
// resolves to "attachment absent" instead of blocking the join.
func (s *Session) loadDocuments(ctx context.Context) {
	docs, err := s.backend.ListDocuments(ctx, s.opts.ApplicationID, s.module.Key)
	if err != nil {
		s.log.WithError(err).Warn("load documents failed, slots left empty")
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, doc := range docs {
		spec := s.module.Document(doc.DocumentType)
		if spec == nil {
			continue
		}
		doc := doc
		key := spec.Key

		s.mu.Lock()
		s.state.SetExisting(key, &form.DocumentRef{ID: doc.ID, FileName: doc.FileName})
		for metaKey, metaVal := range doc.Meta {
			if s.module.Field(metaKey) != nil && s.state.Get(metaKey) == "" {
				s.state.Set(metaKey, metaVal)
			}
		}
		s.mu.Unlock()

		g.Go(func() error {
			content, contentType, err := s.backend.FetchDocument(gctx, doc.ID)
			if err != nil {
				s.log.WithError(err).WithField("document", key).Warn("document fetch failed")
				return nil
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed {
				return nil
			}
			s.state.Attach(key, &form.Attachment{
				Name:        doc.FileName,
				ContentType: contentType,
				Content:     content,
			})
			return nil
		})
	}
	g.Wait()
}

// loadDraft shallow-merges a saved draft into the empty state. Missing or
// corrupt drafts are ignored.
func (s *Session) loadDraft() {
	if s.drafts == nil {
		return
	}
	p, err := s.drafts.Load(s.module.DraftKey)
	if err != nil {
		s.log.WithError(err).Warn("draft load failed")
		return
	}
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Merge(p.FormState)
	s.nav.Restore(schema.Step(p.Step))
}

// Editable reports whether a field may be changed. Outside correction mode
// every field is editable; inside it, only flagged keys and the parts of
// flagged composites.
func (s *Session) Editable(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editableLocked(key)
}

func (s *Session) editableLocked(key string) bool {
	if !s.differ.Enabled() {
		return true
	}
	if s.differ.Flagged(key) {
		return true
	}
	for composite, parts := range s.module.Composites {
		if !s.differ.Flagged(composite) {
			continue
		}
		for _, p := range parts {
			if p == key {
				return true
			}
		}
	}
	return false
}

// SetField stores a field value, applying entry-time coercion (phone
// normalization, date clamping) per the field's rules.
func (s *Session) SetField(key, value string) error {
	s.mu.Lock()
	if !s.editableLocked(key) {
		s.mu.Unlock()
		return ErrFieldLocked
	}
	for _, r := range s.module.RulesForField(key) {
		switch r.Kind {
		case schema.RuleMobile:
			value = form.NormalizePhone(value)
		case schema.RuleNotFuture, schema.RuleMinHorizon:
			value = s.clampDate(r, value)
		}
	}
	s.state.Set(key, value)
	s.mu.Unlock()
	s.saveDraft()
	return nil
}

// clampDate keeps typed dates inside the rule's allowed range.
func (s *Session) clampDate(r schema.Rule, value string) string {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	now := s.opts.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch r.Kind {
	case schema.RuleNotFuture:
		if d.After(today) {
			return today.Format("2006-01-02")
		}
	case schema.RuleMinHorizon:
		min := today.AddDate(0, r.HorizonMonths, r.HorizonDays)
		if d.Before(min) {
			return min.Format("2006-01-02")
		}
	}
	return value
}

// AttachFile sets a new file on a document slot.
func (s *Session) AttachFile(key, name, contentType string, content []byte) error {
	s.mu.Lock()
	if !s.editableLocked(key) {
		s.mu.Unlock()
		return ErrFieldLocked
	}
	s.state.Attach(key, &form.Attachment{Name: name, ContentType: contentType, Content: content})
	s.mu.Unlock()
	s.saveDraft()
	return nil
}

// RemoveFile clears a newly attached file from a slot.
func (s *Session) RemoveFile(key string) error {
	s.mu.Lock()
	if !s.editableLocked(key) {
		s.mu.Unlock()
		return ErrFieldLocked
	}
	s.state.ClearFile(key)
	s.mu.Unlock()
	s.saveDraft()
	return nil
}

// Value returns the current value of a field.
func (s *Session) Value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Get(key)
}

// SlotFileName returns the effective file name of a document slot.
func (s *Session) SlotFileName(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Slots()[key].FileName()
}

// Reason returns the rejection reason for a flagged field.
func (s *Session) Reason(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.differ.ReasonFor(key)
}

// Step returns the active step.
func (s *Session) Step() schema.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Current()
}

// CanProceed reports whether the proceed/submit action is unlocked. It is
// recomputed from current state on every call; there is no cached result to
// go stale.
func (s *Session) CanProceed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.differ.HasChanges(s.state)
}

// Next advances to the following step, re-validating every step up to the
// current one. On a validation failure the navigator lands on the first
// failing step and the summary is surfaced through the notifier.
func (s *Session) Next() (schema.Step, validate.ErrorMap, error) {
	now := s.opts.Now()

	s.mu.Lock()
	if s.nav.Current() == schema.StepDocuments && !s.differ.HasChanges(s.state) {
		s.mu.Unlock()
		s.notifier.Notify(KindWarning, "No changes detected", "Edit the flagged fields before proceeding")
		return schema.StepDocuments, nil, ErrNoChanges
	}
	step, err := s.nav.Next(func(st schema.Step) map[string]string {
		return validate.Step(s.module, st, s.state, now)
	})
	if err != nil {
		errs := validate.ErrorMap(s.nav.Errors())
		s.mu.Unlock()
		s.notifier.Notify(KindError, "Incomplete information", validate.Summary(s.module, step, errs))
		return step, errs, form.ErrStepBlocked
	}
	s.mu.Unlock()

	s.saveDraft()
	return step, nil, nil
}

// Back moves to the previous step unconditionally.
func (s *Session) Back() schema.Step {
	s.mu.Lock()
	step := s.nav.Back()
	s.mu.Unlock()
	s.saveDraft()
	return step
}

// Submit performs the terminal action of the review step. It checks session
// validity, assembles the mode-appropriate payload, and maps backend
// failures to user-facing notifications. On success the draft is cleared
// and the control number returned (the application ID in correction mode).
func (s *Session) Submit(ctx context.Context) (string, error) {
	if !s.backend.SessionValid(s.opts.Now()) {
		s.notifier.Notify(KindError, "Session expired", "Please log in again to continue")
		s.scheduleRedirect()
		return "", ErrSessionExpired
	}

	s.mu.Lock()
	correctionMode := s.differ.Enabled()
	if correctionMode && !s.differ.HasChanges(s.state) {
		s.mu.Unlock()
		return "", ErrNoChanges
	}
	var fields map[string]string
	var files map[string]*form.Attachment
	if correctionMode {
		fields, files = s.assembleCorrectionLocked()
	} else {
		fields, files = s.assembleCreateLocked()
	}
	s.mu.Unlock()

	if correctionMode {
		if err := s.backend.ResolveCorrections(ctx, s.opts.ApplicationID, fields, files); err != nil {
			s.reportSubmitError(err)
			return "", err
		}
		s.notifier.Notify(KindSuccess, "Corrections submitted", "Your application is back in review")
		return s.opts.ApplicationID, nil
	}

	controlNumber, err := s.backend.SubmitApplication(ctx, s.module.Key, fields, files)
	if err != nil {
		s.reportSubmitError(err)
		return "", err
	}
	s.clearDraft()
	s.notifier.Notify(KindSuccess, "Application submitted", "Control number: "+controlNumber)
	return controlNumber, nil
}

// Close marks the session torn down; pending load continuations discard
// their results instead of mutating dead state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) reportSubmitError(err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		s.log.WithError(err).Error("submission failed")
		s.notifier.Notify(KindError, "Submission failed", "Please try again later")
		return
	}
	s.log.WithError(apiErr).Error("submission failed")
	switch apiErr.Category {
	case api.CategoryDuplicate:
		s.notifier.Notify(KindError, "Application already on file", "Track its status instead of re-applying")
	case api.CategoryValidation:
		s.notifier.Notify(KindError, "Submission rejected", apiErr.Message)
	case api.CategorySessionExpired:
		s.notifier.Notify(KindError, "Session expired", "Please log in again to continue")
		s.scheduleRedirect()
	case api.CategoryPayloadTooLarge:
		s.notifier.Notify(KindError, "Attachments too large", "Reduce file sizes and try again")
	default:
		s.notifier.Notify(KindError, "Server error", "Please try again later")
	}
}

// scheduleRedirect fires the login redirect after a short delay so the
// expiry notification is visible first.
func (s *Session) scheduleRedirect() {
	if s.opts.Redirect == nil {
		return
	}
	time.AfterFunc(s.opts.RedirectDelay, s.opts.Redirect)
}

// saveDraft persists the draft in create mode. Best-effort: failures are
// logged and swallowed.
func (s *Session) saveDraft() {
	if s.drafts == nil || s.opts.ApplicationID != "" {
		return
	}
	s.mu.Lock()
	payload := &draft.Payload{
		FormState: s.state.Values(),
		DocMeta:   map[string]draft.DocMeta{},
		Step:      string(s.nav.Current()),
	}
	for key, slot := range s.state.Slots() {
		if slot.Empty() {
			continue
		}
		meta := draft.DocMeta{FileName: slot.FileName()}
		if slot.File != nil {
			meta.Size = slot.File.Size()
		}
		if slot.Existing != nil {
			meta.DocumentID = slot.Existing.ID
		}
		payload.DocMeta[key] = meta
	}
	s.mu.Unlock()

	if err := s.drafts.Save(s.module.DraftKey, payload); err != nil {
		s.log.WithError(err).Warn("draft save failed")
	}
}

// clearDraft removes the persisted draft after a successful submission.
func (s *Session) clearDraft() {
	if s.drafts == nil || s.opts.ApplicationID != "" {
		return
	}
	if err := s.drafts.Clear(s.module.DraftKey); err != nil {
		s.log.WithError(err).Warn("draft clear failed")
	}
}
