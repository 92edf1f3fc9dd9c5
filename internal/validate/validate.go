// Package validate implements the schema-driven field validator. Validation
// is a pure function from form state to a field→message error map; callers
// decide how to surface the result.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Vantled/balikbayani-sub001/internal/form"
	"github.com/Vantled/balikbayani-sub001/internal/schema"
)

// ErrorMap maps a field key to a human-readable validation message.
type ErrorMap map[string]string

const dateLayout = "2006-01-02"

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)

// Step validates one step of a module against current state. now anchors the
// date-horizon rules; callers pass time.Now() outside tests.
func Step(m *schema.Module, step schema.Step, st *form.State, now time.Time) ErrorMap {
	errs := ErrorMap{}

	for _, f := range m.StepFields(step) {
		if !schema.Visible(&f, st.Get) {
			continue
		}
		if f.Required && strings.TrimSpace(st.Get(f.Key)) == "" {
			errs[f.Key] = f.Label + " is required"
		}
	}

	// Required document slots are part of the documents step.
	if step == schema.StepDocuments {
		for _, d := range m.Documents {
			if d.Required && st.Slot(d.Key).Empty() {
				errs[d.Key] = d.Label + " is required"
			}
		}
	}

	for _, r := range m.Rules {
		f := m.Field(r.Field)
		if f == nil || f.Step != step || !schema.Visible(f, st.Get) {
			continue
		}
		if _, seen := errs[r.Field]; seen {
			continue
		}
		if msg := apply(m, r, f, st, now); msg != "" {
			errs[r.Field] = msg
		}
	}

	return errs
}

func apply(m *schema.Module, r schema.Rule, f *schema.Field, st *form.State, now time.Time) string {
	value := strings.TrimSpace(st.Get(r.Field))

	switch r.Kind {
	case schema.RuleRequiredWithDocument:
		// Implication: the metadata is required only while the slot is filled.
		if !st.Slot(r.DependsOn).Empty() && value == "" {
			return f.Label + " is required for the attached document"
		}
		return ""
	case schema.RuleEmail:
		if value != "" && !emailRE.MatchString(value) {
			return "Enter a valid email address"
		}
		return ""
	case schema.RuleMobile:
		if value != "" && !form.ValidMobile(value) {
			return "Mobile number must be 11 digits starting with 09"
		}
		return ""
	case schema.RulePositiveAmount:
		if value == "" {
			return ""
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n <= 0 {
			return f.Label + " must be greater than zero"
		}
		return ""
	case schema.RuleMinHorizon, schema.RuleNotFuture:
		// Date rules tied to a document slot only fire while the slot is filled.
		if r.DependsOn != "" && st.Slot(r.DependsOn).Empty() {
			return ""
		}
		if value == "" {
			return ""
		}
		d, err := time.Parse(dateLayout, value)
		if err != nil {
			return f.Label + " must be a valid date"
		}
		today := truncateDay(now)
		if r.Kind == schema.RuleNotFuture {
			if d.After(today) {
				return f.Label + " cannot be in the future"
			}
			return ""
		}
		min := today.AddDate(0, r.HorizonMonths, r.HorizonDays)
		if d.Before(min) {
			return fmt.Sprintf("%s must be on or after %s", f.Label, min.Format(dateLayout))
		}
		return ""
	}
	return ""
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Summary picks one representative message for a toast-style notification,
// in schema order so the first offending field wins.
func Summary(m *schema.Module, step schema.Step, errs ErrorMap) string {
	if len(errs) == 0 {
		return ""
	}
	for _, f := range m.StepFields(step) {
		if msg, ok := errs[f.Key]; ok {
			return msg
		}
	}
	for _, d := range m.Documents {
		if msg, ok := errs[d.Key]; ok {
			return msg
		}
	}
	for _, msg := range errs {
		return msg
	}
	return ""
}
