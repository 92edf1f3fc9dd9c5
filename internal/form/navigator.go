package form

import (
	"errors"

	"github.com/Vantled/balikbayani-sub001/internal/schema"
)

// ErrStepBlocked is returned when a forward transition fails its guard.
var ErrStepBlocked = errors.New("step blocked by validation")

// StepGuard validates one step and returns field errors, empty when clean.
type StepGuard func(step schema.Step) map[string]string

// forward lists every allowed forward transition. Review is terminal; the
// submit action is not a navigation.
var forward = map[schema.Step]schema.Step{
	schema.StepInfo:      schema.StepDocuments,
	schema.StepDocuments: schema.StepReview,
}

// backward transitions are unconditional.
var backward = map[schema.Step]schema.Step{
	schema.StepDocuments: schema.StepInfo,
	schema.StepReview:    schema.StepDocuments,
}

// Navigator is the linear step state machine of one form session. Forward
// transitions re-validate every step up to and including the current one and
// route back to the first step that fails.
type Navigator struct {
	current schema.Step
	errs    map[string]string
}

func NewNavigator() *Navigator {
	return &Navigator{current: schema.StepInfo}
}

// Current returns the active step.
func (n *Navigator) Current() schema.Step {
	return n.current
}

// Errors returns the field errors recorded by the last blocked transition.
func (n *Navigator) Errors() map[string]string {
	return n.errs
}

// Restore places the navigator on a previously saved step. Unknown step
// names fall back to the entry step.
func (n *Navigator) Restore(step schema.Step) {
	for _, s := range schema.Steps {
		if s == step {
			n.current = s
			return
		}
	}
	n.current = schema.StepInfo
}

// Next attempts the forward transition out of the current step. Every step
// from the entry step through the current one is re-validated in order; on
// the first failure the navigator moves to (or stays on) that step and
// returns ErrStepBlocked with the offending step's errors.
func (n *Navigator) Next(guard StepGuard) (schema.Step, error) {
	target, ok := forward[n.current]
	if !ok {
		return n.current, nil // terminal step
	}
	for _, s := range schema.Steps {
		errs := guard(s)
		if len(errs) > 0 {
			n.current = s
			n.errs = errs
			return s, ErrStepBlocked
		}
		if s == n.current {
			break
		}
	}
	n.current = target
	n.errs = nil
	return n.current, nil
}

// Back moves to the previous step. It is always permitted and clears only
// transient step errors, never field values.
func (n *Navigator) Back() schema.Step {
	if prev, ok := backward[n.current]; ok {
		n.current = prev
	}
	n.errs = nil
	return n.current
}
