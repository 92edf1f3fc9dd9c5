// Package schema defines the field schemas, document slots and validation
// rule tables for the deployment program application forms. Definitions are
// static and immutable after package load.
package schema

// Kind is the input kind of a form field.
type Kind string

const (
	KindText   Kind = "text"
	KindDate   Kind = "date"
	KindSelect Kind = "select"
	KindRadio  Kind = "radio"
	KindFile   Kind = "file"
	KindNumber Kind = "number"
)

// Step names one page of a multi-step form. Every module uses the same
// linear shape: info → documents → review.
type Step string

const (
	StepInfo      Step = "info"
	StepDocuments Step = "documents"
	StepReview    Step = "review"
)

// Steps lists the navigation order shared by all modules.
var Steps = []Step{StepInfo, StepDocuments, StepReview}

// Condition gates field visibility on the value of another field.
type Condition struct {
	Field  string
	Equals string
}

// Field describes one logical form field.
type Field struct {
	Key         string
	Label       string
	Kind        Kind
	Step        Step
	Required    bool
	Options     []string
	VisibleWhen *Condition
	DBColumn    string
}

// DocumentSpec describes one upload slot. MetaFields lists field keys that
// become required only when the slot holds a file or an existing reference.
type DocumentSpec struct {
	Key        string
	Label      string
	Required   bool
	MetaFields []string
}

// RuleKind selects the check a Rule applies.
type RuleKind string

const (
	// RuleEmail checks the local@domain.tld shape with a 2+ char TLD.
	RuleEmail RuleKind = "email"
	// RuleMobile checks the normalized 11-digit 09-prefixed mobile format.
	RuleMobile RuleKind = "mobile"
	// RulePositiveAmount checks a parseable amount strictly greater than zero.
	RulePositiveAmount RuleKind = "positive_amount"
	// RuleMinHorizon checks a date is no earlier than today plus the
	// configured horizon (inclusive boundary).
	RuleMinHorizon RuleKind = "min_horizon"
	// RuleNotFuture checks a date is not later than today.
	RuleNotFuture RuleKind = "not_future"
	// RuleRequiredWithDocument makes the field required only while the
	// document slot named by DependsOn is non-empty.
	RuleRequiredWithDocument RuleKind = "required_with_document"
)

// Rule is one row of the declarative cross-field rule table.
type Rule struct {
	Field         string
	Kind          RuleKind
	DependsOn     string // document key, for RuleRequiredWithDocument and date rules tied to a slot
	HorizonMonths int
	HorizonDays   int
}

// Module bundles the full schema of one deployment program.
type Module struct {
	Key        string
	Name       string
	DraftKey   string
	Fields     []Field
	Documents  []DocumentSpec
	Rules      []Rule
	// Composites maps a logical flagged key to the part fields whose joined
	// value represents it (e.g. a full name split into name parts).
	Composites map[string][]string
}

// Field returns the field with the given key, or nil.
func (m *Module) Field(key string) *Field {
	for i := range m.Fields {
		if m.Fields[i].Key == key {
			return &m.Fields[i]
		}
	}
	return nil
}

// Document returns the document spec with the given key, or nil.
func (m *Module) Document(key string) *DocumentSpec {
	for i := range m.Documents {
		if m.Documents[i].Key == key {
			return &m.Documents[i]
		}
	}
	return nil
}

// StepFields returns the fields belonging to one step, in schema order.
func (m *Module) StepFields(step Step) []Field {
	var out []Field
	for _, f := range m.Fields {
		if f.Step == step {
			out = append(out, f)
		}
	}
	return out
}

// RulesForField returns every rule targeting the given field key.
func (m *Module) RulesForField(key string) []Rule {
	var out []Rule
	for _, r := range m.Rules {
		if r.Field == key {
			out = append(out, r)
		}
	}
	return out
}

// Visible reports whether a field is visible given current values.
func Visible(f *Field, get func(string) string) bool {
	if f.VisibleWhen == nil {
		return true
	}
	return get(f.VisibleWhen.Field) == f.VisibleWhen.Equals
}

// ByKey returns the module registered under the given key, or nil.
func ByKey(key string) *Module {
	switch key {
	case DirectHire.Key:
		return DirectHire
	case BalikManggagawa.Key:
		return BalikManggagawa
	case GovToGov.Key:
		return GovToGov
	}
	return nil
}
