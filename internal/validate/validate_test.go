package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vantled/balikbayani-sub001/internal/form"
	"github.com/Vantled/balikbayani-sub001/internal/schema"
)

var testNow = time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

// infoState fills every required Direct Hire info field with a valid value.
func infoState() *form.State {
	st := form.NewState()
	st.Set("first_name", "Juan")
	st.Set("last_name", "Dela Cruz")
	st.Set("sex", "male")
	st.Set("date_of_birth", "1990-05-01")
	st.Set("email", "juan@example.com")
	st.Set("mobile_number", "09171234567")
	st.Set("applicant_type", "household")
	st.Set("employer_name", "Acme Trading LLC")
	st.Set("jobsite", "Saudi Arabia")
	st.Set("position", "Domestic Worker")
	st.Set("salary_amount", "450")
	st.Set("salary_currency", "USD")
	return st
}

// documentsState adds valid attachments and metadata on top of infoState.
func documentsState() *form.State {
	st := infoState()
	st.Attach("document_passport", &form.Attachment{Name: "passport.pdf", Content: []byte("p")})
	st.Attach("document_visa", &form.Attachment{Name: "visa.pdf", Content: []byte("v")})
	st.Attach("document_contract", &form.Attachment{Name: "contract.pdf", Content: []byte("c")})
	st.Set("passport_number", "P1234567A")
	st.Set("passport_expiry", "2027-06-01")
	st.Set("visa_number", "V-99887")
	return st
}

func TestInfoStepValid(t *testing.T) {
	errs := Step(schema.DirectHire, schema.StepInfo, infoState(), testNow)
	assert.Empty(t, errs)
}

func TestRequiredFieldMissing(t *testing.T) {
	st := infoState()
	st.Set("email", "   ")
	errs := Step(schema.DirectHire, schema.StepInfo, st, testNow)
	assert.Contains(t, errs, "email")
}

func TestEmailFormat(t *testing.T) {
	st := infoState()
	for _, bad := range []string{"juan", "juan@", "juan@site", "juan@site.c", "a b@x.com"} {
		st.Set("email", bad)
		errs := Step(schema.DirectHire, schema.StepInfo, st, testNow)
		assert.Contains(t, errs, "email", "input %q", bad)
	}
	st.Set("email", "juan+ofw@mail.example.ph")
	assert.Empty(t, Step(schema.DirectHire, schema.StepInfo, st, testNow))
}

func TestMobileFormat(t *testing.T) {
	st := infoState()
	st.Set("mobile_number", "08171234567")
	errs := Step(schema.DirectHire, schema.StepInfo, st, testNow)
	assert.Contains(t, errs, "mobile_number")
}

func TestNegativeSalaryRejected(t *testing.T) {
	st := infoState()
	for _, bad := range []string{"-5", "0", "abc"} {
		st.Set("salary_amount", bad)
		errs := Step(schema.DirectHire, schema.StepInfo, st, testNow)
		assert.Contains(t, errs, "salary_amount", "input %q", bad)
	}
}

func TestConditionalVisibilityGatesRequired(t *testing.T) {
	st := infoState()
	// Household applicants have no license field; no error expected.
	require.Empty(t, Step(schema.DirectHire, schema.StepInfo, st, testNow))

	st.Set("applicant_type", "professional")
	errs := Step(schema.DirectHire, schema.StepInfo, st, testNow)
	assert.Contains(t, errs, "license_number")

	st.Set("license_number", "0123456")
	assert.Empty(t, Step(schema.DirectHire, schema.StepInfo, st, testNow))
}

func TestRequiredDocuments(t *testing.T) {
	st := infoState()
	errs := Step(schema.DirectHire, schema.StepDocuments, st, testNow)
	assert.Contains(t, errs, "document_passport")
	assert.Contains(t, errs, "document_visa")
	assert.Contains(t, errs, "document_contract")
	// Optional document is not required.
	assert.NotContains(t, errs, "document_medical")
}

func TestDocumentMetaImplication(t *testing.T) {
	st := documentsState()
	st.Set("passport_number", "")
	errs := Step(schema.DirectHire, schema.StepDocuments, st, testNow)
	assert.Contains(t, errs, "passport_number")

	// Without the optional medical certificate its date is not required.
	assert.NotContains(t, errs, "medical_exam_date")

	// Attaching it flips the implication on.
	st.Attach("document_medical", &form.Attachment{Name: "med.pdf", Content: []byte("m")})
	errs = Step(schema.DirectHire, schema.StepDocuments, st, testNow)
	assert.Contains(t, errs, "medical_exam_date")
}

func TestPassportExpiryHorizonBoundary(t *testing.T) {
	st := documentsState()

	// Exactly today + 6 months: inclusive boundary passes.
	st.Set("passport_expiry", "2027-02-15")
	errs := Step(schema.DirectHire, schema.StepDocuments, st, testNow)
	assert.NotContains(t, errs, "passport_expiry")

	// One day earlier fails.
	st.Set("passport_expiry", "2027-02-14")
	errs = Step(schema.DirectHire, schema.StepDocuments, st, testNow)
	assert.Contains(t, errs, "passport_expiry")
}

func TestMedicalDateNotFuture(t *testing.T) {
	st := documentsState()
	st.Attach("document_medical", &form.Attachment{Name: "med.pdf", Content: []byte("m")})

	st.Set("medical_exam_date", "2026-08-15") // today passes
	errs := Step(schema.DirectHire, schema.StepDocuments, st, testNow)
	assert.NotContains(t, errs, "medical_exam_date")

	st.Set("medical_exam_date", "2026-08-16")
	errs = Step(schema.DirectHire, schema.StepDocuments, st, testNow)
	assert.Contains(t, errs, "medical_exam_date")
}

func TestSummaryPicksFirstSchemaField(t *testing.T) {
	st := infoState()
	st.Set("first_name", "")
	st.Set("email", "")
	errs := Step(schema.DirectHire, schema.StepInfo, st, testNow)
	assert.Equal(t, "First Name is required", Summary(schema.DirectHire, schema.StepInfo, errs))
}
