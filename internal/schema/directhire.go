package schema

// DirectHire is the schema for direct-hire applications: a worker hired by a
// foreign employer without agency mediation. The applicant type drives which
// credential fields are shown.
var DirectHire = &Module{
	Key:      "direct_hire",
	Name:     "Direct Hire",
	DraftKey: "bb/direct_hire/draft/v1",
	Fields: []Field{
		{Key: "first_name", Label: "First Name", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "first_name"},
		{Key: "middle_name", Label: "Middle Name", Kind: KindText, Step: StepInfo, DBColumn: "middle_name"},
		{Key: "last_name", Label: "Last Name", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "last_name"},
		{Key: "sex", Label: "Sex", Kind: KindRadio, Step: StepInfo, Required: true, Options: []string{"male", "female"}, DBColumn: "sex"},
		{Key: "date_of_birth", Label: "Date of Birth", Kind: KindDate, Step: StepInfo, Required: true, DBColumn: "date_of_birth"},
		{Key: "email", Label: "Email Address", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "email"},
		{Key: "mobile_number", Label: "Mobile Number", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "mobile_number"},
		{Key: "applicant_type", Label: "Applicant Type", Kind: KindSelect, Step: StepInfo, Required: true, Options: []string{"professional", "household"}, DBColumn: "applicant_type"},
		{Key: "license_number", Label: "PRC License Number", Kind: KindText, Step: StepInfo, Required: true, VisibleWhen: &Condition{Field: "applicant_type", Equals: "professional"}, DBColumn: "license_number"},
		{Key: "employer_name", Label: "Employer Name", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "employer_name"},
		{Key: "jobsite", Label: "Jobsite (Country)", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "jobsite"},
		{Key: "position", Label: "Position", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "position"},
		{Key: "salary_amount", Label: "Monthly Salary", Kind: KindNumber, Step: StepInfo, Required: true, DBColumn: "salary_amount"},
		{Key: "salary_currency", Label: "Salary Currency", Kind: KindSelect, Step: StepInfo, Required: true, Options: []string{"USD", "PHP", "SAR", "AED", "HKD", "SGD", "JPY"}, DBColumn: "salary_currency"},
		{Key: "salary_usd", Label: "USD Equivalent", Kind: KindNumber, Step: StepInfo, DBColumn: "salary_usd"},

		{Key: "passport_number", Label: "Passport Number", Kind: KindText, Step: StepDocuments, DBColumn: "passport_number"},
		{Key: "passport_expiry", Label: "Passport Expiry", Kind: KindDate, Step: StepDocuments, DBColumn: "passport_expiry"},
		{Key: "visa_number", Label: "Visa / Work Permit Number", Kind: KindText, Step: StepDocuments, DBColumn: "visa_number"},
		{Key: "medical_exam_date", Label: "Medical Exam Date", Kind: KindDate, Step: StepDocuments, DBColumn: "medical_exam_date"},
	},
	Documents: []DocumentSpec{
		{Key: "document_passport", Label: "Passport (bio page)", Required: true, MetaFields: []string{"passport_number", "passport_expiry"}},
		{Key: "document_visa", Label: "Valid Visa / Work Permit", Required: true, MetaFields: []string{"visa_number"}},
		{Key: "document_contract", Label: "Employment Contract", Required: true},
		{Key: "document_medical", Label: "Medical Certificate", MetaFields: []string{"medical_exam_date"}},
	},
	Rules: []Rule{
		{Field: "email", Kind: RuleEmail},
		{Field: "mobile_number", Kind: RuleMobile},
		{Field: "salary_amount", Kind: RulePositiveAmount},
		{Field: "date_of_birth", Kind: RuleNotFuture},
		{Field: "passport_number", Kind: RuleRequiredWithDocument, DependsOn: "document_passport"},
		{Field: "passport_expiry", Kind: RuleRequiredWithDocument, DependsOn: "document_passport"},
		{Field: "passport_expiry", Kind: RuleMinHorizon, DependsOn: "document_passport", HorizonMonths: 6},
		{Field: "visa_number", Kind: RuleRequiredWithDocument, DependsOn: "document_visa"},
		{Field: "medical_exam_date", Kind: RuleRequiredWithDocument, DependsOn: "document_medical"},
		{Field: "medical_exam_date", Kind: RuleNotFuture, DependsOn: "document_medical"},
	},
	Composites: map[string][]string{
		"name": {"first_name", "middle_name", "last_name"},
	},
}
