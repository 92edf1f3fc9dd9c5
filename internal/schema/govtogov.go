package schema

// GovToGov is the schema for government-to-government placement applicants,
// who register with education and work-experience details for matching.
var GovToGov = &Module{
	Key:      "gov_to_gov",
	Name:     "Government to Government",
	DraftKey: "bb/gov_to_gov/draft/v1",
	Fields: []Field{
		{Key: "first_name", Label: "First Name", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "first_name"},
		{Key: "middle_name", Label: "Middle Name", Kind: KindText, Step: StepInfo, DBColumn: "middle_name"},
		{Key: "last_name", Label: "Last Name", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "last_name"},
		{Key: "sex", Label: "Sex", Kind: KindRadio, Step: StepInfo, Required: true, Options: []string{"male", "female"}, DBColumn: "sex"},
		{Key: "date_of_birth", Label: "Date of Birth", Kind: KindDate, Step: StepInfo, Required: true, DBColumn: "date_of_birth"},
		{Key: "email", Label: "Email Address", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "email"},
		{Key: "mobile_number", Label: "Mobile Number", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "mobile_number"},
		{Key: "program_country", Label: "Program Country", Kind: KindSelect, Step: StepInfo, Required: true, Options: []string{"korea", "japan", "germany", "israel"}, DBColumn: "program_country"},
		{Key: "education_level", Label: "Highest Education", Kind: KindSelect, Step: StepInfo, Required: true, Options: []string{"high_school", "vocational", "college", "postgraduate"}, DBColumn: "education_level"},
		{Key: "course", Label: "Course / Specialization", Kind: KindText, Step: StepInfo, Required: true, VisibleWhen: &Condition{Field: "education_level", Equals: "college"}, DBColumn: "course"},
		{Key: "years_experience", Label: "Years of Work Experience", Kind: KindNumber, Step: StepInfo, Required: true, DBColumn: "years_experience"},
		{Key: "preferred_position", Label: "Preferred Position", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "preferred_position"},

		{Key: "passport_number", Label: "Passport Number", Kind: KindText, Step: StepDocuments, DBColumn: "passport_number"},
		{Key: "passport_expiry", Label: "Passport Expiry", Kind: KindDate, Step: StepDocuments, DBColumn: "passport_expiry"},
		{Key: "certificate_issue_date", Label: "Certificate Issue Date", Kind: KindDate, Step: StepDocuments, DBColumn: "certificate_issue_date"},
	},
	Documents: []DocumentSpec{
		{Key: "document_passport", Label: "Passport (bio page)", Required: true, MetaFields: []string{"passport_number", "passport_expiry"}},
		{Key: "document_resume", Label: "Resume / CV", Required: true},
		{Key: "document_employment_certificate", Label: "Certificate of Employment", MetaFields: []string{"certificate_issue_date"}},
	},
	Rules: []Rule{
		{Field: "email", Kind: RuleEmail},
		{Field: "mobile_number", Kind: RuleMobile},
		{Field: "date_of_birth", Kind: RuleNotFuture},
		{Field: "passport_number", Kind: RuleRequiredWithDocument, DependsOn: "document_passport"},
		{Field: "passport_expiry", Kind: RuleRequiredWithDocument, DependsOn: "document_passport"},
		{Field: "passport_expiry", Kind: RuleMinHorizon, DependsOn: "document_passport", HorizonMonths: 12},
		{Field: "certificate_issue_date", Kind: RuleRequiredWithDocument, DependsOn: "document_employment_certificate"},
		{Field: "certificate_issue_date", Kind: RuleNotFuture, DependsOn: "document_employment_certificate"},
	},
	Composites: map[string][]string{
		"name": {"first_name", "middle_name", "last_name"},
	},
}
