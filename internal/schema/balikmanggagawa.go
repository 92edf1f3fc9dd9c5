package schema

// BalikManggagawa is the schema for returning-worker clearance: workers with
// an existing employment relationship abroad heading back to the jobsite.
var BalikManggagawa = &Module{
	Key:      "balik_manggagawa",
	Name:     "Balik Manggagawa",
	DraftKey: "bb/balik_manggagawa/draft/v1",
	Fields: []Field{
		{Key: "first_name", Label: "First Name", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "first_name"},
		{Key: "middle_name", Label: "Middle Name", Kind: KindText, Step: StepInfo, DBColumn: "middle_name"},
		{Key: "last_name", Label: "Last Name", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "last_name"},
		{Key: "sex", Label: "Sex", Kind: KindRadio, Step: StepInfo, Required: true, Options: []string{"male", "female"}, DBColumn: "sex"},
		{Key: "date_of_birth", Label: "Date of Birth", Kind: KindDate, Step: StepInfo, Required: true, DBColumn: "date_of_birth"},
		{Key: "email", Label: "Email Address", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "email"},
		{Key: "mobile_number", Label: "Mobile Number", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "mobile_number"},
		{Key: "clearance_type", Label: "Clearance Type", Kind: KindSelect, Step: StepInfo, Required: true, Options: []string{"regular", "seafarer", "watchlisted_employer"}, DBColumn: "clearance_type"},
		{Key: "vessel_name", Label: "Vessel Name", Kind: KindText, Step: StepInfo, Required: true, VisibleWhen: &Condition{Field: "clearance_type", Equals: "seafarer"}, DBColumn: "vessel_name"},
		{Key: "destination_country", Label: "Destination Country", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "destination_country"},
		{Key: "employer_name", Label: "Employer Name", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "employer_name"},
		{Key: "position", Label: "Position", Kind: KindText, Step: StepInfo, Required: true, DBColumn: "position"},
		{Key: "departure_date", Label: "Intended Departure Date", Kind: KindDate, Step: StepInfo, Required: true, DBColumn: "departure_date"},
		{Key: "salary_amount", Label: "Monthly Salary", Kind: KindNumber, Step: StepInfo, Required: true, DBColumn: "salary_amount"},
		{Key: "salary_currency", Label: "Salary Currency", Kind: KindSelect, Step: StepInfo, Required: true, Options: []string{"USD", "PHP", "SAR", "AED", "HKD", "SGD", "JPY"}, DBColumn: "salary_currency"},
		{Key: "salary_usd", Label: "USD Equivalent", Kind: KindNumber, Step: StepInfo, DBColumn: "salary_usd"},

		{Key: "passport_number", Label: "Passport Number", Kind: KindText, Step: StepDocuments, DBColumn: "passport_number"},
		{Key: "passport_expiry", Label: "Passport Expiry", Kind: KindDate, Step: StepDocuments, DBColumn: "passport_expiry"},
		{Key: "visa_expiry", Label: "Visa / Work Permit Expiry", Kind: KindDate, Step: StepDocuments, DBColumn: "visa_expiry"},
	},
	Documents: []DocumentSpec{
		{Key: "document_passport", Label: "Passport (bio page)", Required: true, MetaFields: []string{"passport_number", "passport_expiry"}},
		{Key: "document_visa", Label: "Valid Visa / Re-entry Permit", Required: true, MetaFields: []string{"visa_expiry"}},
		{Key: "document_contract", Label: "Proof of Ongoing Employment"},
	},
	Rules: []Rule{
		{Field: "email", Kind: RuleEmail},
		{Field: "mobile_number", Kind: RuleMobile},
		{Field: "salary_amount", Kind: RulePositiveAmount},
		{Field: "date_of_birth", Kind: RuleNotFuture},
		// Clearance is pointless for a flight leaving in under three days.
		{Field: "departure_date", Kind: RuleMinHorizon, HorizonDays: 3},
		{Field: "passport_number", Kind: RuleRequiredWithDocument, DependsOn: "document_passport"},
		{Field: "passport_expiry", Kind: RuleRequiredWithDocument, DependsOn: "document_passport"},
		{Field: "passport_expiry", Kind: RuleMinHorizon, DependsOn: "document_passport", HorizonMonths: 6},
		{Field: "visa_expiry", Kind: RuleRequiredWithDocument, DependsOn: "document_visa"},
		{Field: "visa_expiry", Kind: RuleMinHorizon, DependsOn: "document_visa", HorizonDays: 30},
	},
	Composites: map[string][]string{
		"name": {"first_name", "middle_name", "last_name"},
	},
}
