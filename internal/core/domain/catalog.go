package domain

import "strings"

// ServiceDefinition is a static catalog entry: a service name plus the
// ordered list of document labels applicants are expected to upload.
type ServiceDefinition struct {
	Name              string
	RequiredDocuments []string
}

// serviceCatalog is configuration, not user-mutable state. Upload labels are
// assigned positionally from RequiredDocuments at submission time.
var serviceCatalog = []ServiceDefinition{
	{
		Name: "Nationality Certificate",
		RequiredDocuments: []string{
			"Applicant Leaving Certificate / TC / Bonafide",
			"Aadhaar Card",
			"Applicant Photo",
			"Ration Card",
			"Father Leaving Certificate / TC",
			"Self Declaration - Mandatory",
		},
	},
	{
		Name: "Domicile Certificate",
		RequiredDocuments: []string{
			"Applicant Leaving Certificate / TC / Bonafide",
			"Aadhaar Card",
			"Applicant Photo",
			"Ration Card",
			"Father Leaving Certificate / TC",
			"Self Declaration - Mandatory",
		},
	},
	{
		Name: "Caste Certificate",
		RequiredDocuments: []string{
			"Applicant Leaving Certificate / TC / Bonafide",
			"Aadhaar Card",
			"Applicant Photo",
			"Ration Card",
			"Father Leaving Certificate / TC",
			"Grandfather Leaving Certificate - Mandatory",
			"Self Declaration - Mandatory",
		},
	},
	{
		Name: "Non-Creamy Layer Certificate",
		RequiredDocuments: []string{
			"Applicant Leaving Certificate / TC / Bonafide",
			"Aadhaar Card",
			"Applicant Photo",
			"Ration Card",
			"Father Leaving Certificate / TC",
			"Income Proof - Last 3 Years",
			"Income Certificate from Tehsildar",
			"Self Declaration - Mandatory",
		},
	},
	{
		Name: "Income Certificate",
		RequiredDocuments: []string{
			"Income Proof from Talathi",
			"Aadhaar Card",
			"Ration Card",
			"Self Declaration - Mandatory",
		},
	},
	{
		Name: "PAN Card",
		RequiredDocuments: []string{
			"Aadhaar Card",
			"Applicant Photo",
		},
	},
}

// ServiceTypes returns the catalog's service names in declaration order.
func ServiceTypes() []string {
	names := make([]string, 0, len(serviceCatalog))
	for _, s := range serviceCatalog {
		names = append(names, s.Name)
	}
	return names
}

// RequiredDocuments returns the ordered label list for a service, matched
// case-insensitively. Unknown or blank service types yield an empty list.
func RequiredDocuments(serviceType string) []string {
	trimmed := strings.TrimSpace(serviceType)
	if trimmed == "" {
		return nil
	}
	for _, s := range serviceCatalog {
		if strings.EqualFold(s.Name, trimmed) {
			return s.RequiredDocuments
		}
	}
	return nil
}
