package domain

import "testing"

func TestServiceTypes(t *testing.T) {
	types := ServiceTypes()
	if len(types) != 6 {
		t.Fatalf("expected 6 catalog entries, got %d", len(types))
	}
	if types[0] != "Nationality Certificate" || types[5] != "PAN Card" {
		t.Fatalf("catalog order changed: %v", types)
	}
}

func TestRequiredDocuments(t *testing.T) {
	docs := RequiredDocuments("pan card")
	if len(docs) != 2 || docs[0] != "Aadhaar Card" || docs[1] != "Applicant Photo" {
		t.Fatalf("unexpected PAN Card documents: %v", docs)
	}
	if got := RequiredDocuments("  Income Certificate  "); len(got) != 4 {
		t.Fatalf("trimmed lookup failed: %v", got)
	}
	if RequiredDocuments("Unknown Service") != nil {
		t.Fatalf("unknown service should yield nil")
	}
	if RequiredDocuments("") != nil {
		t.Fatalf("blank service should yield nil")
	}
}
