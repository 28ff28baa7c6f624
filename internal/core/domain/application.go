package domain

import (
	"errors"
	"strings"
	"time"
)

// ApplicationStatus is the workflow state of a service application, stored as
// its upper-case discriminant. The set is closed: unknown values are rejected
// at the API edge by ParseApplicationStatus.
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "PENDING"
	StatusApplied   ApplicationStatus = "APPLIED"
	StatusInProcess ApplicationStatus = "IN_PROCESS"
	StatusSuccess   ApplicationStatus = "SUCCESS"
	StatusApproved  ApplicationStatus = "APPROVED"
	StatusIssued    ApplicationStatus = "ISSUED"
	StatusRejected  ApplicationStatus = "REJECTED"
)

var applicationStatuses = map[ApplicationStatus]struct{}{
	StatusPending:   {},
	StatusApplied:   {},
	StatusInProcess: {},
	StatusSuccess:   {},
	StatusApproved:  {},
	StatusIssued:    {},
	StatusRejected:  {},
}

var ErrApplicationNotFound = errors.New("application not found")
var ErrDocumentNotFound = errors.New("document not found")
var ErrIssuedNotAvailable = errors.New("issued document not available")
var ErrNotAssigned = errors.New("application is not assigned to this csc")
var ErrInvalidStatus = errors.New("unrecognized application status")
var ErrNotPDF = errors.New("issued document must be a PDF file")
var ErrInvalidDocumentID = errors.New("invalid document id")

// ParseApplicationStatus normalizes a raw status string (trim + upper-case)
// and validates it against the closed set.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := applicationStatuses[s]; !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// SuccessLike reports whether the status permits issued-document download.
func (s ApplicationStatus) SuccessLike() bool {
	return s == StatusSuccess || s == StatusApproved || s == StatusIssued
}

// Terminal reports whether the application has left the review pipeline.
func (s ApplicationStatus) Terminal() bool {
	return s.SuccessLike() || s == StatusRejected
}

// IssuedDocument is the final document a CSC operator attaches to a
// successful application. Always a PDF.
type IssuedDocument struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Document is one customer-submitted attachment. SortOrder is the 1-based
// upload position and doubles as the document's index in pseudo-id links.
type Document struct {
	ID            uint
	ApplicationID uint
	SortOrder     int
	DocumentType  string
	FileName      string
	ContentType   string
	Data          []byte
}

// Application is the workflow aggregate. CustomerEmail and AssignedCscID are
// filled from the owning customer account when the repository loads the row.
type Application struct {
	ID              uint
	CustomerID      uint
	CustomerEmail   string
	AssignedCscID   uint
	ApplicantName   string
	ApplicantMobile string
	ServiceType     string
	Description     string
	Status          ApplicationStatus
	Message         string
	AppliedAt       time.Time

	Documents []Document
	Issued    *IssuedDocument
}

// IssuedAvailable reports whether issued-document bytes are stored.
func (a *Application) IssuedAvailable() bool {
	return a.Issued != nil && len(a.Issued.Data) > 0
}

// IssuedDownloadAllowed reports whether the issued document may be served:
// success-like status and bytes present.
func (a *Application) IssuedDownloadAllowed() bool {
	return a.Status.SuccessLike() && a.IssuedAvailable()
}

// Submitted document links use a derived pseudo-id so a single integer
// addresses (application, index). The encoding caps an application at 999
// documents; storage itself keys documents by (application_id, sort_order).
const documentsPerApplication = 1000

// DocumentPseudoID encodes the 1-based document index of an application.
func DocumentPseudoID(applicationID uint, index int) int64 {
	return int64(applicationID)*documentsPerApplication + int64(index)
}

// DecodeDocumentPseudoID splits a pseudo-id into application id and 0-based
// document index. Fails on non-positive application ids or index underflow.
func DecodeDocumentPseudoID(id int64) (applicationID uint, index int, err error) {
	appID := id / documentsPerApplication
	idx := int(id%documentsPerApplication) - 1
	if appID <= 0 || idx < 0 {
		return 0, 0, ErrInvalidDocumentID
	}
	return uint(appID), idx, nil
}
