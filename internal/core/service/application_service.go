package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edocportal/portal-api/internal/api/metrics"
	"github.com/edocportal/portal-api/internal/core/domain"
	"github.com/edocportal/portal-api/internal/core/ports"
)

// ApplicationService implements the application workflow: submission by
// customers, review transitions by the assigned CSC, and blob retrieval.
type ApplicationService struct {
	apps     ports.ApplicationRepository
	accounts ports.AccountRepository
	log      zerolog.Logger
}

func NewApplicationService(apps ports.ApplicationRepository, accounts ports.AccountRepository, log zerolog.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, accounts: accounts, log: log}
}

func (s *ApplicationService) Apply(ctx context.Context, in ports.ApplyInput) (*domain.Application, error) {
	customer, err := s.accounts.FindByEmail(ctx, domain.NormalizeEmail(in.CustomerEmail))
	if err != nil {
		return nil, err
	}

	var assignedCscID uint
	if customer.Customer != nil {
		assignedCscID = customer.Customer.AssignedCscID
	}
	app := &domain.Application{
		CustomerID:      customer.ID,
		CustomerEmail:   customer.Email,
		AssignedCscID:   assignedCscID,
		ApplicantName:   strings.TrimSpace(in.Name),
		ApplicantMobile: strings.TrimSpace(in.Mobile),
		ServiceType:     strings.TrimSpace(in.ServiceType),
		Description:     strings.TrimSpace(in.Description),
		Status:          domain.StatusPending,
		AppliedAt:       time.Now().UTC(),
		Documents:       buildDocuments(in.ServiceType, in.Documents),
	}
	if in.PaymentDone {
		// Accepted but not persisted; reserved for billing integration.
		s.log.Debug().Str("customer", customer.Email).Msg("payment flag set on application")
	}

	created, err := s.apps.Create(ctx, app)
	if err != nil {
		s.log.Error().Err(err).Str("customer", customer.Email).Msg("failed to create application")
		return nil, err
	}

	metrics.ApplicationsSubmittedTotal.WithLabelValues(created.ServiceType).Inc()
	for _, d := range created.Documents {
		metrics.DocumentsUploadedTotal.Inc()
		metrics.DocumentBytes.WithLabelValues("submitted").Observe(float64(len(d.Data)))
	}
	s.log.Info().
		Uint("application_id", created.ID).
		Str("customer", customer.Email).
		Str("service_type", created.ServiceType).
		Int("documents", len(created.Documents)).
		Msg("application submitted")

	return created, nil
}

// UpdateStatus applies a CSC-driven transition. The caller must be the CSC
// assigned to the application's customer; the check runs before any mutation.
func (s *ApplicationService) UpdateStatus(ctx context.Context, in ports.UpdateStatusInput) error {
	app, err := s.authorizedApplication(ctx, in.ApplicationID, in.CscEmail)
	if err != nil {
		return err
	}

	status, err := domain.ParseApplicationStatus(in.Status)
	if err != nil {
		return err
	}

	// Validate the issued payload before touching anything so a bad upload
	// leaves the previous issued document intact.
	if status != domain.StatusRejected && in.Issued != nil && len(in.Issued.Data) > 0 {
		if !isPDF(in.Issued.FileName, in.Issued.ContentType) {
			return domain.ErrNotPDF
		}
	}

	app.Status = status
	if strings.TrimSpace(in.Message) != "" {
		app.Message = strings.TrimSpace(in.Message)
	}

	if status == domain.StatusRejected {
		// REJECTED is terminal by convention: rejected applications carry
		// zero attachments.
		app.Issued = nil
		app.Documents = nil
		if err := s.apps.DeleteDocuments(ctx, app.ID); err != nil {
			return err
		}
	} else if in.Issued != nil && len(in.Issued.Data) > 0 {
		name := in.Issued.FileName
		if strings.TrimSpace(name) == "" {
			name = "issued-document.pdf"
		}
		app.Issued = &domain.IssuedDocument{
			FileName:    sanitizeFileName(name),
			ContentType: "application/pdf",
			Data:        in.Issued.Data,
		}
		metrics.IssuedDocumentsTotal.Inc()
		metrics.DocumentBytes.WithLabelValues("issued").Observe(float64(len(in.Issued.Data)))
	}

	if err := s.apps.UpdateWorkflow(ctx, app); err != nil {
		s.log.Error().Err(err).Uint("application_id", app.ID).Msg("failed to update application status")
		return err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(status)).Inc()
	s.log.Info().
		Uint("application_id", app.ID).
		Str("csc", domain.NormalizeEmail(in.CscEmail)).
		Str("status", string(status)).
		Msg("application status updated")
	return nil
}

func (s *ApplicationService) ListForCustomer(ctx context.Context, customerEmail string) ([]*domain.Application, error) {
	customer, err := s.accounts.FindByEmail(ctx, domain.NormalizeEmail(customerEmail))
	if err != nil {
		return nil, err
	}
	return s.apps.ListByCustomer(ctx, customer.ID)
}

func (s *ApplicationService) ListForCsc(ctx context.Context, cscEmail string) (*ports.ApplicationBuckets, error) {
	csc, err := s.requireCscAccount(ctx, cscEmail)
	if err != nil {
		return nil, err
	}
	all, err := s.apps.ListByAssignedCsc(ctx, csc.ID)
	if err != nil {
		return nil, err
	}

	buckets := &ports.ApplicationBuckets{}
	for _, app := range all {
		switch {
		case app.Status == domain.StatusPending:
			buckets.Pending = append(buckets.Pending, app)
		case app.Status == domain.StatusApplied || app.Status == domain.StatusInProcess:
			buckets.InProcess = append(buckets.InProcess, app)
		case app.Status.Terminal():
			buckets.Completed = append(buckets.Completed, app)
		}
	}
	return buckets, nil
}

func (s *ApplicationService) GetForCsc(ctx context.Context, applicationID uint, cscEmail string) (*domain.Application, error) {
	return s.authorizedApplication(ctx, applicationID, cscEmail)
}

// UploadedDocument resolves a submitted document by pseudo-id:
// applicationID*1000 + 1-based index. The scheme caps an application at 999
// documents; decoding happens here, storage keys stay (application, order).
func (s *ApplicationService) UploadedDocument(ctx context.Context, pseudoID int64, cscEmail string) (*ports.DocumentFile, error) {
	appID, index, err := domain.DecodeDocumentPseudoID(pseudoID)
	if err != nil {
		return nil, err
	}
	app, err := s.authorizedApplication(ctx, appID, cscEmail)
	if err != nil {
		return nil, err
	}
	if index >= len(app.Documents) {
		return nil, domain.ErrDocumentNotFound
	}

	doc, err := s.apps.Document(ctx, app.ID, index)
	if err != nil {
		return nil, err
	}
	name := doc.FileName
	if strings.TrimSpace(name) == "" {
		name = "document"
	}
	contentType := doc.ContentType
	if strings.TrimSpace(contentType) == "" {
		contentType = contentTypeForName(name)
	}
	return &ports.DocumentFile{FileName: name, ContentType: contentType, Data: doc.Data}, nil
}

// IssuedDocument serves the issued blob. Customer calls (anyRole false) must
// come from the owning customer; CSC calls use the assignment check.
func (s *ApplicationService) IssuedDocument(ctx context.Context, applicationID uint, email string, anyRole bool) (*ports.DocumentFile, error) {
	var app *domain.Application
	var err error
	if anyRole {
		app, err = s.authorizedApplication(ctx, applicationID, email)
	} else {
		app, err = s.apps.FindByID(ctx, applicationID)
		if err == nil && domain.NormalizeEmail(email) != domain.NormalizeEmail(app.CustomerEmail) {
			err = domain.ErrForbidden
		}
	}
	if err != nil {
		return nil, err
	}

	issued := app.Issued
	if issued == nil || len(issued.Data) == 0 {
		return nil, domain.ErrIssuedNotAvailable
	}
	name := issued.FileName
	if strings.TrimSpace(name) == "" {
		name = "issued-document.pdf"
	}
	contentType := issued.ContentType
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/pdf"
	}
	return &ports.DocumentFile{FileName: name, ContentType: contentType, Data: issued.Data}, nil
}

// authorizedApplication loads an application and verifies the caller is the
// CSC assigned to its customer.
func (s *ApplicationService) authorizedApplication(ctx context.Context, applicationID uint, cscEmail string) (*domain.Application, error) {
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	csc, err := s.requireCscAccount(ctx, cscEmail)
	if err != nil {
		return nil, err
	}
	if app.AssignedCscID != csc.ID {
		return nil, domain.ErrNotAssigned
	}
	return app, nil
}

func (s *ApplicationService) requireCscAccount(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleCsc {
		return nil, domain.ErrForbidden
	}
	return account, nil
}

// buildDocuments turns the non-empty uploads into ordered Document rows.
// Labels come from the service's required-document list by position, falling
// back to a generic label once the list is exhausted.
func buildDocuments(serviceType string, uploads []ports.FileUpload) []domain.Document {
	required := domain.RequiredDocuments(serviceType)
	docs := make([]domain.Document, 0, len(uploads))
	for i, f := range uploads {
		if len(f.Data) == 0 {
			continue
		}
		label := fmt.Sprintf("Document %d", i+1)
		if i < len(required) {
			label = required[i]
		}
		name := f.FileName
		if strings.TrimSpace(name) == "" {
			name = "document"
		}
		docs = append(docs, domain.Document{
			SortOrder:    i + 1,
			DocumentType: label,
			FileName:     sanitizeFileName(name),
			ContentType:  resolveUploadContentType(f),
			Data:         f.Data,
		})
	}
	return docs
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// resolveUploadContentType prefers the declared MIME type and falls back to
// extension sniffing.
func resolveUploadContentType(f ports.FileUpload) string {
	if strings.TrimSpace(f.ContentType) != "" {
		return f.ContentType
	}
	return contentTypeForName(f.FileName)
}

func contentTypeForName(name string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(strings.ToLower(name), ".png"):
		return "image/png"
	case strings.HasSuffix(strings.ToLower(name), ".jpg"),
		strings.HasSuffix(strings.ToLower(name), ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// isPDF accepts a payload as PDF by filename extension or declared type.
func isPDF(fileName, contentType string) bool {
	return strings.HasSuffix(strings.ToLower(fileName), ".pdf") ||
		strings.EqualFold(contentType, "application/pdf")
}
