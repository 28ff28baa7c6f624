package ports

import (
	"context"

	"github.com/edocportal/portal-api/internal/core/domain"
)

// FileUpload is one multipart file as received by the transport layer.
type FileUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// DocumentFile is a binary payload ready to be served.
type DocumentFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ApplyInput carries the customer application form.
type ApplyInput struct {
	CustomerEmail string
	ServiceType   string
	Name          string
	Mobile        string
	Description   string
	// PaymentDone is accepted but not persisted; reserved for billing
	// integration.
	PaymentDone bool
	Documents   []FileUpload
}

// UpdateStatusInput carries a CSC status transition. Issued is optional and
// only consulted for non-rejected statuses.
type UpdateStatusInput struct {
	ApplicationID uint
	CscEmail      string
	Status        string
	Message       string
	Issued        *FileUpload
}

// ApplicationBuckets partitions a CSC's applications for the review listing.
type ApplicationBuckets struct {
	Pending   []*domain.Application // PENDING
	InProcess []*domain.Application // APPLIED or IN_PROCESS
	Completed []*domain.Application // success-like or REJECTED
}

// ApplicationService defines the application workflow: submission, review
// transitions and document retrieval.
type ApplicationService interface {
	Apply(ctx context.Context, in ApplyInput) (*domain.Application, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) error

	ListForCustomer(ctx context.Context, customerEmail string) ([]*domain.Application, error)
	ListForCsc(ctx context.Context, cscEmail string) (*ApplicationBuckets, error)
	// GetForCsc loads one application after verifying the caller is the
	// assigned CSC.
	GetForCsc(ctx context.Context, applicationID uint, cscEmail string) (*domain.Application, error)

	// UploadedDocument resolves a submitted document by its pseudo-id
	// (applicationID*1000 + 1-based index), enforcing the assignment check.
	UploadedDocument(ctx context.Context, pseudoID int64, cscEmail string) (*DocumentFile, error)
	// IssuedDocument serves the issued blob. With anyRole false the caller's
	// email must match the owning customer; with anyRole true (CSC flow) the
	// assignment check applies instead.
	IssuedDocument(ctx context.Context, applicationID uint, email string, anyRole bool) (*DocumentFile, error)
}
