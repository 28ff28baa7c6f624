package ports

import (
	"context"

	"github.com/edocportal/portal-api/internal/core/domain"
)

// ApplicationRepository defines persistence for applications and their
// submitted documents. Submitted documents are returned as metadata only (no
// blob data); Document loads the bytes of a single attachment. Issued
// document bytes travel with the aggregate, as the issued blob lives on the
// application row itself.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	FindByID(ctx context.Context, id uint) (*domain.Application, error)

	ListByCustomer(ctx context.Context, customerID uint) ([]*domain.Application, error)
	ListByAssignedCsc(ctx context.Context, cscID uint) ([]*domain.Application, error)

	// UpdateWorkflow persists status, operator message and issued-document
	// fields of an already-loaded application.
	UpdateWorkflow(ctx context.Context, app *domain.Application) error
	// DeleteDocuments removes every submitted document of an application.
	DeleteDocuments(ctx context.Context, applicationID uint) error

	// Document returns the attachment at the given 0-based index of the
	// application's upload order, including its bytes.
	Document(ctx context.Context, applicationID uint, index int) (*domain.Document, error)
}
