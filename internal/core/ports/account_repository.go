package ports

import (
	"context"

	"github.com/edocportal/portal-api/internal/core/domain"
)

// AccountRepository defines persistence for accounts and their role profiles.
// Email arguments are expected pre-normalized by the service layer.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id uint) (*domain.Account, error)
	// Update persists the mutable fields (status, profile, password hash).
	Update(ctx context.Context, account *domain.Account) error
	// Delete removes the account row and its profile row.
	Delete(ctx context.Context, id uint) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsCustomerMobile(ctx context.Context, mobile string) (bool, error)
	ExistsCscID(ctx context.Context, cscID string) (bool, error)
	ExistsCscMobile(ctx context.Context, mobile string) (bool, error)

	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error)
	// ListCustomersAssignedTo returns customer accounts whose profile
	// references the given CSC account id.
	ListCustomersAssignedTo(ctx context.Context, cscID uint) ([]*domain.Account, error)
}
