package ports

import (
	"context"

	"github.com/edocportal/portal-api/internal/core/domain"
)

// RegisterCustomerInput carries the self-registration form fields. The
// customer is created PENDING and assigned to the CSC resolved from
// AssignedCscEmail.
type RegisterCustomerInput struct {
	FullName         string
	Email            string
	Mobile           string
	Password         string
	AssignedCscEmail string
}

// RegisterCscInput carries the CSC onboarding fields.
type RegisterCscInput struct {
	OwnerName     string
	Email         string
	Password      string
	PortalName    string
	CscID         string
	Mobile        string
	CenterAddress string
}

// UpdateCscInput carries the admin edit form. Password is optional; when
// blank the stored hash is kept.
type UpdateCscInput struct {
	OwnerName     string
	Email         string
	PortalName    string
	CscID         string
	Mobile        string
	CenterAddress string
	Password      string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token   string
	Account *domain.Account
}

// CscDirectory partitions CSC accounts for the admin dashboard.
type CscDirectory struct {
	Active  []*domain.Account
	Deleted []*domain.Account
}

// CustomerDirectory partitions a CSC operator's assigned customers.
type CustomerDirectory struct {
	Pending []*domain.Account
	Active  []*domain.Account
}

// AccountService defines registration, authentication and account lifecycle
// operations across the three portals.
type AccountService interface {
	RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*domain.Account, error)
	// RegisterCsc creates a CSC account; initialStatus lets admin-created
	// accounts start ACTIVE while self-registered ones start PENDING.
	RegisterCsc(ctx context.Context, in RegisterCscInput, initialStatus domain.AccountStatus) (*domain.Account, error)
	UpdateCsc(ctx context.Context, accountID uint, in UpdateCscInput) (*domain.Account, error)

	// UpdateStatus upper-cases and stores the status verbatim; validation
	// against a fixed set is the caller's responsibility.
	UpdateStatus(ctx context.Context, accountID uint, status string) error

	// Login authenticates against one portal; the account's role must match.
	Login(ctx context.Context, portal domain.Role, email, password string) (*LoginResult, error)
	// Logout revokes the presented token until its natural expiry.
	Logout(ctx context.Context, token string) error

	CscAccounts(ctx context.Context) (*CscDirectory, error)
	ActiveCscAccounts(ctx context.Context) ([]*domain.Account, error)
	FindCsc(ctx context.Context, accountID uint) (*domain.Account, error)

	// CustomersForCsc lists the caller's assigned customers.
	CustomersForCsc(ctx context.Context, cscEmail string) (*CustomerDirectory, error)
	// CreateCustomerForCsc registers a customer assigned to the calling CSC
	// and activates it immediately.
	CreateCustomerForCsc(ctx context.Context, cscEmail string, in RegisterCustomerInput) (*domain.Account, error)
	// The per-customer operations verify the customer is assigned to the
	// calling CSC before mutating.
	ApproveCustomer(ctx context.Context, customerID uint, cscEmail string) error
	DeactivateCustomer(ctx context.Context, customerID uint, cscEmail string) error
	RemoveCustomer(ctx context.Context, customerID uint, cscEmail string) error
}
