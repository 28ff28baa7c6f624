package domain

import (
	"errors"
	"strings"
	"time"
)

// Role identifies which portal an account belongs to.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCsc      Role = "csc"
	RoleCustomer Role = "customer"
)

// AccountStatus is the lifecycle state of an account, stored upper-case.
type AccountStatus string

const (
	AccountPending AccountStatus = "PENDING"
	AccountActive  AccountStatus = "ACTIVE"
	AccountDeleted AccountStatus = "DELETED"
	// AccountApproved is a legacy alias still present in old rows; it is
	// treated the same as ACTIVE for login purposes.
	AccountApproved AccountStatus = "APPROVED"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrMobileTaken = errors.New("mobile number already registered")
var ErrCscIDTaken = errors.New("csc id already registered")
var ErrCscNotAvailable = errors.New("assigned csc is not an active csc account")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountDisabled = errors.New("account is not active")
var ErrWrongPortal = errors.New("account role does not match portal")
var ErrForbidden = errors.New("access forbidden")

// Account is the identity aggregate. Exactly one profile pointer is non-nil,
// matching Role.
type Account struct {
	ID           uint
	Email        string // normalized: trimmed, lower-cased, unique
	PasswordHash string
	Role         Role
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Admin    *AdminProfile
	Csc      *CscProfile
	Customer *CustomerProfile
}

// AdminProfile holds the admin-only attributes.
type AdminProfile struct {
	DisplayName string
}

// CscProfile holds the Customer Service Center attributes. CscID is the
// external registration number, unique across CSC accounts.
type CscProfile struct {
	PortalName    string
	OwnerName     string
	CscID         string
	Mobile        string
	CenterAddress string
}

// CustomerProfile holds the customer attributes. AssignedCscID references the
// CSC account reviewing this customer; AssignedCscEmail is the denormalized
// email of that account, kept for listings and the registration contract.
type CustomerProfile struct {
	FullName         string
	Mobile           string
	AssignedCscID    uint
	AssignedCscEmail string
}

// NormalizeEmail lower-cases and trims an email for case-insensitive lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UsableForLogin reports whether the account may authenticate: status ACTIVE
// or the legacy APPROVED, or any admin account (admins bypass the check).
func (a *Account) UsableForLogin() bool {
	if a.Role == RoleAdmin {
		return true
	}
	status := AccountStatus(strings.ToUpper(strings.TrimSpace(string(a.Status))))
	return status == AccountActive || status == AccountApproved
}

// AssignedCscMatches reports whether the customer account is assigned to the
// CSC account with the given id. False for non-customer accounts.
func (a *Account) AssignedCscMatches(cscID uint) bool {
	return a.Role == RoleCustomer && a.Customer != nil && a.Customer.AssignedCscID == cscID
}
