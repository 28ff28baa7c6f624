package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edocportal/portal-api/internal/api/metrics"
	"github.com/edocportal/portal-api/internal/core/domain"
	"github.com/edocportal/portal-api/internal/core/ports"
)

// TokenRevoker abstracts the logout deny-list (Redis).
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// AccountService implements registration, login and account lifecycle
// management for the three portals.
type AccountService struct {
	repo      ports.AccountRepository
	revoker   TokenRevoker
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, revoker TokenRevoker, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{repo: repo, revoker: revoker, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AccountService) RegisterCustomer(ctx context.Context, in ports.RegisterCustomerInput) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	mobile := strings.TrimSpace(in.Mobile)

	if taken, err := s.repo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrEmailTaken
	}
	if mobile != "" {
		if taken, err := s.repo.ExistsCustomerMobile(ctx, mobile); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrMobileTaken
		}
	}

	cscEmail := domain.NormalizeEmail(in.AssignedCscEmail)
	if cscEmail == "" {
		return nil, domain.ErrCscNotAvailable
	}
	csc, err := s.repo.FindByEmail(ctx, cscEmail)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrCscNotAvailable
		}
		return nil, err
	}
	if csc.Role != domain.RoleCsc || !strings.EqualFold(string(csc.Status), string(domain.AccountActive)) {
		return nil, domain.ErrCscNotAvailable
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Status:       domain.AccountPending,
		Customer: &domain.CustomerProfile{
			FullName:         strings.TrimSpace(in.FullName),
			Mobile:           mobile,
			AssignedCscID:    csc.ID,
			AssignedCscEmail: csc.Email,
		},
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleCustomer)).Inc()
	s.log.Info().Str("email", created.Email).Str("assigned_csc", csc.Email).Msg("customer registered")
	return created, nil
}

func (s *AccountService) RegisterCsc(ctx context.Context, in ports.RegisterCscInput, initialStatus domain.AccountStatus) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	cscID := strings.TrimSpace(in.CscID)
	mobile := strings.TrimSpace(in.Mobile)

	if taken, err := s.repo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrEmailTaken
	}
	if cscID != "" {
		if taken, err := s.repo.ExistsCscID(ctx, cscID); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrCscIDTaken
		}
	}
	if mobile != "" {
		if taken, err := s.repo.ExistsCscMobile(ctx, mobile); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrMobileTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	status := domain.AccountStatus(strings.ToUpper(strings.TrimSpace(string(initialStatus))))
	if status == "" {
		status = domain.AccountActive
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleCsc,
		Status:       status,
		Csc: &domain.CscProfile{
			PortalName:    strings.TrimSpace(in.PortalName),
			OwnerName:     strings.TrimSpace(in.OwnerName),
			CscID:         cscID,
			Mobile:        mobile,
			CenterAddress: strings.TrimSpace(in.CenterAddress),
		},
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleCsc)).Inc()
	s.log.Info().Str("email", created.Email).Str("status", string(created.Status)).Msg("csc registered")
	return created, nil
}

func (s *AccountService) UpdateCsc(ctx context.Context, accountID uint, in ports.UpdateCscInput) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleCsc || account.Csc == nil {
		return nil, domain.ErrAccountNotFound
	}

	email := domain.NormalizeEmail(in.Email)
	if email != "" && email != account.Email {
		if taken, err := s.repo.ExistsByEmail(ctx, email); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrEmailTaken
		}
		account.Email = email
	}
	account.Csc.PortalName = strings.TrimSpace(in.PortalName)
	account.Csc.OwnerName = strings.TrimSpace(in.OwnerName)
	account.Csc.CscID = strings.TrimSpace(in.CscID)
	account.Csc.Mobile = strings.TrimSpace(in.Mobile)
	account.Csc.CenterAddress = strings.TrimSpace(in.CenterAddress)
	if strings.TrimSpace(in.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateStatus upper-cases and stores the status verbatim. Idempotent.
func (s *AccountService) UpdateStatus(ctx context.Context, accountID uint, status string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	account.Status = domain.AccountStatus(strings.ToUpper(strings.TrimSpace(status)))
	return s.repo.Update(ctx, account)
}

func (s *AccountService) Login(ctx context.Context, portal domain.Role, email, password string) (*ports.LoginResult, error) {
	account, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.LoginFailuresTotal.WithLabelValues(string(portal), "bad_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		metrics.LoginFailuresTotal.WithLabelValues(string(portal), "bad_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !account.UsableForLogin() {
		metrics.LoginFailuresTotal.WithLabelValues(string(portal), "disabled").Inc()
		return nil, domain.ErrAccountDisabled
	}
	// A valid credential for the wrong portal never yields a token.
	if account.Role != portal {
		metrics.LoginFailuresTotal.WithLabelValues(string(portal), "wrong_portal").Inc()
		return nil, domain.ErrWrongPortal
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", account.Email).Str("portal", string(portal)).Msg("login")
	return &ports.LoginResult{Token: token, Account: account}, nil
}

// Logout places the token id on the revocation deny-list until the token's
// natural expiry.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return domain.ErrInvalidCredentials
	}

	tokenID, _ := claims["jti"].(string)
	if tokenID == "" {
		return domain.ErrInvalidCredentials
	}
	ttl := s.tokenTTL
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ttl = time.Until(exp.Time)
	}
	if ttl <= 0 {
		return nil // already expired
	}
	return s.revoker.Revoke(ctx, tokenID, ttl)
}

func (s *AccountService) CscAccounts(ctx context.Context) (*ports.CscDirectory, error) {
	accounts, err := s.repo.ListByRole(ctx, domain.RoleCsc)
	if err != nil {
		return nil, err
	}
	dir := &ports.CscDirectory{}
	for _, a := range accounts {
		if strings.EqualFold(string(a.Status), string(domain.AccountDeleted)) {
			dir.Deleted = append(dir.Deleted, a)
		} else {
			dir.Active = append(dir.Active, a)
		}
	}
	return dir, nil
}

func (s *AccountService) ActiveCscAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.repo.ListByRole(ctx, domain.RoleCsc)
	if err != nil {
		return nil, err
	}
	active := make([]*domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if strings.EqualFold(string(a.Status), string(domain.AccountActive)) {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *AccountService) FindCsc(ctx context.Context, accountID uint) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleCsc {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (s *AccountService) CustomersForCsc(ctx context.Context, cscEmail string) (*ports.CustomerDirectory, error) {
	csc, err := s.requireCsc(ctx, cscEmail)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.ListCustomersAssignedTo(ctx, csc.ID)
	if err != nil {
		return nil, err
	}
	dir := &ports.CustomerDirectory{}
	for _, c := range customers {
		switch {
		case strings.EqualFold(string(c.Status), string(domain.AccountPending)):
			dir.Pending = append(dir.Pending, c)
		case strings.EqualFold(string(c.Status), string(domain.AccountActive)):
			dir.Active = append(dir.Active, c)
		}
	}
	return dir, nil
}

func (s *AccountService) CreateCustomerForCsc(ctx context.Context, cscEmail string, in ports.RegisterCustomerInput) (*domain.Account, error) {
	in.AssignedCscEmail = cscEmail
	created, err := s.RegisterCustomer(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.UpdateStatus(ctx, created.ID, string(domain.AccountActive)); err != nil {
		return nil, err
	}
	created.Status = domain.AccountActive
	return created, nil
}

func (s *AccountService) ApproveCustomer(ctx context.Context, customerID uint, cscEmail string) error {
	if err := s.authorizeCustomer(ctx, customerID, cscEmail); err != nil {
		return err
	}
	return s.UpdateStatus(ctx, customerID, string(domain.AccountActive))
}

func (s *AccountService) DeactivateCustomer(ctx context.Context, customerID uint, cscEmail string) error {
	if err := s.authorizeCustomer(ctx, customerID, cscEmail); err != nil {
		return err
	}
	return s.UpdateStatus(ctx, customerID, string(domain.AccountPending))
}

func (s *AccountService) RemoveCustomer(ctx context.Context, customerID uint, cscEmail string) error {
	if err := s.authorizeCustomer(ctx, customerID, cscEmail); err != nil {
		return err
	}
	return s.repo.Delete(ctx, customerID)
}

// authorizeCustomer verifies the customer exists and is assigned to the
// calling CSC before any mutation.
func (s *AccountService) authorizeCustomer(ctx context.Context, customerID uint, cscEmail string) error {
	csc, err := s.requireCsc(ctx, cscEmail)
	if err != nil {
		return err
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if !customer.AssignedCscMatches(csc.ID) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *AccountService) requireCsc(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleCsc {
		return nil, domain.ErrForbidden
	}
	return account, nil
}

func (s *AccountService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":  account.Email,
		"role": string(account.Role),
		"jti":  newTokenID(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// newTokenID returns a random 16-byte hex token id for revocation tracking.
func newTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
