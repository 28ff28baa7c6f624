package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/edocportal/portal-api/internal/core/domain"
)

// AccountRepository persists accounts and their role profiles.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := accountToRow(account)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return rowToAccount(row), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var row accountRow
	err := r.db.WithContext(ctx).
		Preload("Admin").Preload("Csc").Preload("Customer").
		Where("email = ?", email).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return rowToAccount(&row), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	var row accountRow
	err := r.db.WithContext(ctx).
		Preload("Admin").Preload("Csc").Preload("Customer").
		Take(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return rowToAccount(&row), nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&accountRow{}).Where("id = ?", account.ID).Updates(map[string]any{
			"email":         account.Email,
			"password_hash": account.PasswordHash,
			"role":          string(account.Role),
			"status":        string(account.Status),
		})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("update account: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}
		return upsertProfile(tx, account)
	})
}

// upsertProfile writes the role-specific profile row for the account.
func upsertProfile(tx *gorm.DB, account *domain.Account) error {
	switch {
	case account.Role == domain.RoleAdmin && account.Admin != nil:
		var row adminProfileRow
		return tx.Where(adminProfileRow{AccountID: account.ID}).
			Assign(map[string]any{"display_name": account.Admin.DisplayName}).
			FirstOrCreate(&row).Error
	case account.Role == domain.RoleCsc && account.Csc != nil:
		var row cscProfileRow
		return tx.Where(cscProfileRow{AccountID: account.ID}).
			Assign(map[string]any{
				"portal_name":    account.Csc.PortalName,
				"owner_name":     account.Csc.OwnerName,
				"csc_id":         account.Csc.CscID,
				"mobile":         account.Csc.Mobile,
				"center_address": account.Csc.CenterAddress,
			}).
			FirstOrCreate(&row).Error
	case account.Role == domain.RoleCustomer && account.Customer != nil:
		var row customerProfileRow
		return tx.Where(customerProfileRow{AccountID: account.ID}).
			Assign(map[string]any{
				"full_name":          account.Customer.FullName,
				"mobile":             account.Customer.Mobile,
				"assigned_csc_id":    account.Customer.AssignedCscID,
				"assigned_csc_email": account.Customer.AssignedCscEmail,
			}).
			FirstOrCreate(&row).Error
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&accountRow{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&accountRow{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *AccountRepository) ExistsCustomerMobile(ctx context.Context, mobile string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&customerProfileRow{}).Where("mobile = ?", mobile).Count(&n).Error
	return n > 0, err
}

func (r *AccountRepository) ExistsCscID(ctx context.Context, cscID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&cscProfileRow{}).Where("csc_id = ?", cscID).Count(&n).Error
	return n > 0, err
}

func (r *AccountRepository) ExistsCscMobile(ctx context.Context, mobile string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&cscProfileRow{}).Where("mobile = ?", mobile).Count(&n).Error
	return n > 0, err
}

func (r *AccountRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	var rows []accountRow
	err := r.db.WithContext(ctx).
		Preload("Admin").Preload("Csc").Preload("Customer").
		Where("role = ?", string(role)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	accounts := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rowToAccount(&rows[i]))
	}
	return accounts, nil
}

func (r *AccountRepository) ListCustomersAssignedTo(ctx context.Context, cscID uint) ([]*domain.Account, error) {
	var rows []accountRow
	err := r.db.WithContext(ctx).
		Joins("JOIN customer_profiles ON customer_profiles.account_id = accounts.id").
		Where("accounts.role = ? AND customer_profiles.assigned_csc_id = ?", string(domain.RoleCustomer), cscID).
		Preload("Customer").
		Order("accounts.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list assigned customers: %w", err)
	}
	accounts := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rowToAccount(&rows[i]))
	}
	return accounts, nil
}

func accountToRow(a *domain.Account) *accountRow {
	row := &accountRow{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		Status:       string(a.Status),
	}
	if a.Admin != nil {
		row.Admin = &adminProfileRow{DisplayName: a.Admin.DisplayName}
	}
	if a.Csc != nil {
		row.Csc = &cscProfileRow{
			PortalName:    a.Csc.PortalName,
			OwnerName:     a.Csc.OwnerName,
			CscID:         a.Csc.CscID,
			Mobile:        a.Csc.Mobile,
			CenterAddress: a.Csc.CenterAddress,
		}
	}
	if a.Customer != nil {
		row.Customer = &customerProfileRow{
			FullName:         a.Customer.FullName,
			Mobile:           a.Customer.Mobile,
			AssignedCscID:    a.Customer.AssignedCscID,
			AssignedCscEmail: a.Customer.AssignedCscEmail,
		}
	}
	return row
}

func rowToAccount(row *accountRow) *domain.Account {
	a := &domain.Account{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
		Status:       domain.AccountStatus(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.Admin != nil {
		a.Admin = &domain.AdminProfile{DisplayName: row.Admin.DisplayName}
	}
	if row.Csc != nil {
		a.Csc = &domain.CscProfile{
			PortalName:    row.Csc.PortalName,
			OwnerName:     row.Csc.OwnerName,
			CscID:         row.Csc.CscID,
			Mobile:        row.Csc.Mobile,
			CenterAddress: row.Csc.CenterAddress,
		}
	}
	if row.Customer != nil {
		a.Customer = &domain.CustomerProfile{
			FullName:         row.Customer.FullName,
			Mobile:           row.Customer.Mobile,
			AssignedCscID:    row.Customer.AssignedCscID,
			AssignedCscEmail: row.Customer.AssignedCscEmail,
		}
	}
	return a
}
