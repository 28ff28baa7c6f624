package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edocportal/portal-api/internal/core/domain"
	"github.com/edocportal/portal-api/internal/core/ports"
)

// EnsureAdmin provisions the bootstrap admin account from configuration.
// Idempotent: an existing row keyed by the normalized email is reasserted
// (role, status, display name, password hash); a missing one is created.
// Repeated invocation never produces duplicate admin rows.
func EnsureAdmin(ctx context.Context, repo ports.AccountRepository, email, displayName, password string, log zerolog.Logger) error {
	normalized := domain.NormalizeEmail(email)
	if normalized == "" || password == "" {
		return errors.New("seed: admin email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	existing, err := repo.FindByEmail(ctx, normalized)
	switch {
	case err == nil:
		existing.PasswordHash = string(hash)
		existing.Role = domain.RoleAdmin
		existing.Status = domain.AccountActive
		if existing.Admin == nil {
			existing.Admin = &domain.AdminProfile{}
		}
		existing.Admin.DisplayName = displayName
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		log.Info().Str("email", normalized).Msg("admin account reasserted")
		return nil

	case errors.Is(err, domain.ErrAccountNotFound):
		admin := &domain.Account{
			Email:        normalized,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
			Status:       domain.AccountActive,
			Admin:        &domain.AdminProfile{DisplayName: displayName},
		}
		if _, err := repo.Create(ctx, admin); err != nil {
			return err
		}
		log.Info().Str("email", normalized).Msg("admin account created")
		return nil

	default:
		return err
	}
}
