package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/app/repositories"
	"github.com/easepay/easepay/internal/config"
	"github.com/easepay/easepay/internal/pkg/apperrors"
	"github.com/easepay/easepay/internal/pkg/auth"
)

// CreateDefaultData provisions the initial superAdmin account so a fresh
// deployment has someone who can register the other admins. No-op when the
// account already exists or when no seed credentials are configured.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	seedEmail := cfg.Seed.SuperAdminEmail
	seedPassword := cfg.Seed.SuperAdminPassword
	if seedEmail == "" || seedPassword == "" {
		lgr.Debug().Msg("No seed super admin configured, skipping")
		return nil
	}

	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, seedEmail)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Str("email", seedEmail).Msg("Seed super admin already present")
		return nil
	}

	hashedPassword, err := auth.HashPassword(seedPassword)
	if err != nil {
		return err
	}

	superAdmin := &models.User{
		Email:    seedEmail,
		Password: hashedPassword,
		Username: "superadmin",
		RoleType: models.RoleSuperAdmin,
		Scope: models.Scope{
			Category: models.ScopeStudentUnion,
		},
	}

	if _, err := userRepo.CreateUser(ctx, superAdmin); err != nil {
		// Tolerate a concurrent instance having seeded first
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("email", seedEmail).Msg("Seed super admin account created")
	return nil
}
