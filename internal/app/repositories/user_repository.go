package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/pkg/apperrors"
	"github.com/easepay/easepay/internal/pkg/dberrors"
	"github.com/easepay/easepay/internal/pkg/logger"
)

// UserRepository handles credential database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const userColumns = "id, email, password, username, role_type, scope_category, scope_value, receipt_name, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var scopeValue *string
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.Username, &user.RoleType,
		&user.Scope.Category, &scopeValue, &user.ReceiptName,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user row: %w", err)
	}
	if scopeValue != nil {
		user.Scope.Value = *scopeValue
	}
	return &user, nil
}

// CreateUser inserts a new credential and returns its id
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	var scopeValue *string
	if user.Scope.Value != "" {
		scopeValue = &user.Scope.Value
	}

	sql, args, err := r.sb.Insert("users").
		Columns("email", "password", "username", "role_type", "scope_category", "scope_value", "receipt_name", "created_at", "updated_at").
		Values(user.Email, user.Password, user.Username, user.RoleType, user.Scope.Category, scopeValue, user.ReceiptName, time.Now(), time.Now()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetUserByEmail retrieves a credential by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by email query: %w", err)
	}

	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetUserByID retrieves a credential by id
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by id query: %w", err)
	}

	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// EmailExists checks whether an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("users").
		Where(squirrel.Eq{"email": email}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces the stored hash for an email
func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	sql, args, err := r.sb.Update("users").
		Set("password", passwordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error executing update password query")
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ListAdmins returns all credentials with the plain admin role
func (r *UserRepository) ListAdmins(ctx context.Context) ([]*models.User, error) {
	sql, args, err := r.sb.Select(userColumns).
		From("users").
		Where(squirrel.Eq{"role_type": models.RoleAdmin}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list admins query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list admins query")
		return nil, fmt.Errorf("error listing admins: %w", err)
	}
	defer rows.Close()

	var admins []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, user)
	}
	return admins, rows.Err()
}
