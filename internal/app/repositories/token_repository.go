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

// TokenRepository handles the refresh-token ledger
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new ledger row for an issued refresh token
func (r *TokenRepository) Create(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "user_id", "expires_at", "revoked", "created_at").
		Values(token, userID, expiresAt, false, time.Now()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create token SQL")
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		// Token strings are signed JWTs with unique jti claims so a
		// collision indicates a replayed insert, not bad luck.
		if dberrors.IsDuplicateConstraintError(err, "refresh_tokens_token_key") {
			logger.Warn().Int64("userID", userID).Msg("Attempted to record duplicate refresh token")
			return apperrors.ErrDuplicateToken
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}

	return nil
}

// FindActive returns the ledger row matching token string, owning user and
// revoked = false. A revoked row, an expired row or a row owned by a
// different user is reported as not found: the lookup fails closed.
func (r *TokenRepository) FindActive(ctx context.Context, token string, userID int64) (*models.RefreshToken, error) {
	sql, args, err := r.sb.Select("id", "token", "user_id", "expires_at", "revoked", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token, "user_id": userID, "revoked": false}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find active token query: %w", err)
	}

	var row models.RefreshToken
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&row.ID, &row.Token, &row.UserID, &row.ExpiresAt, &row.Revoked, &row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning refresh token row")
		return nil, fmt.Errorf("error retrieving token: %w", err)
	}

	if row.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrTokenNotFound
	}

	return &row, nil
}

// Revoke marks a token revoked. Idempotent: revoking a missing or already
// revoked token is a no-op success, since logout is cleanup rather than a
// security gate.
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("revoked", true).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building revoke token SQL")
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error executing revoke token query")
		return fmt.Errorf("error revoking token: %w", err)
	}

	return nil
}

// Rotate replaces an active ledger row with its successor in one
// transaction. The revoke is conditional on revoked still being false; when
// two refresh attempts race on the same parent token, exactly one sees the
// update take effect and the other aborts without inserting a child.
func (r *TokenRepository) Rotate(ctx context.Context, oldToken, newToken string, userID int64, expiresAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	revokeSQL, revokeArgs, err := r.sb.Update("refresh_tokens").
		Set("revoked", true).
		Where(squirrel.Eq{"token": oldToken, "user_id": userID, "revoked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build rotation revoke query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, revokeSQL, revokeArgs...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error revoking token during rotation")
		return fmt.Errorf("error revoking token during rotation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Lost the race or the token was never active
		return apperrors.ErrTokenNotFound
	}

	insertSQL, insertArgs, err := r.sb.Insert("refresh_tokens").
		Columns("token", "user_id", "expires_at", "revoked", "created_at").
		Values(newToken, userID, expiresAt, false, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build rotation insert query: %w", err)
	}

	if _, err = tx.Exec(ctx, insertSQL, insertArgs...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "refresh_tokens_token_key") {
			return apperrors.ErrDuplicateToken
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error inserting replacement token during rotation")
		return fmt.Errorf("error inserting replacement token: %w", err)
	}

	return tx.Commit(ctx)
}

// CleanupExpired removes expired rows and revoked rows older than 30 days
func (r *TokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	thirtyDaysAgo := time.Now().Add(-30 * 24 * time.Hour)

	sql, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expires_at": time.Now()},
			squirrel.And{
				squirrel.Eq{"revoked": true},
				squirrel.Lt{"created_at": thirtyDaysAgo},
			},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}

	deletedCount := cmdTag.RowsAffected()
	logger.Info().Int64("deletedCount", deletedCount).Msg("Cleaned up expired/old revoked refresh tokens")

	return deletedCount, nil
}
