package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/pkg/apperrors"
	"github.com/easepay/easepay/internal/pkg/dberrors"
	"github.com/easepay/easepay/internal/pkg/logger"
)

const transactionColumns = "id, amount, college, department, due_type, email, full_name, hostel, level, matric_number, payment_method, phone_number, proof_url, receipt_name, reference, room_number, status, student_type, created_at, updated_at"

// TransactionRepository handles transaction persistence
type TransactionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.Amount, &t.College, &t.Department, &t.DueType, &t.Email,
		&t.FullName, &t.Hostel, &t.Level, &t.MatricNumber, &t.PaymentMethod,
		&t.PhoneNumber, &t.ProofURL, &t.ReceiptName, &t.Reference,
		&t.RoomNumber, &t.Status, &t.StudentType, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new transaction and returns its ID
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) (int64, error) {
	sql, args, err := r.sb.Insert("transactions").
		Columns("amount", "college", "department", "due_type", "email", "full_name",
			"hostel", "level", "matric_number", "payment_method", "phone_number",
			"proof_url", "receipt_name", "reference", "room_number", "status", "student_type").
		Values(tx.Amount, tx.College, tx.Department, tx.DueType, tx.Email, tx.FullName,
			tx.Hostel, tx.Level, tx.MatricNumber, tx.PaymentMethod, tx.PhoneNumber,
			tx.ProofURL, tx.ReceiptName, tx.Reference, tx.RoomNumber, tx.Status, tx.StudentType).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create transaction SQL")
		return 0, fmt.Errorf("failed to build create transaction query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "transactions_reference_key") {
			logger.Warn().Str("reference", tx.Reference).Msg("Duplicate payment reference")
			return 0, apperrors.ErrDuplicateReference
		}
		logger.Error().Err(err).Msg("Error executing create transaction query")
		return 0, fmt.Errorf("error creating transaction: %w", err)
	}

	return id, nil
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	sql, args, err := r.sb.Select(transactionColumns).
		From("transactions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get transaction query: %w", err)
	}

	t, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTransactionNotFound
		}
		logger.Error().Err(err).Int64("transactionID", id).Msg("Error scanning transaction row")
		return nil, fmt.Errorf("error retrieving transaction: %w", err)
	}

	return t, nil
}

// List returns transactions ordered newest first, optionally filtered by
// status and by the caller's scope filter. A nil scopeFilter means
// unrestricted access.
func (r *TransactionRepository) List(ctx context.Context, status models.TransactionStatus, scopeFilter squirrel.Sqlizer, limit int) ([]*models.Transaction, error) {
	query := r.sb.Select(transactionColumns).
		From("transactions").
		OrderBy("created_at DESC")

	if status != "" {
		query = query.Where(squirrel.Eq{"status": status})
	}
	if scopeFilter != nil {
		query = query.Where(scopeFilter)
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list transactions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list transactions query")
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

// UpdateStatus sets a transaction's status and returns the updated row
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id int64, status models.TransactionStatus) (*models.Transaction, error) {
	sql, args, err := r.sb.Update("transactions").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + transactionColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update status query: %w", err)
	}

	t, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTransactionNotFound
		}
		logger.Error().Err(err).Int64("transactionID", id).Msg("Error updating transaction status")
		return nil, fmt.Errorf("error updating transaction status: %w", err)
	}

	return t, nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("transactions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete transaction query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("transactionID", id).Msg("Error deleting transaction")
		return fmt.Errorf("error deleting transaction: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTransactionNotFound
	}

	return nil
}
