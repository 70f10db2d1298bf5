package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/app/models/dto"
	"github.com/easepay/easepay/internal/app/repositories"
	"github.com/easepay/easepay/internal/pkg/apperrors"
	"github.com/easepay/easepay/internal/pkg/email"
	"github.com/easepay/easepay/internal/pkg/payment"
	"github.com/easepay/easepay/internal/pkg/validation"
)

// referenceRetries bounds how many times Create retries a colliding
// payment reference before giving up.
const referenceRetries = 3

// TransactionService handles proof-of-payment submissions and review
type TransactionService struct {
	txRepo repositories.ITransactionRepository
	mailer email.EmailService
	logger zerolog.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	txRepo repositories.ITransactionRepository,
	mailer email.EmailService,
	logger zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		txRepo: txRepo,
		mailer: mailer,
		logger: logger,
	}
}

// Create records a student's proof-of-payment submission as pending review
func (s *TransactionService) Create(ctx context.Context, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	dueType := models.DueType(req.DueType)
	if !dueType.IsValid() {
		return nil, apperrors.ErrInvalidDueType
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if req.PaymentMethod == "" {
		method = models.PaymentBankTransfer
	} else if !method.IsValid() {
		return nil, apperrors.ErrInvalidPaymentMethod
	}

	if err := validation.ValidatePhoneNumber(req.PhoneNumber); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		Amount:        req.Amount,
		College:       req.College,
		Department:    req.Department,
		DueType:       dueType,
		Email:         req.Email,
		FullName:      req.FullName,
		Hostel:        nullable(req.Hostel),
		Level:         nullable(req.Level),
		MatricNumber:  req.MatricNumber,
		PaymentMethod: method,
		PhoneNumber:   req.PhoneNumber,
		ProofURL:      req.ProofURL,
		ReceiptName:   nullable(req.ReceiptName),
		RoomNumber:    nullable(req.RoomNumber),
		Status:        models.StatusPending,
		StudentType:   nullable(req.StudentType),
	}

	deptCode := payment.DepartmentCodeFromMatric(req.MatricNumber)
	var lastErr error
	for attempt := 0; attempt < referenceRetries; attempt++ {
		tx.Reference = payment.GenerateReference(deptCode)
		id, err := s.txRepo.Create(ctx, tx)
		if err == nil {
			tx.ID = id
			s.logger.Info().
				Int64("transactionID", id).
				Str("reference", tx.Reference).
				Str("dueType", string(dueType)).
				Msg("Transaction submitted")
			return tx, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicateReference) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("could not allocate a unique payment reference: %w", lastErr)
}

// GetByID fetches a single transaction
func (s *TransactionService) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	return s.txRepo.GetByID(ctx, id)
}

// List returns transactions visible to the acting admin. A superAdmin sees
// everything; an admin only sees rows inside their scope.
func (s *TransactionService) List(ctx context.Context, actor *models.User, params *dto.ListTransactionsParams) ([]*models.Transaction, error) {
	status := models.TransactionStatus(params.Status)
	if params.Status != "" && !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	var scopeFilter squirrel.Sqlizer
	if actor.RoleType != models.RoleSuperAdmin {
		filter, err := models.BuildScopeFilter(actor.Scope)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("userID", actor.ID).
				Str("scopeCategory", string(actor.Scope.Category)).
				Msg("Cannot build scope filter for admin")
			return nil, err
		}
		scopeFilter = filter
	}

	return s.txRepo.List(ctx, status, scopeFilter, params.Limit)
}

// UpdateStatus records the review outcome and notifies the student by email.
// The notification is asynchronous and best effort; the status change stands
// even if the email fails.
func (s *TransactionService) UpdateStatus(ctx context.Context, id int64, status models.TransactionStatus) (*models.Transaction, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	tx, err := s.txRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("transactionID", id).
		Str("status", string(status)).
		Msg("Transaction status updated")

	switch status {
	case models.StatusSuccessful:
		go s.notify(tx, s.mailer.SendReceipt)
	case models.StatusFailed:
		go s.notify(tx, s.mailer.SendPaymentFailed)
	}

	return tx, nil
}

// Delete removes a transaction record
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	return s.txRepo.Delete(ctx, id)
}

func (s *TransactionService) notify(tx *models.Transaction, send func(string, *models.Transaction) error) {
	if err := send(tx.Email, tx); err != nil {
		s.logger.Warn().
			Err(err).
			Int64("transactionID", tx.ID).
			Msg("Failed to send status notification email")
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
