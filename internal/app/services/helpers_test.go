package services

import (
	"context"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/pkg/apperrors"
	"github.com/easepay/easepay/internal/pkg/auth"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		AccessSecret:    "access-secret-for-tests",
		RefreshSecret:   "refresh-secret-for-tests",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:     "easepay.test",
	})
}

// fakeUserRepo is an in-memory IUserRepository
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	id := f.nextID
	f.nextID++
	clone := *user
	clone.ID = id
	f.users[id] = &clone
	return id, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u.Password = passwordHash
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) ListAdmins(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var admins []*models.User
	for _, u := range f.users {
		if u.RoleType == models.RoleAdmin {
			clone := *u
			admins = append(admins, &clone)
		}
	}
	return admins, nil
}

// fakeTokenRepo is an in-memory refresh-token ledger with the same
// rotation atomicity as the real one
type fakeTokenRepo struct {
	mu   sync.Mutex
	rows map[string]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{rows: make(map[string]*models.RefreshToken)}
}

func (f *fakeTokenRepo) Create(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.rows[token]; exists {
		return apperrors.ErrDuplicateToken
	}
	f.rows[token] = &models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeTokenRepo) FindActive(_ context.Context, token string, userID int64) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[token]
	if !ok || row.UserID != userID || row.Revoked || row.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrTokenNotFound
	}
	clone := *row
	return &clone, nil
}

func (f *fakeTokenRepo) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[token]; ok {
		row.Revoked = true
	}
	return nil
}

func (f *fakeTokenRepo) Rotate(_ context.Context, oldToken, newToken string, userID int64, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[oldToken]
	if !ok || row.UserID != userID || row.Revoked {
		return apperrors.ErrTokenNotFound
	}
	row.Revoked = true
	f.rows[newToken] = &models.RefreshToken{
		Token:     newToken,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeTokenRepo) CleanupExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for token, row := range f.rows {
		if row.ExpiresAt.Before(time.Now()) {
			delete(f.rows, token)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeTokenRepo) isRevoked(token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[token]
	return ok && row.Revoked
}

// fakeTransactionRepo is an in-memory ITransactionRepository that records
// the scope filter each List call received
type fakeTransactionRepo struct {
	mu          sync.Mutex
	nextID      int64
	rows        map[int64]*models.Transaction
	lastFilters []squirrel.Sqlizer
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{nextID: 1, rows: make(map[int64]*models.Transaction)}
}

func (f *fakeTransactionRepo) Create(_ context.Context, tx *models.Transaction) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Reference == tx.Reference {
			return 0, apperrors.ErrDuplicateReference
		}
	}
	id := f.nextID
	f.nextID++
	clone := *tx
	clone.ID = id
	f.rows[id] = &clone
	return id, nil
}

func (f *fakeTransactionRepo) GetByID(_ context.Context, id int64) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	clone := *row
	return &clone, nil
}

func (f *fakeTransactionRepo) List(_ context.Context, status models.TransactionStatus, scopeFilter squirrel.Sqlizer, limit int) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilters = append(f.lastFilters, scopeFilter)

	matches := func(tx *models.Transaction) bool {
		if status != "" && tx.Status != status {
			return false
		}
		if scopeFilter == nil {
			return true
		}
		eq, ok := scopeFilter.(squirrel.Eq)
		if !ok {
			return false
		}
		for column, value := range eq {
			switch column {
			case "college":
				if tx.College != value {
					return false
				}
			case "department":
				if tx.Department != value {
					return false
				}
			case "due_type":
				if string(tx.DueType) != value {
					return false
				}
			default:
				return false
			}
		}
		return true
	}

	var out []*models.Transaction
	for _, row := range f.rows {
		if matches(row) {
			clone := *row
			out = append(out, &clone)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) UpdateStatus(_ context.Context, id int64, status models.TransactionStatus) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	row.Status = status
	row.UpdatedAt = time.Now()
	clone := *row
	return &clone, nil
}

func (f *fakeTransactionRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrTransactionNotFound
	}
	delete(f.rows, id)
	return nil
}

// fakeMailer records sent notifications
type fakeMailer struct {
	mu       sync.Mutex
	receipts []string
	failures []string
	otps     map[string]string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{otps: make(map[string]string)}
}

func (f *fakeMailer) SendReceipt(toEmail string, _ *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, toEmail)
	return nil
}

func (f *fakeMailer) SendPaymentFailed(toEmail string, _ *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, toEmail)
	return nil
}

func (f *fakeMailer) SendPasswordResetOTP(toEmail, otp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otps[toEmail] = otp
	return nil
}

func (f *fakeMailer) receiptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.receipts)
}

func (f *fakeMailer) failureCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.failures)
}

func newTestAuthService(userRepo *fakeUserRepo, tokenRepo *fakeTokenRepo) *AuthService {
	return NewAuthService(userRepo, tokenRepo, testJWTService(), nil, newFakeMailer(), zerolog.Nop())
}
