package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/easepay/easepay/internal/app/models"
)

// IUserRepository abstracts credential storage
type IUserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	ListAdmins(ctx context.Context) ([]*models.User, error)
}

// ITokenRepository abstracts the refresh-token ledger
type ITokenRepository interface {
	Create(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	FindActive(ctx context.Context, token string, userID int64) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	Rotate(ctx context.Context, oldToken, newToken string, userID int64, expiresAt time.Time) error
	CleanupExpired(ctx context.Context) (int64, error)
}

// ITransactionRepository abstracts transaction storage
type ITransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	List(ctx context.Context, status models.TransactionStatus, scopeFilter squirrel.Sqlizer, limit int) ([]*models.Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status models.TransactionStatus) (*models.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories bundles all repository implementations
type Repositories struct {
	UserRepository        *UserRepository
	TokenRepository       *TokenRepository
	TransactionRepository *TransactionRepository
}

// NewRepositories creates the repository container
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		TokenRepository:       NewTokenRepository(db),
		TransactionRepository: NewTransactionRepository(db),
	}
}
