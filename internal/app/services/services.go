package services

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/easepay/easepay/internal/app/repositories"
	"github.com/easepay/easepay/internal/pkg/auth"
	"github.com/easepay/easepay/internal/pkg/email"
)

// Services defined in this package:
// - AuthService: authentication, session lifecycle and account management
// - TransactionService: proof-of-payment submission and admin review

// Services bundles all service implementations
type Services struct {
	AuthService        *AuthService
	TransactionService *TransactionService
}

// NewServices wires repositories and shared infrastructure into services
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	redisClient *redis.Client,
	mailer email.EmailService,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService: NewAuthService(
			repos.UserRepository,
			repos.TokenRepository,
			jwtService,
			redisClient,
			mailer,
			logger.With().Str("service", "auth").Logger(),
		),
		TransactionService: NewTransactionService(
			repos.TransactionRepository,
			mailer,
			logger.With().Str("service", "transaction").Logger(),
		),
	}
}
