package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/app/models/dto"
	"github.com/easepay/easepay/internal/app/repositories"
	"github.com/easepay/easepay/internal/pkg/apperrors"
	"github.com/easepay/easepay/internal/pkg/auth"
	"github.com/easepay/easepay/internal/pkg/email"
	"github.com/easepay/easepay/internal/pkg/validation"
)

const (
	otpKeyPrefix = "otp:"
	otpTTL       = 5 * time.Minute
	otpDigits    = 6
)

// dummyHash keeps login timing uniform when the email does not match a user.
// It is a bcrypt hash of a random string no password will ever equal.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthService handles authentication, session and account operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	tokenRepo  repositories.ITokenRepository
	jwtService *auth.JWTService
	redis      *redis.Client
	mailer     email.EmailService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	jwtService *auth.JWTService,
	redisClient *redis.Client,
	mailer email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		redis:      redisClient,
		mailer:     mailer,
		logger:     logger,
	}
}

// Register creates a new admin account. Only superAdmins reach this path;
// the role check lives in middleware.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.PublicProfile, error) {
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	role := models.RoleType(req.Role)
	if !role.IsValid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown role %q", req.Role))
	}

	scope := models.Scope{
		Category: models.ScopeCategory(req.ScopeCategory),
		Value:    req.ScopeValue,
	}
	if !scope.Category.IsValid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown scope category %q", req.ScopeCategory))
	}
	if scope.Category.RequiresValue() && scope.Value == "" {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("scope category %q requires a scope value", req.ScopeCategory))
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Username: req.Username,
		RoleType: role,
		Scope:    scope,
	}
	if req.ReceiptName != "" {
		user.ReceiptName = &req.ReceiptName
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info().Int64("userID", id).Str("role", req.Role).Msg("Admin account created")
	return user.Public(), nil
}

// Login verifies credentials and opens a session. Unknown emails and wrong
// passwords both come back as ErrInvalidCredentials so responses cannot be
// used to probe which emails have accounts.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *dto.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		// Burn a bcrypt comparison anyway so the miss costs as much as a hit
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(req.Password))
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return user, pair, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh pair, rotating
// the ledger row so the presented token cannot be replayed.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, *dto.TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, apperrors.ErrNoToken
	}

	claims, err := s.jwtService.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	// The signature alone is not enough; the ledger must still carry the
	// token as active for this user.
	if _, err := s.tokenRepo.FindActive(ctx, refreshToken, claims.UserID); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}

	newAccess, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	newRefresh, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.tokenRepo.Rotate(ctx, refreshToken, newRefresh, user.ID, s.jwtService.RefreshTokenExpiry()); err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			// A concurrent refresh won the rotation
			s.logger.Warn().Int64("userID", user.ID).Msg("Refresh token rotation lost a race")
		}
		return nil, nil, err
	}

	return user, &dto.TokenPair{
		AccessToken:      newAccess,
		RefreshToken:     newRefresh,
		ExpiresIn:        int64(s.jwtService.AccessTokenTTL().Seconds()),
		RefreshExpiresIn: int64(s.jwtService.RefreshTokenTTL().Seconds()),
	}, nil
}

// Logout revokes the presented refresh token. Best effort: logout succeeds
// even when the token is missing, already revoked or malformed.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to revoke refresh token on logout")
	}
	return nil
}

// GetProfile returns the public identity for a user ID
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// ListAdmins returns every admin account, superAdmins excluded
func (s *AuthService) ListAdmins(ctx context.Context) ([]*models.PublicProfile, error) {
	users, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]*models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Public())
	}
	return profiles, nil
}

// ForgotPassword emails a short-lived OTP to the account's address
func (s *AuthService) ForgotPassword(ctx context.Context, userEmail string) error {
	if err := validation.ValidateEmail(userEmail); err != nil {
		return err
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, userEmail); err != nil {
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	if err := s.redis.Set(ctx, otpKeyPrefix+userEmail, otp, otpTTL).Err(); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.mailer.SendPasswordResetOTP(userEmail, otp); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	s.logger.Info().Str("email", userEmail).Msg("Password reset OTP issued")
	return nil
}

// ResetPassword completes the reset flow when the presented OTP matches the
// stored one. The OTP is single use: it is deleted on success.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	key := otpKeyPrefix + req.Email
	stored, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrInvalidOrExpiredOTP
		}
		return fmt.Errorf("failed to read OTP: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(req.OTP)) != 1 {
		return apperrors.ErrInvalidOrExpiredOTP
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, req.Email, hashedPassword); err != nil {
		return err
	}

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to delete consumed OTP")
	}

	s.logger.Info().Str("email", req.Email).Msg("Password reset completed")
	return nil
}

// issueTokenPair signs both tokens and records the refresh token in the ledger
func (s *AuthService) issueTokenPair(ctx context.Context, user *models.User) (*dto.TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.tokenRepo.Create(ctx, refreshToken, user.ID, s.jwtService.RefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("failed to record refresh token: %w", err)
	}

	return &dto.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        int64(s.jwtService.AccessTokenTTL().Seconds()),
		RefreshExpiresIn: int64(s.jwtService.RefreshTokenTTL().Seconds()),
	}, nil
}

func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
