package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/pkg/apperrors"
)

// TokenKind selects which signing secret a token belongs to. Access and
// refresh tokens use distinct secrets so a compromise of one key space does
// not grant the other token class.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

// JWTConfig defines JWT configuration settings. Loaded once at startup and
// immutable afterwards.
type JWTConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
	TokenIssuer     string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	if config.AccessTokenExp == 0 {
		config.AccessTokenExp = 15 * time.Minute
	}
	if config.RefreshTokenExp == 0 {
		config.RefreshTokenExp = 7 * 24 * time.Hour
	}
	return &JWTService{
		config: config,
	}
}

// Claims defines JWT token content
type Claims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a short-lived access token for the user.
func (s *JWTService) GenerateAccessToken(user *models.User) (string, error) {
	return s.generate(user, AccessToken)
}

// GenerateRefreshToken signs a refresh token with the refresh secret. The
// caller is responsible for persisting it in the ledger.
func (s *JWTService) GenerateRefreshToken(user *models.User) (string, error) {
	return s.generate(user, RefreshToken)
}

func (s *JWTService) generate(user *models.User, kind TokenKind) (string, error) {
	now := time.Now()
	expiry := now.Add(s.config.AccessTokenExp)
	secret := s.config.AccessSecret
	if kind == RefreshToken {
		expiry = now.Add(s.config.RefreshTokenExp)
		secret = s.config.RefreshSecret
	}

	claims := &Claims{
		UserID: user.ID,
		Role:   string(user.RoleType),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (s *JWTService) VerifyAccessToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, AccessToken)
}

// VerifyRefreshToken validates a refresh token and returns its claims. A
// signature match alone does not make the token usable; the ledger decides
// revocation and ownership.
func (s *JWTService) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, RefreshToken)
}

func (s *JWTService) verify(tokenString string, kind TokenKind) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	secret := s.config.AccessSecret
	if kind == RefreshToken {
		secret = s.config.RefreshSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, apperrors.ErrTokenNotYetValid
		default:
			return nil, apperrors.ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.UserID <= 0 {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *JWTService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenExp
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *JWTService) RefreshTokenTTL() time.Duration {
	return s.config.RefreshTokenExp
}

// RefreshTokenExpiry returns the ledger expiry for a refresh token issued now.
func (s *JWTService) RefreshTokenExpiry() time.Time {
	return time.Now().Add(s.config.RefreshTokenExp)
}
