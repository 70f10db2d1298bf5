package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/app/models/dto"
	"github.com/easepay/easepay/internal/app/repositories"
	"github.com/easepay/easepay/internal/app/services"
	"github.com/easepay/easepay/internal/pkg/apperrors"
	"github.com/easepay/easepay/internal/pkg/auth"
	"github.com/easepay/easepay/internal/pkg/cookies"
	"github.com/easepay/easepay/internal/pkg/logger"
)

// Context keys populated by SessionAuth
const (
	ContextUserIDKey   = "userID"
	ContextRoleKey     = "roleType"
	ContextCurrentUser = "currentUser"
)

// AuthMiddleware guards routes with cookie-carried sessions
type AuthMiddleware struct {
	jwtService  *auth.JWTService
	authService *services.AuthService
	userRepo    repositories.IUserRepository
	cookieCfg   cookies.Config
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(
	jwtService *auth.JWTService,
	authService *services.AuthService,
	userRepo repositories.IUserRepository,
	cookieCfg cookies.Config,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		authService: authService,
		userRepo:    userRepo,
		cookieCfg:   cookieCfg,
	}
}

// SessionAuth validates the access token cookie. When the access token has
// expired but a refresh token cookie is present, the session is silently
// renewed in place: the ledger row rotates and fresh cookies ride out on the
// same response. Any other token problem ends the request with 401.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, accessErr := c.Cookie(cookies.AccessTokenCookie)
		refreshToken, refreshErr := c.Cookie(cookies.RefreshTokenCookie)

		if accessErr != nil && refreshErr != nil {
			abortUnauthorized(c, dto.ErrorCodeNoToken, "Authentication required")
			return
		}

		if accessErr == nil {
			claims, err := m.jwtService.VerifyAccessToken(accessToken)
			if err == nil {
				m.attachUser(c, claims.UserID)
				return
			}
			// Only an expired-but-otherwise-valid token may fall through
			// to the refresh path. A forged or not-yet-valid token must not.
			if !errors.Is(err, apperrors.ErrTokenExpired) {
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
				return
			}
			if refreshErr != nil {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Session expired")
				return
			}
		}

		m.silentRefresh(c, refreshToken)
	}
}

// silentRefresh rotates the refresh token and continues the request as the
// refreshed user
func (m *AuthMiddleware) silentRefresh(c *gin.Context, refreshToken string) {
	user, pair, err := m.authService.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		logger.Debug().Err(err).Msg("Silent session refresh failed")
		cookies.ClearSession(c, m.cookieCfg)
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Session expired")
		case errors.Is(err, apperrors.ErrTokenNotFound):
			abortUnauthorized(c, dto.ErrorCodeTokenNotFound, "Session expired")
		default:
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
		}
		return
	}

	cookies.SetSession(c, m.cookieCfg, pair)
	m.setContext(c, user)
	c.Next()
}

// attachUser loads the authenticated user and stores it on the context.
// A token whose subject no longer exists is treated as unauthorized.
func (m *AuthMiddleware) attachUser(c *gin.Context, userID int64) {
	user, err := m.userRepo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return
	}

	m.setContext(c, user)
	c.Next()
}

func (m *AuthMiddleware) setContext(c *gin.Context, user *models.User) {
	c.Set(ContextUserIDKey, user.ID)
	c.Set(ContextRoleKey, string(user.RoleType))
	c.Set(ContextCurrentUser, user)
}

// RoleRequired gates a route behind a single role. Runs after SessionAuth.
func (m *AuthMiddleware) RoleRequired(requiredRole models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRoleKey)
		if !exists {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		roleStr, ok := role.(string)
		if !ok || roleStr != string(requiredRole) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentUser reads the authenticated user placed on the context by
// SessionAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
