package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/app/services"
	"github.com/easepay/easepay/internal/pkg/apperrors"
	"github.com/easepay/easepay/internal/pkg/auth"
	"github.com/easepay/easepay/internal/pkg/cookies"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func (r *memUserRepo) CreateUser(_ context.Context, user *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, _, _ string) error { return nil }

func (r *memUserRepo) ListAdmins(_ context.Context) ([]*models.User, error) { return nil, nil }

type memTokenRepo struct {
	mu   sync.Mutex
	rows map[string]*models.RefreshToken
}

func (r *memTokenRepo) Create(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[token] = &models.RefreshToken{Token: token, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (r *memTokenRepo) FindActive(_ context.Context, token string, userID int64) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[token]
	if !ok || row.UserID != userID || row.Revoked || row.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrTokenNotFound
	}
	return row, nil
}

func (r *memTokenRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[token]; ok {
		row.Revoked = true
	}
	return nil
}

func (r *memTokenRepo) Rotate(_ context.Context, oldToken, newToken string, userID int64, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[oldToken]
	if !ok || row.UserID != userID || row.Revoked {
		return apperrors.ErrTokenNotFound
	}
	row.Revoked = true
	r.rows[newToken] = &models.RefreshToken{Token: newToken, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (r *memTokenRepo) CleanupExpired(_ context.Context) (int64, error) { return 0, nil }

type middlewareHarness struct {
	router    *gin.Engine
	jwt       *auth.JWTService
	expired   *auth.JWTService
	tokenRepo *memTokenRepo
	user      *models.User
	admin     *models.User
}

func newMiddlewareHarness(t *testing.T) *middlewareHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtCfg := auth.JWTConfig{
		AccessSecret:    "access-secret-for-tests",
		RefreshSecret:   "refresh-secret-for-tests",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
	}
	jwtService := auth.NewJWTService(jwtCfg)

	expiredCfg := jwtCfg
	expiredCfg.AccessTokenExp = -time.Minute
	expiredService := auth.NewJWTService(expiredCfg)

	superAdmin := &models.User{ID: 1, Email: "root@easepay.app", RoleType: models.RoleSuperAdmin}
	admin := &models.User{
		ID: 2, Email: "bursar@easepay.app", RoleType: models.RoleAdmin,
		Scope: models.Scope{Category: models.ScopeHostel},
	}

	userRepo := &memUserRepo{users: map[int64]*models.User{1: superAdmin, 2: admin}}
	tokenRepo := &memTokenRepo{rows: make(map[string]*models.RefreshToken)}

	authService := services.NewAuthService(userRepo, tokenRepo, jwtService, nil, nil, zerolog.Nop())
	m := NewAuthMiddleware(jwtService, authService, userRepo, cookies.Config{})

	router := gin.New()
	guarded := router.Group("", m.SessionAuth())
	guarded.GET("/whoami", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	guarded.GET("/root-only", m.RoleRequired(models.RoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return &middlewareHarness{
		router:    router,
		jwt:       jwtService,
		expired:   expiredService,
		tokenRepo: tokenRepo,
		user:      superAdmin,
		admin:     admin,
	}
}

func (h *middlewareHarness) request(t *testing.T, path string, cookieValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for name, value := range cookieValues {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuthNoCookies(t *testing.T) {
	h := newMiddlewareHarness(t)
	rec := h.request(t, "/whoami", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthValidAccessToken(t *testing.T) {
	h := newMiddlewareHarness(t)

	accessToken, err := h.jwt.GenerateAccessToken(h.admin)
	require.NoError(t, err)

	rec := h.request(t, "/whoami", map[string]string{cookies.AccessTokenCookie: accessToken})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":2`)
}

func TestSessionAuthGarbageAccessToken(t *testing.T) {
	h := newMiddlewareHarness(t)

	// A forged token must not fall through to the refresh path even when a
	// refresh cookie is present
	refreshToken, err := h.jwt.GenerateRefreshToken(h.admin)
	require.NoError(t, err)
	require.NoError(t, h.tokenRepo.Create(context.Background(), refreshToken, h.admin.ID, time.Now().Add(time.Hour)))

	rec := h.request(t, "/whoami", map[string]string{
		cookies.AccessTokenCookie:  "garbage",
		cookies.RefreshTokenCookie: refreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthExpiredAccessWithoutRefresh(t *testing.T) {
	h := newMiddlewareHarness(t)

	staleToken, err := h.expired.GenerateAccessToken(h.admin)
	require.NoError(t, err)

	rec := h.request(t, "/whoami", map[string]string{cookies.AccessTokenCookie: staleToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthSilentRefresh(t *testing.T) {
	h := newMiddlewareHarness(t)

	staleToken, err := h.expired.GenerateAccessToken(h.admin)
	require.NoError(t, err)
	refreshToken, err := h.jwt.GenerateRefreshToken(h.admin)
	require.NoError(t, err)
	require.NoError(t, h.tokenRepo.Create(context.Background(), refreshToken, h.admin.ID, time.Now().Add(time.Hour)))

	rec := h.request(t, "/whoami", map[string]string{
		cookies.AccessTokenCookie:  staleToken,
		cookies.RefreshTokenCookie: refreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":2`)

	// Fresh cookies ride out on the same response
	setCookies := rec.Result().Cookies()
	names := make(map[string]string)
	for _, c := range setCookies {
		names[c.Name] = c.Value
	}
	assert.NotEmpty(t, names[cookies.AccessTokenCookie])
	assert.NotEmpty(t, names[cookies.RefreshTokenCookie])
	assert.NotEqual(t, refreshToken, names[cookies.RefreshTokenCookie], "refresh token rotates on silent refresh")

	// The presented refresh token is now revoked
	_, err = h.tokenRepo.FindActive(context.Background(), refreshToken, h.admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestSessionAuthRevokedRefreshToken(t *testing.T) {
	h := newMiddlewareHarness(t)

	staleToken, err := h.expired.GenerateAccessToken(h.admin)
	require.NoError(t, err)
	refreshToken, err := h.jwt.GenerateRefreshToken(h.admin)
	require.NoError(t, err)
	require.NoError(t, h.tokenRepo.Create(context.Background(), refreshToken, h.admin.ID, time.Now().Add(time.Hour)))
	require.NoError(t, h.tokenRepo.Revoke(context.Background(), refreshToken))

	rec := h.request(t, "/whoami", map[string]string{
		cookies.AccessTokenCookie:  staleToken,
		cookies.RefreshTokenCookie: refreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthDeletedUser(t *testing.T) {
	h := newMiddlewareHarness(t)

	ghost := &models.User{ID: 99, RoleType: models.RoleAdmin}
	accessToken, err := h.jwt.GenerateAccessToken(ghost)
	require.NoError(t, err)

	rec := h.request(t, "/whoami", map[string]string{cookies.AccessTokenCookie: accessToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleRequired(t *testing.T) {
	h := newMiddlewareHarness(t)

	adminToken, err := h.jwt.GenerateAccessToken(h.admin)
	require.NoError(t, err)
	rootToken, err := h.jwt.GenerateAccessToken(h.user)
	require.NoError(t, err)

	rec := h.request(t, "/root-only", map[string]string{cookies.AccessTokenCookie: adminToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.request(t, "/root-only", map[string]string{cookies.AccessTokenCookie: rootToken})
	assert.Equal(t, http.StatusOK, rec.Code)
}
