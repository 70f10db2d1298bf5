package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/pkg/apperrors"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		AccessSecret:    "access-secret-for-tests",
		RefreshSecret:   "refresh-secret-for-tests",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:     "easepay.test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Email:    "bursar@easepay.app",
		RoleType: models.RoleAdmin,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, string(models.RoleAdmin), claims.Role)
	assert.Equal(t, "easepay.test", claims.Issuer)
	assert.NotEmpty(t, claims.ID, "every token carries a unique jti")
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	claims, err := svc.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	svc := newTestService()
	user := testUser()

	accessToken, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	// An access token must not verify against the refresh secret, or a
	// leaked short-lived token could mint sessions.
	_, err = svc.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		AccessSecret:    "access-secret-for-tests",
		RefreshSecret:   "refresh-secret-for-tests",
		AccessTokenExp:  -time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
	})

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokenSignedWithDifferentSecretRejected(t *testing.T) {
	svc := newTestService()
	other := NewJWTService(JWTConfig{
		AccessSecret:    "a-completely-different-secret",
		RefreshSecret:   "another-different-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
	})

	token, err := other.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestMalformedAndEmptyTokensRejected(t *testing.T) {
	svc := newTestService()

	for _, tokenString := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		_, err := svc.VerifyAccessToken(tokenString)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid, "token %q", tokenString)
	}
}

func TestDefaultLifetimes(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		AccessSecret:  "a",
		RefreshSecret: "b",
	})

	assert.Equal(t, 15*time.Minute, svc.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, svc.RefreshTokenTTL())
}

func TestRefreshTokenExpiryTracksTTL(t *testing.T) {
	svc := newTestService()

	expiry := svc.RefreshTokenExpiry()
	expected := time.Now().Add(svc.RefreshTokenTTL())
	assert.WithinDuration(t, expected, expiry, 2*time.Second)
}
