package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/app/models/dto"
	"github.com/easepay/easepay/internal/pkg/apperrors"
)

func registerTestAdmin(t *testing.T, svc *AuthService) *models.PublicProfile {
	t.Helper()
	profile, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:         "bursar@easepay.app",
		Password:      "Sup3rSecret!",
		Username:      "bursar",
		Role:          "admin",
		ScopeCategory: "college",
		ScopeValue:    "Engineering",
	})
	require.NoError(t, err)
	return profile
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeTokenRepo())
	registered := registerTestAdmin(t, svc)

	user, pair, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "bursar@easepay.app",
		Password: "Sup3rSecret!",
	})
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The identity that logged in is the identity that registered
	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, profile.ID)
	assert.Equal(t, registered.Email, profile.Email)
	assert.Equal(t, "admin", profile.Role)
	assert.Equal(t, models.ScopeCollege, profile.Scope.Category)
	assert.Equal(t, "Engineering", profile.Scope.Value)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeTokenRepo())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:         "bursar@easepay.app",
		Password:      "abc12345",
		Username:      "bursar",
		Role:          "admin",
		ScopeCategory: "college",
		ScopeValue:    "Engineering",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeTokenRepo())
	registerTestAdmin(t, svc)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:         "bursar@easepay.app",
		Password:      "An0therSecret!",
		Username:      "other",
		Role:          "admin",
		ScopeCategory: "hostel",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterRequiresScopeValueForCollege(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeTokenRepo())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:         "bursar@easepay.app",
		Password:      "Sup3rSecret!",
		Username:      "bursar",
		Role:          "admin",
		ScopeCategory: "college",
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeTokenRepo())
	registerTestAdmin(t, svc)

	// Unknown email and wrong password must be indistinguishable, so the
	// login endpoint cannot be used to probe which accounts exist.
	_, _, errUnknown := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@easepay.app",
		Password: "Sup3rSecret!",
	})
	_, _, errWrongPass := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "bursar@easepay.app",
		Password: "WrongSecret1!",
	})

	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, apperrors.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestRefreshRotatesLedger(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	svc := newTestAuthService(newFakeUserRepo(), tokenRepo)
	registerTestAdmin(t, svc)

	_, pair, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "bursar@easepay.app",
		Password: "Sup3rSecret!",
	})
	require.NoError(t, err)

	user, newPair, err := svc.RefreshTokens(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "bursar@easepay.app", user.Email)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// The old token is revoked and cannot be replayed
	assert.True(t, tokenRepo.isRevoked(pair.RefreshToken))
	_, _, err = svc.RefreshTokens(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	// The replacement works
	_, _, err = svc.RefreshTokens(context.Background(), newPair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeTokenRepo())
	registerTestAdmin(t, svc)

	// A well-signed refresh token with no ledger row must be rejected
	user := &models.User{ID: 1, RoleType: models.RoleAdmin}
	orphan, err := testJWTService().GenerateRefreshToken(user)
	require.NoError(t, err)

	_, _, err = svc.RefreshTokens(context.Background(), orphan)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	svc := newTestAuthService(newFakeUserRepo(), tokenRepo)
	registerTestAdmin(t, svc)

	_, pair, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "bursar@easepay.app",
		Password: "Sup3rSecret!",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	_, _, err = svc.RefreshTokens(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestRefreshRejectsEmptyAndGarbageTokens(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeTokenRepo())

	_, _, err := svc.RefreshTokens(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrNoToken)

	_, _, err = svc.RefreshTokens(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	svc := newTestAuthService(newFakeUserRepo(), tokenRepo)
	registerTestAdmin(t, svc)

	_, pair, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "bursar@easepay.app",
		Password: "Sup3rSecret!",
	})
	require.NoError(t, err)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.RefreshTokens(context.Background(), pair.RefreshToken)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent refresh may rotate the token")
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeTokenRepo())
	registerTestAdmin(t, svc)

	_, pair, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "bursar@easepay.app",
		Password: "Sup3rSecret!",
	})
	require.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
	assert.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
	assert.NoError(t, svc.Logout(context.Background(), ""))
	assert.NoError(t, svc.Logout(context.Background(), "never-issued"))
}

func TestListAdminsExcludesSuperAdmins(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, newFakeTokenRepo())
	registerTestAdmin(t, svc)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:         "root@easepay.app",
		Password:      "Sup3rSecret!",
		Username:      "root",
		Role:          "superAdmin",
		ScopeCategory: "studentUnion",
	})
	require.NoError(t, err)

	admins, err := svc.ListAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "bursar@easepay.app", admins[0].Email)
}
