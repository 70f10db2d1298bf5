// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/easepay/easepay/internal/app/models/dto"
	"github.com/easepay/easepay/internal/app/services"
	"github.com/easepay/easepay/internal/middleware"
	"github.com/easepay/easepay/internal/pkg/cookies"
)

// UserController handles account and session operations
type UserController struct {
	authService *services.AuthService
	cookieCfg   cookies.Config
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(authService *services.AuthService, cookieCfg cookies.Config, logger zerolog.Logger) *UserController {
	return &UserController{
		authService: authService,
		cookieCfg:   cookieCfg,
		logger:      logger,
	}
}

// Register handles admin account creation
// @Summary Register a new admin
// @Description Creates a new admin account with a review scope. Restricted to superAdmins.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Admin registration information"
// @Success 201 {object} dto.APIResponse "Admin account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or email already registered"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a superAdmin"
// @Router /users [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Failed to register admin")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Account created successfully", profile))
}

// Login authenticates an admin and opens a cookie session
// @Summary Sign in
// @Description Verifies credentials and sets access and refresh token cookies.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Signed in"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /users/signin [post]
func (c *UserController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, pair, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	cookies.SetSession(ctx, c.cookieCfg, pair)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Signed in successfully", dto.LoginResponse{User: user.Public()}))
}

// Logout revokes the session and clears both cookies
// @Summary Sign out
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse "Signed out"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /users/logout [post]
func (c *UserController) Logout(ctx *gin.Context) {
	refreshToken, _ := ctx.Cookie(cookies.RefreshTokenCookie)
	if err := c.authService.Logout(ctx.Request.Context(), refreshToken); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	cookies.ClearSession(ctx, c.cookieCfg)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Signed out successfully", nil))
}

// Refresh exchanges the refresh token cookie for a fresh session
// @Summary Refresh session
// @Description Rotates the refresh token and sets fresh token cookies.
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse "Session refreshed"
// @Failure 401 {object} dto.ErrorResponse "Missing, invalid or expired refresh token"
// @Router /users/refresh [post]
func (c *UserController) Refresh(ctx *gin.Context) {
	refreshToken, err := ctx.Cookie(cookies.RefreshTokenCookie)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeNoToken, "Authentication required")))
		return
	}

	_, pair, err := c.authService.RefreshTokens(ctx.Request.Context(), refreshToken)
	if err != nil {
		cookies.ClearSession(ctx, c.cookieCfg)
		middleware.HandleAPIError(ctx, err)
		return
	}

	cookies.SetSession(ctx, c.cookieCfg, pair)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Session refreshed", gin.H{
		"expiresIn": pair.ExpiresIn,
	}))
}

// Me returns the authenticated admin's public profile
// @Summary Current profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse "Profile"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /users/me [get]
func (c *UserController) Me(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Profile retrieved", user.Public()))
}

// ListAdmins returns every admin account. Restricted to superAdmins.
// @Summary List admins
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse "Admins"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a superAdmin"
// @Router /users [get]
func (c *UserController) ListAdmins(ctx *gin.Context) {
	admins, err := c.authService.ListAdmins(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Admins retrieved", admins))
}

// ForgotPassword emails a reset OTP to the account's address
// @Summary Start password reset
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse "OTP sent"
// @Failure 404 {object} dto.ErrorResponse "No account for that email"
// @Router /users/forgot-password [post]
func (c *UserController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Password reset OTP sent", nil))
}

// ResetPassword completes the OTP-based password reset
// @Summary Complete password reset
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Email, OTP and new password"
// @Success 200 {object} dto.APIResponse "Password updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired OTP"
// @Router /users/reset-password [post]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Password updated successfully", nil))
}
