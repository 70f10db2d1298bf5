package dto

import "github.com/easepay/easepay/internal/app/models"

// RegisterRequest represents an admin registration request
type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	Username      string `json:"username" binding:"required"`
	Role          string `json:"role" binding:"required"`
	ScopeCategory string `json:"scopeCategory" binding:"required"`
	ScopeValue    string `json:"scopeValue"`
	ReceiptName   string `json:"receiptName"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest starts the OTP-based password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the OTP-based password reset flow
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// TokenPair carries a freshly issued access/refresh token pair along with
// their lifetimes in seconds. Tokens travel to clients as cookies; the pair
// is returned by the service so the controller owns transport policy.
type TokenPair struct {
	AccessToken      string `json:"-"`
	RefreshToken     string `json:"-"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
}

// LoginResponse is the login success payload
type LoginResponse struct {
	User *models.PublicProfile `json:"user"`
}
