package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easepay/easepay/internal/app/models/dto"
	"github.com/easepay/easepay/internal/pkg/apperrors"
	"github.com/easepay/easepay/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers call
// it from their error paths so status codes stay consistent across the API.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		detail := dto.NewErrorDetail(codeForError(customErr.Err), customErr.Message)
		if customErr.Details != nil {
			detail = detail.WithDetails(customErr.Details)
		}
		c.JSON(statusForError(customErr.Err), dto.NewErrorResponse(detail))
		return
	}

	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		if gin.Mode() != gin.ReleaseMode {
			detail = detail.WithDebugInfo("%v", err)
		}
		c.JSON(status, dto.NewErrorResponse(detail))
		return
	}

	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(codeForError(err), messageForError(err))))
}

func statusForError(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidCredentials, apperrors.ErrNoToken,
		apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotYetValid,
		apperrors.ErrTokenNotFound, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound,
		apperrors.ErrTransactionNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrDuplicateReference, apperrors.ErrConflict,
		apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict
	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists,
		apperrors.ErrValidationFailed, apperrors.ErrInvalidEmail,
		apperrors.ErrInvalidPassword, apperrors.ErrBadRequest, apperrors.ErrInvalidStatus,
		apperrors.ErrInvalidDueType, apperrors.ErrInvalidPaymentMethod,
		apperrors.ErrInvalidOrExpiredOTP):
		return http.StatusBadRequest
	default:
		// ErrUnsupportedScope lands here on purpose: it means an admin row
		// carries a scope the resolver does not understand, which is a data
		// integrity problem rather than a client mistake.
		return http.StatusInternalServerError
	}
}

func codeForError(err error) dto.ErrorCode {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrNoToken):
		return dto.ErrorCodeNoToken
	case errors.Is(err, apperrors.ErrTokenExpired):
		return dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return dto.ErrorCodeTokenNotFound
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotYetValid,
		apperrors.ErrTokenRevoked):
		return dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return dto.ErrorCodeForbidden
	case errors.Is(err, apperrors.ErrInvalidEmail):
		return dto.ErrorCodeInvalidEmail
	case errors.Is(err, apperrors.ErrInvalidPassword):
		return dto.ErrorCodeInvalidPassword
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound,
		apperrors.ErrTransactionNotFound):
		return dto.ErrorCodeResourceNotFound
	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists, apperrors.ErrDuplicateReference,
		apperrors.ErrConflict, apperrors.ErrResourceAlreadyExists):
		return dto.ErrorCodeResourceAlreadyExists
	case errors.Is(err, apperrors.ErrUnsupportedScope):
		return dto.ErrorCodeUnsupportedScope
	default:
		return dto.ErrorCodeValidationFailed
	}
}

func messageForError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, apperrors.ErrNoToken):
		return "Authentication required"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return "Token expired"
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return "Token not found"
	case errors.Is(err, apperrors.ErrTokenRevoked):
		return "Token revoked"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return "Permission denied"
	case errors.Is(err, apperrors.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, apperrors.ErrTransactionNotFound):
		return "Transaction not found"
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return "Email already exists"
	case errors.Is(err, apperrors.ErrDuplicateReference):
		return "Payment reference already exists"
	case errors.Is(err, apperrors.ErrInvalidOrExpiredOTP):
		return "Invalid or expired OTP"
	case errors.Is(err, apperrors.ErrInvalidDueType):
		return "Invalid due type"
	case errors.Is(err, apperrors.ErrInvalidPaymentMethod):
		return "Invalid payment method"
	case errors.Is(err, apperrors.ErrInvalidStatus):
		return "Invalid transaction status"
	default:
		return err.Error()
	}
}
