package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// APIResponse represents the standard success response envelope
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse creates a success envelope with a message and payload
func NewSuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// HandleValidationError converts gin binding errors into an ErrorDetail,
// naming the first offending field when the error came from the validator.
func HandleValidationError(err error) *ErrorDetail {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]
		detail := NewErrorDetail(ErrorCodeValidationFailed,
			fmt.Sprintf("Field '%s' failed validation on the '%s' rule", first.Field(), first.Tag()))
		return detail.WithField(first.Field())
	}

	return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request payload").WithDetails(err.Error())
}
