package models

import (
	"time"
)

// User defines an admin login principal based on the 'users' table
type User struct {
	ID          int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email       string    `json:"email" db:"email" example:"bursar@easepay.app"`            // User's email address (unique)
	Password    string    `json:"-" db:"password"`                                          // User's hashed password (excluded from JSON)
	Username    string    `json:"username" db:"username" example:"bursar"`                  // Display name
	RoleType    RoleType  `json:"role" db:"role_type" example:"admin"`                      // User's role (admin or superAdmin)
	Scope       Scope     `json:"scope"`                                                    // Organizational scope the admin reviews
	ReceiptName *string   `json:"receiptName,omitempty" db:"receipt_name"`                  // Name printed on receipts (nullable)
	CreatedAt   time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}

// PublicProfile is the identity returned to clients. The password hash never
// leaves the repository layer but this keeps the boundary explicit.
type PublicProfile struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	Role        string  `json:"role"`
	Scope       Scope   `json:"scope"`
	ReceiptName *string `json:"receiptName,omitempty"`
}

// Public strips credential material from a user record.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Role:        string(u.RoleType),
		Scope:       u.Scope,
		ReceiptName: u.ReceiptName,
	}
}
