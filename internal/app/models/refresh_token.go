package models

import "time"

// RefreshToken defines a ledger row based on the 'refresh_tokens' table.
// Access tokens are never persisted; only refresh tokens get a row here.
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	Token     string    `json:"-" db:"token"` // signed token string, unique across the ledger
	UserID    int64     `json:"userId" db:"user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"` // permanent once set
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
