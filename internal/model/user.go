package model

import "time"

// AdminUser represents a staff account able to manage events and
// reservations.  Guests never authenticate; they identify a booking by
// event + reservation number instead.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name, currently always ADMIN.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type AdminUser struct {
	ID           uint64    // admin_users.id
	Email        string    // admin_users.email
	PasswordHash string    // admin_users.password_hash
	Role         string    // admin_users.role
	IsActive     bool      // admin_users.is_active
	CreatedAt    time.Time // admin_users.created_at
	UpdatedAt    time.Time // admin_users.updated_at
}

// RefreshToken models a row in refresh_tokens.  The plain token is never
// stored; only its SHA-256 hex digest.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// GuestSummary is a derived view of reservation holders aggregated by
// email, used by the admin guest listing and the bulk-mail composer.
type GuestSummary struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Reservations uint32 `json:"reservations"`
	TotalSeats   uint32 `json:"total_seats"`
}
