package model

import "time"

// User represents an account. Accounts are created by self-registration and
// stay pending until an admin approves them; the seeded admin is the only
// account created any other way.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Account statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// CanLogIn reports whether the account passes the approval gate. Admins
// bypass the pending check; this mirrors the original system and keeps an
// imported pending admin from being locked out.
func (u *User) CanLogIn() bool {
	return u.Status == StatusApproved || u.Role == RoleAdmin
}

// Registration is the self-registration input. Every field is required.
type Registration struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"required"`
}
