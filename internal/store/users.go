package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"relist/internal/model"
)

// SeedAdminUsername and SeedAdminPassword are the credentials of the
// account created when the user collection is empty at startup.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "admin123"
)

const userColumns = `id, username, password_hash, address, phone, email, role, status, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Address, &u.Phone,
		&u.Email, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterUser creates a pending account from a self-registration. The
// username must not be taken (exact, case-sensitive match) and every field
// must be non-empty. The password is stored as a bcrypt hash.
func RegisterUser(ctx context.Context, db *sql.DB, reg model.Registration) (*model.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Password = strings.TrimSpace(reg.Password)
	reg.Address = strings.TrimSpace(reg.Address)
	reg.Phone = strings.TrimSpace(reg.Phone)
	reg.Email = strings.TrimSpace(reg.Email)

	if err := model.Validate(reg); err != nil {
		return nil, err
	}

	var taken bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`, reg.Username,
	).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if taken {
		return nil, model.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, address, phone, email, role, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, reg.Username, string(hash), reg.Address, reg.Phone, reg.Email,
		model.RoleUser, model.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, db, id)
}

// Authenticate checks a username/password pair. It returns the user on
// success, ErrInvalidCredentials on any username or password mismatch, and
// ErrPendingApproval for an unapproved non-admin account. The pending gate
// is skipped for admins: the role check takes precedence.
func Authenticate(ctx context.Context, db *sql.DB, username, password string) (*model.User, error) {
	user, err := GetUserByUsername(ctx, db, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if !user.CanLogIn() {
		return nil, model.ErrPendingApproval
	}

	return user, nil
}

// GetUser returns a user by ID, or nil if it does not exist.
func GetUser(ctx context.Context, db *sql.DB, id string) (*model.User, error) {
	user, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

// GetUserByUsername returns a user by exact username, or nil if it does
// not exist.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	user, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return user, nil
}

// ListUsers returns all users in registration order.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	return listUsers(ctx, db, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
}

// ListPendingUsers returns the accounts awaiting approval.
func ListPendingUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	return listUsers(ctx, db,
		`SELECT `+userColumns+` FROM users WHERE status = ? ORDER BY created_at, id`,
		model.StatusPending)
}

func listUsers(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.User, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// ApproveUser marks an account approved. Approving an already-approved
// account is a no-op; there is no reverse transition.
func ApproveUser(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE users SET status = ? WHERE id = ?`, model.StatusApproved, id,
	)
	if err != nil {
		return fmt.Errorf("approving user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SeedAdmin creates the initial admin account if the user collection is
// empty at startup.
func SeedAdmin(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, address, phone, email, role, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), SeedAdminUsername, string(hash),
		"Campus Admin Office", "00000000000", "admin@example.edu",
		model.RoleAdmin, model.StatusApproved,
	)
	if err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	return nil
}
