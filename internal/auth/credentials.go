package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong
// password. Callers must not distinguish the two.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Credentials verifies email/password sign-ins against the admin_users
// table.
type Credentials struct {
	db *sqlx.DB
}

// NewCredentials creates a Credentials verifier.
func NewCredentials(db *sqlx.DB) *Credentials {
	return &Credentials{db: db}
}

// SignIn checks the password against the stored bcrypt hash and returns the
// account's subject (its email) on success.
func (c *Credentials) SignIn(ctx context.Context, email, password string) (string, error) {
	var hash string
	err := c.db.GetContext(ctx, &hash, "SELECT password_hash FROM admin_users WHERE email = ?", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return email, nil
}

// SeedAdminUser inserts the configured editor account if it does not exist
// yet, hashing the password with bcrypt. Idempotent across restarts.
func SeedAdminUser(ctx context.Context, db *sqlx.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var n int
	if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM admin_users WHERE email = ?", email); err != nil {
		return fmt.Errorf("failed to check for existing account: %w", err)
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO admin_users (email, password_hash) VALUES (?, ?)", email, string(hash)); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
