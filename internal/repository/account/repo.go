// Package account persists marketplace accounts in the relational store.
package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// Repo stores accounts in SQLite.
type Repo struct {
	db *sql.DB
}

// New creates an account repository on top of an open database.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a new account and assigns its ID.
// Returns domain.ErrEmailExists when the email is already registered.
func (r *Repo) Create(ctx context.Context, a *domain.Account) error {
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().UnixMilli()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			account_type, email, password_hash, first_name, last_name,
			phone, business_name, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(a.Type), a.Email, a.PasswordHash, a.FirstName, a.LastName,
		a.Phone, a.BusinessName, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("account insert id: %w", err)
	}
	a.ID = id
	return nil
}

// GetByEmail looks an account up by its unique email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.get(ctx, "email = ?", email)
}

// GetByID looks an account up by ID.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *Repo) get(ctx context.Context, where string, arg any) (domain.Account, error) {
	var (
		a   domain.Account
		typ string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_type, email, password_hash, first_name, last_name,
			   phone, business_name, created_at
		FROM accounts WHERE `+where,
		arg,
	).Scan(
		&a.ID, &typ, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.Phone, &a.BusinessName, &a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("query account: %w", err)
	}
	a.Type = domain.AccountType(typ)
	return a, nil
}

// modernc.org/sqlite has no typed constraint errors; the message carries
// the SQLite error text.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
