package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mapleai/mapleai/internal/platform/db"
	"github.com/mapleai/mapleai/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindAccountByEmail(ctx context.Context, email string) (*Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	RecordLogin(ctx context.Context, userID string, at time.Time) error
	CreateAccount(ctx context.Context, account *Account) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindAccountByEmail fetches a user with its company and subscription by
// exact email match.
func (r *PGRepository) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	const query = `
		SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.role,
		       u.company_id, u.subscription_id, u.login_count, u.last_login_at,
		       u.created_at, u.updated_at,
		       c.id, c.name, c.industry, c.size, c.created_at, c.updated_at,
		       s.id, s.plan, s.amount, s.max_users, s.company_id, s.created_at, s.updated_at
		FROM users u
		JOIN companies c ON c.id = u.company_id
		JOIN subscriptions s ON s.id = u.subscription_id
		WHERE u.email = $1`

	var (
		account     Account
		hash        pgtype.Text
		industry    pgtype.Text
		size        pgtype.Text
		lastLoginAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.User.ID, &account.User.Email, &account.User.FirstName, &account.User.LastName,
		&hash, &account.User.Role, &account.User.CompanyID, &account.User.SubscriptionID,
		&account.User.LoginCount, &lastLoginAt, &account.User.CreatedAt, &account.User.UpdatedAt,
		&account.Company.ID, &account.Company.Name, &industry, &size,
		&account.Company.CreatedAt, &account.Company.UpdatedAt,
		&account.Subscription.ID, &account.Subscription.Plan, &account.Subscription.Amount,
		&account.Subscription.MaxUsers, &account.Subscription.CompanyID,
		&account.Subscription.CreatedAt, &account.Subscription.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	account.User.PasswordHash = hash.String
	account.Company.Industry = industry.String
	account.Company.Size = size.String
	account.User.LastLoginAt = lastLoginAt.Time
	return &account, nil
}

// EmailExists reports whether a credential already exists for the email.
func (r *PGRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// RecordLogin bumps the login counter and last-login timestamp. Concurrent
// logins may interleave; the counter is informational only.
func (r *PGRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET login_count = login_count + 1, last_login_at = $2, updated_at = $2 WHERE id = $1`,
		userID, at.UTC())
	return err
}

// CreateAccount persists the company, subscription and first user in a
// single transaction. The unique index on users.email backstops the
// handler's duplicate pre-check against concurrent registrations.
func (r *PGRepository) CreateAccount(ctx context.Context, account *Account) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO companies (id, name, industry, size, created_at, updated_at)
			 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $5)`,
			account.Company.ID, account.Company.Name, account.Company.Industry,
			account.Company.Size, account.Company.CreatedAt); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO subscriptions (id, plan, amount, max_users, company_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
			account.Subscription.ID, account.Subscription.Plan, account.Subscription.Amount,
			account.Subscription.MaxUsers, account.Subscription.CompanyID,
			account.Subscription.CreatedAt); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, first_name, last_name, password_hash, role,
			                    company_id, subscription_id, login_count, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $9)`,
			account.User.ID, account.User.Email, account.User.FirstName, account.User.LastName,
			account.User.PasswordHash, account.User.Role, account.User.CompanyID,
			account.User.SubscriptionID, account.User.CreatedAt); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicate
		}
		return err
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
