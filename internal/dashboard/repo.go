package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the tenant facts the dashboard reads live.
type Repository interface {
	TeamSize(ctx context.Context, companyID string) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// TeamSize counts the users belonging to a company.
func (r *PGRepository) TeamSize(ctx context.Context, companyID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE company_id = $1`, companyID).Scan(&n)
	return n, err
}

var _ Repository = (*PGRepository)(nil)
