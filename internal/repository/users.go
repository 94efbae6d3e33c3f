package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// User represents a message sender profile. Fields reflect the most recently
// observed values; there is no history.
type User struct {
	UserID    int64
	Username  *string
	FirstName string
	LastName  string
}

// UsersRepository handles tg_users table operations.
type UsersRepository struct {
	pool *pgxpool.Pool
}

// NewUsersRepository creates a new users repository.
func NewUsersRepository(pool *pgxpool.Pool) *UsersRepository {
	return &UsersRepository{pool: pool}
}

// Upsert inserts or updates a user row, overwriting all non-key columns.
func (r *UsersRepository) Upsert(ctx context.Context, u User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tg_users (user_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name
	`, u.UserID, u.Username, u.FirstName, u.LastName)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", u.UserID, err)
	}
	return nil
}
