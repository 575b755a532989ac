package postgres

import (
	"context"
	"database/sql"

	"github.com/mvalle/auth-api/internal/core/domain"
	"github.com/mvalle/auth-api/internal/core/ports"
)

type BlacklistRepository struct {
	db *sql.DB
}

func NewBlacklistRepository(db *sql.DB) ports.BlacklistRepository {
	return &BlacklistRepository{db: db}
}

func (r *BlacklistRepository) Add(ctx context.Context, token *domain.BlacklistedToken) error {
	query := `
		INSERT INTO blacklist_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, token.Token, token.UserID, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
}

// IsBlacklisted reports whether a non-expired revocation exists for token.
// Expired rows are ignored: the token they would block is already invalid.
func (r *BlacklistRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blacklist_tokens
			WHERE token = $1 AND expires_at > NOW()
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BlacklistRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blacklist_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
