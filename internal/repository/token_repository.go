package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sistemaweb/portal/internal/models"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenRepository stores the hashes of issued bearer tokens.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Create(ctx context.Context, token models.AuthToken) error {
	const query = `
		INSERT INTO auth_tokens (id, user_id, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, NOW(), $4)
	`
	_, err := r.pool.Exec(ctx, query, token.ID, token.UserID, token.TokenHash, token.ExpiresAt)
	return err
}

func (r *TokenRepository) FindByHash(ctx context.Context, hash []byte) (models.AuthToken, error) {
	const query = `
		SELECT id, user_id, token_hash, created_at, expires_at
		FROM auth_tokens WHERE token_hash = $1
	`

	row := r.pool.QueryRow(ctx, query, hash)
	var token models.AuthToken
	if err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.CreatedAt,
		&token.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AuthToken{}, ErrTokenNotFound
		}
		return models.AuthToken{}, err
	}
	return token, nil
}

func (r *TokenRepository) DeleteByHash(ctx context.Context, hash []byte) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE token_hash = $1`, hash)
	return err
}

// DeleteExpired removes every token past its expiry and returns how many
// went away. The sweeper calls this on a schedule.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
