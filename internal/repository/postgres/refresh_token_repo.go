package postgres

import (
	"context"
	"database/sql"
	"errors"

	"notescatalog/internal/domain"
)

type refreshTokenRepository struct {
	DB *sql.DB
}

// NewRefreshTokenRepository returns a domain.RefreshTokenRepository implemented with Postgres.
func NewRefreshTokenRepository(db *sql.DB) domain.RefreshTokenRepository {
	return &refreshTokenRepository{DB: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, t.ID, t.UserID, t.Token, t.ExpiresAt)
	return err
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`
	t := &domain.RefreshToken{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("RefreshToken", "")
		}
		return nil, err
	}
	return t, nil
}
