package postgres

import (
	"context"
	"database/sql"
	"errors"

	"notescatalog/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("User", u.Username)
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	u := &domain.User{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("User", username)
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	u := &domain.User{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, domain.NotFound("User", id)
		}
		return nil, err
	}
	return u, nil
}

// Delete removes the user; refresh tokens go with it via ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isMalformedID(err) {
			return domain.NotFound("User", id)
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFound("User", id)
	}
	return nil
}
