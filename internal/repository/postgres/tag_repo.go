package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"notescatalog/internal/domain"

	"github.com/google/uuid"
)

type tagRepository struct {
	DB *sql.DB
}

// NewTagRepository returns a domain.TagRepository implemented with Postgres.
func NewTagRepository(db *sql.DB) domain.TagRepository {
	return &tagRepository{DB: db}
}

func (r *tagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	var tag domain.Tag
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT id, name FROM tags WHERE id = $1`, id).Scan(&tag.ID, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, domain.NotFound("Tag", id)
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	var tag domain.Tag
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT id, name FROM tags WHERE name = $1`, name).Scan(&tag.ID, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("Tag", name)
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Tag, error) {
	where, args := tagSearchClause(search)
	query := `SELECT id, name FROM tags` + where + ` ORDER BY id`
	if !params.Unbounded() {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, params.PageSize, params.Offset())
	}

	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Count(ctx context.Context, search string) (int, error) {
	where, args := tagSearchClause(search)
	var n int
	if err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func tagSearchClause(search string) (string, []any) {
	if search == "" {
		return "", nil
	}
	return ` WHERE name ILIKE $1`, []any{containsPattern(search)}
}

func (r *tagRepository) Add(ctx context.Context, tag *domain.Tag) error {
	_, err := conn(ctx, r.DB).ExecContext(ctx, `INSERT INTO tags (id, name) VALUES ($1, $2)`, tag.ID, tag.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("Tag", tag.Name)
		}
		return err
	}
	return nil
}

// GetOrCreate relies on the unique index on tags.name: a concurrent insert of the same
// name is absorbed by ON CONFLICT and the follow-up select sees the winner's row.
func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	q := conn(ctx, r.DB)
	if _, err := q.ExecContext(ctx,
		`INSERT INTO tags (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		uuid.NewString(), name); err != nil {
		return nil, err
	}
	var tag domain.Tag
	if err := q.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE name = $1`, name).Scan(&tag.ID, &tag.Name); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `UPDATE tags SET name = $2 WHERE id = $1`, tag.ID, tag.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("Tag", tag.Name)
		}
		if isMalformedID(err) {
			return domain.NotFound("Tag", tag.ID)
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFound("Tag", tag.ID)
	}
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.InUse("Tag", id, 1)
		}
		if isMalformedID(err) {
			return domain.NotFound("Tag", id)
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFound("Tag", id)
	}
	return nil
}
