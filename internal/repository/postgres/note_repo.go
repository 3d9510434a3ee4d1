package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"notescatalog/internal/domain"

	"github.com/lib/pq"
)

type noteRepository struct {
	DB *sql.DB
}

// NewNoteRepository returns a domain.NoteRepository implemented with Postgres.
func NewNoteRepository(db *sql.DB) domain.NoteRepository {
	return &noteRepository{DB: db}
}

func (r *noteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	query := `
		SELECT id, name, description, created_at, image_file_names
		FROM notes
		WHERE id = $1
	`
	n := &domain.Note{}
	var images []string
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(
		&n.ID, &n.Name, &n.Description, &n.CreatedAt, pq.Array(&images),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, domain.NotFound("Note", id)
		}
		return nil, err
	}
	n.ImageFileNames = nonNil(images)
	if err := r.attachTags(ctx, []*domain.Note{n}); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *noteRepository) Add(ctx context.Context, n *domain.Note) error {
	query := `
		INSERT INTO notes (id, name, description, created_at, image_file_names)
		VALUES ($1, $2, $3, $4, $5)
	`
	q := conn(ctx, r.DB)
	if _, err := q.ExecContext(ctx, query, n.ID, n.Name, n.Description, n.CreatedAt, pq.Array(nonNil(n.ImageFileNames))); err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("Note", n.ID)
		}
		return err
	}
	return insertNoteTags(ctx, q, n)
}

func (r *noteRepository) Update(ctx context.Context, n *domain.Note) error {
	q := conn(ctx, r.DB)
	result, err := q.ExecContext(ctx,
		`UPDATE notes SET name = $2, description = $3, image_file_names = $4 WHERE id = $1`,
		n.ID, n.Name, n.Description, pq.Array(nonNil(n.ImageFileNames)))
	if err != nil {
		if isMalformedID(err) {
			return domain.NotFound("Note", n.ID)
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFound("Note", n.ID)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = $1`, n.ID); err != nil {
		return err
	}
	return insertNoteTags(ctx, q, n)
}

func insertNoteTags(ctx context.Context, q querier, n *domain.Note) error {
	for i, tag := range n.Tags {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO note_tags (note_id, tag_id, position) VALUES ($1, $2, $3) ON CONFLICT (note_id, tag_id) DO NOTHING`,
			n.ID, tag.ID, i); err != nil {
			if isForeignKeyViolation(err) {
				return domain.NotFound("Tag", tag.ID)
			}
			return err
		}
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		if isMalformedID(err) {
			return domain.NotFound("Note", id)
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFound("Note", id)
	}
	return nil
}

func (r *noteRepository) Search(ctx context.Context, filter domain.NoteFilter, sort domain.NoteSort, params domain.PaginationParams) ([]*domain.Note, error) {
	where, args := buildNoteFilter(filter)
	query := `SELECT n.id, n.name, n.description, n.created_at, n.image_file_names FROM notes n` +
		where + orderBy(sort)
	if !params.Unbounded() {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, params.PageSize, params.Offset())
	}

	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		n := &domain.Note{}
		var images []string
		if err := rows.Scan(&n.ID, &n.Name, &n.Description, &n.CreatedAt, pq.Array(&images)); err != nil {
			return nil, err
		}
		n.ImageFileNames = nonNil(images)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) Count(ctx context.Context, filter domain.NoteFilter) (int, error) {
	where, args := buildNoteFilter(filter)
	var n int
	if err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) FROM notes n`+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// buildNoteFilter renders the WHERE clause shared by Search and Count, so a page and
// its total always describe the same set.
func buildNoteFilter(f domain.NoteFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		conds = append(conds, fmt.Sprintf(`(n.name ILIKE $%d OR n.description ILIKE $%d)`, len(args), len(args)))
	}
	if len(f.TagNames) > 0 {
		args = append(args, pq.Array(f.TagNames))
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM note_tags nt JOIN tags t ON t.id = nt.tag_id WHERE nt.note_id = n.id AND t.name = ANY($%d))`,
			len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

func orderBy(s domain.NoteSort) string {
	dir := "ASC"
	if !s.Ascending {
		dir = "DESC"
	}
	switch s.Field {
	case domain.SortByName:
		return ` ORDER BY n.name ` + dir + `, n.id ASC`
	case domain.SortByCreationDate:
		return ` ORDER BY n.created_at ` + dir + `, n.id ASC`
	}
	return ` ORDER BY n.id ` + dir
}

// attachTags loads the tags of all notes with one query and assigns them in stored order.
func (r *noteRepository) attachTags(ctx context.Context, notes []*domain.Note) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		n.Tags = []*domain.Tag{}
		ids = append(ids, n.ID)
	}

	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT nt.note_id, t.id, t.name FROM note_tags nt
		 JOIN tags t ON t.id = nt.tag_id
		 WHERE nt.note_id = ANY($1)
		 ORDER BY nt.note_id, nt.position`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	tagsByNote := make(map[string][]*domain.Tag)
	for rows.Next() {
		var noteID string
		var tag domain.Tag
		if err := rows.Scan(&noteID, &tag.ID, &tag.Name); err != nil {
			return err
		}
		tagsByNote[noteID] = append(tagsByNote[noteID], &tag)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, n := range notes {
		if t := tagsByNote[n.ID]; t != nil {
			n.Tags = t
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
