package domain

import "context"

// MaxTagNameLength bounds a stored tag name.
const MaxTagNameLength = 100

// Tag represents a named label that notes reference by ID.
// swagger:model Tag
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagPage is one page of a tag listing together with the total for the same search.
type TagPage struct {
	Items    []*Tag `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// TagRepository defines storage for tags. Names are unique and matched case-sensitively.
// It keeps no back-reference to notes; usage is discovered through NoteRepository.
type TagRepository interface {
	GetByID(ctx context.Context, id string) (*Tag, error)
	GetByName(ctx context.Context, name string) (*Tag, error)
	// List returns tags whose name contains search (case-insensitive), ordered by ID.
	List(ctx context.Context, search string, params PaginationParams) ([]*Tag, error)
	// Count counts tags matching the same predicate as List.
	Count(ctx context.Context, search string) (int, error)
	// Add persists a new tag; ErrConflict if the name is taken.
	Add(ctx context.Context, tag *Tag) error
	// GetOrCreate returns the tag with the given name, creating it if missing.
	// Concurrent callers with the same name observe exactly one row.
	GetOrCreate(ctx context.Context, name string) (*Tag, error)
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, id string) error
}

// TagService defines tag management on top of the catalog consistency rules.
type TagService interface {
	CreateTag(ctx context.Context, name string) (*Tag, error)
	GetTag(ctx context.Context, id string) (*Tag, error)
	GetTagByName(ctx context.Context, name string) (*Tag, error)
	ListTags(ctx context.Context, search string, params PaginationParams) (*TagPage, error)
	RenameTag(ctx context.Context, id, name string) (*Tag, error)
	DeleteTag(ctx context.Context, id string) error
}
