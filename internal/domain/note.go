package domain

import (
	"context"
	"time"
)

// Note field limits.
const (
	MaxNoteNameLength      = 100
	MaxDescriptionLength   = 1000
	MaxImageFileNameLength = 200
)

// Note is a catalog entry. Tags holds the associated tag set; tag names are always
// loaded from the tag table at read time, never stored with the note.
// ImageFileNames are opaque storage keys, not URLs.
type Note struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	Tags           []*Tag    `json:"tags"`
	ImageFileNames []string  `json:"image_file_names"`
}

// NewNote returns a new Note with the given fields. Tags are attached separately.
func NewNote(id, name, description string, imageFileNames []string, createdAt time.Time) *Note {
	return &Note{
		ID:             id,
		Name:           name,
		Description:    description,
		CreatedAt:      createdAt,
		Tags:           []*Tag{},
		ImageFileNames: imageFileNames,
	}
}

// TagIDs returns the IDs of the note's associated tags.
func (n *Note) TagIDs() []string {
	ids := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// TagNames returns the names of the note's associated tags.
func (n *Note) TagNames() []string {
	names := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		names = append(names, t.Name)
	}
	return names
}

// NoteSortField selects the ordering of a note search.
type NoteSortField string

const (
	SortByID           NoteSortField = ""
	SortByName         NoteSortField = "name"
	SortByCreationDate NoteSortField = "creation_date"
)

// ParseNoteSortField maps request values to a sort field. Unknown values fall back to SortByID.
func ParseNoteSortField(s string) NoteSortField {
	switch s {
	case "name", "Name":
		return SortByName
	case "creation_date", "creationDate", "CreationDate", "creationdate":
		return SortByCreationDate
	}
	return SortByID
}

// NoteFilter is the predicate shared by NoteRepository.Search and NoteRepository.Count.
// Search matches name or description as a case-insensitive substring. TagNames matches
// notes carrying at least one of the named tags.
type NoteFilter struct {
	Search   string
	TagNames []string
}

// NoteSort orders search results. Ties always break by ID ascending.
type NoteSort struct {
	Field     NoteSortField
	Ascending bool
}

// NoteRepository defines storage for notes and their tag associations.
type NoteRepository interface {
	GetByID(ctx context.Context, id string) (*Note, error)
	// Add persists the note row and its tag associations.
	Add(ctx context.Context, note *Note) error
	// Update replaces name, description, image list and the entire tag set.
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter NoteFilter, sort NoteSort, params PaginationParams) ([]*Note, error)
	Count(ctx context.Context, filter NoteFilter) (int, error)
}

// CreateNoteCommand is the input of note creation and update.
type CreateNoteCommand struct {
	Name           string
	Description    string
	TagNames       []string
	ImageFileNames []string
}

// NoteQuery is the input of a note search.
type NoteQuery struct {
	Filter NoteFilter
	Sort   NoteSort
	Page   PaginationParams
}

// NoteImage is a stored image reference decorated with a time-limited URL.
// URL is empty when the reference could not be resolved on a write response.
type NoteImage struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// NoteView is the read model returned to callers.
// swagger:model NoteView
type NoteView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	Tags        []*Tag      `json:"tags"`
	TagNames    []string    `json:"tag_names"`
	Images      []NoteImage `json:"images"`
}

// NotePage is one page of a note search together with the total for the same filter.
type NotePage struct {
	Items    []*NoteView `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// NoteService defines the note workflows that keep notes and tags mutually consistent.
type NoteService interface {
	CreateNote(ctx context.Context, cmd CreateNoteCommand) (*NoteView, error)
	BulkCreateNotes(ctx context.Context, cmds []CreateNoteCommand) ([]*NoteView, error)
	UpdateNote(ctx context.Context, id string, cmd CreateNoteCommand) (*NoteView, error)
	DeleteNote(ctx context.Context, id string) error
	GetNote(ctx context.Context, id string) (*NoteView, error)
	SearchNotes(ctx context.Context, q NoteQuery) (*NotePage, error)
}
