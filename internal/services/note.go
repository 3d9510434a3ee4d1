package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"notescatalog/internal/domain"
)

type noteService struct {
	noteRepo       domain.NoteRepository
	tagRepo        domain.TagRepository
	tx             domain.Transactor
	images         *imageDecorator
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewNoteService creates a NoteService. Tag resolution and note persistence for a single
// call always share one transaction from tx.
func NewNoteService(noteRepo domain.NoteRepository,
	tagRepo domain.TagRepository,
	tx domain.Transactor,
	resolver domain.ImageResolver,
	logger *slog.Logger,
	timeout time.Duration,
) domain.NoteService {
	return &noteService{
		noteRepo:       noteRepo,
		tagRepo:        tagRepo,
		tx:             tx,
		images:         newImageDecorator(resolver, logger),
		logger:         logger,
		contextTimeout: timeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *noteService) CreateNote(ctx context.Context, cmd domain.CreateNoteCommand) (*domain.NoteView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateNoteCommand(cmd); err != nil {
		return nil, err
	}

	var note *domain.Note
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		note, err = s.persistNew(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	s.logger.InfoContext(ctx, "note created", "note_id", note.ID, "tags", len(note.Tags))

	views, _ := s.images.decorate(ctx, []*domain.Note{note}, false)
	return views[0], nil
}

func (s *noteService) BulkCreateNotes(ctx context.Context, cmds []domain.CreateNoteCommand) ([]*domain.NoteView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(cmds) == 0 {
		return nil, domain.InvalidInput("at least one note is required")
	}
	for i, cmd := range cmds {
		if err := validateNoteCommand(cmd); err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
	}

	notes := make([]*domain.Note, 0, len(cmds))
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, cmd := range cmds {
			note, err := s.persistNew(ctx, cmd)
			if err != nil {
				return err
			}
			notes = append(notes, note)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk create notes: %w", err)
	}
	s.logger.InfoContext(ctx, "notes created", "count", len(notes))

	views, _ := s.images.decorate(ctx, notes, false)
	return views, nil
}

func (s *noteService) persistNew(ctx context.Context, cmd domain.CreateNoteCommand) (*domain.Note, error) {
	tags, err := s.resolveTags(ctx, cmd.TagNames)
	if err != nil {
		return nil, err
	}
	note := domain.NewNote(uuid.NewString(), cmd.Name, cmd.Description, copyStrings(cmd.ImageFileNames), s.now())
	note.Tags = tags
	if err := s.noteRepo.Add(ctx, note); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return note, nil
}

func (s *noteService) UpdateNote(ctx context.Context, id string, cmd domain.CreateNoteCommand) (*domain.NoteView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateNoteCommand(cmd); err != nil {
		return nil, err
	}

	var note *domain.Note
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		note, err = s.noteRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		note.Name = cmd.Name
		note.Description = cmd.Description
		note.ImageFileNames = copyStrings(cmd.ImageFileNames)
		if note.Tags, err = s.resolveTags(ctx, cmd.TagNames); err != nil {
			return err
		}
		return s.noteRepo.Update(ctx, note)
	})
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	s.logger.InfoContext(ctx, "note updated", "note_id", note.ID)

	views, _ := s.images.decorate(ctx, []*domain.Note{note}, false)
	return views[0], nil
}

func (s *noteService) DeleteNote(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	s.logger.InfoContext(ctx, "note deleted", "note_id", id)
	return nil
}

func (s *noteService) GetNote(ctx context.Context, id string) (*domain.NoteView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	views, err := s.images.decorate(ctx, []*domain.Note{note}, true)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return views[0], nil
}

func (s *noteService) SearchNotes(ctx context.Context, q domain.NoteQuery) (*domain.NotePage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	notes, err := s.noteRepo.Search(ctx, q.Filter, q.Sort, q.Page)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	total, err := s.noteRepo.Count(ctx, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	views, err := s.images.decorate(ctx, notes, true)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return &domain.NotePage{
		Items:    views,
		Total:    total,
		Page:     q.Page.Page,
		PageSize: q.Page.PageSize,
	}, nil
}

// resolveTags maps names to tags, creating missing ones. Duplicate names collapse to the
// first occurrence so a note never links the same tag twice.
func (s *noteService) resolveTags(ctx context.Context, names []string) ([]*domain.Tag, error) {
	tags := make([]*domain.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tag, err := s.tagRepo.GetOrCreate(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func validateNoteCommand(cmd domain.CreateNoteCommand) error {
	switch {
	case cmd.Name == "":
		return domain.InvalidInput("name is required")
	case utf8.RuneCountInString(cmd.Name) > domain.MaxNoteNameLength:
		return domain.InvalidInput("name cannot exceed %d characters", domain.MaxNoteNameLength)
	case cmd.Description == "":
		return domain.InvalidInput("description is required")
	case utf8.RuneCountInString(cmd.Description) > domain.MaxDescriptionLength:
		return domain.InvalidInput("description cannot exceed %d characters", domain.MaxDescriptionLength)
	}
	for _, name := range cmd.TagNames {
		if err := validateTagName(name); err != nil {
			return err
		}
	}
	for _, f := range cmd.ImageFileNames {
		if f == "" {
			return domain.InvalidInput("image file name cannot be empty")
		}
		if utf8.RuneCountInString(f) > domain.MaxImageFileNameLength {
			return domain.InvalidInput("image file name cannot exceed %d characters", domain.MaxImageFileNameLength)
		}
	}
	return nil
}

func validateTagName(name string) error {
	if name == "" {
		return domain.InvalidInput("tag name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxTagNameLength {
		return domain.InvalidInput("tag name cannot exceed %d characters", domain.MaxTagNameLength)
	}
	return nil
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
