package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"notescatalog/internal/domain"
)

type tagService struct {
	tagRepo        domain.TagRepository
	noteRepo       domain.NoteRepository
	tx             domain.Transactor
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewTagService creates a TagService. noteRepo is used to discover which notes still
// reference a tag before it is deleted.
func NewTagService(tagRepo domain.TagRepository, noteRepo domain.NoteRepository, tx domain.Transactor, logger *slog.Logger, timeout time.Duration) domain.TagService {
	return &tagService{
		tagRepo:        tagRepo,
		noteRepo:       noteRepo,
		tx:             tx,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *tagService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateTagName(name); err != nil {
		return nil, err
	}
	if _, err := s.tagRepo.GetByName(ctx, name); err == nil {
		return nil, domain.Duplicate("Tag", name)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	tag := &domain.Tag{ID: uuid.NewString(), Name: name}
	if err := s.tagRepo.Add(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	s.logger.InfoContext(ctx, "tag created", "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

func (s *tagService) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tag, err := s.tagRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context, search string, params domain.PaginationParams) (*domain.TagPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tags, err := s.tagRepo.List(ctx, search, params)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	total, err := s.tagRepo.Count(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}
	return &domain.TagPage{Items: tags, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}

// RenameTag changes a tag's name. Notes reference tags by ID and read names through a
// join, so every note carrying the tag reflects the new name without further writes.
func (s *tagService) RenameTag(ctx context.Context, id, name string) (*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateTagName(name); err != nil {
		return nil, err
	}

	var tag *domain.Tag
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		tag, err = s.tagRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if tag.Name == name {
			return nil
		}
		existing, err := s.tagRepo.GetByName(ctx, name)
		switch {
		case err == nil && existing.ID != id:
			return domain.Duplicate("Tag", name)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return err
		}
		tag.Name = name
		return s.tagRepo.Update(ctx, tag)
	})
	if err != nil {
		return nil, fmt.Errorf("rename tag: %w", err)
	}
	s.logger.InfoContext(ctx, "tag renamed", "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

// DeleteTag removes a tag that no note references. The usage count comes from the same
// filter the note search uses, so it agrees with what a tag-filtered search would return.
func (s *tagService) DeleteTag(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var name string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		tag, err := s.tagRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		name = tag.Name
		n, err := s.noteRepo.Count(ctx, domain.NoteFilter{TagNames: []string{tag.Name}})
		if err != nil {
			return fmt.Errorf("count notes for tag: %w", err)
		}
		if n > 0 {
			return domain.InUse("Tag", tag.Name, n)
		}
		return s.tagRepo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	s.logger.InfoContext(ctx, "tag deleted", "tag_id", id, "name", name)
	return nil
}
