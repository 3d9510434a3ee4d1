package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notescatalog/internal/domain"
)

func TestTagService_CreateTag(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		seed    []string
		tagName string
		errIs   error
	}{
		{name: "success", tagName: "go"},
		{name: "duplicate", seed: []string{"go"}, tagName: "go", errIs: domain.ErrConflict},
		{name: "case sensitive names are distinct", seed: []string{"go"}, tagName: "Go"},
		{name: "empty", tagName: "", errIs: domain.ErrInvalidInput},
		{name: "too long", tagName: strings.Repeat("t", domain.MaxTagNameLength+1), errIs: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogFixture()
			for _, s := range tt.seed {
				_, err := f.tags.CreateTag(ctx, s)
				require.NoError(t, err)
			}
			tag, err := f.tags.CreateTag(ctx, tt.tagName)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Equal(t, len(tt.seed), f.store.tagCount())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tagName, tag.Name)
			got, err := f.tags.GetTag(ctx, tag.ID)
			require.NoError(t, err)
			assert.Equal(t, tag, got)
		})
	}
}

func TestTagService_RenameTag(t *testing.T) {
	ctx := context.Background()

	t.Run("conflict leaves tag unchanged", func(t *testing.T) {
		f := newCatalogFixture()
		a, err := f.tags.CreateTag(ctx, "a")
		require.NoError(t, err)
		_, err = f.tags.CreateTag(ctx, "b")
		require.NoError(t, err)

		_, err = f.tags.RenameTag(ctx, a.ID, "b")
		require.ErrorIs(t, err, domain.ErrConflict)

		got, err := f.tags.GetTag(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "a", got.Name)
	})

	t.Run("same name is a no-op", func(t *testing.T) {
		f := newCatalogFixture()
		a, err := f.tags.CreateTag(ctx, "a")
		require.NoError(t, err)
		got, err := f.tags.RenameTag(ctx, a.ID, "a")
		require.NoError(t, err)
		assert.Equal(t, a, got)
	})

	t.Run("not found", func(t *testing.T) {
		f := newCatalogFixture()
		_, err := f.tags.RenameTag(ctx, "missing", "x")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid name", func(t *testing.T) {
		f := newCatalogFixture()
		a, err := f.tags.CreateTag(ctx, "a")
		require.NoError(t, err)
		_, err = f.tags.RenameTag(ctx, a.ID, "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("notes see the new name", func(t *testing.T) {
		f := newCatalogFixture()
		n, err := f.notes.CreateNote(ctx, domain.CreateNoteCommand{Name: "n", Description: "d", TagNames: []string{"old"}})
		require.NoError(t, err)
		tag, err := f.tags.GetTagByName(ctx, "old")
		require.NoError(t, err)

		renamed, err := f.tags.RenameTag(ctx, tag.ID, "new")
		require.NoError(t, err)
		assert.Equal(t, tag.ID, renamed.ID)

		got, err := f.notes.GetNote(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"new"}, got.TagNames)
		_, err = f.tags.GetTagByName(ctx, "old")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTagService_DeleteTag(t *testing.T) {
	ctx := context.Background()

	t.Run("in use", func(t *testing.T) {
		f := newCatalogFixture()
		n1, err := f.notes.CreateNote(ctx, domain.CreateNoteCommand{Name: "n1", Description: "d", TagNames: []string{"x"}})
		require.NoError(t, err)
		_, err = f.notes.CreateNote(ctx, domain.CreateNoteCommand{Name: "n2", Description: "d", TagNames: []string{"x", "y"}})
		require.NoError(t, err)
		x, err := f.tags.GetTagByName(ctx, "x")
		require.NoError(t, err)

		err = f.tags.DeleteTag(ctx, x.ID)
		require.ErrorIs(t, err, domain.ErrResourceInUse)
		de, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, 2, de.Count)
		assert.Contains(t, err.Error(), "2")

		_, err = f.tags.GetTag(ctx, x.ID)
		require.NoError(t, err)
		got, err := f.notes.GetNote(ctx, n1.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, got.TagNames)
	})

	t.Run("unused", func(t *testing.T) {
		f := newCatalogFixture()
		n, err := f.notes.CreateNote(ctx, domain.CreateNoteCommand{Name: "n", Description: "d", TagNames: []string{"x"}})
		require.NoError(t, err)
		require.NoError(t, f.notes.DeleteNote(ctx, n.ID))
		x, err := f.tags.GetTagByName(ctx, "x")
		require.NoError(t, err)

		require.NoError(t, f.tags.DeleteTag(ctx, x.ID))
		_, err = f.tags.GetTag(ctx, x.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.tags.GetTagByName(ctx, "x")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		f := newCatalogFixture()
		require.ErrorIs(t, f.tags.DeleteTag(ctx, "missing"), domain.ErrNotFound)
	})
}

func TestTagService_ListTags(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	for _, name := range []string{"Golang", "go-kit", "rust", "python"} {
		_, err := f.tags.CreateTag(ctx, name)
		require.NoError(t, err)
	}

	page, err := f.tags.ListTags(ctx, "GO", domain.PaginationParams{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Items, 1)

	page, err = f.tags.ListTags(ctx, "", domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Items, 4)
}
