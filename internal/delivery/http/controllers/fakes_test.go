package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notescatalog/internal/delivery/http/helpers"
	"notescatalog/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// envelope mirrors helpers.APIResponse with raw data for per-test decoding.
type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, env envelope, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

// fakeNoteService implements domain.NoteService.
type fakeNoteService struct {
	view      *domain.NoteView
	views     []*domain.NoteView
	page      *domain.NotePage
	err       error
	lastID    string
	lastCmd   domain.CreateNoteCommand
	lastCmds  []domain.CreateNoteCommand
	lastQuery domain.NoteQuery
}

func (f *fakeNoteService) CreateNote(_ context.Context, cmd domain.CreateNoteCommand) (*domain.NoteView, error) {
	f.lastCmd = cmd
	return f.view, f.err
}

func (f *fakeNoteService) BulkCreateNotes(_ context.Context, cmds []domain.CreateNoteCommand) ([]*domain.NoteView, error) {
	f.lastCmds = cmds
	return f.views, f.err
}

func (f *fakeNoteService) UpdateNote(_ context.Context, id string, cmd domain.CreateNoteCommand) (*domain.NoteView, error) {
	f.lastID, f.lastCmd = id, cmd
	return f.view, f.err
}

func (f *fakeNoteService) DeleteNote(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeNoteService) GetNote(_ context.Context, id string) (*domain.NoteView, error) {
	f.lastID = id
	return f.view, f.err
}

func (f *fakeNoteService) SearchNotes(_ context.Context, q domain.NoteQuery) (*domain.NotePage, error) {
	f.lastQuery = q
	return f.page, f.err
}

// fakeTagService implements domain.TagService.
type fakeTagService struct {
	tag        *domain.Tag
	page       *domain.TagPage
	err        error
	lastID     string
	lastName   string
	lastSearch string
	lastParams domain.PaginationParams
}

func (f *fakeTagService) CreateTag(_ context.Context, name string) (*domain.Tag, error) {
	f.lastName = name
	return f.tag, f.err
}

func (f *fakeTagService) GetTag(_ context.Context, id string) (*domain.Tag, error) {
	f.lastID = id
	return f.tag, f.err
}

func (f *fakeTagService) GetTagByName(_ context.Context, name string) (*domain.Tag, error) {
	f.lastName = name
	return f.tag, f.err
}

func (f *fakeTagService) ListTags(_ context.Context, search string, params domain.PaginationParams) (*domain.TagPage, error) {
	f.lastSearch, f.lastParams = search, params
	return f.page, f.err
}

func (f *fakeTagService) RenameTag(_ context.Context, id, name string) (*domain.Tag, error) {
	f.lastID, f.lastName = id, name
	return f.tag, f.err
}

func (f *fakeTagService) DeleteTag(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

// fakeImageService implements domain.ImageService.
type fakeImageService struct {
	stored          string
	content         string
	contentType     string
	url             string
	err             error
	lastFileName    string
	lastContentType string
	lastBody        string
	lastSize        int64
}

func (f *fakeImageService) Upload(_ context.Context, r io.Reader, size int64, fileName, contentType string) (string, error) {
	b, _ := io.ReadAll(r)
	f.lastBody, f.lastSize, f.lastFileName, f.lastContentType = string(b), size, fileName, contentType
	return f.stored, f.err
}

func (f *fakeImageService) Open(_ context.Context, fileName string) (io.ReadCloser, string, error) {
	f.lastFileName = fileName
	if f.err != nil {
		return nil, "", f.err
	}
	return io.NopCloser(strings.NewReader(f.content)), f.contentType, nil
}

func (f *fakeImageService) URL(_ context.Context, fileName string) (string, error) {
	f.lastFileName = fileName
	return f.url, f.err
}

func (f *fakeImageService) Delete(_ context.Context, fileName string) error {
	f.lastFileName = fileName
	return f.err
}

// fakeAuthService implements domain.AuthService.
type fakeAuthService struct {
	user         *domain.User
	tokens       *domain.AuthTokens
	err          error
	lastUsername string
	lastPassword string
	lastToken    string
	lastID       string
}

func (f *fakeAuthService) Register(_ context.Context, username, password string) (*domain.User, error) {
	f.lastUsername, f.lastPassword = username, password
	return f.user, f.err
}

func (f *fakeAuthService) Login(_ context.Context, username, password string) (*domain.AuthTokens, error) {
	f.lastUsername, f.lastPassword = username, password
	return f.tokens, f.err
}

func (f *fakeAuthService) Refresh(_ context.Context, token string) (*domain.AuthTokens, error) {
	f.lastToken = token
	return f.tokens, f.err
}

func (f *fakeAuthService) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.lastID = id
	return f.user, f.err
}

func (f *fakeAuthService) DeleteAccount(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func sampleView() *domain.NoteView {
	return &domain.NoteView{
		ID:          "note-1",
		Name:        "Groceries",
		Description: "weekly list",
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Tags:        []*domain.Tag{{ID: "tag-1", Name: "home"}},
		TagNames:    []string{"home"},
		Images:      []domain.NoteImage{{FileName: "a_1.png", URL: "https://img/a_1.png"}},
	}
}
