package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"notescatalog/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type storedNote struct {
	note   domain.Note
	tagIDs []string
}

// memStore is an in-memory catalog shared by fakeTagRepo and fakeNoteRepo.
// Notes keep only tag IDs; names are joined on read like the Postgres store.
type memStore struct {
	mu      sync.Mutex
	tags    map[string]*domain.Tag
	notes   map[string]*storedNote
	nextTag int

	// failAddAfter makes the n-th (1-based) note Add fail; 0 disables.
	failAddAfter int
	adds         int
}

func newMemStore() *memStore {
	return &memStore{
		tags:  make(map[string]*domain.Tag),
		notes: make(map[string]*storedNote),
	}
}

func (m *memStore) snapshot() (map[string]*domain.Tag, map[string]*storedNote) {
	tags := make(map[string]*domain.Tag, len(m.tags))
	for k, v := range m.tags {
		t := *v
		tags[k] = &t
	}
	notes := make(map[string]*storedNote, len(m.notes))
	for k, v := range m.notes {
		n := *v
		n.tagIDs = slices.Clone(v.tagIDs)
		n.note.ImageFileNames = slices.Clone(v.note.ImageFileNames)
		notes[k] = &n
	}
	return tags, notes
}

func (m *memStore) tagCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tags)
}

func (m *memStore) noteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notes)
}

// fakeTransactor serializes transactions and restores the store on error.
type fakeTransactor struct {
	store *memStore
	txMu  sync.Mutex
}

type fakeTxKey struct{}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.store.mu.Lock()
	tags, notes := f.store.snapshot()
	f.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, fakeTxKey{}, true)); err != nil {
		f.store.mu.Lock()
		f.store.tags, f.store.notes = tags, notes
		f.store.mu.Unlock()
		return err
	}
	return nil
}

type fakeTagRepo struct{ s *memStore }

func (f *fakeTagRepo) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if t, ok := f.s.tags[id]; ok {
		c := *t
		return &c, nil
	}
	return nil, domain.NotFound("Tag", id)
}

func (f *fakeTagRepo) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if t := f.s.tagByName(name); t != nil {
		c := *t
		return &c, nil
	}
	return nil, domain.NotFound("Tag", name)
}

func (m *memStore) tagByName(name string) *domain.Tag {
	for _, t := range m.tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (f *fakeTagRepo) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Tag, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*domain.Tag{}
	for _, id := range slices.Sorted(maps.Keys(f.s.tags)) {
		t := f.s.tags[id]
		if search == "" || strings.Contains(strings.ToLower(t.Name), strings.ToLower(search)) {
			c := *t
			out = append(out, &c)
		}
	}
	return paginate(out, params), nil
}

func (f *fakeTagRepo) Count(ctx context.Context, search string) (int, error) {
	all, _ := f.List(ctx, search, domain.PaginationParams{})
	return len(all), nil
}

func (f *fakeTagRepo) Add(ctx context.Context, tag *domain.Tag) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.tagByName(tag.Name) != nil {
		return domain.Duplicate("Tag", tag.Name)
	}
	c := *tag
	f.s.tags[tag.ID] = &c
	return nil
}

func (f *fakeTagRepo) GetOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if t := f.s.tagByName(name); t != nil {
		c := *t
		return &c, nil
	}
	f.s.nextTag++
	t := &domain.Tag{ID: fmt.Sprintf("tag-%03d", f.s.nextTag), Name: name}
	f.s.tags[t.ID] = t
	c := *t
	return &c, nil
}

func (f *fakeTagRepo) Update(ctx context.Context, tag *domain.Tag) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.tags[tag.ID]
	if !ok {
		return domain.NotFound("Tag", tag.ID)
	}
	if other := f.s.tagByName(tag.Name); other != nil && other.ID != tag.ID {
		return domain.Duplicate("Tag", tag.Name)
	}
	t.Name = tag.Name
	return nil
}

func (f *fakeTagRepo) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.tags[id]; !ok {
		return domain.NotFound("Tag", id)
	}
	for _, n := range f.s.notes {
		if slices.Contains(n.tagIDs, id) {
			return domain.InUse("Tag", id, 1)
		}
	}
	delete(f.s.tags, id)
	return nil
}

type fakeNoteRepo struct{ s *memStore }

// load returns a copy of the stored note with tags joined from the tag table.
func (m *memStore) load(sn *storedNote) *domain.Note {
	n := sn.note
	n.ImageFileNames = slices.Clone(sn.note.ImageFileNames)
	n.Tags = []*domain.Tag{}
	for _, id := range sn.tagIDs {
		if t, ok := m.tags[id]; ok {
			c := *t
			n.Tags = append(n.Tags, &c)
		}
	}
	return &n
}

func (f *fakeNoteRepo) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	sn, ok := f.s.notes[id]
	if !ok {
		return nil, domain.NotFound("Note", id)
	}
	return f.s.load(sn), nil
}

func (f *fakeNoteRepo) Add(ctx context.Context, note *domain.Note) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.adds++
	if f.s.failAddAfter > 0 && f.s.adds >= f.s.failAddAfter {
		return fmt.Errorf("connection reset")
	}
	if _, ok := f.s.notes[note.ID]; ok {
		return domain.Duplicate("Note", note.ID)
	}
	f.s.notes[note.ID] = f.s.store(note)
	return nil
}

func (m *memStore) store(note *domain.Note) *storedNote {
	sn := &storedNote{note: *note, tagIDs: note.TagIDs()}
	sn.note.Tags = nil
	sn.note.ImageFileNames = slices.Clone(note.ImageFileNames)
	return sn
}

func (f *fakeNoteRepo) Update(ctx context.Context, note *domain.Note) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	old, ok := f.s.notes[note.ID]
	if !ok {
		return domain.NotFound("Note", note.ID)
	}
	sn := f.s.store(note)
	sn.note.CreatedAt = old.note.CreatedAt
	f.s.notes[note.ID] = sn
	return nil
}

func (f *fakeNoteRepo) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.notes[id]; !ok {
		return domain.NotFound("Note", id)
	}
	delete(f.s.notes, id)
	return nil
}

func (f *fakeNoteRepo) matching(filter domain.NoteFilter) []*domain.Note {
	var out []*domain.Note
	search := strings.ToLower(filter.Search)
	for _, sn := range f.s.notes {
		n := f.s.load(sn)
		if search != "" &&
			!strings.Contains(strings.ToLower(n.Name), search) &&
			!strings.Contains(strings.ToLower(n.Description), search) {
			continue
		}
		if len(filter.TagNames) > 0 && !slices.ContainsFunc(n.Tags, func(t *domain.Tag) bool {
			return slices.Contains(filter.TagNames, t.Name)
		}) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (f *fakeNoteRepo) Search(ctx context.Context, filter domain.NoteFilter, sort domain.NoteSort, params domain.PaginationParams) ([]*domain.Note, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := f.matching(filter)
	slices.SortFunc(out, func(a, b *domain.Note) int {
		var c int
		switch sort.Field {
		case domain.SortByName:
			c = strings.Compare(a.Name, b.Name)
		case domain.SortByCreationDate:
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = strings.Compare(a.ID, b.ID)
		}
		if !sort.Ascending {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		return c
	})
	if out == nil {
		out = []*domain.Note{}
	}
	return paginate(out, params), nil
}

func (f *fakeNoteRepo) Count(ctx context.Context, filter domain.NoteFilter) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return len(f.matching(filter)), nil
}

func paginate[T any](items []T, p domain.PaginationParams) []T {
	if p.Unbounded() {
		return items
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+p.PageSize, len(items))
	return items[start:end]
}

// fakeResolver resolves file names present in urls and reports NotFound otherwise.
type fakeResolver struct {
	mu    sync.Mutex
	urls  map[string]string
	calls int
}

func newFakeResolver(files ...string) *fakeResolver {
	r := &fakeResolver{urls: make(map[string]string)}
	for _, f := range files {
		r.urls[f] = "https://img.test/" + f + "?sig=1"
	}
	return r
}

func (r *fakeResolver) Resolve(ctx context.Context, fileName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if u, ok := r.urls[fileName]; ok {
		return u, nil
	}
	return "", domain.NotFound("Image", fileName)
}

type catalogFixture struct {
	store    *memStore
	resolver *fakeResolver
	notes    domain.NoteService
	tags     domain.TagService
}

func newCatalogFixture(files ...string) *catalogFixture {
	store := newMemStore()
	tx := &fakeTransactor{store: store}
	resolver := newFakeResolver(files...)
	noteRepo := &fakeNoteRepo{s: store}
	tagRepo := &fakeTagRepo{s: store}
	return &catalogFixture{
		store:    store,
		resolver: resolver,
		notes:    NewNoteService(noteRepo, tagRepo, tx, resolver, discardLogger(), 5*time.Second),
		tags:     NewTagService(tagRepo, noteRepo, tx, discardLogger(), 5*time.Second),
	}
}
