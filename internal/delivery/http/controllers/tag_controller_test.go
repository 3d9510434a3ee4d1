package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"notescatalog/internal/delivery/http/helpers"
	"notescatalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagController_ListTags(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantSearch string
		wantParams domain.PaginationParams
	}{
		{"defaults", "", http.StatusOK, "", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"search and paging", "?search=wo&page=3&page_size=2", http.StatusOK, "wo", domain.PaginationParams{Page: 3, PageSize: 2}},
		{"page size clamped", "?page_size=500", http.StatusOK, "", domain.PaginationParams{Page: 1, PageSize: 100}},
		{"invalid values fall back", "?page=-1&page_size=abc", http.StatusOK, "", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"search too long", "?search=" + strings.Repeat("s", 101), http.StatusBadRequest, "", domain.PaginationParams{}},
		{"multibyte search within limit", "?search=" + url.QueryEscape(strings.Repeat("ш", 100)), http.StatusOK, strings.Repeat("ш", 100), domain.PaginationParams{Page: 1, PageSize: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTagService{page: &domain.TagPage{
				Items: []*domain.Tag{{ID: "t1", Name: "work"}}, Total: 1, Page: 1, PageSize: 20,
			}}
			ctrl := NewTagController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/tags"+tt.query, nil)
			rr := httptest.NewRecorder()

			ctrl.ListTags(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantSearch, fake.lastSearch)
			assert.Equal(t, tt.wantParams, fake.lastParams)
			var data ListTagsResponse
			decodeData(t, decodeEnvelope(t, rr), &data)
			require.Len(t, data.Items, 1)
			assert.Equal(t, "work", data.Items[0].Name)
			assert.Equal(t, 1, data.Pagination.TotalPages)
		})
	}
}

func TestTagController_GetTag(t *testing.T) {
	fake := &fakeTagService{tag: &domain.Tag{ID: "t1", Name: "work"}}
	ctrl := NewTagController(testLogger, fake)

	req := httptest.NewRequest(http.MethodGet, "/tags/t1", nil)
	req.SetPathValue("id", "t1")
	rr := httptest.NewRecorder()
	ctrl.GetTag(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var tag domain.Tag
	decodeData(t, decodeEnvelope(t, rr), &tag)
	assert.Equal(t, domain.Tag{ID: "t1", Name: "work"}, tag)

	fake.err = domain.NotFound("Tag", "t2")
	req = httptest.NewRequest(http.MethodGet, "/tags/t2", nil)
	req.SetPathValue("id", "t2")
	rr = httptest.NewRecorder()
	ctrl.GetTag(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTagController_GetTagByName(t *testing.T) {
	fake := &fakeTagService{tag: &domain.Tag{ID: "t1", Name: "Work"}}
	ctrl := NewTagController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/tags/by-name/Work", nil)
	req.SetPathValue("name", "Work")
	rr := httptest.NewRecorder()

	ctrl.GetTagByName(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Work", fake.lastName)
}

func TestTagController_CreateTag(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{"created", `{"name":"work"}`, nil, http.StatusCreated, ""},
		{"blank name", `{"name":"  "}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"name too long", `{"name":"` + strings.Repeat("n", 51) + `"}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"multibyte name within limit", `{"name":"` + strings.Repeat("ж", 30) + `"}`, nil, http.StatusCreated, ""},
		{"multibyte name over limit", `{"name":"` + strings.Repeat("ж", 51) + `"}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"duplicate", `{"name":"work"}`, domain.Duplicate("Tag", "work"), http.StatusConflict, helpers.ErrCodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTagService{tag: &domain.Tag{ID: "t1", Name: "work"}, err: tt.fakeErr}
			ctrl := NewTagController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/tags", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.CreateTag(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			env := decodeEnvelope(t, rr)
			if tt.wantCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
			}
		})
	}
}

func TestTagController_RenameTag(t *testing.T) {
	fake := &fakeTagService{tag: &domain.Tag{ID: "t1", Name: "office"}}
	ctrl := NewTagController(testLogger, fake)
	req := httptest.NewRequest(http.MethodPut, "/tags/t1", bytes.NewBufferString(`{"name":"office"}`))
	req.SetPathValue("id", "t1")
	rr := httptest.NewRecorder()

	ctrl.RenameTag(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "t1", fake.lastID)
	assert.Equal(t, "office", fake.lastName)
}

func TestTagController_DeleteTag(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
		wantCode   string
		wantSubstr string
	}{
		{"deleted", nil, http.StatusNoContent, "", ""},
		{"not found", domain.NotFound("Tag", "t1"), http.StatusNotFound, helpers.ErrCodeNotFound, ""},
		{"in use", domain.InUse("Tag", "work", 3), http.StatusConflict, helpers.ErrCodeResourceInUse, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTagService{err: tt.fakeErr}
			ctrl := NewTagController(testLogger, fake)
			req := httptest.NewRequest(http.MethodDelete, "/tags/t1", nil)
			req.SetPathValue("id", "t1")
			rr := httptest.NewRecorder()

			ctrl.DeleteTag(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode == "" {
				return
			}
			env := decodeEnvelope(t, rr)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Contains(t, env.Error.Message, tt.wantSubstr)
		})
	}
}
