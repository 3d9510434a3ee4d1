package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"notescatalog/internal/delivery/http/helpers"
	"notescatalog/internal/domain"
)

// TagRequest is the request body for POST /tags and PUT /tags/{id}.
type TagRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (t TagRequest) Validate() []string {
	if strings.TrimSpace(t.Name) == "" {
		return []string{"name is required"}
	}
	if utf8.RuneCountInString(t.Name) > maxRequestTagNameLen {
		return []string{fmt.Sprintf("name must be at most %d characters", maxRequestTagNameLen)}
	}
	return nil
}

// TagSuccessResponse is the success envelope for endpoints returning one tag.
type TagSuccessResponse struct {
	Data  *domain.Tag       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListTagsResponse is the data of GET /tags.
type ListTagsResponse struct {
	Items      []*domain.Tag          `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListTagsSuccessResponse is the success envelope for GET /tags.
type ListTagsSuccessResponse struct {
	Data  ListTagsResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type TagController struct {
	Logger  *slog.Logger
	Service domain.TagService
}

func NewTagController(logger *slog.Logger, svc domain.TagService) *TagController {
	return &TagController{
		Logger:  logger,
		Service: svc,
	}
}

// ListTags godoc
// @Summary List tags
// @Description Lists tags ordered by ID, optionally filtered by a case-insensitive substring of the name.
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of the tag name"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListTagsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags [get]
func (c *TagController) ListTags(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	if utf8.RuneCountInString(search) > maxSearchLength {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest,
			fmt.Sprintf("search must be at most %d characters", maxSearchLength))
		return
	}
	params := helpers.ParsePagination(r)
	page, err := c.Service.ListTags(r.Context(), search, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListTagsResponse{
		Items:      page.Items,
		Pagination: helpers.NewPaginationMeta(page.Page, page.PageSize, page.Total),
	})
}

// GetTag godoc
// @Summary Get a tag by ID
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tag ID"
// @Success 200 {object} controllers.TagSuccessResponse "data contains the tag"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags/{id} [get]
func (c *TagController) GetTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	tag, err := c.Service.GetTag(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tag)
}

// GetTagByName godoc
// @Summary Get a tag by exact name
// @Description Name matching is case-sensitive.
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param name path string true "Tag name"
// @Success 200 {object} controllers.TagSuccessResponse "data contains the tag"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags/by-name/{name} [get]
func (c *TagController) GetTagByName(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing name")
		return
	}
	tag, err := c.Service.GetTagByName(r.Context(), name)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tag)
}

// CreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TagRequest true "Tag name"
// @Success 201 {object} controllers.TagSuccessResponse "data contains the created tag"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags [post]
func (c *TagController) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tag, err := c.Service.CreateTag(r.Context(), req.Name)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, tag)
}

// RenameTag godoc
// @Summary Rename a tag
// @Description Renames a tag. Every note carrying it reports the new name.
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tag ID"
// @Param body body TagRequest true "New name"
// @Success 200 {object} controllers.TagSuccessResponse "data contains the renamed tag"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags/{id} [put]
func (c *TagController) RenameTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	var req TagRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tag, err := c.Service.RenameTag(r.Context(), id, req.Name)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tag)
}

// DeleteTag godoc
// @Summary Delete a tag
// @Description Deletes a tag that no note references.
// @Tags tags
// @Security BearerAuth
// @Param id path string true "Tag ID"
// @Success 204 "No content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: resource_in_use"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags/{id} [delete]
func (c *TagController) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.DeleteTag(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteNoContent(w)
}
