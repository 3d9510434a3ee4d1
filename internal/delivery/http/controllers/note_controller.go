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

// Request-level bounds, tighter than the entity limits.
const (
	maxSearchLength      = 100
	maxRequestTagNameLen = 50
	maxBulkNotes         = 100
)

// NoteRequest is the request body for POST /notes and PUT /notes/{id}.
type NoteRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	ImageFileNames []string `json:"image_file_names"`
}

// Validate implements Validator.
func (n NoteRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(n.Name) == "" {
		errs = append(errs, "name is required")
	} else if utf8.RuneCountInString(n.Name) > domain.MaxNoteNameLength {
		errs = append(errs, fmt.Sprintf("name must be at most %d characters", domain.MaxNoteNameLength))
	}
	if utf8.RuneCountInString(n.Description) > domain.MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("description must be at most %d characters", domain.MaxDescriptionLength))
	}
	errs = append(errs, validateTagNames(n.Tags)...)
	for _, f := range n.ImageFileNames {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, "image file names must not be empty")
			break
		}
		if utf8.RuneCountInString(f) > domain.MaxImageFileNameLength {
			errs = append(errs, fmt.Sprintf("image file names must be at most %d characters", domain.MaxImageFileNameLength))
			break
		}
	}
	return errs
}

func (n NoteRequest) command() domain.CreateNoteCommand {
	return domain.CreateNoteCommand{
		Name:           n.Name,
		Description:    n.Description,
		TagNames:       n.Tags,
		ImageFileNames: n.ImageFileNames,
	}
}

// BulkNoteRequest is the request body for POST /notes/bulk.
type BulkNoteRequest struct {
	Notes []NoteRequest `json:"notes"`
}

// Validate implements Validator. Messages are prefixed with the offending index.
func (b BulkNoteRequest) Validate() []string {
	if len(b.Notes) == 0 {
		return []string{"notes must not be empty"}
	}
	if len(b.Notes) > maxBulkNotes {
		return []string{fmt.Sprintf("at most %d notes per request", maxBulkNotes)}
	}
	var errs []string
	for i, n := range b.Notes {
		for _, e := range n.Validate() {
			errs = append(errs, fmt.Sprintf("notes[%d]: %s", i, e))
		}
	}
	return errs
}

// SearchNotesRequest is the request body for POST /notes/search.
type SearchNotesRequest struct {
	Search    string   `json:"search"`
	Tags      []string `json:"tags"`
	Page      *int     `json:"page"`
	PageSize  *int     `json:"page_size"`
	SortBy    string   `json:"sort_by"`
	Ascending *bool    `json:"ascending"`
}

// Validate implements Validator.
func (s SearchNotesRequest) Validate() []string {
	var errs []string
	if utf8.RuneCountInString(s.Search) > maxSearchLength {
		errs = append(errs, fmt.Sprintf("search must be at most %d characters", maxSearchLength))
	}
	errs = append(errs, validateTagNames(s.Tags)...)
	if s.Page != nil && *s.Page < 1 {
		errs = append(errs, "page must be at least 1")
	}
	if s.PageSize != nil && (*s.PageSize < 1 || *s.PageSize > domain.MaxPageSize) {
		errs = append(errs, fmt.Sprintf("page_size must be between 1 and %d", domain.MaxPageSize))
	}
	return errs
}

func (s SearchNotesRequest) query() domain.NoteQuery {
	page, pageSize := domain.DefaultPage, domain.DefaultPageSize
	if s.Page != nil {
		page = *s.Page
	}
	if s.PageSize != nil {
		pageSize = *s.PageSize
	}
	ascending := true
	if s.Ascending != nil {
		ascending = *s.Ascending
	}
	return domain.NoteQuery{
		Filter: domain.NoteFilter{Search: s.Search, TagNames: s.Tags},
		Sort:   domain.NoteSort{Field: domain.ParseNoteSortField(s.SortBy), Ascending: ascending},
		Page:   helpers.ClampPagination(page, pageSize),
	}
}

func validateTagNames(names []string) []string {
	for _, t := range names {
		if strings.TrimSpace(t) == "" {
			return []string{"tag names must not be empty"}
		}
		if utf8.RuneCountInString(t) > maxRequestTagNameLen {
			return []string{fmt.Sprintf("tag names must be at most %d characters", maxRequestTagNameLen)}
		}
	}
	return nil
}

// NoteSuccessResponse is the success envelope for endpoints returning one note.
type NoteSuccessResponse struct {
	Data  *domain.NoteView  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// NoteListSuccessResponse is the success envelope for POST /notes/bulk.
type NoteListSuccessResponse struct {
	Data  []*domain.NoteView `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// SearchNotesResponse is the data of POST /notes/search.
type SearchNotesResponse struct {
	Items      []*domain.NoteView     `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// SearchNotesSuccessResponse is the success envelope for POST /notes/search.
type SearchNotesSuccessResponse struct {
	Data  SearchNotesResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type NoteController struct {
	Logger  *slog.Logger
	Service domain.NoteService
}

func NewNoteController(logger *slog.Logger, svc domain.NoteService) *NoteController {
	return &NoteController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateNote godoc
// @Summary Create a note
// @Description Creates a note. Tags are referenced by name and created when missing. Image file names must come from POST /images.
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body NoteRequest true "Note data"
// @Success 201 {object} controllers.NoteSuccessResponse "data contains the created note"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notes [post]
func (c *NoteController) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.CreateNote(r.Context(), req.command())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// BulkCreateNotes godoc
// @Summary Create several notes
// @Description Creates every note in the batch or none of them. Invalid entries reject the whole batch.
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkNoteRequest true "Notes to create"
// @Success 201 {object} controllers.NoteListSuccessResponse "data contains the created notes in request order"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notes/bulk [post]
func (c *NoteController) BulkCreateNotes(w http.ResponseWriter, r *http.Request) {
	var req BulkNoteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	cmds := make([]domain.CreateNoteCommand, 0, len(req.Notes))
	for _, n := range req.Notes {
		cmds = append(cmds, n.command())
	}
	views, err := c.Service.BulkCreateNotes(r.Context(), cmds)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, views)
}

// GetNote godoc
// @Summary Get a note by ID
// @Description Returns the note with current tag names and time-limited image URLs.
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {object} controllers.NoteSuccessResponse "data contains the note"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notes/{id} [get]
func (c *NoteController) GetNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	view, err := c.Service.GetNote(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// UpdateNote godoc
// @Summary Replace a note
// @Description Replaces name, description, images and the entire tag set of a note.
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Param body body NoteRequest true "New note data"
// @Success 200 {object} controllers.NoteSuccessResponse "data contains the updated note"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notes/{id} [put]
func (c *NoteController) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	var req NoteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.UpdateNote(r.Context(), id, req.command())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Deletes a note. Its tags are kept.
// @Tags notes
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 204 "No content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notes/{id} [delete]
func (c *NoteController) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	if err := c.Service.DeleteNote(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteNoContent(w)
}

// SearchNotes godoc
// @Summary Search notes
// @Description Filters by a case-insensitive substring of name or description and by tags (a note matches when it has any of them). sort_by is "name" or "creation_date"; anything else orders by ID. ascending defaults to true.
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SearchNotesRequest true "Search criteria"
// @Success 200 {object} controllers.SearchNotesSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unresolvable image)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notes/search [post]
func (c *NoteController) SearchNotes(w http.ResponseWriter, r *http.Request) {
	var req SearchNotesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	page, err := c.Service.SearchNotes(r.Context(), req.query())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SearchNotesResponse{
		Items:      page.Items,
		Pagination: helpers.NewPaginationMeta(page.Page, page.PageSize, page.Total),
	})
}
