package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"notescatalog/internal/delivery/http/helpers"
	"notescatalog/internal/domain"
)

// MaxUploadBytes bounds the multipart body of POST /images.
const MaxUploadBytes = 10 << 20

// ImageUploadResponse is the data of POST /images.
type ImageUploadResponse struct {
	FileName string `json:"file_name"`
}

// ImageURLResponse is the data of GET /images/{fileName}/url.
type ImageURLResponse struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// ImageUploadSuccessResponse is the success envelope for POST /images.
type ImageUploadSuccessResponse struct {
	Data  ImageUploadResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ImageURLSuccessResponse is the success envelope for GET /images/{fileName}/url.
type ImageURLSuccessResponse struct {
	Data  ImageURLResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ImageController struct {
	Logger  *slog.Logger
	Service domain.ImageService
}

func NewImageController(logger *slog.Logger, svc domain.ImageService) *ImageController {
	return &ImageController{
		Logger:  logger,
		Service: svc,
	}
}

// UploadImage godoc
// @Summary Upload an image
// @Description Stores an image and returns the file name to reference from notes. Accepts jpg, jpeg, png, gif, bmp and webp.
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} controllers.ImageUploadSuccessResponse "data contains the stored file name"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images [post]
func (c *ImageController) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "file is too large")
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "file is required")
		return
	}
	defer file.Close()

	stored, err := c.Service.Upload(r.Context(), file, header.Size, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ImageUploadResponse{FileName: stored})
}

// DownloadImage godoc
// @Summary Download an image
// @Tags images
// @Produce octet-stream
// @Security BearerAuth
// @Param fileName path string true "Stored file name"
// @Success 200 {file} file "Image content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images/{fileName} [get]
func (c *ImageController) DownloadImage(w http.ResponseWriter, r *http.Request) {
	fileName := r.PathValue("fileName")
	if fileName == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing fileName")
		return
	}
	body, contentType, err := c.Service.Open(r.Context(), fileName)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	defer body.Close()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		c.Logger.WarnContext(r.Context(), "image stream interrupted", "file_name", fileName, "err", err)
	}
}

// ImageURL godoc
// @Summary Get a time-limited image URL
// @Tags images
// @Produce json
// @Security BearerAuth
// @Param fileName path string true "Stored file name"
// @Success 200 {object} controllers.ImageURLSuccessResponse "data contains the URL"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images/{fileName}/url [get]
func (c *ImageController) ImageURL(w http.ResponseWriter, r *http.Request) {
	fileName := r.PathValue("fileName")
	if fileName == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing fileName")
		return
	}
	url, err := c.Service.URL(r.Context(), fileName)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ImageURLResponse{FileName: fileName, URL: url})
}

// DeleteImage godoc
// @Summary Delete an image
// @Description Removes the stored object. Notes still referencing it fail to resolve on read.
// @Tags images
// @Security BearerAuth
// @Param fileName path string true "Stored file name"
// @Success 204 "No content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images/{fileName} [delete]
func (c *ImageController) DeleteImage(w http.ResponseWriter, r *http.Request) {
	fileName := r.PathValue("fileName")
	if fileName == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing fileName")
		return
	}
	if err := c.Service.Delete(r.Context(), fileName); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteNoContent(w)
}
