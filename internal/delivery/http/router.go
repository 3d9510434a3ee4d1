package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"notescatalog/internal/delivery/http/controllers"
	"notescatalog/internal/delivery/http/middleware"
	"notescatalog/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Notes  *controllers.NoteController
	Tags   *controllers.TagController
	Images *controllers.ImageController
	Auth   *controllers.AuthController
}

// NewRouter initializes the HTTP router with all application routes.
// Everything except registration, login, refresh and the API docs requires a bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Notes
	mux.HandleFunc("POST /notes", auth(c.Notes.CreateNote))
	mux.HandleFunc("POST /notes/bulk", auth(c.Notes.BulkCreateNotes))
	mux.HandleFunc("POST /notes/search", auth(c.Notes.SearchNotes))
	mux.HandleFunc("GET /notes/{id}", auth(c.Notes.GetNote))
	mux.HandleFunc("PUT /notes/{id}", auth(c.Notes.UpdateNote))
	mux.HandleFunc("DELETE /notes/{id}", auth(c.Notes.DeleteNote))

	// Tags
	mux.HandleFunc("GET /tags", auth(c.Tags.ListTags))
	mux.HandleFunc("POST /tags", auth(c.Tags.CreateTag))
	mux.HandleFunc("GET /tags/by-name/{name}", auth(c.Tags.GetTagByName))
	mux.HandleFunc("GET /tags/{id}", auth(c.Tags.GetTag))
	mux.HandleFunc("PUT /tags/{id}", auth(c.Tags.RenameTag))
	mux.HandleFunc("DELETE /tags/{id}", auth(c.Tags.DeleteTag))

	// Images
	mux.HandleFunc("POST /images", auth(c.Images.UploadImage))
	mux.HandleFunc("GET /images/{fileName}", auth(c.Images.DownloadImage))
	mux.HandleFunc("GET /images/{fileName}/url", auth(c.Images.ImageURL))
	mux.HandleFunc("DELETE /images/{fileName}", auth(c.Images.DeleteImage))

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", c.Auth.Refresh)
	mux.HandleFunc("GET /auth/me", auth(c.Auth.Me))
	mux.HandleFunc("DELETE /auth/me", auth(c.Auth.DeleteMe))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
