// Package docs registers the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "data contains the created user"}, "400": {"description": "error.code: bad_request"}, "409": {"description": "error.code: conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "data contains the tokens"}, "401": {"description": "error.code: unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh the access token", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "data contains the tokens"}, "401": {"description": "error.code: unauthorized"}}}},
        "/auth/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Get the current user", "produces": ["application/json"], "responses": {"200": {"description": "data contains the user"}, "401": {"description": "error.code: unauthorized"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Delete the current account", "responses": {"204": {"description": "No content"}, "401": {"description": "error.code: unauthorized"}}}
        },
        "/notes": {"post": {"security": [{"BearerAuth": []}], "tags": ["notes"], "summary": "Create a note", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "data contains the created note"}, "400": {"description": "error.code: bad_request"}}}},
        "/notes/bulk": {"post": {"security": [{"BearerAuth": []}], "tags": ["notes"], "summary": "Create several notes", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "data contains the created notes in request order"}, "400": {"description": "error.code: bad_request"}}}},
        "/notes/search": {"post": {"security": [{"BearerAuth": []}], "tags": ["notes"], "summary": "Search notes", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "data contains items and pagination"}, "400": {"description": "error.code: bad_request"}, "404": {"description": "error.code: not_found (unresolvable image)"}}}},
        "/notes/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["notes"], "summary": "Get a note by ID", "produces": ["application/json"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "data contains the note"}, "404": {"description": "error.code: not_found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["notes"], "summary": "Replace a note", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "data contains the updated note"}, "400": {"description": "error.code: bad_request"}, "404": {"description": "error.code: not_found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["notes"], "summary": "Delete a note", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No content"}, "404": {"description": "error.code: not_found"}}}
        },
        "/tags": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["tags"], "summary": "List tags", "produces": ["application/json"], "parameters": [{"type": "string", "name": "search", "in": "query"}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "page_size", "in": "query"}], "responses": {"200": {"description": "data contains items and pagination"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["tags"], "summary": "Create a tag", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "data contains the created tag"}, "409": {"description": "error.code: conflict"}}}
        },
        "/tags/by-name/{name}": {"get": {"security": [{"BearerAuth": []}], "tags": ["tags"], "summary": "Get a tag by exact name", "produces": ["application/json"], "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}], "responses": {"200": {"description": "data contains the tag"}, "404": {"description": "error.code: not_found"}}}},
        "/tags/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["tags"], "summary": "Get a tag by ID", "produces": ["application/json"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "data contains the tag"}, "404": {"description": "error.code: not_found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["tags"], "summary": "Rename a tag", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "data contains the renamed tag"}, "404": {"description": "error.code: not_found"}, "409": {"description": "error.code: conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["tags"], "summary": "Delete a tag", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No content"}, "404": {"description": "error.code: not_found"}, "409": {"description": "error.code: resource_in_use"}}}
        },
        "/images": {"post": {"security": [{"BearerAuth": []}], "tags": ["images"], "summary": "Upload an image", "consumes": ["multipart/form-data"], "produces": ["application/json"], "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"201": {"description": "data contains the stored file name"}, "400": {"description": "error.code: bad_request"}}}},
        "/images/{fileName}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["images"], "summary": "Download an image", "produces": ["application/octet-stream"], "parameters": [{"type": "string", "name": "fileName", "in": "path", "required": true}], "responses": {"200": {"description": "Image content"}, "404": {"description": "error.code: not_found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["images"], "summary": "Delete an image", "parameters": [{"type": "string", "name": "fileName", "in": "path", "required": true}], "responses": {"204": {"description": "No content"}, "404": {"description": "error.code: not_found"}}}
        },
        "/images/{fileName}/url": {"get": {"security": [{"BearerAuth": []}], "tags": ["images"], "summary": "Get a time-limited image URL", "produces": ["application/json"], "parameters": [{"type": "string", "name": "fileName", "in": "path", "required": true}], "responses": {"200": {"description": "data contains the URL"}, "404": {"description": "error.code: not_found"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Notes Catalog API",
	Description:      "Notes with tags and images.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
