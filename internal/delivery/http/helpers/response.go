package helpers

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in APIError.Code.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeResourceInUse = "resource_in_use"
	ErrCodeInternalError = "internal_error"
)

// APIError describes why a catalog request failed.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse wraps every JSON body the catalog returns. Exactly one of Data
// and Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess writes data inside the response envelope.
func WriteJSONSuccess(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, APIResponse{Data: data})
}

// WriteJSONError writes an error envelope. Use the ErrCode constants for code.
func WriteJSONError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, APIResponse{Error: &APIError{Code: code, Message: message}})
}

// WriteNoContent answers a successful delete.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func writeEnvelope(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	// The status line is already out; an encode failure means the client went away.
	_ = json.NewEncoder(w).Encode(body)
}
