package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"notescatalog/internal/delivery/http/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier accepts one token and records what it was asked to verify.
type stubVerifier struct {
	accept string
	userID string
	seen   []string
}

func (v *stubVerifier) Verify(token string) (string, error) {
	v.seen = append(v.seen, token)
	if token != v.accept {
		return "", errors.New("token is expired")
	}
	return v.userID, nil
}

func TestRequireAuth_CatalogRoutes(t *testing.T) {
	routes := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/notes"},
		{http.MethodPost, "/notes/search"},
		{http.MethodPut, "/notes/6f1c2a8e-5b0d-4f7e-9a63-0c9d8e7f6a51"},
		{http.MethodDelete, "/tags/3b7e"},
		{http.MethodGet, "/tags/by-name/work"},
		{http.MethodPost, "/images"},
		{http.MethodGet, "/images/a_1.png/url"},
		{http.MethodGet, "/auth/me"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.target, func(t *testing.T) {
			verifier := &stubVerifier{accept: "tok-1", userID: "user-42"}
			var gotUser string
			handler := RequireAuth(verifier, slog.New(slog.DiscardHandler))(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			anon := httptest.NewRecorder()
			handler(anon, httptest.NewRequest(rt.method, rt.target, nil))
			require.Equal(t, http.StatusUnauthorized, anon.Code)
			assert.Empty(t, gotUser)
			assert.Empty(t, verifier.seen)

			req := httptest.NewRequest(rt.method, rt.target, nil)
			req.Header.Set("Authorization", "Bearer tok-1")
			signedIn := httptest.NewRecorder()
			handler(signedIn, req)
			require.Equal(t, http.StatusNoContent, signedIn.Code)
			assert.Equal(t, "user-42", gotUser)
		})
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		wantMessage string
		wantVerify  []string
	}{
		{"no header", "", "missing authorization header", nil},
		{"basic scheme", "Basic dXNlcjpwYXNz", "invalid authorization format", nil},
		{"lowercase scheme", "bearer tok-1", "invalid authorization format", nil},
		{"bearer without token", "Bearer   ", "missing token", nil},
		{"expired token", "Bearer tok-old", "invalid or expired token", []string{"tok-old"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &stubVerifier{accept: "tok-1", userID: "user-42"}
			called := false
			handler := RequireAuth(verifier, slog.New(slog.DiscardHandler))(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})
			req := httptest.NewRequest(http.MethodGet, "/notes/n1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.False(t, called)
			assert.Equal(t, tt.wantVerify, verifier.seen)
			var body helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			require.NotNil(t, body.Error)
			assert.Equal(t, helpers.ErrCodeUnauthorized, body.Error.Code)
			assert.Equal(t, tt.wantMessage, body.Error.Message)
		})
	}
}

func TestRequireAuth_TrimsTokenAndLogsRejection(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	verifier := &stubVerifier{accept: "tok-1", userID: "user-42"}
	handler := RequireAuth(verifier, logger)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/tags", nil)
	req.Header.Set("Authorization", "Bearer  tok-1 ")
	rr := httptest.NewRecorder()
	handler(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"tok-1"}, verifier.seen)
	assert.Empty(t, logs.String())

	req = httptest.NewRequest(http.MethodDelete, "/images/a_1.png", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rr = httptest.NewRecorder()
	handler(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, logs.String(), "token rejected")
	assert.Contains(t, logs.String(), "path=/images/a_1.png")
	assert.NotContains(t, logs.String(), "forged")
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(SetUserID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := UserIDFromContext(SetUserID(context.Background(), "user-42"))
	assert.True(t, ok)
	assert.Equal(t, "user-42", id)
}
