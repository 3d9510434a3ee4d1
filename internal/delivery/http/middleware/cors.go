package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// corsMethods are the methods the catalog router registers.
var corsMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
}

const (
	corsAllowHeaders = "Authorization, Content-Type, Accept, " + RequestIDHeader
	corsMaxAge       = "86400"
)

// CORS lets browser clients on allowedOrigins call the catalog API.
// Preflight requests are answered with 204 and never reach next; the CORS
// headers are only granted when both the origin and the requested method are
// allowed.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	origins := originSet(allowedOrigins)
	allowMethods := strings.Join(corsMethods, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Add("Vary", "Origin")
		origin := r.Header.Get("Origin")
		_, allowed := origins[origin]

		if r.Method == http.MethodOptions {
			if allowed && preflightMethodAllowed(r) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", allowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if allowed {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
		}
		next.ServeHTTP(w, r)
	})
}

// originSet normalises configured origins; blanks are dropped.
func originSet(origins []string) map[string]struct{} {
	set := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			set[o] = struct{}{}
		}
	}
	return set
}

// A bare OPTIONS without Access-Control-Request-Method is still answered.
func preflightMethodAllowed(r *http.Request) bool {
	m := r.Header.Get("Access-Control-Request-Method")
	return m == "" || slices.Contains(corsMethods, m)
}
