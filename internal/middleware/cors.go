package middleware

import (
	"net/http"

	"axom-backend/internal/models"
)

// CORS allows cross-origin calls from allowedOrigin ("*" for any) and answers every
// preflight request itself with {"status":"success"}.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowedOrigin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")
			h.Set("Access-Control-Max-Age", "600")
			if allowedOrigin != "*" {
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				writeJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusSuccess})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
