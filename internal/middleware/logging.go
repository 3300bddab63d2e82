package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"axom-backend/internal/logger"
)

// RequestLogger writes one structured access-log line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.Infow("HTTP request",
			"status", status,
			"latency", time.Since(startTime).String(),
			"client_ip", r.RemoteAddr,
			"method", r.Method,
			"path", r.URL.Path,
			"bytes", ww.BytesWritten(),
			"request_id", GetRequestID(r.Context()),
		)
	})
}
