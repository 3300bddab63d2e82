package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"axom-backend/internal/handlers"
	"axom-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	wsHandler http.HandlerFunc,
	allowedOrigin string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(allowedOrigin))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Chat Routes ────
	r.Post("/chat", chatHandler.Chat)
	r.Post("/reset", chatHandler.Reset)
	r.Get("/history", chatHandler.History)

	// ──── WebSocket ────
	if wsHandler != nil {
		r.Get("/ws", wsHandler)
	}

	return r
}
