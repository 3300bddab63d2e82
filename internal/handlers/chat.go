package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"axom-backend/internal/logger"
	"axom-backend/internal/middleware"
	"axom-backend/internal/models"
	"axom-backend/internal/services"
)

type chatSession interface {
	SendMessage(ctx context.Context, text string) (string, []models.Turn, error)
	Reset(ctx context.Context)
	History() []models.Turn
}

type ChatHandler struct {
	session chatSession
}

func NewChatHandler(session chatSession) *ChatHandler {
	return &ChatHandler{session: session}
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	var message string
	if req.Message != nil {
		message = *req.Message
	}

	reply, history, err := h.session.SendMessage(r.Context(), message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Response: reply,
		History:  history,
		Status:   models.StatusSuccess,
	})
}

// Reset handles POST /reset.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.session.Reset(r.Context())
	writeJSON(w, http.StatusOK, models.MessageResponse{
		Message: "Chat session reset",
		Status:  models.StatusSuccess,
	})
}

// History handles GET /history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HistoryResponse{
		History: h.session.History(),
		Status:  models.StatusSuccess,
	})
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResp("Not found"))
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResp("Method not allowed"))
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{
		Error:  message,
		Status: models.StatusFailed,
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.ValidationError
	var providerErr *services.ProviderError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResp(validationErr.Message))
	case errors.As(err, &providerErr):
		logger.Errorw("Chat request failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", providerErr.Error(),
		)
		writeJSON(w, http.StatusInternalServerError, errorResp(providerErr.Error()))
	default:
		logger.Errorw("Unexpected chat error",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResp("An unexpected error occurred"))
	}
}
