package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axom-backend/internal/handlers"
	"axom-backend/internal/models"
	"axom-backend/internal/services"
)

type echoProvider struct{}

func (echoProvider) Generate(ctx context.Context, history []models.Turn, message string) (string, error) {
	return "echo: " + message, nil
}

func newTestRouter() http.Handler {
	session := services.NewChatSession(echoProvider{}, nil, time.Second)
	return New(handlers.NewChatHandler(session), nil, "*")
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Preflight(t *testing.T) {
	h := newTestRouter()

	for _, path := range []string{"/chat", "/reset", "/history", "/anything"} {
		rr := serve(h, http.MethodOptions, path, "")
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `{"status":"success"}`, rr.Body.String(), path)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestRouter_Health(t *testing.T) {
	rr := serve(newTestRouter(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_ChatRoundTrip(t *testing.T) {
	h := newTestRouter()

	rr := serve(h, http.MethodPost, "/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"response":"echo: hello"`)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = serve(h, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `{"role":"model","parts":["echo: hello"]}`)

	rr = serve(h, http.MethodPost, "/reset", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, serve(h, http.MethodGet, "/history", "").Body.String(), "echo: hello")
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	h := newTestRouter()

	rr := serve(h, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not found","status":"failed"}`, rr.Body.String())

	rr = serve(h, http.MethodGet, "/chat", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.JSONEq(t, `{"error":"Method not allowed","status":"failed"}`, rr.Body.String())
}
