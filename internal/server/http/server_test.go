package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starfox1230/memorize/internal/logging"
	"github.com/starfox1230/memorize/internal/server/config"
	"github.com/starfox1230/memorize/internal/server/http/handlers"
	"github.com/starfox1230/memorize/internal/server/models"
)

type stubService struct{}

func (s *stubService) CreateFromText(ctx context.Context, user, title, text, voice string) (*models.AudioItem, error) {
	return &models.AudioItem{ID: "id-1", URL: "http://s3/audios/a.mp3"}, nil
}

func (s *stubService) CreateFromUpload(ctx context.Context, user, title, text, audioBase64, mimeType string) (*models.AudioItem, error) {
	return &models.AudioItem{ID: "id-2", URL: "http://s3/audios/b.webm"}, nil
}

func (s *stubService) List(ctx context.Context, user string) ([]*models.AudioItem, error) {
	return []*models.AudioItem{{ID: "id-1"}}, nil
}

func (s *stubService) Delete(ctx context.Context, id string) error { return nil }

func (s *stubService) Download(ctx context.Context, id string) (io.ReadCloser, string, error) {
	return io.NopCloser(nil), "audio.mp3", nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AllowedOrigin = "https://app.example"

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := handlers.NewAPIHandler(&stubService{}, logger)
	return NewServer(cfg, handler, logger)
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodOptions, "/generate-audio", nil)
	r.Header.Set("Origin", "https://app.example")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	s.httpServer.Handler.ServeHTTP(w, r)

	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSRejectsOtherOrigins(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodOptions, "/generate-audio", nil)
	r.Header.Set("Origin", "https://evil.example")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	s.httpServer.Handler.ServeHTTP(w, r)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/audios", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/no-such-route", http.StatusNotFound},
		{http.MethodPut, "/audios", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			s.httpServer.Handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRouter_ListServesJSON(t *testing.T) {
	s := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/audios", nil)
	w := httptest.NewRecorder()

	s.httpServer.Handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var items []*models.AudioItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "id-1", items[0].ID)
}
