package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelchat/internal/pkg/cache"
	"github.com/FACorreiaa/go-travelchat/internal/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort: "0",
		LLM:        config.LLMConfig{Mode: config.ModeLocal},
		Chat: config.ChatConfig{
			ChunkLength:        300,
			SessionTTL:         time.Hour,
			SuggestionCacheTTL: time.Minute,
		},
	}
}

func TestSetupRouter(t *testing.T) {
	srv, err := New(t.Context(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer srv.Close()

	router := SetupRouter(srv.Controller(), srv.Caches(), zap.NewNop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health struct {
		Status string                        `json:"status"`
		Caches map[string]cache.CacheMetrics `json:"caches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Contains(t, health.Caches, "suggestions")

	body := `{"country":"Japan","continent":"Asia","destination":"Kyoto"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Kyoto")
}

func TestNew_GeminiModeNeedsKey(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Mode = config.ModeGemini

	_, err := New(t.Context(), cfg, zap.NewNop())
	assert.Error(t, err)
}
