package llmchat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	model := NewMockModelService()
	model.TokenDelay = 0
	model.ChunkSize = 25

	controller := NewController(NewSessionStore(time.Hour, nil), model, nil, ControllerConfig{}, nil)
	router := gin.New()
	NewChatHandlers(controller, nil).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router *gin.Engine) SessionSnapshot {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/sessions", testPrefs)
	require.Equal(t, http.StatusCreated, w.Code)

	var snap SessionSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func readEvents(t *testing.T, body string) []models.StreamEvent {
	t.Helper()
	var events []models.StreamEvent
	for _, frame := range strings.Split(body, "\n\n") {
		data, ok := strings.CutPrefix(strings.TrimSpace(frame), "data: ")
		if !ok {
			continue
		}
		var e models.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(data), &e))
		events = append(events, e)
	}
	return events
}

func TestHandlers_SessionLifecycle(t *testing.T) {
	router := setupRouter(t)
	snap := createSession(t, router)
	require.Len(t, snap.Messages, 1)
	assert.Len(t, snap.Suggestions[0], SuggestionCount)

	w := doJSON(t, router, http.MethodPost, "/api/sessions/"+snap.ID+"/messages", gin.H{"message": "Plan a visit for me"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	events := readEvents(t, w.Body.String())
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, models.EventTypeComplete, last.Type)
	assert.True(t, last.IsFinal)
	require.NotNil(t, last.Parsed)
	assert.True(t, last.Parsed.IsStructured)
	assert.Len(t, last.Suggestions, SuggestionCount)

	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+snap.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.Messages, 3)
	assert.False(t, snap.IsStreaming)

	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+snap.ID+"/messages/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view MessageView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Components, 2)
	assert.Equal(t, "Explore Rome Old Town", view.Components[0].Title)
	assert.Equal(t, "https://www.google.com/maps/search/Rome", view.Components[0].MapURL)

	w = doJSON(t, router, http.MethodPost, "/api/sessions/"+snap.ID+"/messages/2/expand", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.True(t, view.Expanded)

	w = doJSON(t, router, http.MethodDelete, "/api/sessions/"+snap.ID+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.Messages, 1)
}

func TestHandlers_Errors(t *testing.T) {
	router := setupRouter(t)
	snap := createSession(t, router)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown session", http.MethodGet, "/api/sessions/nope", nil, http.StatusNotFound},
		{"incomplete onboarding", http.MethodPost, "/api/sessions", gin.H{"country": "Italy"}, http.StatusBadRequest},
		{"empty message", http.MethodPost, "/api/sessions/" + snap.ID + "/messages", gin.H{"message": " "}, http.StatusBadRequest},
		{"message to unknown session", http.MethodPost, "/api/sessions/nope/messages", gin.H{"message": "hi"}, http.StatusNotFound},
		{"bad index", http.MethodGet, "/api/sessions/" + snap.ID + "/messages/abc", nil, http.StatusBadRequest},
		{"index out of range", http.MethodGet, "/api/sessions/" + snap.ID + "/messages/9", nil, http.StatusNotFound},
		{"invalid preferences", http.MethodPut, "/api/sessions/" + snap.ID + "/preferences", gin.H{"country": ""}, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandlers_UpdatePreferences(t *testing.T) {
	router := setupRouter(t)
	snap := createSession(t, router)

	updated := models.UserPreferences{Country: "Japan", Continent: "Asia", Destination: "Kyoto"}
	w := doJSON(t, router, http.MethodPut, "/api/sessions/"+snap.ID+"/preferences", updated)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, updated, snap.Preferences)
}

func TestHandlers_Parse(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/parse", gin.H{"text": "**STRUCTURED_RESPONSE_START**\nIntro.\n"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Parsed models.ParsedMessage `json:"parsed"`
		Block  struct {
			HasStart bool `json:"has_start"`
			HasEnd   bool `json:"has_end"`
		} `json:"block"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Parsed.IsStructured)
	assert.Equal(t, "Intro.", resp.Parsed.Intro)
	assert.True(t, resp.Block.HasStart)
	assert.False(t, resp.Block.HasEnd)
}

func TestHandlers_DetectPreferences(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/preferences/detect", gin.H{"message": "Make Japan my favourite country"})
	require.Equal(t, http.StatusOK, w.Code)
	var delta models.PreferenceDelta
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &delta))
	require.NotNil(t, delta.Country)
	assert.Equal(t, "Japan", *delta.Country)
	require.NotNil(t, delta.Continent)
	assert.Equal(t, "Asia", *delta.Continent)

	w = doJSON(t, router, http.MethodPost, "/api/preferences/detect", gin.H{"message": "I love Japan"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}
