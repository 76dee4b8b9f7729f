package llmchat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelchat/internal/app/domain/parser"
	"github.com/FACorreiaa/go-travelchat/internal/app/models"
	"github.com/FACorreiaa/go-travelchat/internal/pkg/debugger"
)

// ChatHandlers exposes the controller over HTTP.
type ChatHandlers struct {
	controller *Controller
	logger     *zap.Logger
}

func NewChatHandlers(controller *Controller, logger *zap.Logger) *ChatHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandlers{controller: controller, logger: logger}
}

func (h *ChatHandlers) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/:id", h.GetSession)
	api.DELETE("/sessions/:id/messages", h.ResetSession)
	api.PUT("/sessions/:id/preferences", h.UpdatePreferences)
	api.POST("/sessions/:id/messages", h.SendMessageStream)
	api.GET("/sessions/:id/messages/:index", h.GetMessage)
	api.POST("/sessions/:id/messages/:index/expand", h.ToggleExpanded)
	api.POST("/parse", h.Parse)
	api.POST("/preferences/detect", h.DetectPreferences)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrStreamInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *ChatHandlers) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func messageIndex(c *gin.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid message index %q", models.ErrBadRequest, c.Param("index"))
	}
	return index, nil
}

func (h *ChatHandlers) CreateSession(c *gin.Context) {
	var prefs models.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", models.ErrBadRequest, err))
		return
	}

	s, err := h.controller.StartSession(c.Request.Context(), prefs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.Snapshot())
}

func (h *ChatHandlers) GetSession(c *gin.Context) {
	snap, err := h.controller.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ChatHandlers) ResetSession(c *gin.Context) {
	snap, err := h.controller.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ChatHandlers) UpdatePreferences(c *gin.Context) {
	var prefs models.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", models.ErrBadRequest, err))
		return
	}

	snap, err := h.controller.UpdatePreferences(c.Request.Context(), c.Param("id"), prefs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ChatHandlers) GetMessage(c *gin.Context) {
	index, err := messageIndex(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	view, err := h.controller.MessageViewByID(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ChatHandlers) ToggleExpanded(c *gin.Context) {
	index, err := messageIndex(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	view, err := h.controller.ToggleExpanded(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type textRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Parsed models.ParsedMessage `json:"parsed"`
	Block  parser.BlockState    `json:"block"`
}

func (h *ChatHandlers) Parse(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", models.ErrBadRequest, err))
		return
	}
	c.JSON(http.StatusOK, parseResponse{
		Parsed: h.controller.Parse(req.Text),
		Block:  parser.DetectBlock(req.Text),
	})
}

type messageRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandlers) DetectPreferences(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", models.ErrBadRequest, err))
		return
	}
	c.JSON(http.StatusOK, h.controller.DetectPreferences(req.Message))
}

// SendMessageStream accepts a user message and streams the turn as
// server-sent events. Validation errors are answered with a JSON status
// before the stream starts.
func (h *ChatHandlers) SendMessageStream(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", models.ErrBadRequest, err))
		return
	}

	sessionID := c.Param("id")
	ctx := c.Request.Context()
	eventCh := make(chan models.StreamEvent, 200)
	emit := func(event models.StreamEvent) {
		select {
		case eventCh <- event:
		case <-ctx.Done():
		}
	}

	turn, err := h.controller.PrepareTurn(ctx, sessionID, req.Message, emit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.logger.Error("Response writer does not support flushing")
		c.String(http.StatusInternalServerError, "Streaming not supported")
		return
	}
	c.Status(http.StatusOK)

	go func() {
		defer close(eventCh)
		if err := h.controller.RunTurn(ctx, turn, emit); err != nil {
			h.logger.Warn("Chat turn ended with error",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}()

	for {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return
			}

			eventData, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("Failed to marshal event", zap.Error(err))
				continue
			}

			debugger.DebugPrintEvents(h.logger, eventData)
			fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
			flusher.Flush()

			if event.Type == models.EventTypeComplete || event.Type == models.EventTypeError {
				h.logger.Info("Stream completed",
					zap.String("session_id", sessionID),
					zap.String("event_type", event.Type))
				return
			}

		case <-ctx.Done():
			h.logger.Info("Client disconnected", zap.String("session_id", sessionID))
			return
		}
	}
}
