package llmchat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelchat/internal/app/domain/parser"
	"github.com/FACorreiaa/go-travelchat/internal/app/domain/preferences"
	"github.com/FACorreiaa/go-travelchat/internal/app/domain/render"
	"github.com/FACorreiaa/go-travelchat/internal/app/models"
	"github.com/FACorreiaa/go-travelchat/internal/app/observability/metrics"
)

const suggestionTimeout = 30 * time.Second

// EmitFunc receives the events of a turn in order. It is never called while
// a session lock is held.
type EmitFunc func(models.StreamEvent)

type ControllerConfig struct {
	// SettleDelay is waited after the last token before the final text is
	// committed.
	SettleDelay time.Duration
	// ChunkLength is the maximum chunk size used by message views.
	ChunkLength int
}

func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{SettleDelay: 100 * time.Millisecond, ChunkLength: render.DefaultChunkLength}
}

// Controller runs chat turns: it feeds user text through preference
// detection, streams the model reply into the session and finishes each turn
// with follow-up suggestions.
type Controller struct {
	store       *SessionStore
	model       ModelService
	suggestions *SuggestionGenerator
	detector    *preferences.Detector
	parser      *parser.Parser
	cfg         ControllerConfig
	logger      *zap.Logger
}

func NewController(store *SessionStore, model ModelService, suggestions *SuggestionGenerator, cfg ControllerConfig, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ChunkLength <= 0 {
		cfg.ChunkLength = render.DefaultChunkLength
	}
	if suggestions == nil {
		suggestions = NewSuggestionGenerator(model, nil, logger)
	}
	return &Controller{
		store:       store,
		model:       model,
		suggestions: suggestions,
		detector:    preferences.NewDetector(logger),
		parser:      parser.New(logger),
		cfg:         cfg,
		logger:      logger,
	}
}

// StartSession creates a session for completed onboarding preferences and
// seeds it with the welcome message and its suggestions.
func (c *Controller) StartSession(ctx context.Context, prefs models.UserPreferences) (*Session, error) {
	_, span := otel.Tracer("ChatController").Start(ctx, "StartSession")
	defer span.End()

	if err := prefs.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid preferences")
		return nil, err
	}

	s := newSession(prefs)
	s.resetConversation()
	if err := c.store.Add(s); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return nil, err
	}

	span.SetAttributes(attribute.String("session.id", s.ID))
	c.logger.Info("Chat session started",
		zap.String("session_id", s.ID),
		zap.String("country", prefs.Country),
		zap.String("destination", prefs.Destination))
	return s, nil
}

// Turn is a user message that has been accepted into a session and is
// waiting for its reply.
type Turn struct {
	Session        *Session
	UserIndex      int
	AssistantIndex int
	Request        models.ChatRequest
}

// PrepareTurn validates and records the user's message, merging any detected
// preference change, and reserves the assistant slot. Preference events are
// emitted before it returns.
func (c *Controller) PrepareTurn(ctx context.Context, sessionID, text string, emit EmitFunc) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", models.ErrBadRequest)
	}

	s, err := c.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	delta := c.detector.Detect(text)

	s.mu.Lock()
	if s.isStreaming || s.suggestionsLoading {
		s.mu.Unlock()
		return nil, models.ErrStreamInProgress
	}
	if delta != nil {
		s.preferences = s.preferences.Apply(delta)
	}
	prefs := s.preferences
	userIdx := s.appendMessage(text)
	s.isStreaming = true
	assistantIdx := s.appendMessage("")
	req := s.chatRequest()
	s.mu.Unlock()

	if delta != nil {
		metrics.Get().PreferenceChangesTotal.Add(ctx, 1)
		c.logger.Info("Preferences updated from message",
			zap.String("session_id", sessionID),
			zap.Any("preferences", prefs))
		event := models.NewStreamEvent(models.EventTypePreferences, sessionID, userIdx)
		event.Preferences = &prefs
		emit(event)
	}

	return &Turn{Session: s, UserIndex: userIdx, AssistantIndex: assistantIdx, Request: req}, nil
}

// RunTurn streams the model reply for a prepared turn. The session is always
// left consistent: a failed stream is replaced by the apology and fallback
// suggestions, and the error is returned after the error event was emitted.
func (c *Controller) RunTurn(ctx context.Context, turn *Turn, emit EmitFunc) error {
	s, idx := turn.Session, turn.AssistantIndex
	ctx, span := otel.Tracer("ChatController").Start(ctx, "RunTurn", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("message.index", idx),
	))
	defer span.End()

	m := metrics.Get()
	m.ChatTurnsTotal.Add(ctx, 1)

	var (
		buf       strings.Builder
		streamErr error
		wasLoaded bool
	)
	for delta, err := range c.model.StreamReply(ctx, turn.Request) {
		if err != nil {
			streamErr = err
			break
		}
		if delta == "" {
			continue
		}
		m.StreamTokensTotal.Add(ctx, 1)
		buf.WriteString(delta)
		text := buf.String()

		state := parser.DetectBlock(text)
		parsed := c.parse(ctx, text)

		s.mu.Lock()
		switch {
		case state.InProgress():
			s.structuredLoading[idx] = true
		case state.Complete():
			delete(s.structuredLoading, idx)
		}
		s.messages[idx].Content = text
		loading := s.structuredLoading[idx]
		s.updatedAt = time.Now()
		s.mu.Unlock()

		if loading && !wasLoaded {
			event := models.NewStreamEvent(models.EventTypeStructuredLoading, s.ID, idx)
			event.StructuredLoading, event.IsStreaming = true, true
			emit(event)
		}
		if !loading && wasLoaded {
			event := models.NewStreamEvent(models.EventTypeStructuredComplete, s.ID, idx)
			event.Parsed, event.IsStreaming = &parsed, true
			emit(event)
		}
		wasLoaded = loading

		event := models.NewStreamEvent(models.EventTypeChunk, s.ID, idx)
		event.Content = delta
		event.Parsed = &parsed
		event.StructuredLoading = loading
		event.IsStreaming = true
		emit(event)
	}

	if streamErr == nil && buf.Len() == 0 {
		streamErr = models.ErrEmptyResponse
	}
	if streamErr != nil {
		span.RecordError(streamErr)
		span.SetStatus(codes.Error, "stream failed")
		c.failTurn(ctx, turn, streamErr, emit)
		return fmt.Errorf("chat turn failed: %w", streamErr)
	}

	if c.cfg.SettleDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(c.cfg.SettleDelay):
		}
	}

	text := buf.String()
	parsed := c.parse(ctx, text)

	s.mu.Lock()
	s.messages[idx].Content = text
	delete(s.structuredLoading, idx)
	s.isStreaming = false
	s.suggestionsLoading = true
	prefs := s.preferences
	s.updatedAt = time.Now()
	s.mu.Unlock()

	done := models.NewStreamEvent(models.EventTypeMessageComplete, s.ID, idx)
	done.Content = text
	done.Parsed = &parsed
	emit(done)

	loadingEvent := models.NewStreamEvent(models.EventTypeSuggestionsLoading, s.ID, idx)
	loadingEvent.SuggestionsLoading = true
	emit(loadingEvent)

	// Suggestions belong to the session, so they are still generated when the
	// client has gone away.
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), suggestionTimeout)
	suggestions := c.suggestions.Generate(sctx, text, prefs)
	cancel()

	s.mu.Lock()
	s.suggestions[idx] = suggestions
	s.suggestionsLoading = false
	s.mu.Unlock()

	sugEvent := models.NewStreamEvent(models.EventTypeSuggestions, s.ID, idx)
	sugEvent.Suggestions = suggestions
	emit(sugEvent)

	complete := models.NewStreamEvent(models.EventTypeComplete, s.ID, idx)
	complete.Parsed = &parsed
	complete.Suggestions = suggestions
	complete.IsFinal = true
	emit(complete)

	span.SetAttributes(
		attribute.Int("response.length", len(text)),
		attribute.Bool("response.structured", parsed.IsStructured),
	)
	span.SetStatus(codes.Ok, "turn completed")
	c.logger.Info("Chat turn completed",
		zap.String("session_id", s.ID),
		zap.Int("message_index", idx),
		zap.Int("response_length", len(text)),
		zap.Bool("structured", parsed.IsStructured),
		zap.Int("components", len(parsed.Components)))
	return nil
}

// SendMessage runs a whole turn.
func (c *Controller) SendMessage(ctx context.Context, sessionID, text string, emit EmitFunc) error {
	turn, err := c.PrepareTurn(ctx, sessionID, text, emit)
	if err != nil {
		return err
	}
	return c.RunTurn(ctx, turn, emit)
}

func (c *Controller) failTurn(ctx context.Context, turn *Turn, cause error, emit EmitFunc) {
	s, idx := turn.Session, turn.AssistantIndex
	metrics.Get().StreamErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("canceled", ctx.Err() != nil),
	))
	c.logger.Error("Model stream failed",
		zap.String("session_id", s.ID),
		zap.Int("message_index", idx),
		zap.Error(cause))

	fallback := fallbackSuggestions()
	s.mu.Lock()
	s.messages[idx].Content = ApologyMessage
	delete(s.structuredLoading, idx)
	s.isStreaming = false
	s.suggestionsLoading = false
	s.suggestions[idx] = fallback
	s.updatedAt = time.Now()
	s.mu.Unlock()

	parsed := parser.Plain(ApologyMessage)
	event := models.NewStreamEvent(models.EventTypeError, s.ID, idx)
	event.Content = ApologyMessage
	event.Error = ApologyMessage
	event.Parsed = &parsed
	event.Suggestions = append([]string(nil), fallback...)
	event.IsFinal = true
	emit(event)
}

func (c *Controller) parse(ctx context.Context, text string) models.ParsedMessage {
	start := time.Now()
	parsed := c.parser.Parse(text)
	metrics.Get().StructuredParseDuration.Record(ctx, time.Since(start).Seconds())
	return parsed
}

// UpdatePreferences replaces the session preferences. The conversation is
// kept; the new values apply from the next turn.
func (c *Controller) UpdatePreferences(_ context.Context, sessionID string, prefs models.UserPreferences) (SessionSnapshot, error) {
	if err := prefs.Validate(); err != nil {
		return SessionSnapshot{}, err
	}
	s, err := c.store.Get(sessionID)
	if err != nil {
		return SessionSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences = prefs
	s.updatedAt = time.Now()
	return s.snapshotLocked(), nil
}

// ToggleExpanded flips the expansion state of a message and returns its view.
func (c *Controller) ToggleExpanded(_ context.Context, sessionID string, index int) (MessageView, error) {
	s, err := c.store.Get(sessionID)
	if err != nil {
		return MessageView{}, err
	}

	s.mu.Lock()
	if index < 0 || index >= len(s.messages) {
		s.mu.Unlock()
		return MessageView{}, fmt.Errorf("message %d: %w", index, models.ErrNotFound)
	}
	if s.expanded[index] {
		delete(s.expanded, index)
	} else {
		s.expanded[index] = true
	}
	s.mu.Unlock()

	return c.MessageView(s, index)
}

// Reset clears the conversation and every per-message state, keeping the
// preferences.
func (c *Controller) Reset(_ context.Context, sessionID string) (SessionSnapshot, error) {
	s, err := c.store.Get(sessionID)
	if err != nil {
		return SessionSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isStreaming || s.suggestionsLoading {
		return SessionSnapshot{}, models.ErrStreamInProgress
	}
	s.resetConversation()
	c.logger.Info("Chat session reset", zap.String("session_id", sessionID))
	return s.snapshotLocked(), nil
}

func (c *Controller) Snapshot(_ context.Context, sessionID string) (SessionSnapshot, error) {
	s, err := c.store.Get(sessionID)
	if err != nil {
		return SessionSnapshot{}, err
	}
	return s.Snapshot(), nil
}

// MessageViewByID looks the session up and renders one of its messages.
func (c *Controller) MessageViewByID(_ context.Context, sessionID string, index int) (MessageView, error) {
	s, err := c.store.Get(sessionID)
	if err != nil {
		return MessageView{}, err
	}
	return c.MessageView(s, index)
}

// DetectPreferences exposes the detector for stateless callers.
func (c *Controller) DetectPreferences(message string) *models.PreferenceDelta {
	return c.detector.Detect(message)
}

// Parse exposes the structured parser for stateless callers.
func (c *Controller) Parse(text string) models.ParsedMessage {
	return c.parser.Parse(text)
}
