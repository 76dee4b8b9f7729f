package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	llmchat "github.com/FACorreiaa/go-travelchat/internal/app/domain/chat_prompt"
	"github.com/FACorreiaa/go-travelchat/internal/pkg/cache"
	"github.com/FACorreiaa/go-travelchat/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	caches     *cache.CacheManager
	controller *llmchat.Controller
	router     http.Handler
}

// New creates a new Server instance with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	model, err := s.setupModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup model service: %w", err)
	}

	s.caches = cache.NewCacheManager(cfg.Chat.SuggestionCacheTTL, logger)
	store := llmchat.NewSessionStore(cfg.Chat.SessionTTL, logger)
	suggestions := llmchat.NewSuggestionGenerator(model, s.caches.Suggestions, logger)
	s.controller = llmchat.NewController(store, model, suggestions, llmchat.ControllerConfig{
		SettleDelay: cfg.Chat.SettleDelay,
		ChunkLength: cfg.Chat.ChunkLength,
	}, logger)

	return s, nil
}

// setupModel picks the model backend for the configured mode.
func (s *Server) setupModel(ctx context.Context) (llmchat.ModelService, error) {
	switch s.cfg.LLM.Mode {
	case config.ModeGemini:
		s.logger.Info("Using Gemini model service", zap.String("model", s.cfg.LLM.Model))
		return llmchat.NewGeminiService(ctx, s.cfg.LLM.APIKey, s.cfg.LLM.Model, s.logger)
	default:
		s.logger.Info("Using local mock model service")
		return llmchat.NewMockModelService(), nil
	}
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:        ":" + s.cfg.ServerPort,
		Handler:     s.router,
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
		// Streams stay open for the whole model reply.
		WriteTimeout: 5 * time.Minute,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

func (s *Server) Controller() *llmchat.Controller {
	return s.controller
}

func (s *Server) Caches() *cache.CacheManager {
	return s.caches
}

// Close releases the cache janitors.
func (s *Server) Close() {
	if s.caches != nil {
		s.caches.Close()
	}
}
