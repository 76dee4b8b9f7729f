package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ModeLocal  = "local"
	ModeGemini = "gemini"
)

type ObservabilityConfig struct {
	MetricsAddr string
	PprofAddr   string
	LogLevel    string
}

type LLMConfig struct {
	Mode   string
	APIKey string
	Model  string
}

type ChatConfig struct {
	SettleDelay        time.Duration
	ChunkLength        int
	SessionTTL         time.Duration
	SuggestionCacheTTL time.Duration
}

type Config struct {
	ServerPort      string
	ShutdownTimeout time.Duration
	Observability   ObservabilityConfig
	LLM             LLMConfig
	Chat            ChatConfig
}

func Load() (*Config, error) {
	settleDelay, err := getDurationOrDefault("SETTLE_DELAY", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getDurationOrDefault("SESSION_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}
	suggestionTTL, err := getDurationOrDefault("SUGGESTION_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getDurationOrDefault("SHUTDOWN_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	chunkLength, err := getIntOrDefault("CHUNK_LENGTH", 300)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:      getEnvOrDefault("SERVER_PORT", "8091"),
		ShutdownTimeout: shutdownTimeout,
		Observability: ObservabilityConfig{
			MetricsAddr: getEnvOrDefault("METRICS_ADDR", ":9092"),
			PprofAddr:   getEnvOrDefault("PPROF_ADDR", ":6060"),
			LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		},
		LLM: LLMConfig{
			Mode:   getEnvOrDefault("APP_MODE", ModeLocal),
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("CHAT_MODEL", "gemini-2.0-flash"),
		},
		Chat: ChatConfig{
			SettleDelay:        settleDelay,
			ChunkLength:        chunkLength,
			SessionTTL:         sessionTTL,
			SuggestionCacheTTL: suggestionTTL,
		},
	}

	switch cfg.LLM.Mode {
	case ModeLocal:
	case ModeGemini:
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required in %s mode", ModeGemini)
		}
	default:
		return nil, fmt.Errorf("APP_MODE must be %q or %q, got %q", ModeLocal, ModeGemini, cfg.LLM.Mode)
	}

	if cfg.Chat.ChunkLength <= 0 {
		return nil, fmt.Errorf("CHUNK_LENGTH must be positive, got %d", cfg.Chat.ChunkLength)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
