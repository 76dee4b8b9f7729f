package llmchat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// LLMLogger records one structured log line per model interaction and
// annotates the active span with the same figures.
type LLMLogger struct {
	logger *zap.Logger
}

func NewLLMLogger(logger *zap.Logger) *LLMLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMLogger{logger: logger}
}

// LoggingConfig describes the request side of an interaction.
type LoggingConfig struct {
	SessionID   string
	Intent      string
	ModelName   string
	Prompt      string
	IsStreaming bool
}

// LLMResponse describes the outcome of an interaction.
type LLMResponse struct {
	ResponseLength    int
	PromptTokens      int
	CompletionTokens  int
	TotalTokens       int
	StreamChunksCount int
	ErrorMessage      string
}

// Pricing per million tokens in USD.
var geminiPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	"gemini-1.5-pro":   {InputPer1M: 3.50, OutputPer1M: 10.50},
	"gemini-1.5-flash": {InputPer1M: 0.075, OutputPer1M: 0.30},
	"gemini-2.0-flash": {InputPer1M: 0.10, OutputPer1M: 0.40},
	"gemini-2.5-flash": {InputPer1M: 0.30, OutputPer1M: 2.50},
}

// CalculateCost estimates the cost in USD, or 0 for unknown models.
func CalculateCost(modelName string, promptTokens, completionTokens int) float64 {
	normalizedModel := strings.ToLower(modelName)
	best := ""
	for key := range geminiPricing {
		if strings.Contains(normalizedModel, key) && len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return 0
	}
	pricing := geminiPricing[best]
	inputCost := (float64(promptTokens) / 1_000_000) * pricing.InputPer1M
	outputCost := (float64(completionTokens) / 1_000_000) * pricing.OutputPer1M
	return inputCost + outputCost
}

// HashPrompt fingerprints a prompt so it can be correlated without logging it.
func HashPrompt(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

// usageFrom copies token counts from a response, if it carries any.
func usageFrom(resp *genai.GenerateContentResponse, into *LLMResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		return
	}
	into.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
	into.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	into.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
}

func (l *LLMLogger) LogInteraction(ctx context.Context, config LoggingConfig, response LLMResponse, latency time.Duration) {
	cost := CalculateCost(config.ModelName, response.PromptTokens, response.CompletionTokens)

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("llm.intent", config.Intent),
		attribute.Int("llm.prompt_tokens", response.PromptTokens),
		attribute.Int("llm.completion_tokens", response.CompletionTokens),
		attribute.Float64("llm.cost_usd", cost),
	)

	fields := []zap.Field{
		zap.String("session_id", config.SessionID),
		zap.String("intent", config.Intent),
		zap.String("model", config.ModelName),
		zap.String("prompt_hash", HashPrompt(config.Prompt)),
		zap.Bool("streaming", config.IsStreaming),
		zap.Int("response_length", response.ResponseLength),
		zap.Int("prompt_tokens", response.PromptTokens),
		zap.Int("completion_tokens", response.CompletionTokens),
		zap.Int("total_tokens", response.TotalTokens),
		zap.Float64("cost_usd", cost),
		zap.Duration("latency", latency),
	}
	if config.IsStreaming {
		fields = append(fields, zap.Int("stream_chunks", response.StreamChunksCount))
	}

	if response.ErrorMessage != "" {
		l.logger.Warn("LLM interaction failed", append(fields, zap.String("error", response.ErrorMessage))...)
		return
	}
	l.logger.Info("LLM interaction", fields...)
}

// WrapNonStreamingCall times callFunc and logs its usage.
func (l *LLMLogger) WrapNonStreamingCall(
	ctx context.Context,
	config LoggingConfig,
	callFunc func() (*genai.GenerateContentResponse, error),
) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	config.IsStreaming = false

	resp, err := callFunc()

	var response LLMResponse
	if err != nil {
		response.ErrorMessage = err.Error()
	} else if resp != nil {
		usageFrom(resp, &response)
		response.ResponseLength = len(resp.Text())
	}

	l.LogInteraction(ctx, config, response, time.Since(start))
	return resp, err
}
