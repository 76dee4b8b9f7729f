package llmchat

import (
	"context"
	"iter"
	"strings"
	"time"

	generativeAI "github.com/FACorreiaa/go-genai-sdk/lib"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

// ModelService is the language model behind the chat.
type ModelService interface {
	// StreamReply yields text deltas in arrival order. A non-nil error is the
	// last value yielded.
	StreamReply(ctx context.Context, req models.ChatRequest) iter.Seq2[string, error]
	// GenerateText returns a single complete answer to prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var _ ModelService = (*GeminiService)(nil)

// GeminiService streams chat replies from Gemini and runs one-shot prompts
// through the shared chat client.
type GeminiService struct {
	client    *genai.Client
	aiClient  *generativeAI.LLMChatClient
	model     string
	processor *StreamProcessor
	llmLogger *LLMLogger
	logger    *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if apiKey == "" {
		return nil, errors.Wrap(models.ErrModelUnavailable, "missing Gemini API key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Gemini client")
	}

	aiClient, err := generativeAI.NewLLMChatClient(ctx, apiKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chat client")
	}

	return &GeminiService{
		client:    client,
		aiClient:  aiClient,
		model:     model,
		processor: NewStreamProcessor(logger),
		llmLogger: NewLLMLogger(logger),
		logger:    logger,
	}, nil
}

// toContents maps the conversation onto Gemini roles. Leading assistant
// messages are skipped because a Gemini conversation has to open with a user
// turn; the welcome text they carry is covered by the system prompt.
func toContents(messages []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if m.Role == models.RoleAssistant {
			if len(contents) == 0 {
				continue
			}
			role = genai.Role(genai.RoleModel)
		}
		contents = append(contents, genai.NewContentFromText(text, role))
	}
	return contents
}

func (s *GeminiService) StreamReply(ctx context.Context, req models.ChatRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, span := otel.Tracer("GeminiService").Start(ctx, "StreamReply", trace.WithAttributes(
			attribute.String("session.id", req.SessionID),
			attribute.Int("messages.count", len(req.Messages)),
			attribute.String("model", s.model),
		))
		defer span.End()

		contents := toContents(req.Messages)
		if len(contents) == 0 {
			err := errors.Wrap(models.ErrBadRequest, "conversation has no user message")
			span.RecordError(err)
			span.SetStatus(codes.Error, "empty conversation")
			yield("", err)
			return
		}

		systemPrompt := buildSystemPrompt(req.Preferences)
		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.Role(genai.RoleUser)),
			Temperature:       genai.Ptr[float32](0.7),
		}

		logConfig := LoggingConfig{
			SessionID:   req.SessionID,
			Intent:      "chat",
			ModelName:   s.model,
			Prompt:      contents[len(contents)-1].Parts[0].Text,
			IsStreaming: true,
		}
		var usage LLMResponse
		start := time.Now()

		responses := s.client.Models.GenerateContentStream(ctx, s.model, contents, config)
		observe := func(resp *genai.GenerateContentResponse) { usageFrom(resp, &usage) }

		for chunk, err := range s.processor.TextPartIterator(ctx, responses, "chat response", observe) {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "stream failed")
				usage.ErrorMessage = err.Error()
				s.llmLogger.LogInteraction(ctx, logConfig, usage, time.Since(start))
				yield("", errors.Wrap(err, "gemini stream failed"))
				return
			}
			usage.StreamChunksCount++
			usage.ResponseLength += len(chunk)
			if !yield(chunk, nil) {
				break
			}
		}

		s.llmLogger.LogInteraction(ctx, logConfig, usage, time.Since(start))
		span.SetAttributes(attribute.Int("response.length", usage.ResponseLength))
		span.SetStatus(codes.Ok, "stream completed")
	}
}

func (s *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("GeminiService").Start(ctx, "GenerateText", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 300,
	}
	logConfig := LoggingConfig{Intent: "suggestions", ModelName: s.aiClient.ModelName, Prompt: prompt}

	resp, err := s.llmLogger.WrapNonStreamingCall(ctx, logConfig, func() (*genai.GenerateContentResponse, error) {
		return s.aiClient.GenerateResponse(ctx, prompt, config)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return "", errors.Wrap(err, "gemini generation failed")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		span.SetStatus(codes.Error, "empty response")
		return "", errors.Wrap(models.ErrEmptyResponse, "gemini returned no text")
	}

	span.SetStatus(codes.Ok, "generated")
	return text, nil
}
