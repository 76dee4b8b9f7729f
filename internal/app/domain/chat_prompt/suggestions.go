package llmchat

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-travelchat/internal/app/models"
	"github.com/FACorreiaa/go-travelchat/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-travelchat/internal/pkg/cache"
)

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// ParseSuggestions extracts the outermost JSON array of strings from a model
// reply, dropping blank entries.
func ParseSuggestions(reply string) ([]string, error) {
	raw := jsonArrayRe.FindString(reply)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON array in suggestion reply", models.ErrEmptyResponse)
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}

	out := make([]string, 0, len(parsed))
	for _, s := range parsed {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// NormalizeSuggestions returns exactly SuggestionCount entries: long lists are
// truncated and short lists are padded with the fallback entry at the same
// position.
func NormalizeSuggestions(suggestions []string) []string {
	out := make([]string, SuggestionCount)
	for i := range out {
		if i < len(suggestions) {
			out[i] = suggestions[i]
		} else {
			out[i] = FallbackSuggestions[i]
		}
	}
	return out
}

// SuggestionGenerator produces follow-up prompts for an assistant reply. It
// never fails: any error yields the fallback list.
type SuggestionGenerator struct {
	model  ModelService
	cache  *cache.UnifiedCache[[]string]
	group  singleflight.Group
	logger *zap.Logger
}

// NewSuggestionGenerator builds a generator. A nil cache disables caching.
func NewSuggestionGenerator(model ModelService, c *cache.UnifiedCache[[]string], logger *zap.Logger) *SuggestionGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionGenerator{model: model, cache: c, logger: logger}
}

func (g *SuggestionGenerator) Generate(ctx context.Context, assistantText string, prefs models.UserPreferences) []string {
	ctx, span := otel.Tracer("SuggestionGenerator").Start(ctx, "Generate", trace.WithAttributes(
		attribute.Int("text.length", len(assistantText)),
	))
	defer span.End()

	key := cache.NewCacheKeyBuilder(g.logger).
		AddText(assistantText).
		AddPreferences(prefs).
		BuildOrDefault()

	if g.cache != nil && key != "" {
		if cached, ok := g.cache.Get(key); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return append([]string(nil), cached...)
		}
	}

	v, _, _ := g.group.Do(key, func() (any, error) {
		return g.generate(ctx, assistantText, prefs, key), nil
	})
	suggestions := v.([]string)
	return append([]string(nil), suggestions...)
}

func (g *SuggestionGenerator) generate(ctx context.Context, assistantText string, prefs models.UserPreferences, key string) []string {
	reply, err := g.model.GenerateText(ctx, buildSuggestionPrompt(assistantText, prefs))
	if err != nil {
		g.logger.Warn("Suggestion generation failed, using fallback", zap.Error(err))
		metrics.Get().SuggestionFallbacks.Add(ctx, 1)
		return fallbackSuggestions()
	}

	parsed, err := ParseSuggestions(reply)
	if err != nil {
		g.logger.Warn("Suggestion reply could not be parsed, using fallback",
			zap.Error(err),
			zap.Int("reply_length", len(reply)))
		metrics.Get().SuggestionFallbacks.Add(ctx, 1)
		return fallbackSuggestions()
	}
	if len(parsed) == 0 {
		metrics.Get().SuggestionFallbacks.Add(ctx, 1)
	}

	suggestions := NormalizeSuggestions(parsed)
	if g.cache != nil && key != "" {
		g.cache.Set(key, suggestions)
	}
	return suggestions
}
