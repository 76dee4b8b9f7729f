package llmchat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travelchat/internal/pkg/cache"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    []string
		wantErr bool
	}{
		{"bare array", `["a","b"]`, []string{"a", "b"}, false},
		{"wrapped in prose and fences", "Here you go:\n```json\n[\"Tell me more\", \"Show me maps\"]\n```", []string{"Tell me more", "Show me maps"}, false},
		{"blank entries dropped", `["a", "  ", "", "b "]`, []string{"a", "b"}, false},
		{"empty array", `[]`, []string{}, false},
		{"no array", "Sorry, no ideas.", nil, true},
		{"not strings", `[1, 2]`, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSuggestions(tc.reply)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeSuggestions(t *testing.T) {
	t.Run("pads by position", func(t *testing.T) {
		got := NormalizeSuggestions([]string{"x", "y"})
		require.Len(t, got, SuggestionCount)
		assert.Equal(t, "x", got[0])
		assert.Equal(t, "y", got[1])
		assert.Equal(t, FallbackSuggestions[2:], got[2:])
	})

	t.Run("truncates", func(t *testing.T) {
		got := NormalizeSuggestions([]string{"1", "2", "3", "4", "5", "6", "7", "8"})
		assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, got)
	})

	t.Run("nil becomes the fallback list", func(t *testing.T) {
		assert.Equal(t, fallbackSuggestions(), NormalizeSuggestions(nil))
	})
}

func TestSuggestionGenerator_Generate(t *testing.T) {
	t.Run("model error falls back", func(t *testing.T) {
		model := new(mockModel)
		model.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("503"))

		g := NewSuggestionGenerator(model, nil, nil)
		assert.Equal(t, fallbackSuggestions(), g.Generate(context.Background(), "text", testPrefs))
	})

	t.Run("prompt carries the answer and preferences", func(t *testing.T) {
		model := new(mockModel)
		model.On("GenerateText", mock.Anything, mock.MatchedBy(func(prompt string) bool {
			for _, want := range []string{"Colosseum", "Italy", "Europe", "Rome"} {
				if !strings.Contains(prompt, want) {
					return false
				}
			}
			return true
		})).Return(`["Tell me about the Colosseum"]`, nil)

		g := NewSuggestionGenerator(model, nil, nil)
		got := g.Generate(context.Background(), "Visit the Colosseum.", testPrefs)
		assert.Equal(t, "Tell me about the Colosseum", got[0])
		assert.Len(t, got, SuggestionCount)
		model.AssertExpectations(t)
	})

	t.Run("results are cached", func(t *testing.T) {
		model := new(mockModel)
		model.On("GenerateText", mock.Anything, mock.Anything).Return(`["a","b","c","d","e","f"]`, nil).Once()

		c := cache.NewUnifiedCache[[]string](time.Minute, "suggestions", nil)
		defer c.Close()
		g := NewSuggestionGenerator(model, c, nil)

		first := g.Generate(context.Background(), "same text", testPrefs)
		first[0] = "mutated"
		second := g.Generate(context.Background(), "same text", testPrefs)

		assert.Equal(t, "a", second[0])
		model.AssertNumberOfCalls(t, "GenerateText", 1)
		assert.Equal(t, int64(1), c.GetMetrics().Hits)
	})

	t.Run("fallbacks are not cached", func(t *testing.T) {
		model := new(mockModel)
		model.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("timeout")).Twice()

		c := cache.NewUnifiedCache[[]string](time.Minute, "suggestions", nil)
		defer c.Close()
		g := NewSuggestionGenerator(model, c, nil)

		g.Generate(context.Background(), "text", testPrefs)
		g.Generate(context.Background(), "text", testPrefs)
		model.AssertNumberOfCalls(t, "GenerateText", 2)
	})
}
