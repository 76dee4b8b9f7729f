package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		target   string
		expected float64
	}{
		{name: "exact ignoring case and spaces", input: "  JAPAN ", target: "japan", expected: 1},
		{name: "dropped letter", input: "japn", target: "Japan", expected: 0.8},
		{name: "transposition", input: "fracne", target: "France", expected: 1},
		{name: "duplicate letters counted once per occurrence", input: "aaaa", target: "ab", expected: 0.25},
		{name: "no overlap", input: "xyz", target: "peru", expected: 0},
		{name: "both empty", input: "", target: "   ", expected: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Score(tc.input, tc.target), 0.0001)
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.True(t, Similarity("japn", "Japan", DefaultThreshold))
	assert.False(t, Similarity("jp", "Japan", DefaultThreshold))
	assert.True(t, Similarity("Spain", "spain", 1))
}

func TestFindBestMatch(t *testing.T) {
	candidates := []string{"Italy", "Japan", "Spain"}

	t.Run("exact match wins over earlier fuzzy candidates", func(t *testing.T) {
		got, ok := FindBestMatch("spain", []string{"Panama", "Spain"})
		assert.True(t, ok)
		assert.Equal(t, "Spain", got)
	})

	t.Run("misspelling resolves", func(t *testing.T) {
		got, ok := FindBestMatch("Japn", candidates)
		assert.True(t, ok)
		assert.Equal(t, "Japan", got)
	})

	t.Run("first candidate clearing the bar wins", func(t *testing.T) {
		// "pain" scores 0.8 against Spain and 0.6 against Japan; Japan comes first.
		got, ok := FindBestMatch("pain", []string{"Japan", "Spain"})
		assert.True(t, ok)
		assert.Equal(t, "Japan", got)
	})

	t.Run("no match", func(t *testing.T) {
		got, ok := FindBestMatch("zzzz", candidates)
		assert.False(t, ok)
		assert.Empty(t, got)
	})
}
