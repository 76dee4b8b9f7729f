// Package fuzzy scores free-text input against closed reference vocabularies.
//
// The score is a greedy character-multiset overlap, not an edit distance: it
// ignores character order, so transpositions and dropped letters still score
// well while some unrelated words with similar letters also pass. Callers such
// as the destination fallback depend on this exact permissiveness.
package fuzzy

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultThreshold is used when comparing two strings directly.
	DefaultThreshold = 0.7
	// MatchThreshold is the looser bar applied when searching a candidate list.
	MatchThreshold = 0.6
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score returns matches / length of the longer normalised string, where a
// match consumes one occurrence of the rune from the target.
func Score(input, target string) float64 {
	input = normalize(input)
	target = normalize(target)

	if input == target {
		return 1
	}

	longer := utf8.RuneCountInString(input)
	if n := utf8.RuneCountInString(target); n > longer {
		longer = n
	}
	if longer == 0 {
		return 1
	}

	remaining := make(map[rune]int, len(target))
	for _, r := range target {
		remaining[r]++
	}

	matches := 0
	for _, r := range input {
		if remaining[r] > 0 {
			matches++
			remaining[r]--
		}
	}

	return float64(matches) / float64(longer)
}

// Similarity reports whether input and target score at least threshold.
func Similarity(input, target string, threshold float64) bool {
	return Score(input, target) >= threshold
}

// FindBestMatch returns the candidate equal to input ignoring case, or else
// the first candidate in list order that clears MatchThreshold. Candidate order
// acts as priority; the highest score is not searched for.
func FindBestMatch(input string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if strings.EqualFold(c, input) {
			return c, true
		}
	}

	for _, c := range candidates {
		if Similarity(input, c, MatchThreshold) {
			return c, true
		}
	}

	return "", false
}
