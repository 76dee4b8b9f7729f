package render

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const DefaultChunkLength = 300

var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// Chunk splits text into pieces of at most maxLength runes without breaking a
// sentence. A sentence longer than maxLength becomes its own chunk. Sentences
// inside a chunk are joined by one space, and that space counts towards the
// limit.
func Chunk(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultChunkLength
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, sentence := range splitSentences(text) {
		n := utf8.RuneCountInString(sentence)
		if currentLen > 0 && currentLen+1+n > maxLength {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(sentence)
		currentLen += n
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	if len(chunks) == 0 {
		return []string{text}
	}

	return chunks
}

// splitSentences cuts after each '.', '!' or '?' that is followed by
// whitespace. The whitespace is dropped, as are sentences left empty.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		sentences = appendSentence(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	return appendSentence(sentences, text[start:])
}

func appendSentence(sentences []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return sentences
	}
	return append(sentences, s)
}
