package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripPlaceMarkers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no markers", "Plain title", "Plain title"},
		{"single", "Visit [PLACE]Kyoto[/PLACE] in spring", "Visit Kyoto in spring"},
		{"multiple", "[PLACE]Rome[/PLACE] and [PLACE]Florence[/PLACE]", "Rome and Florence"},
		{"unclosed marker is kept", "[PLACE]Rome", "[PLACE]Rome"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := StripPlaceMarkers(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, got, StripPlaceMarkers(got), "stripping must be idempotent")
		})
	}
}

func TestMapLink(t *testing.T) {
	t.Run("no marker", func(t *testing.T) {
		link, ok := MapLink("Fushimi Inari")
		assert.False(t, ok)
		assert.Empty(t, link)
	})

	t.Run("encodes the place name", func(t *testing.T) {
		link, ok := MapLink("Walk to [PLACE]Eiffel Tower[/PLACE]")
		require.True(t, ok)
		assert.Equal(t, "https://www.google.com/maps/search/Eiffel%20Tower", link)
	})

	t.Run("non ascii and reserved characters", func(t *testing.T) {
		link, ok := MapLink("[PLACE]Café & Bar[/PLACE]")
		require.True(t, ok)
		assert.Equal(t, "https://www.google.com/maps/search/Caf%C3%A9%20%26%20Bar", link)
	})

	t.Run("only the first place links", func(t *testing.T) {
		link, ok := MapLink("[PLACE]Rome[/PLACE] then [PLACE]Florence[/PLACE]")
		require.True(t, ok)
		assert.True(t, strings.HasSuffix(link, "/Rome"))
	})

	t.Run("empty marker", func(t *testing.T) {
		_, ok := MapLink("[PLACE]  [/PLACE]")
		assert.False(t, ok)
	})
}

func TestPlaceNames(t *testing.T) {
	names := PlaceNames("See [PLACE] Rome [/PLACE], [PLACE][/PLACE] and [PLACE]Pisa[/PLACE].")
	assert.Equal(t, []string{"Rome", "Pisa"}, names)
	assert.Empty(t, PlaceNames("nothing marked"))
}

func TestChunk(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		assert.Equal(t, []string{"Hello there."}, Chunk("Hello there.", 300))
	})

	t.Run("packs sentences greedily", func(t *testing.T) {
		text := "One two. Three four! Five six? Seven."
		assert.Equal(t, []string{"One two. Three four!", "Five six? Seven."}, Chunk(text, 20))
	})

	t.Run("oversized sentence forms its own chunk", func(t *testing.T) {
		text := "Short. This sentence is way too long."
		assert.Equal(t, []string{"Short.", "This sentence is way too long."}, Chunk(text, 10))
	})

	t.Run("decimal points do not split", func(t *testing.T) {
		text := "It costs 3.5 euros. Tickets sell out."
		assert.Equal(t, []string{"It costs 3.5 euros.", "Tickets sell out."}, Chunk(text, 20))
	})

	t.Run("non positive length uses default", func(t *testing.T) {
		text := strings.Repeat("a", DefaultChunkLength)
		assert.Equal(t, []string{text}, Chunk(text, 0))
	})

	t.Run("whitespace over the limit is returned whole", func(t *testing.T) {
		text := strings.Repeat(" ", 48)
		assert.Equal(t, []string{text}, Chunk(text, 10))
	})
}

func TestChunk_Properties(t *testing.T) {
	text := strings.Repeat("The old town is best explored on foot.  Bring water!\nMuseums open at nine? ", 12) +
		"A final sentence that is deliberately much longer than the tiny limit used in this test."

	for _, limit := range []int{15, 40, 80, 300} {
		chunks := Chunk(text, limit)
		require.NotEmpty(t, chunks)

		joined := strings.Join(chunks, " ")
		assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(strings.Fields(joined), " "))

		for _, c := range chunks {
			if utf8.RuneCountInString(c) > limit {
				assert.Len(t, splitSentences(c), 1, "only a single sentence may exceed the limit")
			}
		}
		assert.Equal(t, chunks, Chunk(text, limit))
	}
}
