package parser

import (
	"regexp"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

const (
	MarkerStart         = "**STRUCTURED_RESPONSE_START**"
	MarkerEnd           = "**STRUCTURED_RESPONSE_END**"
	MarkerComponentEnd  = "**COMPONENT_END**"
	markerComponentHead = "**COMPONENT_"
)

var (
	controlMarkerRe   = regexp.MustCompile(`\*\*(?:STRUCTURED_RESPONSE_START|STRUCTURED_RESPONSE_END|COMPONENT_END|COMPONENT_\d+)\*\*`)
	componentMarkerRe = regexp.MustCompile(`^\*\*COMPONENT_\d+\*\*$`)
)

// BlockState reports which block markers are present in raw text.
type BlockState struct {
	HasStart bool `json:"has_start"`
	HasEnd   bool `json:"has_end"`
}

// InProgress is true while a block has been opened but not yet closed.
func (b BlockState) InProgress() bool { return b.HasStart && !b.HasEnd }

func (b BlockState) Complete() bool { return b.HasStart && b.HasEnd }

var blockMarkers = newBlockMatcher()

func newBlockMatcher() ahocorasick.AhoCorasick {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	return builder.Build([]string{MarkerStart, MarkerEnd})
}

// DetectBlock scans text once for both block markers.
func DetectBlock(text string) BlockState {
	var state BlockState
	for _, m := range blockMarkers.FindAll(text) {
		switch m.Pattern() {
		case 0:
			state.HasStart = true
		case 1:
			state.HasEnd = true
		}
	}
	return state
}

// normalizeMarkers puts every complete control marker on a line of its own so
// markers glued to surrounding text are still recognised by the line scan.
func normalizeMarkers(text string) string {
	return controlMarkerRe.ReplaceAllStringFunc(text, func(m string) string {
		return "\n" + m + "\n"
	})
}

// isPartialMarker reports whether line could still grow into a control marker,
// as happens for the last line of a buffer that is still streaming.
func isPartialMarker(line string) bool {
	if line == "" || !strings.HasPrefix(line, "*") {
		return false
	}
	for _, m := range []string{MarkerStart, MarkerEnd, MarkerComponentEnd, markerComponentHead} {
		if strings.HasPrefix(m, line) {
			return true
		}
	}
	if !strings.HasPrefix(line, markerComponentHead) {
		return false
	}
	rest := strings.TrimPrefix(line, markerComponentHead)
	if strings.HasPrefix(MarkerComponentEnd[len(markerComponentHead):], rest) {
		return true
	}
	digits := strings.TrimRight(rest, "*")
	if len(rest)-len(digits) > 1 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
