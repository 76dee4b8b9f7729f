// Package render turns assistant text into display-ready pieces: place names
// without their markers, map links and sentence-aligned chunks.
package render

import (
	"net/url"
	"regexp"
	"strings"
)

const mapsSearchURL = "https://www.google.com/maps/search/"

var placeMarkerRe = regexp.MustCompile(`\[PLACE\](.*?)\[/PLACE\]`)

// StripPlaceMarkers replaces every [PLACE]name[/PLACE] with name.
func StripPlaceMarkers(text string) string {
	if !strings.Contains(text, "[PLACE]") {
		return text
	}
	return placeMarkerRe.ReplaceAllString(text, "$1")
}

// PlaceNames returns the trimmed names of all marked places in order of
// appearance. Empty markers are skipped.
func PlaceNames(text string) []string {
	matches := placeMarkerRe.FindAllStringSubmatch(text, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if name := strings.TrimSpace(m[1]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// MapLink builds a map search URL for the first marked place in title.
func MapLink(title string) (string, bool) {
	m := placeMarkerRe.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return mapsSearchURL + encodeComponent(name), true
}

// encodeComponent escapes like a URI component: spaces become %20, not '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
