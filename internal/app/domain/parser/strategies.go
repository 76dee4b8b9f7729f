package parser

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/go-travelchat/internal/app/domain/render"
	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

// Strategy recognises one structured dialect. ok is false when the text is not
// in that dialect, letting the next strategy try.
type Strategy interface {
	Name() string
	Parse(text string) (parsed models.ParsedMessage, ok bool)
}

var (
	imageQueryStripRe = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe      = regexp.MustCompile(`\s+`)
	emphasisTitleRe   = regexp.MustCompile(`^\*\*(.*?)\*\*\s*Description:\s*(.*)`)
)

// imageQuery slugs the display title for image search.
func imageQuery(title string) string {
	q := strings.ToLower(render.StripPlaceMarkers(title))
	q = imageQueryStripRe.ReplaceAllString(q, "")
	return whitespaceRe.ReplaceAllString(q, "+")
}

type componentBuilder struct {
	title       string
	description []string
}

func (b *componentBuilder) reset() {
	b.title = ""
	b.description = nil
}

// flush appends the component if it is renderable: a title and a non-empty
// description.
func (b *componentBuilder) flush(components []models.StructuredComponent) []models.StructuredComponent {
	defer b.reset()
	description := strings.TrimSpace(strings.Join(b.description, " "))
	if b.title == "" || description == "" {
		return components
	}
	return append(components, models.StructuredComponent{
		Title:       b.title,
		Description: description,
		ImageQuery:  imageQuery(b.title),
	})
}

// markerStrategy parses the explicit block format delimited by
// **STRUCTURED_RESPONSE_START** and **STRUCTURED_RESPONSE_END**.
type markerStrategy struct{}

func (markerStrategy) Name() string { return "markers" }

func (markerStrategy) Parse(text string) (models.ParsedMessage, bool) {
	if !strings.Contains(text, MarkerStart) {
		return models.ParsedMessage{}, false
	}

	lines := strings.Split(normalizeMarkers(text), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); isPartialMarker(last) {
		lines = lines[:len(lines)-1]
	}

	var (
		intro         []string
		components    []models.StructuredComponent
		current       componentBuilder
		started       bool
		inComponent   bool
		seenComponent bool
		collecting    bool
	)

scan:
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case line == MarkerStart:
			started = true
		case !started:
		case line == MarkerEnd:
			break scan
		case componentMarkerRe.MatchString(line):
			components = current.flush(components)
			inComponent, seenComponent, collecting = true, true, false
		case line == MarkerComponentEnd:
			components = current.flush(components)
			inComponent, collecting = false, false
		case inComponent:
			switch {
			case strings.HasPrefix(line, "Title:"):
				current.title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
			case strings.HasPrefix(line, "Description:"):
				collecting = true
				if rest := strings.TrimSpace(strings.TrimPrefix(line, "Description:")); rest != "" {
					current.description = append(current.description, rest)
				}
			case collecting && line != "":
				current.description = append(current.description, line)
			}
		case !seenComponent && line != "":
			intro = append(intro, line)
		}
	}
	if inComponent {
		components = current.flush(components)
	}

	return models.ParsedMessage{
		IsStructured: true,
		Intro:        strings.Join(intro, " "),
		Components:   components,
		OriginalText: text,
	}, true
}

// emphasisStrategy parses the looser "**Title** Description: ..." format
// models fall back to when they ignore the block markers.
type emphasisStrategy struct{}

func (emphasisStrategy) Name() string { return "emphasis" }

func (emphasisStrategy) Parse(text string) (models.ParsedMessage, bool) {
	if !strings.Contains(text, "**") || !strings.Contains(text, "Description:") {
		return models.ParsedMessage{}, false
	}

	var (
		intro      []string
		components []models.StructuredComponent
		current    componentBuilder
		collecting bool
	)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if m := emphasisTitleRe.FindStringSubmatch(line); m != nil {
			components = current.flush(components)
			current.title = strings.TrimSpace(m[1])
			if first := strings.TrimSpace(m[2]); first != "" {
				current.description = append(current.description, first)
			}
			collecting = true
			continue
		}

		switch {
		case collecting && line != "":
			current.description = append(current.description, line)
		case !collecting && line != "" && !strings.Contains(line, "**"):
			intro = append(intro, line)
		}
	}
	components = current.flush(components)

	if len(components) == 0 {
		return models.ParsedMessage{}, false
	}
	return models.ParsedMessage{
		IsStructured: true,
		Intro:        strings.Join(intro, " "),
		Components:   components,
		OriginalText: text,
	}, true
}
