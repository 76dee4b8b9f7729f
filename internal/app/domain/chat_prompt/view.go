package llmchat

import (
	"fmt"

	"github.com/FACorreiaa/go-travelchat/internal/app/domain/render"
	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

// ComponentView is a structured component ready for display.
type ComponentView struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageQuery  string   `json:"image_query"`
	MapURL      string   `json:"map_url,omitempty"`
	Places      []string `json:"places,omitempty"`
}

// MessageView is everything a client needs to render one message.
type MessageView struct {
	Index              int                  `json:"index"`
	Role               models.Role          `json:"role"`
	Parsed             models.ParsedMessage `json:"parsed"`
	Intro              string               `json:"intro,omitempty"`
	Components         []ComponentView      `json:"components,omitempty"`
	Chunks             []string             `json:"chunks,omitempty"`
	Expanded           bool                 `json:"expanded"`
	StructuredLoading  bool                 `json:"structured_loading"`
	IsStreaming        bool                 `json:"is_streaming"`
	Suggestions        []string             `json:"suggestions,omitempty"`
	SuggestionsLoading bool                 `json:"suggestions_loading"`
}

// MessageView renders the message at index of s.
func (c *Controller) MessageView(s *Session, index int) (MessageView, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.messages) {
		s.mu.Unlock()
		return MessageView{}, fmt.Errorf("message %d: %w", index, models.ErrNotFound)
	}
	msg := s.messages[index]
	last := index == len(s.messages)-1
	view := MessageView{
		Index:              index,
		Role:               msg.Role,
		Expanded:           s.expanded[index],
		StructuredLoading:  s.structuredLoading[index],
		IsStreaming:        s.isStreaming && last,
		SuggestionsLoading: s.suggestionsLoading && last,
		Suggestions:        append([]string(nil), s.suggestions[index]...),
	}
	s.mu.Unlock()

	view.Parsed = c.parser.Parse(msg.Content)
	if !view.Parsed.IsStructured {
		if msg.Content == "" {
			return view, nil
		}
		view.Chunks = render.Chunk(render.StripPlaceMarkers(msg.Content), c.cfg.ChunkLength)
		return view, nil
	}

	view.Intro = render.StripPlaceMarkers(view.Parsed.Intro)
	view.Components = make([]ComponentView, 0, len(view.Parsed.Components))
	for _, comp := range view.Parsed.Components {
		cv := ComponentView{
			Title:       render.StripPlaceMarkers(comp.Title),
			Description: render.StripPlaceMarkers(comp.Description),
			ImageQuery:  comp.ImageQuery,
			Places:      render.PlaceNames(comp.Title + " " + comp.Description),
		}
		if link, ok := render.MapLink(comp.Title); ok {
			cv.MapURL = link
		}
		view.Components = append(view.Components, cv)
	}
	return view, nil
}
