package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// RoleForIndex derives the author of a message from its position in the
// conversation: the welcome message sits at index 0, so even positions belong
// to the assistant and odd positions to the user.
func RoleForIndex(index int) Role {
	if index%2 == 0 {
		return RoleAssistant
	}
	return RoleUser
}

// Message is one conversational turn. Index is the position at creation time
// and is used as the identifier for per-message state.
type Message struct {
	Index     int       `json:"index"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// UserPreferences holds the travel preferences collected during onboarding.
type UserPreferences struct {
	Country     string `json:"country"`
	Continent   string `json:"continent"`
	Destination string `json:"destination"`
}

// Validate enforces the onboarding invariant: all three fields are set.
func (p UserPreferences) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Country) == "" {
		missing = append(missing, "country")
	}
	if strings.TrimSpace(p.Continent) == "" {
		missing = append(missing, "continent")
	}
	if strings.TrimSpace(p.Destination) == "" {
		missing = append(missing, "destination")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Apply returns a copy of p with the fields present in delta overwritten.
func (p UserPreferences) Apply(delta *PreferenceDelta) UserPreferences {
	if delta == nil {
		return p
	}
	if delta.Country != nil {
		p.Country = *delta.Country
	}
	if delta.Continent != nil {
		p.Continent = *delta.Continent
	}
	if delta.Destination != nil {
		p.Destination = *delta.Destination
	}
	return p
}

// PreferenceDelta is a partial preference update inferred from free text.
type PreferenceDelta struct {
	Country     *string `json:"country,omitempty"`
	Continent   *string `json:"continent,omitempty"`
	Destination *string `json:"destination,omitempty"`
}

func (d *PreferenceDelta) IsEmpty() bool {
	return d == nil || (d.Country == nil && d.Continent == nil && d.Destination == nil)
}

// StructuredComponent is one titled unit of a structured answer. Title keeps
// any [PLACE] markers so map links can be generated from it later.
type StructuredComponent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageQuery  string `json:"image_query"`
}

// ParsedMessage is derived from a message's text on every update and never
// mutated in place.
type ParsedMessage struct {
	IsStructured bool                  `json:"is_structured"`
	Intro        string                `json:"intro,omitempty"`
	Components   []StructuredComponent `json:"components,omitempty"`
	OriginalText string                `json:"original_text"`
}

// Stream event types sent over SSE during a chat turn.
const (
	EventTypePreferences        = "preferences"
	EventTypeChunk              = "chunk"
	EventTypeStructuredLoading  = "structured_loading"
	EventTypeStructuredComplete = "structured_complete"
	EventTypeMessageComplete    = "message_complete"
	EventTypeSuggestionsLoading = "suggestions_loading"
	EventTypeSuggestions        = "suggestions"
	EventTypeError              = "error"
	EventTypeComplete           = "complete"
)

// StreamEvent is the payload of one SSE frame.
type StreamEvent struct {
	Type               string           `json:"type"`
	SessionID          string           `json:"session_id"`
	EventID            string           `json:"event_id"`
	Timestamp          time.Time        `json:"timestamp"`
	MessageIndex       int              `json:"message_index"`
	Content            string           `json:"content,omitempty"`
	Parsed             *ParsedMessage   `json:"parsed,omitempty"`
	StructuredLoading  bool             `json:"structured_loading"`
	IsStreaming        bool             `json:"is_streaming"`
	Suggestions        []string         `json:"suggestions,omitempty"`
	SuggestionsLoading bool             `json:"suggestions_loading"`
	Preferences        *UserPreferences `json:"preferences,omitempty"`
	Error              string           `json:"error,omitempty"`
	IsFinal            bool             `json:"is_final,omitempty"`
}

// NewStreamEvent stamps an event with an ID and timestamp.
func NewStreamEvent(eventType, sessionID string, messageIndex int) StreamEvent {
	return StreamEvent{
		Type:         eventType,
		SessionID:    sessionID,
		EventID:      uuid.New().String(),
		Timestamp:    time.Now(),
		MessageIndex: messageIndex,
	}
}

// ChatMessage is the role/content pair sent to the model service.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries everything the model needs for one turn.
type ChatRequest struct {
	SessionID   string          `json:"session_id"`
	Messages    []ChatMessage   `json:"messages"`
	Preferences UserPreferences `json:"preferences"`
}
