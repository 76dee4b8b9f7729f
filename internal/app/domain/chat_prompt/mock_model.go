package llmchat

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

var _ ModelService = (*MockModelService)(nil)

// MockModelService answers without a network call. It is used when the app
// runs in local mode and as a deterministic model in tests.
type MockModelService struct {
	// ChunkSize is the number of runes per streamed delta.
	ChunkSize int
	// TokenDelay is slept between deltas.
	TokenDelay time.Duration
	// Reply overrides the canned answer when set.
	Reply func(req models.ChatRequest) string
}

func NewMockModelService() *MockModelService {
	return &MockModelService{ChunkSize: 12, TokenDelay: 15 * time.Millisecond}
}

func (m *MockModelService) StreamReply(ctx context.Context, req models.ChatRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var answer string
		if m.Reply != nil {
			answer = m.Reply(req)
		} else {
			answer = cannedAnswer(req)
		}

		size := m.ChunkSize
		if size <= 0 {
			size = 12
		}
		runes := []rune(answer)
		for start := 0; start < len(runes); start += size {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			end := min(start+size, len(runes))
			if !yield(string(runes[start:end]), nil) {
				return
			}
			if m.TokenDelay > 0 {
				select {
				case <-ctx.Done():
					yield("", ctx.Err())
					return
				case <-time.After(m.TokenDelay):
				}
			}
		}
	}
}

func (m *MockModelService) GenerateText(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := json.Marshal(FallbackSuggestions[:])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func lastUserMessage(messages []models.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// cannedAnswer returns a structured itinerary for planning questions and a
// short plain answer otherwise.
func cannedAnswer(req models.ChatRequest) string {
	question := strings.ToLower(lastUserMessage(req.Messages))
	destination := req.Preferences.Destination
	if destination == "" {
		destination = "your destination"
	}

	for _, keyword := range []string{"itinerary", "plan", "things to do", "visit", "see"} {
		if strings.Contains(question, keyword) {
			return structuredAnswer(destination, req.Preferences.Country)
		}
	}

	return fmt.Sprintf(
		"Great question! %s is a wonderful choice. Travel light and keep a flexible schedule. "+
			"Local markets are the best place to try regional food. "+
			"Public transport is usually the fastest way around the centre.",
		destination)
}

func structuredAnswer(destination, country string) string {
	var b strings.Builder
	b.WriteString("Here is a plan for your trip.\n")
	b.WriteString("**STRUCTURED_RESPONSE_START**\n")
	fmt.Fprintf(&b, "A few highlights for %s.\n", destination)
	b.WriteString("**COMPONENT_1**\n")
	fmt.Fprintf(&b, "Title: Explore [PLACE]%s[/PLACE] Old Town\n", destination)
	b.WriteString("Description: Start early and walk the historic centre before the crowds arrive.\n")
	b.WriteString("**COMPONENT_END**\n")
	b.WriteString("**COMPONENT_2**\n")
	b.WriteString("Title: Local food tour\n")
	fmt.Fprintf(&b, "Description: Sample the classic dishes of %s at a neighbourhood market.\n", country)
	b.WriteString("**COMPONENT_END**\n")
	b.WriteString("**STRUCTURED_RESPONSE_END**")
	return b.String()
}
