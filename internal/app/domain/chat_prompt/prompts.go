package llmchat

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

// SuggestionCount is the exact number of follow-up suggestions kept per
// assistant message.
const SuggestionCount = 6

// ApologyMessage replaces the assistant reply when the model stream fails.
const ApologyMessage = "Sorry, I encountered an error. Please try again."

// FallbackSuggestions pads short suggestion lists by position and replaces
// them entirely when generation fails.
var FallbackSuggestions = [SuggestionCount]string{
	"Tell me about hidden gems worth visiting",
	"Give me unique local experiences to try",
	"Show me the best time to visit",
	"Explain important cultural tips I should know",
	"Tell me about local transportation options",
	"Give me daily budget recommendations",
}

func fallbackSuggestions() []string {
	out := make([]string, SuggestionCount)
	copy(out, FallbackSuggestions[:])
	return out
}

func WelcomeMessage(prefs models.UserPreferences) string {
	return fmt.Sprintf("Hello! I see your favourite country is %s, your favourite continent is %s and your favourite destination is %s. "+
		"I'm here to help you with travel advice, cultural insights, and destination recommendations. What would you like to know?",
		prefs.Country, prefs.Continent, prefs.Destination)
}

func WelcomeSuggestions(prefs models.UserPreferences) []string {
	return []string{
		fmt.Sprintf("What's the best time to visit %s?", prefs.Destination),
		fmt.Sprintf("Tell me about must-see attractions in %s", prefs.Country),
		fmt.Sprintf("What's the local cuisine like in %s?", prefs.Destination),
		fmt.Sprintf("Cultural tips for visiting %s", prefs.Country),
		fmt.Sprintf("Budget travel advice for %s", prefs.Continent),
		fmt.Sprintf("What should I pack for a trip to %s?", prefs.Destination),
	}
}

const systemPromptBase = `You are a helpful travel assistant. Provide practical, accurate travel advice and cultural insights.

RESPONSE GUIDELINES:
- Keep responses concise and scannable, 3-4 sentences per paragraph.
- Break long explanations into short sections.
- When giving several points you MUST use the structured format below exactly as shown.
- Be conversational but informative.

For detailed topics with multiple points (cuisine, attractions, cultural tips, budget advice, itineraries and similar) use this EXACT format:

**STRUCTURED_RESPONSE_START**
Brief introduction explaining the topic (2-3 sentences)

**COMPONENT_1**
Title: [Specific Topic/Item Name]
Description: [2-3 sentences with practical details]
**COMPONENT_END**

**COMPONENT_2**
Title: [Another Topic/Item Name]
Description: [2-3 sentences with practical details]
**COMPONENT_END**

**STRUCTURED_RESPONSE_END**

Always include every marker: STRUCTURED_RESPONSE_START, numbered COMPONENTs with Title and Description, COMPONENT_END after each component, and STRUCTURED_RESPONSE_END.

PLACE MARKING: wrap specific places (restaurants, bars, hotels, attractions, landmarks) as [PLACE]Place Name[/PLACE]. The markers are hidden from users and power map links. If a component Title names a specific place you MUST wrap it, for example:
- Title: [PLACE]Le Jules Verne[/PLACE] - Fine Dining
- Title: [PLACE]Central Park[/PLACE] - Urban Oasis

For simple conversational or single-topic answers use short plain paragraphs without the structured format.`

// buildSystemPrompt appends the traveller's current preferences to the base
// instructions so preference changes apply from the next turn on.
func buildSystemPrompt(prefs models.UserPreferences) string {
	var b strings.Builder
	b.WriteString(systemPromptBase)
	b.WriteString("\n\nTRAVELLER PREFERENCES:\n")
	fmt.Fprintf(&b, "- Favorite Country: %s\n", prefs.Country)
	fmt.Fprintf(&b, "- Favorite Continent: %s\n", prefs.Continent)
	fmt.Fprintf(&b, "- Favorite Destination: %s\n", prefs.Destination)
	b.WriteString("Use them to personalise recommendations when relevant.")
	return b.String()
}

func buildSuggestionPrompt(assistantText string, prefs models.UserPreferences) string {
	return fmt.Sprintf(`You are a travel assistant that writes follow-up prompts so users can explore a topic further.

Based on this travel answer:
%q

And these user preferences:
- Favorite Country: %s
- Favorite Continent: %s
- Favorite Destination: %s

Generate exactly %d specific, actionable follow-up prompts that:
1. Dig deeper into topics mentioned in the answer
2. Are personalised with the user's country, continent or destination
3. Are requests the user would send to you, not questions you ask the user
4. Feel like natural continuations of the conversation
5. Focus on specifics from the answer rather than generic requests
6. Start with action words like "Tell me about...", "Give me details on...", "Explain...", "Show me..."

Format as a JSON array of strings and nothing else:
["prompt 1", "prompt 2", "prompt 3", "prompt 4", "prompt 5", "prompt 6"]`,
		assistantText, prefs.Country, prefs.Continent, prefs.Destination, SuggestionCount)
}
