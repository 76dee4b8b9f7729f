package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travelchat/internal/app/domain/fuzzy"
	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

func ptr(s string) *string { return &s }

func TestDetector_Detect(t *testing.T) {
	detector := NewDetector(nil)

	tests := []struct {
		name     string
		message  string
		expected *models.PreferenceDelta
	}{
		{
			name:     "misspelled country cascades continent",
			message:  "set my favorite country to Japn",
			expected: &models.PreferenceDelta{Country: ptr("Japan"), Continent: ptr("Asia")},
		},
		{
			name:     "casual mention is ignored",
			message:  "I love Japan",
			expected: nil,
		},
		{
			name:     "keyword without a rule match",
			message:  "What's your favorite food in Lisbon?",
			expected: nil,
		},
		{
			name:     "unresolvable country yields nothing",
			message:  "Update my favorite country to Qwxz",
			expected: nil,
		},
		{
			name:     "is-now continent with trailing punctuation",
			message:  "My favourite continent is now South America.",
			expected: &models.PreferenceDelta{Continent: ptr("South America")},
		},
		{
			name:    "country and destination in one message",
			message: "My favorite country is now Italy and my favorite destination is Venice",
			expected: &models.PreferenceDelta{
				Country:     ptr("Italy"),
				Continent:   ptr("Europe"),
				Destination: ptr("Venice"),
			},
		},
		{
			name:     "make-mine phrasing",
			message:  "Make Japan my favourite country",
			expected: &models.PreferenceDelta{Country: ptr("Japan"), Continent: ptr("Asia")},
		},
		{
			name:     "prefer phrasing",
			message:  "I prefer Spain as my favorite country",
			expected: &models.PreferenceDelta{Country: ptr("Spain"), Continent: ptr("Europe")},
		},
		{
			name:     "first resolved country rule wins",
			message:  "Change my favorite country to Spain and make Japan my favorite country",
			expected: &models.PreferenceDelta{Country: ptr("Spain"), Continent: ptr("Europe")},
		},
		{
			name:     "explicit continent overrides cascaded continent",
			message:  "Set my favorite country to Japan and set my favorite continent to Europe",
			expected: &models.PreferenceDelta{Country: ptr("Japan"), Continent: ptr("Europe")},
		},
		{
			name:     "known destination stops at clause joiner",
			message:  "change my favourite destination to kyoto please",
			expected: &models.PreferenceDelta{Destination: ptr("Kyoto")},
		},
		{
			name:     "unknown destination is title cased",
			message:  "set my favorite destination to lake bled",
			expected: &models.PreferenceDelta{Destination: ptr("Lake Bled")},
		},
		{
			name:     "multi word country resolves exactly",
			message:  "please update my favorite country to united kingdom",
			expected: &models.PreferenceDelta{Country: ptr("United Kingdom"), Continent: ptr("Europe")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := detector.Detect(tc.message)
			if tc.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDefaultRules_Order(t *testing.T) {
	rules := DefaultRules()
	require.NotEmpty(t, rules)

	assert.Equal(t, FieldCountry, rules[0].Field)
	assert.Equal(t, VariantExplicitChange, rules[0].Variant)
	assert.Equal(t, FieldDestination, rules[len(rules)-1].Field)

	// Fields never interleave.
	seen := map[Field]bool{}
	var last Field
	for _, r := range rules {
		if r.Field != last {
			assert.False(t, seen[r.Field], "field %s appears in two groups", r.Field)
			seen[r.Field] = true
			last = r.Field
		}
	}
}

func TestContinentByCountry_CoversCountries(t *testing.T) {
	for _, c := range Countries {
		_, ok := ContinentByCountry[c]
		assert.True(t, ok, "missing continent for %s", c)
	}
	for _, continent := range ContinentByCountry {
		assert.Contains(t, Continents, continent)
	}
}

func TestFuzzyMisspellings(t *testing.T) {
	tests := []struct {
		list     []string
		input    string
		expected string
	}{
		{Countries, "Japn", "Japan"},
		{Countries, "Brasil", "Brazil"},
		{Countries, "Austrlia", "Australia"},
		{Countries, "Inda", "India"},
		{Countries, "Thiland", "Thailand"},
		{Countries, "Tailand", "Thailand"},
		{Countries, "Chna", "China"},
		{Countries, "Itlay", "Italy"},
		{Countries, "Grece", "Greece"},
		{Countries, "Phillipines", "Philippines"},
		{Countries, "Columbia", "Colombia"},
		{Countries, "Marocco", "Morocco"},
		{Countries, "Portgual", "Portugal"},
		{Countries, "Neatherlands", "Netherlands"},
		{Countries, "Veitnam", "Vietnam"},
		{Countries, "Egpyt", "Egypt"},
		{Countries, "Qwxz", ""},
		{CommonDestinations, "Brcelona", "Barcelona"},
		{CommonDestinations, "Lisbn", "Lisbon"},
		{CommonDestinations, "Pragu", "Prague"},
		{CommonDestinations, "Marrakesh", "Marrakech"},
		{CommonDestinations, "Reykavik", "Reykjavik"},
		{CommonDestinations, "Machu Pichu", "Machu Picchu"},
		{CommonDestinations, "Budapst", "Budapest"},
		{CommonDestinations, "Veince", "Venice"},
		{CommonDestinations, "Tokio", "Tokyo"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := fuzzy.FindBestMatch(tc.input, tc.list)
			assert.Equal(t, tc.expected != "", ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}
