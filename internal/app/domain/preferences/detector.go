// Package preferences extracts explicit preference-change intents from user
// messages and resolves them against the reference vocabularies.
package preferences

import (
	"regexp"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/go-travelchat/internal/app/domain/fuzzy"
	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

type Field string

const (
	FieldCountry     Field = "country"
	FieldContinent   Field = "continent"
	FieldDestination Field = "destination"
)

// Variant tags the phrasing a rule recognises.
type Variant string

const (
	VariantExplicitChange Variant = "explicit-change"
	VariantIsNow          Variant = "is-now"
	VariantPrefer         Variant = "prefer"
	VariantMakeMine       Variant = "make-mine"
)

// Rule is one entry of the ordered rule set. Pattern has exactly one capture
// group holding the place phrase.
type Rule struct {
	Field   Field
	Variant Variant
	Pattern *regexp.Regexp
}

const (
	favorite = `(?:favorite|favourite)`
	place    = `([a-z][a-z\s'-]*?)`

	// Leading captures are capped at four words so they cannot swallow an
	// earlier clause of the same message.
	leadingPlace = `([a-z][a-z'-]*(?:\s+[a-z][a-z'-]*){0,3})`

	// A capture ends at punctuation, the end of the message or a clause joiner.
	clauseEnd = `(?:\s*(?:$|[,.!?;])|\s+(?:and|but|please|instead)\b)`
)

func buildRules(field Field, noun string) []Rule {
	rules := []Rule{
		{
			Field:   field,
			Variant: VariantExplicitChange,
			Pattern: regexp.MustCompile(`(?i)(?:change|update|set)\s+(?:my\s+)?` + favorite + `\s+` + noun + `\s+(?:to|is|as)\s+` + place + clauseEnd),
		},
		{
			Field:   field,
			Variant: VariantIsNow,
			Pattern: regexp.MustCompile(`(?i)(?:my\s+)?` + favorite + `\s+` + noun + `\s+(?:is\s+now|should\s+be|is)\s+` + place + clauseEnd),
		},
	}
	if field == FieldCountry {
		rules = append(rules, Rule{
			Field:   field,
			Variant: VariantPrefer,
			Pattern: regexp.MustCompile(`(?i)(?:prefer|want)\s+` + leadingPlace + `\s+as\s+(?:my\s+)?` + favorite + `\s+` + noun),
		})
	}
	return append(rules, Rule{
		Field:   field,
		Variant: VariantMakeMine,
		Pattern: regexp.MustCompile(`(?i)(?:make|set)\s+` + leadingPlace + `\s+(?:as\s+)?my\s+` + favorite + `\s+` + noun),
	})
}

// DefaultRules returns the rule set in priority order: country, continent,
// destination, each ordered by variant.
func DefaultRules() []Rule {
	var rules []Rule
	rules = append(rules, buildRules(FieldCountry, `(?:country|nation)`)...)
	rules = append(rules, buildRules(FieldContinent, `continent`)...)
	rules = append(rules, buildRules(FieldDestination, `destination`)...)
	return rules
}

// Detector turns a user message into a PreferenceDelta.
type Detector struct {
	rules    []Rule
	keywords ahocorasick.AhoCorasick
	logger   *zap.Logger
}

func NewDetector(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	return &Detector{
		rules:    DefaultRules(),
		keywords: builder.Build([]string{"favorite", "favourite"}),
		logger:   logger,
	}
}

func (d *Detector) Rules() []Rule {
	return d.rules
}

// Detect returns the preference changes explicitly requested in message, or
// nil when there are none. Casual mentions of a place never produce a delta.
func (d *Detector) Detect(message string) *models.PreferenceDelta {
	if len(d.keywords.FindAll(message)) == 0 {
		return nil
	}

	delta := &models.PreferenceDelta{}
	countryResolved := false

	for _, rule := range d.rules {
		if rule.Field == FieldCountry && countryResolved {
			continue
		}

		match := rule.Pattern.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		phrase := strings.TrimSpace(match[1])
		if phrase == "" {
			continue
		}

		switch rule.Field {
		case FieldCountry:
			country, ok := fuzzy.FindBestMatch(phrase, Countries)
			if !ok {
				d.logger.Debug("Country phrase did not resolve",
					zap.String("variant", string(rule.Variant)),
					zap.String("phrase", phrase))
				continue
			}
			canonical := titleWords(country)
			delta.Country = &canonical
			if continent, ok := ContinentByCountry[country]; ok {
				delta.Continent = &continent
			}
			countryResolved = true

		case FieldContinent:
			continent, ok := fuzzy.FindBestMatch(phrase, Continents)
			if !ok {
				continue
			}
			delta.Continent = &continent

		case FieldDestination:
			destination, ok := fuzzy.FindBestMatch(phrase, CommonDestinations)
			if !ok {
				destination = cases.Title(language.English).String(strings.ToLower(phrase))
			}
			delta.Destination = &destination
		}

		d.logger.Debug("Preference change detected",
			zap.String("field", string(rule.Field)),
			zap.String("variant", string(rule.Variant)),
			zap.String("phrase", phrase))
	}

	if delta.IsEmpty() {
		return nil
	}
	return delta
}

// titleWords upper-cases the first letter of every word and leaves the rest
// untouched.
func titleWords(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}
