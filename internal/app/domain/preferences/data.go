package preferences

// Countries is ordered so that a name comes before the names its usual
// misspellings also reach. FindBestMatch returns the first candidate that
// clears the fuzzy threshold, so moving an entry changes which typos resolve
// to it; TestFuzzyMisspellings pins the expected outcomes.
var Countries = []string{
	"Netherlands",
	"New Zealand",
	"South Africa",
	"Australia",
	"Switzerland",
	"Argentina",
	"United States",
	"Turkey",
	"Mexico",
	"United Kingdom",
	"Greece",
	"Malaysia",
	"Canada",
	"Thailand",
	"Croatia",
	"Austria",
	"Poland",
	"Japan",
	"United Arab Emirates",
	"Indonesia",
	"Finland",
	"Singapore",
	"Iceland",
	"Vietnam",
	"Germany",
	"India",
	"Egypt",
	"Morocco",
	"Czech Republic",
	"Denmark",
	"France",
	"Ireland",
	"Sweden",
	"Norway",
	"Brazil",
	"Israel",
	"Italy",
	"Portugal",
	"South Korea",
	"Spain",
	"Peru",
	"Chile",
	"China",
	"Colombia",
	"Belgium",
	"Costa Rica",
	"Cuba",
	"Philippines",
	"Jordan",
	"Kenya",
	"Tanzania",
	"Nepal",
}

var Continents = []string{
	"Africa",
	"Antarctica",
	"Asia",
	"Europe",
	"North America",
	"Oceania",
	"South America",
}

// CommonDestinations follows the same first-match ordering as Countries.
var CommonDestinations = []string{
	"Santorini",
	"Singapore",
	"London",
	"Rome",
	"Tokyo",
	"Kyoto",
	"Barcelona",
	"Bangkok",
	"Sydney",
	"Dubai",
	"Prague",
	"Paris",
	"Lisbon",
	"Cape Town",
	"New York",
	"Rio de Janeiro",
	"Machu Picchu",
	"Reykjavik",
	"Marrakech",
	"Amsterdam",
	"Venice",
	"Florence",
	"Hong Kong",
	"Vienna",
	"Berlin",
	"Bali",
	"Budapest",
	"Istanbul",
	"Cairo",
	"Havana",
	"Queenstown",
	"Banff",
}

var ContinentByCountry = map[string]string{
	"Argentina":            "South America",
	"Australia":            "Oceania",
	"Austria":              "Europe",
	"Belgium":              "Europe",
	"Brazil":               "South America",
	"Canada":               "North America",
	"Chile":                "South America",
	"China":                "Asia",
	"Colombia":             "South America",
	"Costa Rica":           "North America",
	"Croatia":              "Europe",
	"Cuba":                 "North America",
	"Czech Republic":       "Europe",
	"Denmark":              "Europe",
	"Egypt":                "Africa",
	"Finland":              "Europe",
	"France":               "Europe",
	"Germany":              "Europe",
	"Greece":               "Europe",
	"Iceland":              "Europe",
	"India":                "Asia",
	"Indonesia":            "Asia",
	"Ireland":              "Europe",
	"Israel":               "Asia",
	"Italy":                "Europe",
	"Japan":                "Asia",
	"Jordan":               "Asia",
	"Kenya":                "Africa",
	"Malaysia":             "Asia",
	"Mexico":               "North America",
	"Morocco":              "Africa",
	"Nepal":                "Asia",
	"Netherlands":          "Europe",
	"New Zealand":          "Oceania",
	"Norway":               "Europe",
	"Peru":                 "South America",
	"Philippines":          "Asia",
	"Poland":               "Europe",
	"Portugal":             "Europe",
	"Singapore":            "Asia",
	"South Africa":         "Africa",
	"South Korea":          "Asia",
	"Spain":                "Europe",
	"Sweden":               "Europe",
	"Switzerland":          "Europe",
	"Tanzania":             "Africa",
	"Thailand":             "Asia",
	"Turkey":               "Europe",
	"United Arab Emirates": "Asia",
	"United Kingdom":       "Europe",
	"United States":        "North America",
	"Vietnam":              "Asia",
}
