package domain

// Locale carries the country-specific heuristic tables used by parsing and
// candidate selection. A Selector copies the locale at construction time, so
// callers may keep mutating their own value without affecting a running
// selector.
type Locale struct {
	// DomesticCountryCode is the ISO 3166-1 alpha-2 code (lower case) whose
	// candidates are scored with the strict city/province/postcode rules.
	DomesticCountryCode string `mapstructure:"domestic_country_code"`

	// Language is requested from the provider for domestic queries.
	Language string `mapstructure:"language"`

	// RoadTypes are stripped from the start of street names before comparing.
	RoadTypes []string `mapstructure:"road_types"`

	// DuplicateRoadTypes is the vocabulary used to collapse "Via Viale X"
	// into "Via X" while parsing.
	DuplicateRoadTypes []string `mapstructure:"duplicate_road_types"`

	// CityProvinceMismatches maps a city to province names and codes it can
	// never be paired with.
	CityProvinceMismatches map[string][]string `mapstructure:"city_province_mismatches"`

	// ProvinceAliases maps a major province to the other spellings providers
	// return for it (codes, English names, metropolitan-city names).
	ProvinceAliases map[string][]string `mapstructure:"province_aliases"`

	// Keywords hint that a free-text address is domestic.
	Keywords []string `mapstructure:"keywords"`
}

// DefaultLocale returns the built-in Italian heuristic tables.
func DefaultLocale() Locale {
	return Locale{
		DomesticCountryCode: "it",
		Language:            "it",
		RoadTypes: []string{
			"via", "viale", "piazza", "piazzale", "corso", "largo", "vicolo",
			"strada", "lungarno", "lungomare", "borgo", "contrada", "localita",
			"località", "salita", "via privata", "vico", "galleria",
		},
		DuplicateRoadTypes: []string{
			"via", "viale", "piazza", "corso", "largo", "vicolo", "strada", "piazzale",
		},
		CityProvinceMismatches: map[string][]string{
			"firenze": {"milano", "mi", "roma", "rm", "napoli", "na", "torino", "to"},
			"milano":  {"firenze", "fi", "roma", "rm", "napoli", "na", "torino", "to"},
			"roma":    {"milano", "mi", "firenze", "fi", "napoli", "na", "torino", "to"},
			"napoli":  {"milano", "mi", "firenze", "fi", "roma", "rm", "torino", "to"},
			"torino":  {"milano", "mi", "firenze", "fi", "roma", "rm", "napoli", "na"},
			"bologna": {"milano", "mi", "firenze", "fi", "roma", "rm"},
			"genova":  {"milano", "mi", "torino", "to", "roma", "rm"},
			"venezia": {"milano", "mi", "roma", "rm", "padova", "pd"},
		},
		ProvinceAliases: map[string][]string{
			"milano":  {"mi", "milan", "città metropolitana di milano", "metropolitan city of milan"},
			"roma":    {"rm", "rome", "roma capitale", "città metropolitana di roma capitale", "metropolitan city of rome"},
			"firenze": {"fi", "florence", "città metropolitana di firenze", "metropolitan city of florence"},
			"napoli":  {"na", "naples", "città metropolitana di napoli", "metropolitan city of naples"},
			"torino":  {"to", "turin", "città metropolitana di torino", "metropolitan city of turin"},
			"bologna": {"bo", "città metropolitana di bologna", "metropolitan city of bologna"},
			"genova":  {"ge", "genoa", "città metropolitana di genova", "metropolitan city of genoa"},
			"venezia": {"ve", "venice", "città metropolitana di venezia", "metropolitan city of venice"},
			"palermo": {"pa", "città metropolitana di palermo"},
			"bari":    {"ba", "città metropolitana di bari"},
		},
		Keywords: []string{
			"italia", "italy", "roma", "milano", "napoli", "torino", "firenze",
			"bologna", "genova", "venezia", "palermo", "bari", "catania", "verona",
			"padova", "trieste", "brescia", "parma", "modena", "pisa",
		},
	}
}

// Clone returns a deep copy of the locale.
func (l Locale) Clone() Locale {
	out := Locale{
		DomesticCountryCode: l.DomesticCountryCode,
		Language:            l.Language,
		RoadTypes:           append([]string(nil), l.RoadTypes...),
		DuplicateRoadTypes:  append([]string(nil), l.DuplicateRoadTypes...),
		Keywords:            append([]string(nil), l.Keywords...),
	}
	out.CityProvinceMismatches = cloneTable(l.CityProvinceMismatches)
	out.ProvinceAliases = cloneTable(l.ProvinceAliases)
	return out
}

func cloneTable(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
