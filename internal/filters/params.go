package filters

import (
	"maps"
	"strings"
	"sync"
	"unicode"
)

// Params is the query parameter set sent to the listing endpoint.
type Params map[string]string

// explicit API names win over the generic camel-to-snake transform.
var apiNames = map[string]string{
	"searchQuery":            "search",
	"sizeFilter":             "standardized_size",
	"ageFilter":              "age_category",
	"organizationFilter":     "organization_id",
	"breedFilter":            "standardized_breed",
	"availableCountryFilter": "available_to_country",
	"availableRegionFilter":  "available_to_region",
}

// values the API spells differently from the labels users pick, keyed by API name.
var apiValues = map[string]map[string]string{
	"standardized_size": {
		"Extra Large": "XLarge",
	},
}

// APIName translates a camelCase filter key to the API parameter name.
func APIName(key string) string {
	if name, ok := apiNames[key]; ok {
		return name
	}
	return snakeCase(strings.TrimSuffix(key, "Filter"))
}

// APIValue translates a display value to the API vocabulary for name.
// Unknown values pass through unchanged.
func APIValue(name, value string) string {
	if mapped, ok := apiValues[name][value]; ok {
		return mapped
	}
	return value
}

// BuildAPIParams maps s to listing endpoint parameters. Values are trimmed
// and placeholders are dropped entirely.
func BuildAPIParams(s State) Params {
	params := Params{}
	for _, f := range Fields {
		value := strings.TrimSpace(s.Get(f))
		if isPlaceholder(f, value) {
			continue
		}
		name := APIName(f.Key())
		params[name] = APIValue(name, value)
	}
	return params
}

// Memo returns the same Params map for repeated identical States, so
// callers comparing by identity skip redundant work.
type Memo struct {
	mu     sync.Mutex
	last   State
	params Params
}

// Params returns BuildAPIParams(s), reusing the previous map when s is
// unchanged. The returned map must not be modified.
func (m *Memo) Params(s State) Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.params != nil && m.last == s {
		return m.params
	}
	m.last = s
	m.params = BuildAPIParams(s)
	return m.params
}

// Clone returns a copy safe to modify.
func (p Params) Clone() Params {
	return maps.Clone(p)
}

func snakeCase(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
