package filters

import "strings"

// Field identifies one filter dimension.
type Field int

const (
	Search Field = iota
	Size
	Age
	Sex
	Organization
	Breed
	BreedGroup
	LocationCountry
	AvailableCountry
	AvailableRegion
)

// Fields lists every field in display and encoding order.
var Fields = []Field{
	Search, Size, Age, Sex, Organization, Breed, BreedGroup,
	LocationCountry, AvailableCountry, AvailableRegion,
}

type fieldMeta struct {
	key      string // camelCase name used by the API parameter builder
	param    string // location query parameter
	sentinel string
	label    string
}

var fieldInfo = map[Field]fieldMeta{
	Search:           {key: "searchQuery", param: "search", sentinel: "", label: "Search"},
	Size:             {key: "sizeFilter", param: "size", sentinel: "Any size", label: "Size"},
	Age:              {key: "ageFilter", param: "age", sentinel: "Any age", label: "Age"},
	Sex:              {key: "sexFilter", param: "sex", sentinel: "Any", label: "Sex"},
	Organization:     {key: "organizationFilter", param: "organization_id", sentinel: "any", label: "Organization"},
	Breed:            {key: "breedFilter", param: "breed", sentinel: "Any breed", label: "Breed"},
	BreedGroup:       {key: "breedGroupFilter", param: "breed_group", sentinel: "Any group", label: "Breed group"},
	LocationCountry:  {key: "locationCountryFilter", param: "location_country", sentinel: "Any country", label: "Located in"},
	AvailableCountry: {key: "availableCountryFilter", param: "available_country", sentinel: "Any country", label: "Adoptable to"},
	AvailableRegion:  {key: "availableRegionFilter", param: "available_region", sentinel: "Any region", label: "Region"},
}

// Key returns the camelCase field name.
func (f Field) Key() string { return fieldInfo[f].key }

// Param returns the location query parameter name.
func (f Field) Param() string { return fieldInfo[f].param }

// Sentinel returns the "no filter applied" value.
func (f Field) Sentinel() string { return fieldInfo[f].sentinel }

// Label returns a human readable name.
func (f Field) Label() string { return fieldInfo[f].label }

func (f Field) String() string { return f.Key() }

// State is the canonical record of filter selections. Values are never
// mutated in place; use With to derive an edited copy.
type State struct {
	Search           string
	Size             string
	Age              string
	Sex              string
	Organization     string
	Breed            string
	BreedGroup       string
	LocationCountry  string
	AvailableCountry string
	AvailableRegion  string
}

// Any returns a State with every field at its sentinel.
func Any() State {
	var s State
	for _, f := range Fields {
		s = s.set(f, f.Sentinel())
	}
	return s
}

// Get returns the value held for f.
func (s State) Get(f Field) string {
	switch f {
	case Search:
		return s.Search
	case Size:
		return s.Size
	case Age:
		return s.Age
	case Sex:
		return s.Sex
	case Organization:
		return s.Organization
	case Breed:
		return s.Breed
	case BreedGroup:
		return s.BreedGroup
	case LocationCountry:
		return s.LocationCountry
	case AvailableCountry:
		return s.AvailableCountry
	case AvailableRegion:
		return s.AvailableRegion
	}
	return ""
}

// With returns a copy of s with f set to value. A blank value resets the
// field to its sentinel. Changing the available-to country clears the
// region, which only makes sense within one country.
func (s State) With(f Field, value string) State {
	if strings.TrimSpace(value) == "" {
		value = f.Sentinel()
	}
	next := s.set(f, value)
	if f == AvailableCountry && value != s.AvailableCountry {
		next = next.set(AvailableRegion, AvailableRegion.Sentinel())
	}
	return next
}

// IsSet reports whether f holds a real value rather than its sentinel.
func (s State) IsSet(f Field) bool {
	return !isPlaceholder(f, s.Get(f))
}

// ActiveCount counts fields that hold a real value differing from the
// route defaults.
func (s State) ActiveCount(defaults State) int {
	n := 0
	for _, f := range Fields {
		if s.IsSet(f) && s.Get(f) != defaults.Get(f) {
			n++
		}
	}
	return n
}

func (s State) set(f Field, value string) State {
	switch f {
	case Search:
		s.Search = value
	case Size:
		s.Size = value
	case Age:
		s.Age = value
	case Sex:
		s.Sex = value
	case Organization:
		s.Organization = value
	case Breed:
		s.Breed = value
	case BreedGroup:
		s.BreedGroup = value
	case LocationCountry:
		s.LocationCountry = value
	case AvailableCountry:
		s.AvailableCountry = value
	case AvailableRegion:
		s.AvailableRegion = value
	}
	return s
}

// isPlaceholder reports whether value means "no filter" for f. Only the
// field's own sentinel qualifies, so a search for "any" is a real query.
func isPlaceholder(f Field, value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == f.Sentinel()
}
