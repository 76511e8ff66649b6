package location

import (
	"fmt"
	"maps"
	"net/url"
	"strings"
)

// Location is the terminal equivalent of a browser URL: a listing path plus
// its query parameters.
type Location struct {
	Path  string
	Query url.Values
}

// Parse reads a location such as "/dogs/puppies?size=Small&page=2".
func Parse(raw string) (Location, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Location{Path: "/dogs", Query: url.Values{}}, nil
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", raw, err)
	}
	path := u.Path
	if path == "" {
		path = "/dogs"
	}
	return Location{Path: path, Query: u.Query()}, nil
}

// String renders the location with sorted query parameters.
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Clone returns a deep copy.
func (l Location) Clone() Location {
	q := make(url.Values, len(l.Query))
	for k, v := range l.Query {
		q[k] = append([]string(nil), v...)
	}
	return Location{Path: l.Path, Query: q}
}

// WithParam returns a copy with key set to value, or removed when value is empty.
func (l Location) WithParam(key, value string) Location {
	next := l.Clone()
	if value == "" {
		next.Query.Del(key)
	} else {
		next.Query.Set(key, value)
	}
	return next
}

// Equal reports whether both locations render identically.
func (l Location) Equal(other Location) bool {
	return l.Path == other.Path && maps.EqualFunc(l.Query, other.Query, func(a, b []string) bool {
		return strings.Join(a, "\x00") == strings.Join(b, "\x00")
	})
}
