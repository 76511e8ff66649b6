package filters

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	// PageParam carries the highest loaded page when greater than one.
	PageParam = "page"
	// ScrollParam carries the last known scroll offset when non-zero.
	ScrollParam = "scroll"
)

// Derive maps location query parameters to a State. Each field takes the
// query value when present, else the route default, else its sentinel. An
// organization id missing from orgIDs is coerced to the sentinel.
func Derive(query url.Values, defaults State, orgIDs []string) State {
	var s State
	for _, f := range Fields {
		value := strings.TrimSpace(query.Get(f.Param()))
		if value == "" {
			value = defaults.Get(f)
		}
		if strings.TrimSpace(value) == "" {
			value = f.Sentinel()
		}
		s = s.set(f, value)
	}
	if s.Organization != Organization.Sentinel() && !slices.Contains(orgIDs, s.Organization) {
		s.Organization = Organization.Sentinel()
	}
	return s
}

// ParsePage returns the page parameter, or 1 when missing or malformed.
func ParsePage(query url.Values) int {
	page, err := strconv.Atoi(strings.TrimSpace(query.Get(PageParam)))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseScroll returns the scroll parameter, or 0 when missing or malformed.
func ParseScroll(query url.Values) int {
	offset, err := strconv.Atoi(strings.TrimSpace(query.Get(ScrollParam)))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// Encode serializes s into location query parameters. Sentinels and values
// equal to the route defaults are omitted, page is written only when greater
// than one and scroll only when positive.
func Encode(s State, defaults State, page, scroll int) url.Values {
	values := url.Values{}
	for _, f := range Fields {
		value := strings.TrimSpace(s.Get(f))
		if isPlaceholder(f, value) || value == strings.TrimSpace(defaults.Get(f)) {
			continue
		}
		values.Set(f.Param(), value)
	}
	if page > 1 {
		values.Set(PageParam, strconv.Itoa(page))
	}
	if scroll > 0 {
		values.Set(ScrollParam, strconv.Itoa(scroll))
	}
	return values
}
