package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/five82/kennel/internal/filters"
	"github.com/five82/kennel/internal/rescue"
)

// option is one selectable value of a filter field. count is -1 when the
// API has not reported one.
type option struct {
	value string
	label string
	count int
}

// fieldOptions lists the values f can cycle through, sentinel first.
func (m Model) fieldOptions(f filters.Field) []option {
	counts := m.snapshot.Counts
	var values []string
	switch f {
	case filters.Organization:
		values = []string{f.Sentinel()}
		if m.organizations != nil {
			for _, org := range m.organizations() {
				values = append(values, org.IDString())
			}
		}
	case filters.AvailableRegion:
		values = append([]string{f.Sentinel()}, m.snapshot.Regions...)
	case filters.Breed:
		values = []string{f.Sentinel()}
		if counts != nil {
			for _, o := range counts.Breed {
				values = append(values, o.Value)
			}
		}
	default:
		values = filters.Options(f)
	}

	out := make([]option, 0, len(values))
	for _, v := range values {
		opt := option{value: v, label: v, count: -1}
		if f == filters.Organization && v != f.Sentinel() {
			opt.label = m.organizationLabel(v)
		}
		if counts != nil && v != f.Sentinel() {
			opt.count = countFor(counts, f, v)
		}
		out = append(out, opt)
	}
	return out
}

// countFor looks up value in the API's counts, which use the API vocabulary.
func countFor(c *rescue.FilterCounts, f filters.Field, value string) int {
	return rescue.Lookup(countOptions(c, f), filters.APIValue(filters.APIName(f.Key()), value))
}

func countOptions(c *rescue.FilterCounts, f filters.Field) []rescue.CountOption {
	switch f {
	case filters.Size:
		return c.Size
	case filters.Age:
		return c.Age
	case filters.Sex:
		return c.Sex
	case filters.Breed:
		return c.Breed
	case filters.BreedGroup:
		return c.BreedGroup
	case filters.Organization:
		return c.Organization
	case filters.LocationCountry:
		return c.LocationCountry
	case filters.AvailableCountry:
		return c.AvailableCountry
	case filters.AvailableRegion:
		return c.AvailableRegion
	}
	return nil
}

func optionValues(opts []option) []string {
	values := make([]string, len(opts))
	for i, o := range opts {
		values[i] = o.value
	}
	return values
}

func reversed(values []string) []string {
	out := slices.Clone(values)
	slices.Reverse(out)
	return out
}

// renderFilters renders one line per field plus the search input.
func (m Model) renderFilters(width int) string {
	styles := m.theme.Styles()
	focused := m.focus == paneFilters
	bg := NewBgStyle(m.paneBg(focused))
	current := m.snapshot.Filters

	lines := make([]string, 0, len(filters.Fields)+1)
	for i, f := range filters.Fields {
		value := current.Get(f)
		display := value
		switch {
		case f == filters.Search && value == "":
			display = "-"
		case f == filters.Organization && current.IsSet(f):
			display = m.organizationLabel(value)
		}
		if current.IsSet(f) && m.snapshot.Counts != nil {
			if n := countFor(m.snapshot.Counts, f, value); n >= 0 {
				display = fmt.Sprintf("%s (%d)", display, n)
			}
		}
		text := padRight(f.Label(), 13) + truncate(display, max(width-14, 4))

		switch {
		case focused && i == m.fieldCursor:
			lines = append(lines, styles.Selected.Width(width).Render(text))
		case current.IsSet(f):
			lines = append(lines, bg.Render(text, styles.AccentText))
		default:
			lines = append(lines, bg.Render(text, styles.MutedText))
		}
	}

	if m.searching {
		lines = append(lines, m.search.View())
	} else {
		lines = append(lines, bg.Render("/ search  x reset  h/l change", styles.FaintText))
	}
	return strings.Join(lines, "\n")
}
