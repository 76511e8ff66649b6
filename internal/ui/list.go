package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kennel/internal/rescue"
)

func (m Model) paneBg(focused bool) string {
	if focused {
		return m.theme.FocusBg
	}
	return m.theme.SurfaceAlt
}

// renderRows renders the visible window of dogs followed by a status line.
func (m Model) renderRows(width int) string {
	snap := m.snapshot
	styles := m.theme.Styles()
	bgColor := m.paneBg(m.focus == paneList)
	bg := NewBgStyle(bgColor)

	if len(snap.Items) == 0 {
		var msg string
		switch {
		case snap.Loading:
			msg = bg.Render("Loading dogs...", styles.WarningText)
		case snap.Error != "":
			msg = bg.Render(snap.Error, styles.DangerText) + bg.Render(" · r to retry", styles.MutedText)
		default:
			msg = bg.Render("No dogs match these filters", styles.MutedText)
		}
		return msg
	}

	rows := m.visibleRows()
	end := min(m.offset+rows, len(snap.Items))
	lines := make([]string, 0, rows+1)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.formatRow(snap.Items[i], width, i == m.selected, bgColor))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	lines = append(lines, m.listFooter(bg))
	return strings.Join(lines, "\n")
}

func (m Model) listFooter(bg BgStyle) string {
	snap := m.snapshot
	styles := m.theme.Styles()
	switch {
	case snap.LoadingMore:
		return bg.Render("Loading more...", styles.WarningText)
	case snap.Error != "":
		return bg.Render(snap.Error, styles.DangerText) + bg.Render(" · r to retry", styles.MutedText)
	case snap.HasMore:
		return bg.Render(fmt.Sprintf("Showing %d · m for more", len(snap.Items)), styles.MutedText)
	default:
		return bg.Render(fmt.Sprintf("End of results · %d dogs", len(snap.Items)), styles.FaintText)
	}
}

// formatRow formats one dog: "#ID Name · Age · Breed · Size · Sex".
func (m Model) formatRow(d rescue.Dog, width int, selected bool, bgColor string) string {
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)

	idStr := fmt.Sprintf("#%d", d.ID)
	age := orDash(d.AgeCategory)
	details := []string{orDash(d.Breed), orDash(d.Size), orDash(d.Sex)}
	if m.width >= LayoutWideWidth {
		details = append(details, orDash(m.organizationName(d)))
	}
	nameWidth := min(max(width/3, 8), 28)
	used := len(idStr) + 1 + nameWidth + 3 + len(age) + 3
	detailStr := truncate(strings.Join(details, " · "), max(width-used, 0))

	var idStyle, nameStyle, sepStyle, ageStyle, detailStyle lipgloss.Style
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, nameStyle, sepStyle, ageStyle, detailStyle = sel, sel.Bold(true), sel, sel, sel
	} else {
		styles := m.theme.Styles()
		idStyle = styles.MutedText
		nameStyle = styles.Text
		sepStyle = styles.FaintText
		ageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.BadgeColor(d.AgeCategory)))
		detailStyle = styles.MutedText
	}

	line := bg.Render(idStr, idStyle) + bg.Space() +
		bg.Render(padRight(truncate(d.Name, nameWidth), nameWidth), nameStyle) +
		bg.Render(" · ", sepStyle) + bg.Render(age, ageStyle)
	if detailStr != "" {
		line += bg.Render(" · ", sepStyle) + bg.Render(detailStr, detailStyle)
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Width(width).MaxWidth(width).Render(line)
}

func (m Model) organizationName(d rescue.Dog) string {
	if name := d.OrganizationName(); name != "" {
		return name
	}
	return m.organizationLabel(strconv.FormatInt(d.OrganizationID, 10))
}

// organizationLabel maps an organization id to its name when known.
func (m Model) organizationLabel(id string) string {
	if m.organizations == nil {
		return id
	}
	for _, org := range m.organizations() {
		if org.IDString() == id {
			return org.Name
		}
	}
	return id
}

func (m Model) selectedDog() (rescue.Dog, bool) {
	if m.selected < 0 || m.selected >= len(m.snapshot.Items) {
		return rescue.Dog{}, false
	}
	return m.snapshot.Items[m.selected], true
}

func (m *Model) updateDetail() {
	if !m.ready {
		return
	}
	m.detail.SetContent(m.renderDetail())
	m.detail.GotoTop()
}

// renderDetail describes the selected dog.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	d, ok := m.selectedDog()
	if !ok {
		return styles.MutedText.Render("Select a dog")
	}

	label := func(name string) string { return styles.FaintText.Render(padRight(name, 11)) }
	lines := []string{
		styles.Text.Bold(true).Render(d.Name) + " " + styles.MutedText.Render(fmt.Sprintf("#%d", d.ID)),
		"",
		label("Breed") + styles.Text.Render(orDash(d.Breed)),
		label("Group") + styles.Text.Render(orDash(d.BreedGroup)),
		label("Size") + styles.Text.Render(orDash(d.Size)),
		label("Age") + lipgloss.NewStyle().Foreground(lipgloss.Color(styles.BadgeColor(d.AgeCategory))).Render(orDash(d.AgeCategory)),
		label("Sex") + styles.Text.Render(orDash(d.Sex)),
		label("Rescue") + styles.Text.Render(orDash(m.organizationName(d))),
		label("Located") + styles.Text.Render(orDash(d.LocationCountry)),
		label("Adopt in") + styles.Text.Render(orDash(strings.Join(d.AvailableTo, ", "))),
	}
	if listed := d.ParsedCreatedAt(); !listed.IsZero() {
		lines = append(lines, label("Listed")+styles.Text.Render(listed.Format("2 Jan 2006")))
	}
	if d.AdoptionURL != "" {
		lines = append(lines, "", styles.AccentText.Render(truncateMiddle(d.AdoptionURL, max(m.sideWidth()-2, 12))))
	}
	return strings.Join(lines, "\n")
}
