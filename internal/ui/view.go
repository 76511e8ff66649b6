package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kennel/internal/filters"
)

func (m Model) contentHeight() int { return max(m.height-2, 3) }

func (m Model) compact() bool { return m.width < LayoutCompactWidth }

func (m Model) listWidth() int {
	if m.compact() {
		return m.width
	}
	return m.width * 60 / 100
}

// sideWidth is the inner width of the side pane.
func (m Model) sideWidth() int { return max(m.width-m.listWidth()-2, 0) }

func (m Model) filterBoxHeight() int { return len(filters.Fields) + 3 }

func (m Model) detailHeight() int {
	return max(m.contentHeight()-m.filterBoxHeight()-2, 1)
}

// visibleRows is the number of dog rows that fit above the list footer.
func (m Model) visibleRows() int { return max(m.contentHeight()-3, 1) }

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	parts := []string{
		bg.Render("kennel", styles.Logo),
		bg.Render(m.route.Title, styles.Text.Bold(true)),
	}
	switch {
	case snap.Loading:
		parts = append(parts, bg.Render("Loading...", styles.WarningText.Bold(true)))
	case snap.LoadingMore:
		parts = append(parts, bg.Render("Loading more...", styles.WarningText))
	case snap.IsOffline():
		parts = append(parts, bg.Render("API unreachable", styles.DangerText))
	case snap.Error != "":
		parts = append(parts, bg.Render(snap.Error, styles.DangerText))
	default:
		parts = append(parts, bg.Render("Ready", styles.SuccessText))
	}
	parts = append(parts,
		bg.Render(fmt.Sprintf("%d dogs", len(snap.Items)), styles.MutedText),
		bg.Render(fmt.Sprintf("page %d", max(snap.Page, 1)), styles.FaintText),
	)
	if snap.ActiveFilters > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d filters", snap.ActiveFilters), styles.AccentText))
	}
	if m.history != nil && !m.compact() {
		parts = append(parts, bg.Render(truncateMiddle(m.history.Current().String(), 48), styles.FaintText))
	}
	if !snap.LastUpdated.IsZero() && !m.compact() {
		parts = append(parts, bg.Render(snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, bg.Spaces(2)))
}

// renderCommandBar renders the key hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Sep(":")

	bindings := m.keys.ShortHelp()
	if m.snapshot.Error != "" {
		bindings = append([]key.Binding{m.keys.Retry}, bindings...)
	}
	segments := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments, bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderContent lays out the list and, on wide terminals, the side pane.
func (m Model) renderContent() string {
	height := m.contentHeight()
	listPane := m.renderTitledBox(m.listTitle(), m.renderRows(m.listWidth()-2), m.listWidth(), height, m.focus == paneList)
	if m.compact() {
		return listPane
	}

	sideBox := m.width - m.listWidth()
	filtersPane := m.renderTitledBox("Filters", m.renderFilters(m.sideWidth()), sideBox, m.filterBoxHeight(), m.focus == paneFilters)
	detailPane := m.renderTitledBox("Details", m.detail.View(), sideBox, height-m.filterBoxHeight(), false)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, lipgloss.JoinVertical(lipgloss.Left, filtersPane, detailPane))
}

func (m Model) listTitle() string {
	title := fmt.Sprintf("%s · %d", m.route.Title, len(m.snapshot.Items))
	if m.snapshot.HasMore {
		title += "+"
	}
	return title
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColor))
	lines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)
	body := make([]string, 0, boxHeight)
	for i := range boxHeight {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		body = append(body, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	return top + "\n" + strings.Join(body, "\n") + "\n" + bottom
}
