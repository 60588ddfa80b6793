package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Measuring terminal..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	layout := m.Layout()
	if layout != LayoutCompact {
		scopes := m.tracker.Scopes()
		sections = append(sections, m.theme.RenderPartitionBar(scopes, m.tracker.Index(), m.width))
	}

	switch layout {
	case LayoutWide:
		table := m.theme.Renderer.NewStyle().Width(TablePanelWidth).Render(m.renderScopeTable())
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, table, m.log.View()))
	case LayoutMedium:
		sections = append(sections, m.renderScopeTable(), m.theme.RenderDivider(m.width), m.log.View())
	case LayoutNarrow:
		sections = append(sections, m.theme.RenderDivider(m.width), m.log.View())
	default:
		sections = append(sections, m.log.View())
	}

	if m.showHelp {
		sections = append(sections, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	title := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Primary).Render("rscopes")

	label := m.tracker.Label()
	if label == "" {
		label = "none"
	}
	badge := m.theme.RenderScopeBadge(label, label != "none")

	st := m.tracker.Transition()
	info := fmt.Sprintf("%dx%d  %s  ratio %s", st.Value, st.Height, orientationOrDash(st.Orientation), formatRatio(st.Ratio))
	if !m.tracker.CallbacksEnabled() {
		info += "  [paused]"
	}
	header := title + " " + badge + " " + m.dim(info)
	return Truncate(header, max(m.width, MinBoxWidth))
}

func (m *Model) renderScopeTable() string {
	scopes := m.tracker.Scopes()
	current := m.tracker.Index()

	var b strings.Builder
	head := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	b.WriteString(head.Render(fmt.Sprintf("  %-12s %s", "SCOPE", "RANGE")))
	for i, s := range scopes {
		marker := "  "
		style := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)
		if i == current {
			marker = "▸ "
			style = style.Bold(true).Foreground(m.theme.Text)
		}
		if s.IsEmpty() {
			style = style.Foreground(m.theme.Muted).Strikethrough(true)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf("%s%-12s %s", marker, Truncate(s.Label, 12), FormatRange(s))))
	}
	return b.String()
}

// resizeLog fits the log viewport into whatever the current layout leaves free.
func (m *Model) resizeLog() {
	width := m.width
	used := 1 // header

	layout := m.Layout()
	switch layout {
	case LayoutWide:
		used++ // partition bar
		width = max(m.width-TablePanelWidth, MinBoxWidth)
	case LayoutMedium:
		used += 2 + len(m.tracker.Scopes()) + 1 // bar, table header, rows, divider
	case LayoutNarrow:
		used += 2 // bar, divider
	}
	if m.showHelp {
		used += lipgloss.Height(m.help.View(m.keys))
	}

	m.log.Width = max(width, 1)
	m.log.Height = max(m.height-used, MinContentHeight)
	m.refreshLog()
}

func orientationOrDash(o model.Orientation) string {
	if o == "" {
		return "-"
	}
	return string(o)
}

func formatRatio(r float64) string {
	if math.IsInf(r, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", r)
}
