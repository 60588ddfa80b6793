package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	reflowtrunc "github.com/muesli/reflow/truncate"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorSecondary = lipgloss.Color("#6272A4")
	ColorInfo      = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5555")
	ColorAccent    = lipgloss.Color("#FF79C6")
)

// Theme bundles a renderer with the palette so styles follow the output's color profile.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Text      lipgloss.Color
	Subtext   lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Up        lipgloss.Color
	Down      lipgloss.Color
	Changed   lipgloss.Color
	Orient    lipgloss.Color
}

// DefaultTheme returns the Dracula palette bound to r, or the default renderer when r is nil.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Text:      ColorText,
		Subtext:   ColorSubtext,
		Muted:     ColorMuted,
		Highlight: ColorBgHighlight,
		Up:        ColorSuccess,
		Down:      ColorWarning,
		Changed:   ColorInfo,
		Orient:    ColorAccent,
	}
}

// EventColor returns the color used for an event type in the log.
func (t Theme) EventColor(typ model.EventType) lipgloss.Color {
	switch typ {
	case model.EventUp:
		return t.Up
	case model.EventDown:
		return t.Down
	case model.EventOrientated:
		return t.Orient
	default:
		return t.Changed
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGES AND BARS
// ══════════════════════════════════════════════════════════════════════════════

// RenderScopeBadge renders a scope label as a pill, highlighted when active.
func (t Theme) RenderScopeBadge(label string, active bool) string {
	style := t.Renderer.NewStyle().Padding(0, 1)
	if active {
		style = style.Bold(true).Foreground(ColorBg).Background(t.Primary)
	} else {
		style = style.Foreground(t.Subtext).Background(ColorBgSubtle)
	}
	return style.Render(label)
}

// RenderPartitionBar draws the scopes as adjacent segments of a width-wide bar.
// Segment widths are equal; the active segment is highlighted and the rest dimmed.
func (t Theme) RenderPartitionBar(scopes []model.Scope, active, width int) string {
	if len(scopes) == 0 || width <= 0 {
		return ""
	}
	seg := width / len(scopes)
	if seg < 1 {
		seg = 1
	}

	var b strings.Builder
	for i, s := range scopes {
		w := seg
		if i == len(scopes)-1 {
			w = max(width-seg*(len(scopes)-1), 1)
		}
		text := runewidth.Truncate(s.Label, w, "")
		cell := runewidth.FillRight(text, w)
		style := t.Renderer.NewStyle().Foreground(t.Muted).Background(ColorBgSubtle)
		if i == active {
			style = style.Bold(true).Foreground(ColorBg).Background(t.Primary)
		}
		b.WriteString(style.Render(cell))
	}
	return b.String()
}

// RenderDivider renders a horizontal divider line
func (t Theme) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().Foreground(t.Highlight).Render(strings.Repeat("─", width))
}

// FormatRange renders a scope's bounds as "800..1919" or "1920..∞".
func FormatRange(s model.Scope) string {
	if s.IsUnbounded() {
		return fmt.Sprintf("%d..∞", s.Min)
	}
	return fmt.Sprintf("%d..%d", s.Min, s.Max)
}

// Truncate shortens s to width display cells, marking the cut with an ellipsis.
// Escape sequences in styled text take no width and are never split.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return reflowtrunc.StringWithTail(s, uint(width), "…")
}
