package ui

import "github.com/Dicklesworthstone/responsive_scopes/pkg/model"

// Layout breakpoints for the live view, in terminal columns.
// The view tracks its own width with these, so it adapts the same way the
// partitions it displays do.
const (
	// BreakpointNarrow is the width below which the view drops the partition bar.
	BreakpointNarrow = 80

	// BreakpointMedium is the width from which the scope table is shown.
	BreakpointMedium = 100

	// BreakpointWide is the width from which the scope table sits beside the log.
	BreakpointWide = 140
)

// Layout labels, one per scope of LayoutBreakpoints.
const (
	LayoutCompact = "compact"
	LayoutNarrow  = "narrow"
	LayoutMedium  = "medium"
	LayoutWide    = "wide"
)

// Box and panel dimension constraints.
const (
	// MinBoxWidth is the minimum width for bordered content boxes.
	MinBoxWidth = 20

	// MinContentHeight is the minimum height for the scrollable log.
	MinContentHeight = 3

	// TablePanelWidth is the width of the scope table in the wide layout.
	TablePanelWidth = 44
)

// LayoutBreakpoints partitions terminal widths into the view's layouts.
func LayoutBreakpoints() []model.Entry {
	return []model.Entry{
		model.Base(LayoutCompact),
		model.At(LayoutNarrow, BreakpointNarrow),
		model.At(LayoutMedium, BreakpointMedium),
		model.At(LayoutWide, BreakpointWide),
	}
}
