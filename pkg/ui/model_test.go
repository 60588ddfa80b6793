package ui

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/tracker"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/viewport"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/watcher"
)

const testInertia = 50 * time.Millisecond

func newTestModel(t *testing.T, width, height int) (*Model, *watcher.FakeClock) {
	t.Helper()
	s := viewport.NewStatic(width, height)
	clock := watcher.NewFakeClock()
	tr, err := tracker.New(tracker.Environment{Source: s, Notifier: s, Clock: clock},
		[]model.Entry{model.At("sm", 0), model.At("md", 90), model.At("lg", 150)},
		tracker.WithInertia(testInertia))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(tr.Close)

	fixed := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	m, err := NewModel(tr, s, Options{MaxLogLines: 3, ShowHelp: true, Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Close)
	return m, clock
}

// drain feeds every queued tracker event back through Update.
func drain(t *testing.T, m *Model) {
	t.Helper()
	for {
		select {
		case msg := <-m.events:
			m.Update(msg)
		default:
			return
		}
	}
}

func TestLayoutFollowsWidth(t *testing.T) {
	m, _ := newTestModel(t, 60, 30)

	tests := []struct {
		width int
		want  string
	}{
		{60, LayoutCompact},
		{80, LayoutNarrow},
		{99, LayoutNarrow},
		{100, LayoutMedium},
		{140, LayoutWide},
		{79, LayoutCompact},
	}
	for _, tt := range tests {
		m.Update(tea.WindowSizeMsg{Width: tt.width, Height: 30})
		if got := m.Layout(); got != tt.want {
			t.Errorf("width %d: Layout() = %q, want %q", tt.width, got, tt.want)
		}
	}
}

func TestWindowSizeReachesTracker(t *testing.T) {
	m, clock := newTestModel(t, 60, 30)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	if w, h := m.screen.Size(); w != 120 || h != 30 {
		t.Fatalf("screen size = %dx%d", w, h)
	}
	if m.tracker.Label() != "sm" {
		t.Fatalf("tracker moved before the inertia elapsed: %q", m.tracker.Label())
	}

	clock.Advance(testInertia)
	drain(t, m)

	if m.tracker.Label() != "md" {
		t.Errorf("Label() = %q, want md", m.tracker.Label())
	}
	lines := m.Lines()
	if len(lines) != 2 {
		t.Fatalf("log has %d lines, want 2: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "changed") || !strings.Contains(lines[1], "up") {
		t.Errorf("lines = %q", lines)
	}
	if !strings.Contains(lines[1], "sm → md") || !strings.Contains(lines[1], "15:04:05") {
		t.Errorf("line = %q", lines[1])
	}
}

func TestLogIsBounded(t *testing.T) {
	m, clock := newTestModel(t, 60, 30)
	for _, w := range []int{120, 60, 200} {
		m.Update(tea.WindowSizeMsg{Width: w, Height: 30})
		clock.Advance(testInertia)
		drain(t, m)
	}
	if got := len(m.Lines()); got != 3 {
		t.Errorf("len(Lines()) = %d, want 3", got)
	}
}

func TestInitWaitsForEvents(t *testing.T) {
	m, clock := newTestModel(t, 60, 30)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init returned nil")
	}

	m.Update(tea.WindowSizeMsg{Width: 200, Height: 30})
	clock.Advance(testInertia)

	msg, ok := cmd().(EventMsg)
	if !ok {
		t.Fatal("Init command did not yield an EventMsg")
	}
	if msg.Event.Event != model.EventChanged {
		t.Errorf("first event = %s, want changed", msg.Event.Event)
	}
	if _, next := m.Update(msg); next == nil {
		t.Error("Update did not re-arm the event wait")
	}
}

func TestReload(t *testing.T) {
	m, _ := newTestModel(t, 100, 30)

	m.Update(ReloadMsg{Source: "bp.yaml", Entries: []model.Entry{model.At("one", 0), model.At("two", 50)}})
	if m.tracker.Label() != "two" {
		t.Errorf("Label() = %q after reload", m.tracker.Label())
	}
	if lines := m.Lines(); len(lines) != 1 || !strings.Contains(lines[0], "reloaded bp.yaml: 2 scopes") {
		t.Errorf("lines = %q", lines)
	}

	m.Update(ReloadMsg{Source: "bp.yaml", Entries: []model.Entry{model.At("", 0)}})
	if got := strings.Join(m.tracker.Labels(), ","); got != "one,two" {
		t.Errorf("rejected reload changed labels: %s", got)
	}
	if lines := m.Lines(); !strings.Contains(lines[len(lines)-1], "rejected") {
		t.Errorf("last line = %q", lines[len(lines)-1])
	}
}

func TestKeys(t *testing.T) {
	m, _ := newTestModel(t, 100, 30)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if m.tracker.CallbacksEnabled() {
		t.Error("p did not pause callbacks")
	}
	if !strings.Contains(m.View(), "[paused]") {
		t.Error("header does not show the paused state")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if !m.tracker.CallbacksEnabled() {
		t.Error("second p did not resume callbacks")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if len(m.Lines()) != 0 {
		t.Error("c did not clear the log")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if m.View() != "" {
		t.Error("View after quit should be empty")
	}
}

func TestViewPerLayout(t *testing.T) {
	m, _ := newTestModel(t, 60, 30)

	if got := m.View(); got != "Measuring terminal..." {
		t.Errorf("View before sizing = %q", got)
	}

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	if strings.Contains(m.View(), "RANGE") {
		t.Error("compact layout shows the scope table")
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	view := m.View()
	if !strings.Contains(view, "RANGE") || !strings.Contains(view, "150..∞") {
		t.Errorf("medium layout misses the scope table:\n%s", view)
	}
	if !strings.Contains(view, "rscopes") {
		t.Error("header missing")
	}
}

func TestCloseDetachesListeners(t *testing.T) {
	m, _ := newTestModel(t, 60, 30)
	if !m.tracker.HasCallbacks() {
		t.Fatal("model did not register listeners")
	}
	m.Close()
	if m.tracker.HasCallbacks() {
		t.Error("listeners remain after Close")
	}
	if m.layout.Listening() {
		t.Error("layout tracker still listening")
	}
}

func TestFormatRange(t *testing.T) {
	if got := FormatRange(model.Scope{Label: "a", Min: 0, Max: 79}); got != "0..79" {
		t.Errorf("got %q", got)
	}
	if got := FormatRange(model.Scope{Label: "b", Min: 80, Max: model.Unbounded}); got != "80..∞" {
		t.Errorf("got %q", got)
	}
}

func TestPartitionBarWidth(t *testing.T) {
	theme := DefaultTheme(nil)
	scopes := []model.Scope{{Label: "sm", Max: 9}, {Label: "md", Min: 10, Max: 19}, {Label: "lg", Min: 20, Max: model.Unbounded}}
	bar := theme.RenderPartitionBar(scopes, 1, 31)
	if w := lipgloss.Width(bar); w != 31 {
		t.Errorf("bar width = %d, want 31", w)
	}
	if theme.RenderPartitionBar(nil, 0, 10) != "" {
		t.Error("empty partition should render nothing")
	}
}

func trueColorTheme() Theme {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return DefaultTheme(r)
}

func TestTruncateStyledText(t *testing.T) {
	theme := trueColorTheme()
	styled := theme.Renderer.NewStyle().Foreground(lipgloss.Color("#FF0000")).Render("abcdefghijklmnopq")
	if !strings.Contains(styled, "\x1b[") {
		t.Fatal("renderer emitted no color")
	}

	got := Truncate(styled, 14)
	if w := lipgloss.Width(got); w != 14 {
		t.Errorf("visible width = %d, want 14: %q", w, got)
	}
	if !strings.Contains(got, "abcdefghijklm…") {
		t.Errorf("text cut inside an escape sequence: %q", got)
	}
	if !strings.HasSuffix(got, "\x1b[0m") {
		t.Errorf("color left open: %q", got)
	}
	if Truncate(styled, 40) != styled {
		t.Error("text that fits should be returned unchanged")
	}
	if Truncate(styled, 0) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestColorHeaderAndLog(t *testing.T) {
	s := viewport.NewStatic(100, 30)
	tr, err := tracker.New(tracker.Environment{Source: s, Notifier: s, Clock: watcher.NewFakeClock()},
		[]model.Entry{model.At("sm", 0), model.At("md", 90), model.At("lg", 150)})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(tr.Close)

	theme := trueColorTheme()
	m, err := NewModel(tr, s, Options{Theme: &theme})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	tr.SetCallbacksEnabled(false)

	header := m.renderHeader()
	for _, want := range []string{"rscopes", "md", "100x30", "landscape", "ratio 3.33", "[paused]"} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q: %q", want, header)
		}
	}
	if w := lipgloss.Width(header); w > 100 {
		t.Errorf("header width = %d, want <= 100", w)
	}

	m.appendLine(m.dim(strings.Repeat("x", 300)))
	for _, line := range strings.Split(m.log.View(), "\n") {
		if w := lipgloss.Width(line); w > m.log.Width {
			t.Errorf("log line width %d exceeds %d", w, m.log.Width)
		}
	}
	if !strings.Contains(m.log.View(), "…") {
		t.Error("long log line was not truncated")
	}
}
