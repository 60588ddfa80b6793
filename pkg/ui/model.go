package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/tracker"
	screen "github.com/Dicklesworthstone/responsive_scopes/pkg/viewport"
)

// eventBuffer bounds how many tracker events may wait for the UI loop.
const eventBuffer = 64

// EventMsg carries one tracker event into the Bubble Tea loop.
type EventMsg struct {
	Event tracker.Event
	At    time.Time
}

// ReloadMsg asks the view to replace the tracked partition.
type ReloadMsg struct {
	Source  string
	Entries []model.Entry
	Err     error
}

// Options configures a Model.
type Options struct {
	MaxLogLines int
	ShowHelp    bool
	Theme       *Theme
	Logger      *slog.Logger
	Now         func() time.Time
}

// Model is the live view: the current scope, the partition and a transition log.
// Terminal resizes reach it as WindowSizeMsg and are forwarded to the Static
// viewport the tracker listens on.
type Model struct {
	tracker *tracker.Tracker
	layout  *tracker.Tracker
	screen  *screen.Static
	events  chan EventMsg
	handles []*tracker.Listener

	log      viewport.Model
	help     help.Model
	keys     keyMap
	theme    Theme
	logger   *slog.Logger
	now      func() time.Time
	lines    []string
	maxLines int
	showHelp bool

	width    int
	height   int
	ready    bool
	dropped  atomic.Int64
	quitting bool
}

// NewModel builds a view over tr, which must take its size from s.
func NewModel(tr *tracker.Tracker, s *screen.Static, opts Options) (*Model, error) {
	if opts.MaxLogLines <= 0 {
		opts.MaxLogLines = 500
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	theme := DefaultTheme(nil)
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	layout, err := tracker.New(tracker.Environment{Source: s, Notifier: s}, LayoutBreakpoints(),
		tracker.WithID("layout"),
		tracker.WithInertia(0),
		tracker.WithCallbacks(false),
		tracker.WithLogger(opts.Logger))
	if err != nil {
		return nil, fmt.Errorf("layout tracker: %w", err)
	}

	m := &Model{
		tracker:  tr,
		layout:   layout,
		screen:   s,
		events:   make(chan EventMsg, eventBuffer),
		log:      viewport.New(0, 0),
		help:     help.New(),
		keys:     defaultKeyMap(),
		theme:    theme,
		logger:   opts.Logger,
		now:      opts.Now,
		maxLines: opts.MaxLogLines,
		showHelp: opts.ShowHelp,
	}
	m.width, m.height = s.Size()

	forward := tracker.NewListener(m.enqueue)
	for _, typ := range model.EventTypes() {
		if err := tr.On(string(typ), forward); err != nil {
			layout.Close()
			return nil, err
		}
	}
	m.handles = append(m.handles, forward)
	return m, nil
}

// enqueue runs on the tracker's goroutine and must not block it.
func (m *Model) enqueue(e tracker.Event) {
	select {
	case m.events <- EventMsg{Event: e, At: m.now()}:
	default:
		m.dropped.Add(1)
		m.logger.Warn("ui event buffer full; dropping event", "event", e.Event)
	}
}

func waitForEvent(ch <-chan EventMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Close detaches the view's listeners and its layout tracker.
func (m *Model) Close() {
	for _, l := range m.handles {
		for _, typ := range model.EventTypes() {
			_ = m.tracker.Off(string(typ), l)
		}
	}
	m.handles = nil
	m.layout.Close()
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case EventMsg:
		m.appendLine(m.formatEvent(msg))
		return m, waitForEvent(m.events)

	case ReloadMsg:
		m.reload(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resizeLog()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.lines = nil
			m.log.SetContent("")
			return m, nil
		case key.Matches(msg, m.keys.Pause):
			enabled := !m.tracker.CallbacksEnabled()
			m.tracker.SetCallbacksEnabled(enabled)
			if enabled {
				m.appendLine(m.dim("callbacks resumed"))
			} else {
				m.appendLine(m.dim("callbacks paused"))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

// SetSize records a new terminal size and notifies the trackers listening on the screen.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.ready = true
	m.help.Width = width
	m.screen.Resize(width, height)
	m.resizeLog()
}

func (m *Model) reload(msg ReloadMsg) {
	if msg.Err != nil {
		m.appendLine(m.warn(fmt.Sprintf("reload %s failed: %v", msg.Source, msg.Err)))
		return
	}
	if err := m.tracker.Define(msg.Entries); err != nil {
		m.appendLine(m.warn(fmt.Sprintf("reload %s rejected: %v", msg.Source, err)))
		return
	}
	scope, ok := m.tracker.Update()
	if !ok {
		m.appendLine(m.dim(fmt.Sprintf("reloaded %s: no scopes", msg.Source)))
		return
	}
	m.appendLine(m.dim(fmt.Sprintf("reloaded %s: %d scopes, now %s", msg.Source, len(m.tracker.Scopes()), scope)))
}

func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if over := len(m.lines) - m.maxLines; over > 0 {
		m.lines = m.lines[over:]
	}
	m.refreshLog()
}

func (m *Model) refreshLog() {
	width := m.log.Width
	rendered := make([]string, len(m.lines))
	for i, l := range m.lines {
		if width > 0 && lipgloss.Width(l) > width {
			l = Truncate(l, width)
		}
		rendered[i] = l
	}
	atBottom := m.log.AtBottom()
	m.log.SetContent(strings.Join(rendered, "\n"))
	if atBottom {
		m.log.GotoBottom()
	}
}

// Lines returns the transition log, oldest first.
func (m *Model) Lines() []string {
	return append([]string(nil), m.lines...)
}

// Layout returns the label of the layout the view currently renders.
func (m *Model) Layout() string {
	if label := m.layout.Label(); label != "" {
		return label
	}
	return LayoutCompact
}

// Dropped reports how many events were discarded because the UI fell behind.
func (m *Model) Dropped() int {
	return int(m.dropped.Load())
}

func (m *Model) formatEvent(msg EventMsg) string {
	e := msg.Event
	prev := "?"
	if scopes := m.tracker.Scopes(); e.PreviousIndex >= 0 && e.PreviousIndex < len(scopes) {
		prev = scopes[e.PreviousIndex].Label
	}

	kind := m.theme.Renderer.NewStyle().
		Foreground(m.theme.EventColor(e.Event)).
		Bold(true).
		Width(11).
		Render(string(e.Event))
	stamp := m.dim(msg.At.Format("15:04:05"))

	var detail string
	if e.Event == model.EventOrientated {
		detail = fmt.Sprintf("%s → %s  (%dx%d)", e.PreviousOrientation, e.Orientation, e.Value, e.Height)
	} else {
		detail = fmt.Sprintf("%s → %s  %s  width %d", prev, e.Label, FormatRange(e.Scope()), e.Value)
	}
	return stamp + " " + kind + detail
}

func (m *Model) dim(s string) string {
	return m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Render(s)
}

func (m *Model) warn(s string) string {
	return m.theme.Renderer.NewStyle().Foreground(ColorDanger).Render(s)
}
