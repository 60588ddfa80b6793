package tracker

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/partition"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/watcher"
)

// Tracker resolves the current scope of a live width and dispatches
// scope transitions to registered listeners.
// It is safe for concurrent use; listeners run without the tracker's lock held
// and may call back into it.
type Tracker struct {
	id        string
	env       Environment
	logger    *slog.Logger
	debouncer *watcher.Debouncer

	mu               sync.Mutex
	partition        *partition.Partition
	scope            model.Scope
	state            model.Transition
	separator        string
	inertia          time.Duration
	autoUpdate       bool
	callbacksEnabled bool
	listening        bool
	subscription     string
	cachedWidth      int
	registries       map[model.EventType][]*Listener
	closed           bool
}

// New creates a tracker over entries and resolves it once.
// A nil entries slice uses the defaults' breakpoints; an empty one yields a
// tracker that matches nothing until Define is called.
func New(env Environment, entries []model.Entry, opts ...Option) (*Tracker, error) {
	if env.Source == nil {
		return nil, ErrNoSource
	}
	s := newSettings(opts)

	sep := s.resolvedSeparator()
	if sep == "" {
		return nil, ErrInvalidSeparator
	}
	inertia := s.resolvedInertia()
	if inertia < 0 {
		return nil, ErrInvalidInertia
	}

	if entries == nil {
		entries = s.defaults.Breakpoints
	}
	p, err := partition.New(entries)
	if err != nil {
		return nil, fmt.Errorf("tracker: define breakpoints: %w", err)
	}

	if env.Clock == nil {
		env.Clock = watcher.RealClock()
	}
	logger := s.logger
	if logger == nil {
		logger = env.Logger
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := s.id
	if id == "" {
		id = "rscopes"
	}

	t := &Tracker{
		id:               id,
		env:              env,
		logger:           logger.With("tracker", id),
		debouncer:        watcher.NewDebouncerWithClock(inertia, env.Clock),
		partition:        p,
		state:            model.NewTransition(),
		separator:        sep,
		inertia:          inertia,
		autoUpdate:       s.resolvedAutoUpdate(),
		callbacksEnabled: s.resolvedCallbacks(),
		registries:       make(map[model.EventType][]*Listener, 4),
	}
	t.warnAboutLabels(p)

	t.mu.Lock()
	t.updateLocked()
	t.reconcileLocked()
	t.mu.Unlock()

	return t, nil
}

// ID returns the tracker's identifier.
func (t *Tracker) ID() string {
	return t.id
}

// Update reads the current size and resolves the matching scope.
// It records the transition but never fires listeners. It returns false,
// leaving all state untouched, when the partition has no scopes.
func (t *Tracker) Update() (model.Scope, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updateLocked()
}

func (t *Tracker) updateLocked() (model.Scope, bool) {
	width, height := t.env.Source.Size()
	i, scope, ok := t.partition.Match(width)
	if !ok {
		return model.Scope{}, false
	}

	s := &t.state
	t.scope = scope
	s.Value = width
	s.Height = height
	s.Ratio = model.RatioOf(width, height)
	s.PreviousOrientation = s.Orientation
	s.Orientation = model.OrientationOf(s.Ratio)
	if s.Index == model.NoIndex {
		s.PreviousIndex = i
	} else {
		s.PreviousIndex = s.Index
	}
	s.Index = i
	s.Change = s.Index - s.PreviousIndex
	return scope, true
}

// Define replaces the partition. Invalid entries leave the current partition in place.
// A pending debounced evaluation is cancelled; the new partition takes effect
// on the next Update or settled resize.
func (t *Tracker) Define(entries []model.Entry) error {
	p, err := partition.New(entries)
	if err != nil {
		t.logger.Warn("rejected breakpoint definition", "error", err)
		return err
	}
	t.warnAboutLabels(p)

	t.mu.Lock()
	t.partition = p
	t.mu.Unlock()
	t.debouncer.Cancel()

	t.logger.Debug("partition defined", "scopes", p.Len())
	return nil
}

func (t *Tracker) warnAboutLabels(p *partition.Partition) {
	t.mu.Lock()
	sep := t.separator
	t.mu.Unlock()

	if labels := p.LabelsContaining(sep); len(labels) > 0 {
		t.logger.Warn("labels contain the separator; infix and unfix may be ambiguous",
			"separator", sep, "labels", labels)
	}
	if dups := p.Duplicates(); len(dups) > 0 {
		t.logger.Warn("duplicate labels; only the first of each is reachable", "labels", dups)
	}
}

// Close detaches the tracker from its notifier and cancels any pending evaluation.
// It is safe to call more than once.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.reconcileLocked()
	t.mu.Unlock()
	t.debouncer.Cancel()
}

// Scope returns the current scope and whether one has been resolved.
func (t *Tracker) Scope() (model.Scope, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scope, t.state.Resolved()
}

// Label returns the current scope's label, or "" before the first resolution.
func (t *Tracker) Label() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scope.Label
}

// Min returns the current scope's lower bound.
func (t *Tracker) Min() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scope.Min
}

// Max returns the current scope's upper bound; model.Unbounded for the last scope.
func (t *Tracker) Max() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scope.Max
}

// Transition returns a copy of the current transition state.
func (t *Tracker) Transition() model.Transition {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Index returns the current scope's position, or model.NoIndex.
func (t *Tracker) Index() int {
	return t.Transition().Index
}

// PreviousIndex returns the scope position before the last resolution.
func (t *Tracker) PreviousIndex() int {
	return t.Transition().PreviousIndex
}

// Change returns Index - PreviousIndex.
func (t *Tracker) Change() int {
	return t.Transition().Change
}

// Value returns the width of the last resolution.
func (t *Tracker) Value() int {
	return t.Transition().Value
}

// Ratio returns width/height of the last resolution.
func (t *Tracker) Ratio() float64 {
	return t.Transition().Ratio
}

// Orientation returns the orientation of the last resolution.
func (t *Tracker) Orientation() model.Orientation {
	return t.Transition().Orientation
}

// PreviousOrientation returns the orientation before the last resolution.
func (t *Tracker) PreviousOrientation() model.Orientation {
	return t.Transition().PreviousOrientation
}

// Scopes returns a copy of the partition.
func (t *Tracker) Scopes() []model.Scope {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.partition.Scopes()
}

// Labels returns the partition's labels in order.
func (t *Tracker) Labels() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.partition.Labels()
}

// Separator returns the separator used by Infix and Unfix.
func (t *Tracker) Separator() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.separator
}

// SetSeparator changes the separator. An empty separator is rejected.
func (t *Tracker) SetSeparator(sep string) error {
	if sep == "" {
		return ErrInvalidSeparator
	}
	t.mu.Lock()
	t.separator = sep
	p := t.partition
	t.mu.Unlock()
	t.warnAboutLabels(p)
	return nil
}

// Inertia returns the debounce delay.
func (t *Tracker) Inertia() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inertia
}

// SetInertia changes the debounce delay for later notifications. Negative delays are rejected.
func (t *Tracker) SetInertia(d time.Duration) error {
	if d < 0 {
		return ErrInvalidInertia
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inertia = d
	if d > 0 {
		t.debouncer.SetDuration(d)
	}
	return nil
}

// AutoUpdate reports whether the tracker keeps listening without listeners.
func (t *Tracker) AutoUpdate() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.autoUpdate
}

// SetAutoUpdate turns auto update on or off. Turning it on resolves immediately.
func (t *Tracker) SetAutoUpdate(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.autoUpdate = on
	t.reconcileLocked()
	if on {
		t.updateLocked()
	}
}

// CallbacksEnabled reports whether listeners are fired.
func (t *Tracker) CallbacksEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.callbacksEnabled
}

// SetCallbacksEnabled turns listener dispatch on or off.
// Disabling it takes effect for registries that have not fired yet, even mid-dispatch.
func (t *Tracker) SetCallbacksEnabled(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callbacksEnabled = on
	t.reconcileLocked()
}

// HasCallbacks reports whether any registry holds a listener.
func (t *Tracker) HasCallbacks() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hasCallbacksLocked()
}

// Listening reports whether the tracker is subscribed to resize notifications.
func (t *Tracker) Listening() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.listening
}
