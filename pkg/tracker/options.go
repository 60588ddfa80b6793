package tracker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/partition"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/watcher"
)

// Default configuration values.
const (
	DefaultSeparator = "_"
	DefaultInertia   = 400 * time.Millisecond
)

// Source reports the current width and height of the measured surface.
type Source interface {
	Size() (width, height int)
}

// Notifier delivers "the size may have changed" notifications.
type Notifier interface {
	Subscribe(handler func()) string
	Unsubscribe(id string) bool
}

// Environment groups the host collaborators a tracker needs.
// Source is required. Without a Notifier the tracker never listens and only
// resolves when Update is called. Clock defaults to the real clock and Logger
// to a discarding logger.
type Environment struct {
	Source   Source
	Notifier Notifier
	Clock    watcher.Clock
	Logger   *slog.Logger
}

// Defaults supplies the initial configuration of new trackers.
type Defaults struct {
	Breakpoints []model.Entry
	Separator   string
	Inertia     time.Duration
	AutoUpdate  bool
	Callbacks   bool
}

// DefaultBreakpoints are the breakpoints used when none are given.
func DefaultBreakpoints() []model.Entry {
	return []model.Entry{
		model.Base("xs"),
		model.At("sm", 480),
		model.At("md", 768),
		model.At("lg", 1008),
		model.At("xl", 1280),
	}
}

// DefaultDefaults returns the built-in defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Breakpoints: DefaultBreakpoints(),
		Separator:   DefaultSeparator,
		Inertia:     DefaultInertia,
		AutoUpdate:  true,
		Callbacks:   true,
	}
}

// Validate checks that the defaults can configure a tracker.
func (d Defaults) Validate() error {
	if d.Separator == "" {
		return ErrInvalidSeparator
	}
	if d.Inertia < 0 {
		return ErrInvalidInertia
	}
	if _, err := partition.New(d.Breakpoints); err != nil {
		return fmt.Errorf("default breakpoints: %w", err)
	}
	return nil
}

// Clone returns a copy that shares no memory with d.
func (d Defaults) Clone() Defaults {
	clone := d
	clone.Breakpoints = model.CloneEntries(d.Breakpoints)
	return clone
}

// Option configures a single tracker.
type Option func(*settings)

type settings struct {
	defaults   Defaults
	id         string
	separator  *string
	inertia    *time.Duration
	autoUpdate *bool
	callbacks  *bool
	logger     *slog.Logger
}

func newSettings(opts []Option) settings {
	s := settings{defaults: DefaultDefaults()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s settings) resolvedSeparator() string {
	if s.separator != nil {
		return *s.separator
	}
	return s.defaults.Separator
}

func (s settings) resolvedInertia() time.Duration {
	if s.inertia != nil {
		return *s.inertia
	}
	return s.defaults.Inertia
}

func (s settings) resolvedAutoUpdate() bool {
	if s.autoUpdate != nil {
		return *s.autoUpdate
	}
	return s.defaults.AutoUpdate
}

func (s settings) resolvedCallbacks() bool {
	if s.callbacks != nil {
		return *s.callbacks
	}
	return s.defaults.Callbacks
}

// WithDefaults replaces the built-in defaults the other options override.
func WithDefaults(d Defaults) Option {
	return func(s *settings) {
		s.defaults = d.Clone()
	}
}

// WithID sets the tracker ID. Trackers created by New directly get "rscopes" when unset.
func WithID(id string) Option {
	return func(s *settings) {
		s.id = id
	}
}

// WithSeparator sets the separator used by Infix and Unfix.
func WithSeparator(sep string) Option {
	return func(s *settings) {
		s.separator = &sep
	}
}

// WithInertia sets the debounce delay. Zero evaluates every notification immediately.
func WithInertia(d time.Duration) Option {
	return func(s *settings) {
		s.inertia = &d
	}
}

// WithAutoUpdate sets whether the tracker keeps its state live without listeners.
func WithAutoUpdate(on bool) Option {
	return func(s *settings) {
		s.autoUpdate = &on
	}
}

// WithCallbacks sets whether listeners are fired.
func WithCallbacks(on bool) Option {
	return func(s *settings) {
		s.callbacks = &on
	}
}

// WithLogger overrides the environment's logger for this tracker.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}
