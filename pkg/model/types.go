package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Unbounded is the Max of the highest scope in a partition. It stands in for +infinity.
const Unbounded = math.MaxInt

// NoIndex marks a transition that has not matched any scope yet.
const NoIndex = -1

// Scope is a labeled, closed interval [Min, Max] of widths.
type Scope struct {
	Label string `json:"label" yaml:"label"`
	Min   int    `json:"min" yaml:"min"`
	Max   int    `json:"max" yaml:"max"`
}

// IsUnbounded reports whether the scope extends to +infinity
func (s Scope) IsUnbounded() bool {
	return s.Max == Unbounded
}

// Contains reports whether width lies within [Min, Max]
func (s Scope) Contains(width int) bool {
	return width >= s.Min && width <= s.Max
}

// IsEmpty is true for scopes shadowed by a duplicate threshold (Max < Min).
func (s Scope) IsEmpty() bool {
	return s.Max < s.Min
}

// String renders the scope as "label [min..max]".
func (s Scope) String() string {
	upper := "inf"
	if !s.IsUnbounded() {
		upper = strconv.Itoa(s.Max)
	}
	return fmt.Sprintf("%s [%d..%s]", s.Label, s.Min, upper)
}

// Entry is one breakpoint definition: a label and the width at which its scope starts.
// A nil Threshold means the threshold was omitted; it sorts first like zero.
type Entry struct {
	Label     string `json:"label" yaml:"label"`
	Threshold *int   `json:"min,omitempty" yaml:"min,omitempty"`
}

// At creates an entry starting at threshold n
func At(label string, n int) Entry {
	return Entry{Label: label, Threshold: &n}
}

// Base creates an entry without a threshold
func Base(label string) Entry {
	return Entry{Label: label}
}

// Min returns the threshold, treating an omitted one as zero
func (e Entry) Min() int {
	if e.Threshold == nil {
		return 0
	}
	return *e.Threshold
}

// HasThreshold reports whether a threshold was given
func (e Entry) HasThreshold() bool {
	return e.Threshold != nil
}

// Validate checks if the entry is usable in a partition
func (e Entry) Validate() error {
	if e.Label == "" {
		return fmt.Errorf("entry label cannot be empty")
	}
	if e.Threshold != nil && *e.Threshold < 0 {
		return fmt.Errorf("entry %q: threshold %d cannot be negative", e.Label, *e.Threshold)
	}
	return nil
}

// Clone creates a deep copy of the entry
func (e Entry) Clone() Entry {
	clone := e
	if e.Threshold != nil {
		v := *e.Threshold
		clone.Threshold = &v
	}
	return clone
}

// CloneEntries deep-copies a slice of entries. A nil input stays nil.
func CloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// EntriesFromMap converts a label->threshold map into entries.
// Maps carry no order, so entries are ordered by label; the partition's stable
// threshold sort then makes equal thresholds resolve alphabetically.
func EntriesFromMap(m map[string]int) []Entry {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	entries := make([]Entry, 0, len(labels))
	for _, label := range labels {
		entries = append(entries, At(label, m[label]))
	}
	return entries
}

// Orientation classifies the width/height ratio
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// IsValid returns true if the orientation is a recognized value
func (o Orientation) IsValid() bool {
	switch o {
	case Portrait, Landscape:
		return true
	}
	return false
}

// RatioOf returns width/height. A non-positive height gives +Inf for a
// positive width and 0 otherwise.
func RatioOf(width, height int) float64 {
	if height <= 0 {
		if width > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return float64(width) / float64(height)
}

// OrientationOf classifies a width/height ratio
func OrientationOf(ratio float64) Orientation {
	if ratio > 1 {
		return Landscape
	}
	return Portrait
}

// EventType names one of the four callback registries
type EventType string

const (
	EventUp         EventType = "up"
	EventDown       EventType = "down"
	EventChanged    EventType = "changed"
	EventOrientated EventType = "orientated"
)

// EventFormated is the alternative name for EventOrientated.
const EventFormated = "formated"

// EventTypes lists the registries in dispatch order.
func EventTypes() []EventType {
	return []EventType{EventOrientated, EventChanged, EventUp, EventDown}
}

// IsValid returns true if the event type is a recognized value
func (t EventType) IsValid() bool {
	switch t {
	case EventUp, EventDown, EventChanged, EventOrientated:
		return true
	}
	return false
}

// ParseEventType normalizes an event name, accepting the "formated" alias.
func ParseEventType(name string) (EventType, bool) {
	if name == EventFormated {
		return EventOrientated, true
	}
	t := EventType(name)
	return t, t.IsValid()
}

// Transition is the state computed by the latest resolution.
type Transition struct {
	Index               int         `json:"index"`
	PreviousIndex       int         `json:"previous_index"`
	Change              int         `json:"change"`
	Value               int         `json:"value"`
	Height              int         `json:"height"`
	Ratio               float64     `json:"ratio"`
	Orientation         Orientation `json:"orientation,omitempty"`
	PreviousOrientation Orientation `json:"previous_orientation,omitempty"`
}

// NewTransition returns the state of a tracker that has not resolved yet
func NewTransition() Transition {
	return Transition{Index: NoIndex, PreviousIndex: NoIndex}
}

// Resolved reports whether a scope has been matched at least once
func (t Transition) Resolved() bool {
	return t.Index != NoIndex
}

// OrientationChanged reports whether the last resolution flipped orientation
func (t Transition) OrientationChanged() bool {
	return t.Orientation != t.PreviousOrientation
}

// Direction returns the event for the sign of Change, or "" when Change is zero
func (t Transition) Direction() EventType {
	switch {
	case t.Change > 0:
		return EventUp
	case t.Change < 0:
		return EventDown
	}
	return ""
}
