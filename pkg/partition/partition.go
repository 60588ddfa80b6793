// Package partition turns unordered breakpoint definitions into a gapless,
// ordered set of scopes covering [0, +inf).
package partition

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
)

// ErrInvalidEntry is returned when a breakpoint definition cannot be used.
var ErrInvalidEntry = errors.New("invalid breakpoint entry")

// Partition is an immutable, ordered sequence of scopes.
// A new Partition is built for every definition; existing ones are never mutated.
type Partition struct {
	scopes []model.Scope
	labels []string
}

// Empty returns a partition with no scopes. Nothing matches it.
func Empty() *Partition {
	return &Partition{}
}

// New builds a partition from entries.
//
// Entries are stably sorted by threshold, with omitted thresholds treated as zero;
// ties keep their input order. The first scope always starts at zero, every other
// scope ends one below its successor's start, and the last is unbounded.
// The input slice is not modified.
func New(entries []model.Entry) (*Partition, error) {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w at position %d: %v", ErrInvalidEntry, i, err)
		}
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b model.Entry) int {
		return cmp.Compare(a.Min(), b.Min())
	})

	n := len(sorted)
	p := &Partition{
		scopes: make([]model.Scope, n),
		labels: make([]string, n),
	}
	for i, e := range sorted {
		lower := e.Min()
		if i == 0 {
			lower = 0
		}
		upper := model.Unbounded
		if i < n-1 {
			upper = sorted[i+1].Min() - 1
		}
		p.scopes[i] = model.Scope{Label: e.Label, Min: lower, Max: upper}
		p.labels[i] = e.Label
	}
	return p, nil
}

// Len returns the number of scopes
func (p *Partition) Len() int {
	return len(p.scopes)
}

// Scopes returns a copy of the ordered scopes
func (p *Partition) Scopes() []model.Scope {
	return slices.Clone(p.scopes)
}

// Labels returns a copy of the labels in partition order
func (p *Partition) Labels() []string {
	return slices.Clone(p.labels)
}

// At returns the scope at index i
func (p *Partition) At(i int) (model.Scope, bool) {
	if i < 0 || i >= len(p.scopes) {
		return model.Scope{}, false
	}
	return p.scopes[i], true
}

// Match returns the first scope whose Max is at or above width.
// Partitions hold tens of scopes at most, so a linear scan is enough.
func (p *Partition) Match(width int) (int, model.Scope, bool) {
	for i, s := range p.scopes {
		if width <= s.Max {
			return i, s, true
		}
	}
	return model.NoIndex, model.Scope{}, false
}

// HasLabel reports whether label names a scope in the partition
func (p *Partition) HasLabel(label string) bool {
	return slices.Contains(p.labels, label)
}

// IndexOf returns the position of the first scope named label, or NoIndex
func (p *Partition) IndexOf(label string) int {
	if i := slices.Index(p.labels, label); i >= 0 {
		return i
	}
	return model.NoIndex
}

// LabelsContaining lists labels that contain sep. Such labels make infix/unfix ambiguous.
func (p *Partition) LabelsContaining(sep string) []string {
	if sep == "" {
		return nil
	}
	var out []string
	for _, label := range p.labels {
		if strings.Contains(label, sep) {
			out = append(out, label)
		}
	}
	return out
}

// Duplicates lists labels that occur more than once. Only the first is reachable.
func (p *Partition) Duplicates() []string {
	seen := make(map[string]bool, len(p.labels))
	var out []string
	for _, label := range p.labels {
		if seen[label] && !slices.Contains(out, label) {
			out = append(out, label)
		}
		seen[label] = true
	}
	return out
}
