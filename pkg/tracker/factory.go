package tracker

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
)

// Factory creates trackers from shared defaults and keeps them addressable by ID.
type Factory struct {
	env Environment

	mu       sync.Mutex
	defaults Defaults
	trackers map[string]*Tracker
	order    []string
	next     int
}

// NewFactory returns a factory whose trackers share env.
func NewFactory(env Environment, defaults Defaults) *Factory {
	return &Factory{
		env:      env,
		defaults: defaults.Clone(),
		trackers: make(map[string]*Tracker),
	}
}

// New creates and registers a tracker from the factory's current defaults.
// Options override the defaults. Trackers without WithID get "rscopes_N" IDs.
func (f *Factory) New(entries []model.Entry, opts ...Option) (*Tracker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := append([]Option{WithDefaults(f.defaults)}, opts...)
	id := newSettings(all).id
	if id == "" {
		for {
			f.next++
			id = fmt.Sprintf("rscopes_%d", f.next)
			if _, taken := f.trackers[id]; !taken {
				break
			}
		}
		all = append(all, WithID(id))
	} else if _, taken := f.trackers[id]; taken {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}

	t, err := New(f.env, entries, all...)
	if err != nil {
		return nil, err
	}
	f.trackers[id] = t
	f.order = append(f.order, id)
	return t, nil
}

// Get returns the tracker registered under id. An empty id returns the
// earliest created tracker that is still registered.
func (f *Factory) Get(id string) (*Tracker, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "" {
		if len(f.order) == 0 {
			return nil, false
		}
		id = f.order[0]
	}
	t, ok := f.trackers[id]
	return t, ok
}

// Defaults returns a copy of the defaults used for new trackers.
func (f *Factory) Defaults() Defaults {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.defaults.Clone()
}

// SetDefaults replaces the defaults. Existing trackers are not affected.
func (f *Factory) SetDefaults(d Defaults) error {
	if err := d.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defaults = d.Clone()
	return nil
}

// Release closes the tracker registered under id and forgets it.
func (f *Factory) Release(id string) bool {
	f.mu.Lock()
	t, ok := f.trackers[id]
	if ok {
		delete(f.trackers, id)
		f.order = slices.DeleteFunc(f.order, func(s string) bool { return s == id })
	}
	f.mu.Unlock()

	if ok {
		t.Close()
	}
	return ok
}

// IDs lists registered tracker IDs in creation order.
func (f *Factory) IDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.order)
}

// Close releases every registered tracker.
func (f *Factory) Close() {
	for _, id := range f.IDs() {
		f.Release(id)
	}
}
