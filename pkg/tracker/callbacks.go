package tracker

import (
	"fmt"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
)

// Listener is a registered callback. Its pointer is its identity, so the same
// handle can be added to several registries and removed from each.
type Listener struct {
	fn func(Event)
}

// NewListener wraps fn in a handle. It returns nil for a nil fn.
func NewListener(fn func(Event)) *Listener {
	if fn == nil {
		return nil
	}
	return &Listener{fn: fn}
}

// eventNames is the vocabulary offered in suggestions for misspelled names.
var eventNames = []string{
	string(model.EventUp),
	string(model.EventDown),
	string(model.EventChanged),
	string(model.EventOrientated),
	model.EventFormated,
}

func (t *Tracker) parseEvent(name string) (model.EventType, error) {
	typ, ok := model.ParseEventType(name)
	if ok {
		return typ, nil
	}
	if matches := fuzzy.Find(name, eventNames); len(matches) > 0 {
		t.logger.Warn("unknown event type", "name", name, "suggestion", matches[0].Str)
		return "", fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownEvent, name, matches[0].Str)
	}
	t.logger.Warn("unknown event type", "name", name)
	return "", fmt.Errorf("%w %q", ErrUnknownEvent, name)
}

// On adds l to the registry named by name. Adding a listener that is already
// registered there is a no-op.
func (t *Tracker) On(name string, l *Listener) error {
	if l == nil {
		return ErrNilListener
	}
	typ, err := t.parseEvent(name)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if !slices.Contains(t.registries[typ], l) {
		t.registries[typ] = append(t.registries[typ], l)
	}
	t.reconcileLocked()
	return nil
}

// Off removes listeners. An empty name clears every registry and cancels any
// pending evaluation; a nil l clears the named registry; otherwise only l is
// removed from it.
func (t *Tracker) Off(name string, l *Listener) error {
	if name == "" {
		t.mu.Lock()
		clear(t.registries)
		t.reconcileLocked()
		t.mu.Unlock()
		t.debouncer.Cancel()
		return nil
	}

	typ, err := t.parseEvent(name)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case l == nil:
		delete(t.registries, typ)
	default:
		t.registries[typ] = slices.DeleteFunc(slices.Clone(t.registries[typ]), func(x *Listener) bool {
			return x == l
		})
		if len(t.registries[typ]) == 0 {
			delete(t.registries, typ)
		}
	}
	t.reconcileLocked()
	return nil
}

// Up registers fn for growth into a larger scope.
func (t *Tracker) Up(fn func(Event)) *Listener {
	return t.sugar(model.EventUp, fn)
}

// Down registers fn for shrinking into a smaller scope.
func (t *Tracker) Down(fn func(Event)) *Listener {
	return t.sugar(model.EventDown, fn)
}

// Changed registers fn for any scope change.
func (t *Tracker) Changed(fn func(Event)) *Listener {
	return t.sugar(model.EventChanged, fn)
}

// Orientated registers fn for portrait/landscape flips.
func (t *Tracker) Orientated(fn func(Event)) *Listener {
	return t.sugar(model.EventOrientated, fn)
}

// sugar returns nil when fn is nil or the tracker is closed.
func (t *Tracker) sugar(typ model.EventType, fn func(Event)) *Listener {
	l := NewListener(fn)
	if l == nil {
		return nil
	}
	if err := t.On(string(typ), l); err != nil {
		return nil
	}
	return l
}

// Listeners returns the number of listeners registered for name.
func (t *Tracker) Listeners(name string) int {
	typ, ok := model.ParseEventType(name)
	if !ok {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.registries[typ])
}

func (t *Tracker) hasCallbacksLocked() bool {
	for _, ls := range t.registries {
		if len(ls) > 0 {
			return true
		}
	}
	return false
}
