package tracker

import (
	"runtime/debug"
	"slices"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
)

func (t *Tracker) shouldListenLocked() bool {
	if t.closed || t.env.Notifier == nil {
		return false
	}
	return t.autoUpdate || (t.callbacksEnabled && t.hasCallbacksLocked())
}

// reconcileLocked subscribes or unsubscribes so that listening matches shouldListenLocked.
func (t *Tracker) reconcileLocked() {
	should := t.shouldListenLocked()
	switch {
	case should && !t.listening:
		t.subscription = t.env.Notifier.Subscribe(t.handleResize)
		t.listening = true
		t.logger.Debug("listening for resize notifications")
	case !should && t.listening:
		t.env.Notifier.Unsubscribe(t.subscription)
		t.subscription = ""
		t.listening = false
		t.debouncer.Cancel()
		t.logger.Debug("stopped listening for resize notifications")
	}
}

// handleResize restarts the inertia window for one raw resize notification.
func (t *Tracker) handleResize() {
	t.mu.Lock()
	if !t.listening {
		t.mu.Unlock()
		return
	}
	t.debouncer.Cancel()
	width, _ := t.env.Source.Size()
	t.cachedWidth = width
	inertia := t.inertia
	t.mu.Unlock()

	if inertia == 0 {
		t.evaluate()
		return
	}
	t.debouncer.Trigger(t.settle)
}

// settle evaluates only if the width has not moved since the notification that
// scheduled it; otherwise a fresher notification owns the evaluation.
func (t *Tracker) settle() {
	t.mu.Lock()
	width, _ := t.env.Source.Size()
	settled := t.listening && width == t.cachedWidth
	t.mu.Unlock()

	if settled {
		t.evaluate()
	}
}

// evaluate resolves and fires the registries the transition calls for.
func (t *Tracker) evaluate() {
	t.mu.Lock()
	if _, ok := t.updateLocked(); !ok {
		t.mu.Unlock()
		return
	}
	state, scope := t.state, t.scope
	enabled := t.callbacksEnabled
	t.mu.Unlock()

	t.logger.Debug("resize settled",
		"label", scope.Label, "index", state.Index, "change", state.Change,
		"width", state.Value, "orientation", state.Orientation)

	if !enabled {
		return
	}

	var fire []model.EventType
	if state.OrientationChanged() {
		fire = append(fire, model.EventOrientated)
	}
	if state.Change != 0 {
		fire = append(fire, model.EventChanged, state.Direction())
	}
	for _, typ := range fire {
		t.fire(typ, state, scope)
	}
}

// fire delivers one event to a snapshot of the typ registry taken right before dispatch.
func (t *Tracker) fire(typ model.EventType, state model.Transition, scope model.Scope) {
	t.mu.Lock()
	if !t.callbacksEnabled || t.closed {
		t.mu.Unlock()
		return
	}
	listeners := slices.Clone(t.registries[typ])
	t.mu.Unlock()

	if len(listeners) == 0 {
		return
	}
	ev := newEvent(t, typ, state, scope)
	for _, l := range listeners {
		t.safeCall(l, ev)
	}
}

func (t *Tracker) safeCall(l *Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("listener panicked",
				"event", ev.Event, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	l.fn(ev)
}
