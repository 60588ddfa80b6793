package tracker

import "github.com/Dicklesworthstone/responsive_scopes/pkg/model"

// Event is the payload handed to listeners. It is a value; listeners may keep it.
type Event struct {
	ID       string
	Instance *Tracker
	Event    model.EventType
	model.Transition

	Label string
	Min   int
	Max   int
}

func newEvent(t *Tracker, typ model.EventType, state model.Transition, scope model.Scope) Event {
	return Event{
		ID:         t.id,
		Instance:   t,
		Event:      typ,
		Transition: state,
		Label:      scope.Label,
		Min:        scope.Min,
		Max:        scope.Max,
	}
}

// Scope returns the scope the event resolved to.
func (e Event) Scope() model.Scope {
	return model.Scope{Label: e.Label, Min: e.Min, Max: e.Max}
}

// Format is the orientation under its alternative name.
func (e Event) Format() model.Orientation {
	return e.Orientation
}

// PreviousFormat is the previous orientation under its alternative name.
func (e Event) PreviousFormat() model.Orientation {
	return e.PreviousOrientation
}
