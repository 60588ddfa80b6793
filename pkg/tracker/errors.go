package tracker

import "errors"

var (
	// ErrNoSource is returned when a tracker is created without a size source.
	ErrNoSource = errors.New("tracker: environment has no size source")

	// ErrUnknownEvent is returned for event names other than up, down, changed and orientated.
	ErrUnknownEvent = errors.New("tracker: unknown event type")

	// ErrNilListener is returned when registering a nil listener.
	ErrNilListener = errors.New("tracker: nil listener")

	// ErrInvalidSeparator is returned for an empty separator.
	ErrInvalidSeparator = errors.New("tracker: separator cannot be empty")

	// ErrInvalidInertia is returned for a negative debounce delay.
	ErrInvalidInertia = errors.New("tracker: inertia cannot be negative")

	// ErrDuplicateID is returned when a factory already holds a tracker with the requested ID.
	ErrDuplicateID = errors.New("tracker: duplicate tracker id")

	// ErrClosed is returned when registering listeners on a closed tracker.
	ErrClosed = errors.New("tracker: closed")
)
