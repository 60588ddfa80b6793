// Package tracker follows which scope of a partition a live width falls into
// and notifies listeners when that scope changes.
//
// # Main Types
//
//   - [Tracker]: owns one partition, the current transition state, a debouncer
//     and four listener registries (up, down, changed, orientated)
//   - [Listener]: a registered callback; its pointer is its identity
//   - [Event]: the immutable payload handed to listeners
//   - [Factory]: creates trackers from shared [Defaults] and looks them up by ID
//
// # Resolution
//
// [Tracker.Update] reads the width and height from the [Source], selects the
// first scope whose Max is at or above the width and records the transition.
// It never fires listeners.
//
// # Notification
//
// While the tracker listens, every resize notification restarts the inertia
// window. When the window passes without the width moving, the tracker
// resolves and fires, in order: orientated (if the orientation flipped),
// changed (if the scope index moved) and exactly one of up or down.
//
// The tracker listens only while auto update is on, or while listeners are
// registered and callbacks are enabled.
//
// # Basic Usage
//
//	screen := viewport.NewStatic(1024, 768)
//	tr, err := tracker.New(tracker.Environment{Source: screen, Notifier: screen},
//	    []model.Entry{model.At("sm", 0), model.At("md", 800), model.At("lg", 1920)})
//	if err != nil {
//	    return err
//	}
//	defer tr.Close()
//
//	tr.Up(func(e tracker.Event) {
//	    log.Printf("grew into %s (%d..%d)", e.Label, e.Min, e.Max)
//	})
//
//	img := tr.Infix("images/hero.png") // "images/hero_md.png"
package tracker
