// Package viewport provides width/height sources and resize notification
// sources for hosting a scope tracker: a settable static viewport and a
// terminal backed by x/term and SIGWINCH.
package viewport

import (
	"log/slog"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
)

// subscription represents a registered resize handler.
type subscription struct {
	id      string
	handler func()
}

// Broadcaster is a synchronous resize notification source.
// Handlers are called in subscription order; it is safe for concurrent use.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID atomic.Uint64
	logger *slog.Logger
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{logger: slog.New(slog.DiscardHandler)}
}

// SetLogger sets the logger used to report handler panics.
func (b *Broadcaster) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = logger
}

// Subscribe registers handler and returns an ID for Unsubscribe.
func (b *Broadcaster) Subscribe(handler func()) string {
	id := "resize-" + strconv.FormatUint(b.nextID.Add(1), 10)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription by ID.
// Returns true if the subscription was found and removed.
func (b *Broadcaster) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Notify calls every handler. A panicking handler is logged and recovered
// so the remaining handlers still run.
func (b *Broadcaster) Notify() {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	logger := b.logger
	b.mu.RUnlock()

	for _, sub := range subs {
		safeCall(logger, sub)
	}
}

func safeCall(logger *slog.Logger, sub subscription) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("resize handler panicked",
				"subscription", sub.id, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	sub.handler()
}

// Count returns the number of active subscriptions.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

