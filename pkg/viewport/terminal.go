package viewport

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/term"
)

// Fallback terminal size used when the descriptor is not a terminal.
const (
	FallbackWidth  = 80
	FallbackHeight = 24
)

// DefaultPollInterval is how often Terminal polls its size on platforms without SIGWINCH.
const DefaultPollInterval = 250 * time.Millisecond

// Terminal is a viewport backed by a terminal file descriptor.
// Width and height are measured in character cells.
type Terminal struct {
	*Broadcaster

	fd           int
	pollInterval time.Duration
	getSize      func(fd int) (int, int, error)

	mu       sync.Mutex
	lastW    int
	lastH    int
	watching bool
}

// NewTerminal creates a Terminal for fd, typically int(os.Stdout.Fd()).
func NewTerminal(fd int) *Terminal {
	return &Terminal{
		Broadcaster:  NewBroadcaster(),
		fd:           fd,
		pollInterval: DefaultPollInterval,
		getSize:      term.GetSize,
	}
}

// Stdout returns a Terminal for the process's standard output.
func Stdout() *Terminal {
	return NewTerminal(int(os.Stdout.Fd()))
}

// IsTerminal reports whether the descriptor refers to a terminal.
func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(t.fd)
}

// Size returns the terminal's columns and rows, or the fallback size when
// the descriptor is not a terminal.
func (t *Terminal) Size() (width, height int) {
	w, h, err := t.getSize(t.fd)
	if err != nil || w <= 0 || h <= 0 {
		return FallbackWidth, FallbackHeight
	}
	return w, h
}

// Watch notifies subscribers on every terminal resize until ctx is done.
// It uses SIGWINCH where available and polling otherwise.
func (t *Terminal) Watch(ctx context.Context) error {
	t.mu.Lock()
	if t.watching {
		t.mu.Unlock()
		return fmt.Errorf("terminal: already watching")
	}
	t.watching = true
	t.lastW, t.lastH = t.Size()
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.watching = false
		t.mu.Unlock()
	}()

	if sigs := resizeSignals(); len(sigs) > 0 {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, sigs...)
		defer signal.Stop(ch)

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ch:
				t.Notify()
			}
		}
	}

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if t.sizeChanged() {
				t.Notify()
			}
		}
	}
}

func (t *Terminal) sizeChanged() bool {
	w, h := t.Size()
	t.mu.Lock()
	defer t.mu.Unlock()
	if w == t.lastW && h == t.lastH {
		return false
	}
	t.lastW, t.lastH = w, h
	return true
}
