package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/loader"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/tracker"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/ui"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/viewport"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/watcher"
)

type watchOptions struct {
	file    string
	inertia time.Duration
	plain   bool
	noWatch bool
}

func newWatchCmd(a *app) *cobra.Command {
	var opts watchOptions
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the terminal's scope as it is resized",
		Long: `Track the terminal width against the partition and report every scope
transition. On a terminal this opens a live view; with --plain, or when
stdout is not a terminal, transitions are printed one per line.

The breakpoints file, if any, is reloaded when it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var trackerOpts []tracker.Option
			if cmd.Flags().Changed("inertia") {
				if opts.inertia < 0 {
					return fmt.Errorf("--inertia must not be negative")
				}
				trackerOpts = append(trackerOpts, tracker.WithInertia(opts.inertia))
			}

			term := viewport.Stdout()
			if opts.plain || !term.IsTerminal() {
				return a.watchPlain(ctx, cmd.OutOrStdout(), term, opts, trackerOpts)
			}
			return a.watchTUI(ctx, term, opts, trackerOpts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "breakpoints", "b", "", "breakpoints file (.yaml, .json or .jsonl)")
	cmd.Flags().DurationVarP(&opts.inertia, "inertia", "i", 0, "debounce delay, e.g. 250ms (default from config)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print transitions as lines instead of the live view")
	cmd.Flags().BoolVar(&opts.noWatch, "no-reload", false, "do not reload the breakpoints file when it changes")
	return cmd
}

// watchPlain prints transitions of the terminal's tracker to out until ctx is done.
func (a *app) watchPlain(ctx context.Context, out io.Writer, term *viewport.Terminal, opts watchOptions, trackerOpts []tracker.Option) error {
	entries, source, err := a.breakpoints(opts.file)
	if err != nil {
		return err
	}
	term.SetLogger(a.logger)
	tr, err := tracker.New(tracker.Environment{Source: term, Notifier: term, Logger: a.logger}, entries,
		append([]tracker.Option{tracker.WithDefaults(a.cfg.TrackerDefaults())}, trackerOpts...)...)
	if err != nil {
		return err
	}
	defer tr.Close()

	var mu sync.Mutex
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	if scope, ok := tr.Scope(); ok {
		state := tr.Transition()
		printf("%s %s width=%d %s\n", time.Now().Format(time.TimeOnly), scope, state.Value, state.Orientation)
	} else {
		printf("no scopes defined\n")
	}
	for _, typ := range model.EventTypes() {
		if err := tr.On(string(typ), tracker.NewListener(func(e tracker.Event) {
			printf("%s %s\n", time.Now().Format(time.TimeOnly), describeEvent(e))
		})); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return term.Watch(gctx)
	})
	if source != "" && !opts.noWatch {
		fw, err := a.breakpointsWatcher(source, func(entries []model.Entry, err error) {
			if err != nil {
				printf("reload %s failed: %v\n", source, err)
				return
			}
			if err := tr.Define(entries); err != nil {
				printf("reload %s rejected: %v\n", source, err)
				return
			}
			if scope, ok := tr.Update(); ok {
				printf("reloaded %s: now %s\n", source, scope)
			}
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := fw.Start(gctx); err != nil {
				return err
			}
			<-gctx.Done()
			fw.Stop()
			return nil
		})
	}
	return g.Wait()
}

// watchTUI runs the live view. Bubble Tea owns the terminal, so resizes arrive
// as WindowSizeMsg and reach the tracker through a Static viewport.
func (a *app) watchTUI(ctx context.Context, term *viewport.Terminal, opts watchOptions, trackerOpts []tracker.Option) error {
	entries, source, err := a.breakpoints(opts.file)
	if err != nil {
		return err
	}
	logger := a.quietLogger()

	screen := viewport.NewStatic(term.Size())
	screen.SetLogger(logger)
	tr, err := tracker.New(tracker.Environment{Source: screen, Notifier: screen, Logger: logger}, entries,
		append([]tracker.Option{tracker.WithDefaults(a.cfg.TrackerDefaults())}, trackerOpts...)...)
	if err != nil {
		return err
	}
	defer tr.Close()

	m, err := ui.NewModel(tr, screen, ui.Options{
		MaxLogLines: a.cfg.UI.MaxLogLines,
		ShowHelp:    a.cfg.UI.ShowHelp,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if source != "" && !opts.noWatch {
		fw, err := a.breakpointsWatcher(source, func(entries []model.Entry, err error) {
			p.Send(ui.ReloadMsg{Source: source, Entries: entries, Err: err})
		})
		if err != nil {
			return err
		}
		if err := fw.Start(ctx); err != nil {
			return err
		}
		defer fw.Stop()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// breakpointsWatcher reloads path on every settled change and hands the result to onReload.
func (a *app) breakpointsWatcher(path string, onReload func([]model.Entry, error)) (*watcher.FileWatcher, error) {
	return watcher.NewFileWatcher(path, func(changed string) {
		entries, err := loader.LoadBreakpointsFromFile(changed)
		if err != nil {
			a.logger.Warn("failed to reload breakpoints", "path", changed, "error", err)
		} else {
			a.logger.Info("breakpoints changed", "path", changed, "entries", len(entries))
		}
		onReload(entries, err)
	}, watcher.WithWatcherLogger(a.logger))
}

func describeEvent(e tracker.Event) string {
	switch e.Event {
	case model.EventOrientated:
		return fmt.Sprintf("orientated %s -> %s (ratio %.2f)", e.PreviousOrientation, e.Orientation, e.Ratio)
	case model.EventChanged:
		return fmt.Sprintf("changed    %d -> %d (%s, width %d)", e.PreviousIndex, e.Index, e.Label, e.Value)
	default:
		return fmt.Sprintf("%-10s %s [%s]", e.Event, e.Label, rangeText(e.Scope()))
	}
}
