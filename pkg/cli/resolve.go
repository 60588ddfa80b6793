package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/tracker"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/viewport"
)

// resolution is the machine-readable output of resolve.
type resolution struct {
	Label       string            `json:"label"`
	Index       int               `json:"index"`
	Min         int               `json:"min"`
	Max         *int              `json:"max"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Ratio       *float64          `json:"ratio"`
	Orientation model.Orientation `json:"orientation"`
}

func newResolveCmd(a *app) *cobra.Command {
	var (
		width, height int
		file          string
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the scope a width falls into",
		Example: `  rscopes resolve --width 900
  rscopes resolve --width 900 --height 1200 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width < 0 {
				return fmt.Errorf("--width must not be negative")
			}
			tr, err := a.staticTracker(file, width, height)
			if err != nil {
				return err
			}
			defer tr.Close()

			scope, ok := tr.Scope()
			if !ok {
				return fmt.Errorf("no scopes defined")
			}
			return writeResolution(cmd.OutOrStdout(), tr.Transition(), scope, asJSON)
		},
	}
	cmd.Flags().IntVarP(&width, "width", "W", 0, "width to resolve")
	cmd.Flags().IntVarP(&height, "height", "H", 0, "height, used for the ratio and orientation (default: same as width)")
	cmd.Flags().StringVarP(&file, "breakpoints", "b", "", "breakpoints file (.yaml, .json or .jsonl)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("width")
	return cmd
}

// staticTracker resolves the configured partition once against a fixed size.
// A non-positive height is replaced by width: a square, portrait at ratio 1.
func (a *app) staticTracker(file string, width, height int) (*tracker.Tracker, error) {
	entries, _, err := a.breakpoints(file)
	if err != nil {
		return nil, err
	}
	if height <= 0 {
		height = width
	}
	screen := viewport.NewStatic(width, height)
	return tracker.New(tracker.Environment{Source: screen, Logger: a.logger}, entries,
		tracker.WithDefaults(a.cfg.TrackerDefaults()),
		tracker.WithAutoUpdate(false))
}

func writeResolution(w io.Writer, state model.Transition, scope model.Scope, asJSON bool) error {
	if !asJSON {
		ratio := "inf"
		if !math.IsInf(state.Ratio, 0) {
			ratio = fmt.Sprintf("%.3f", state.Ratio)
		}
		_, err := fmt.Fprintf(w, "%s\t%s\twidth=%d height=%d ratio=%s %s\n",
			scope.Label, rangeText(scope), state.Value, state.Height, ratio, state.Orientation)
		return err
	}

	out := resolution{
		Label:       scope.Label,
		Index:       state.Index,
		Min:         scope.Min,
		Width:       state.Value,
		Height:      state.Height,
		Orientation: state.Orientation,
	}
	if !scope.IsUnbounded() {
		upper := scope.Max
		out.Max = &upper
	}
	if !math.IsInf(state.Ratio, 0) {
		ratio := state.Ratio
		out.Ratio = &ratio
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func rangeText(s model.Scope) string {
	if s.IsUnbounded() {
		return fmt.Sprintf("%d+", s.Min)
	}
	return fmt.Sprintf("%d-%d", s.Min, s.Max)
}
