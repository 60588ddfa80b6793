package cli

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/tracker"
)

func newInfixCmd(a *app) *cobra.Command {
	var (
		width, height int
		file          string
		copyResult    bool
	)
	cmd := &cobra.Command{
		Use:   "infix PATH",
		Short: "Insert the scope label for a width into a path",
		Long: `Insert the label of the scope that --width falls into before the path's
extension, replacing any scope label already there.`,
		Example: `  rscopes infix images/hero.png --width 900     # images/hero_md.png
  rscopes infix images/hero_sm.png --width 1400 # images/hero_xl.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.staticTracker(file, width, height)
			if err != nil {
				return err
			}
			defer tr.Close()

			out := tr.Infix(args[0])
			if copyResult {
				if err := clipboard.WriteAll(out); err != nil {
					a.logger.Warn("could not copy to clipboard", "error", err)
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().IntVarP(&width, "width", "W", 0, "width whose scope label is inserted")
	cmd.Flags().IntVarP(&height, "height", "H", 0, "height (default: same as width)")
	cmd.Flags().StringVarP(&file, "breakpoints", "b", "", "breakpoints file (.yaml, .json or .jsonl)")
	cmd.Flags().BoolVar(&copyResult, "copy", false, "also copy the result to the clipboard")
	_ = cmd.MarkFlagRequired("width")
	return cmd
}

func newUnfixCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "unfix PATH",
		Short: "Remove a scope label from a path",
		Example: `  rscopes unfix images/hero_md.png # images/hero.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, _, err := a.breakpoints(file)
			if err != nil {
				return err
			}
			tr, err := tracker.New(tracker.Environment{Source: zeroSource{}, Logger: a.logger}, entries,
				tracker.WithDefaults(a.cfg.TrackerDefaults()),
				tracker.WithAutoUpdate(false))
			if err != nil {
				return err
			}
			defer tr.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), tr.Unfix(args[0]))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "breakpoints", "b", "", "breakpoints file (.yaml, .json or .jsonl)")
	return cmd
}

// zeroSource is a size source for commands that never resolve against a real surface.
type zeroSource struct{}

func (zeroSource) Size() (int, int) { return 0, 0 }
