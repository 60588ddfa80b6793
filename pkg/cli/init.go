package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/loader"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/tracker"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/ui"
)

// Presets offered by init.
const (
	PresetDefault   = "default"
	PresetBootstrap = "bootstrap"
	PresetTailwind  = "tailwind"
	PresetTerminal  = "terminal"
)

var presetNames = []string{PresetDefault, PresetBootstrap, PresetTailwind, PresetTerminal}

// presetEntries returns the breakpoints of a named preset.
func presetEntries(name string) ([]model.Entry, error) {
	switch name {
	case PresetDefault:
		return tracker.DefaultBreakpoints(), nil
	case PresetBootstrap:
		return []model.Entry{
			model.Base("xs"),
			model.At("sm", 576),
			model.At("md", 768),
			model.At("lg", 992),
			model.At("xl", 1200),
			model.At("xxl", 1400),
		}, nil
	case PresetTailwind:
		return []model.Entry{
			model.Base("base"),
			model.At("sm", 640),
			model.At("md", 768),
			model.At("lg", 1024),
			model.At("xl", 1280),
			model.At("2xl", 1536),
		}, nil
	case PresetTerminal:
		return ui.LayoutBreakpoints(), nil
	default:
		return nil, fmt.Errorf("unknown preset %q (want one of %v)", name, presetNames)
	}
}

func newInitCmd(a *app) *cobra.Command {
	var (
		path   string
		preset string
		yes    bool
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a breakpoints file for this project",
		Long: `Write a breakpoints file from a preset. Without --yes an interactive form
asks for the preset and confirms before writing.`,
		Example: `  rscopes init
  rscopes init --yes --preset tailwind
  rscopes init --yes --preset terminal --path scopes.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				confirmed := true
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewSelect[string]().
							Title("Breakpoint preset").
							Options(huh.NewOptions(presetNames...)...).
							Value(&preset),
						huh.NewInput().
							Title("Write to").
							Value(&path),
						huh.NewConfirm().
							Title("Write the breakpoints file?").
							Value(&confirmed),
					),
				)
				if err := form.Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing written.")
					return nil
				}
			}
			if !slices.Contains(presetNames, preset) {
				return fmt.Errorf("unknown preset %q (want one of %v)", preset, presetNames)
			}
			if path == "" {
				path = loader.DefaultPath(".")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			entries, err := presetEntries(preset)
			if err != nil {
				return err
			}
			if err := loader.WriteBreakpoints(path, entries); err != nil {
				return err
			}
			a.logger.Info("wrote breakpoints", "path", path, "preset", preset)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d breakpoints (%s) to %s\n", len(entries), preset, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "file to write (default .rscopes/breakpoints.yaml)")
	cmd.Flags().StringVar(&preset, "preset", PresetDefault, "preset: default, bootstrap, tailwind, terminal")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the interactive form")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
