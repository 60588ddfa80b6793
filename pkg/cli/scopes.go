package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/partition"
)

func newScopesCmd(a *app) *cobra.Command {
	var (
		file     string
		find     string
		markdown bool
		style    string
		wrap     int
	)
	cmd := &cobra.Command{
		Use:   "scopes",
		Short: "List the scopes of the configured partition",
		Example: `  rscopes scopes
  rscopes scopes --find lrg
  rscopes scopes --markdown --style dark`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, source, err := a.breakpoints(file)
			if err != nil {
				return err
			}
			p, err := partition.New(entries)
			if err != nil {
				return err
			}
			scopes := p.Scopes()
			if find != "" {
				scopes = findScopes(scopes, find)
				if len(scopes) == 0 {
					return fmt.Errorf("no scope matches %q", find)
				}
			}

			out := cmd.OutOrStdout()
			if !markdown {
				return writeScopeTable(out, scopes)
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithStylePath(style),
				glamour.WithWordWrap(wrap),
			)
			if err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
			rendered, err := r.Render(scopesMarkdown(scopes, source))
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, rendered)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "breakpoints", "b", "", "breakpoints file (.yaml, .json or .jsonl)")
	cmd.Flags().StringVarP(&find, "find", "f", "", "fuzzy-filter scopes by label")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render as a markdown table")
	cmd.Flags().StringVar(&style, "style", "auto", "markdown style: auto, dark, light, notty")
	cmd.Flags().IntVar(&wrap, "wrap", 80, "markdown word wrap width")
	return cmd
}

// findScopes keeps the scopes whose labels fuzzy-match pattern, best match first.
func findScopes(scopes []model.Scope, pattern string) []model.Scope {
	labels := make([]string, len(scopes))
	for i, s := range scopes {
		labels[i] = s.Label
	}
	matches := fuzzy.Find(pattern, labels)
	found := make([]model.Scope, 0, len(matches))
	for _, m := range matches {
		found = append(found, scopes[m.Index])
	}
	return found
}

func writeScopeTable(w io.Writer, scopes []model.Scope) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tMIN\tMAX")
	for _, s := range scopes {
		upper := "inf"
		if !s.IsUnbounded() {
			upper = fmt.Sprint(s.Max)
		}
		note := ""
		if s.IsEmpty() {
			note = "\t(unreachable)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s%s\n", s.Label, s.Min, upper, note)
	}
	return tw.Flush()
}

func scopesMarkdown(scopes []model.Scope, source string) string {
	var sb strings.Builder
	sb.WriteString("# Scopes\n\n")
	if source != "" {
		fmt.Fprintf(&sb, "Loaded from `%s`.\n\n", source)
	}
	sb.WriteString("| Label | Min | Max |\n|---|---:|---:|\n")
	for _, s := range scopes {
		upper := "∞"
		if !s.IsUnbounded() {
			upper = fmt.Sprint(s.Max)
		}
		fmt.Fprintf(&sb, "| `%s` | %d | %s |\n", s.Label, s.Min, upper)
	}
	return sb.String()
}
