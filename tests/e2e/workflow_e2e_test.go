package main_test

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

// TestWorkflow_NewProject initializes a project and resolves against its breakpoints.
func TestWorkflow_NewProject(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()

	// Step 1: built-in breakpoints before init
	res := run(t, bin, dir, "resolve", "--width", "900")
	if res.err != nil {
		t.Fatalf("resolve: %v\n%s", res.err, res.stderr)
	}
	if !strings.HasPrefix(res.stdout, "md\t") {
		t.Errorf("built-in resolve = %q", res.stdout)
	}

	// Step 2: write the tailwind preset
	res = run(t, bin, dir, "init", "--yes", "--preset", "tailwind")
	if res.err != nil {
		t.Fatalf("init: %v\n%s", res.err, res.stderr)
	}

	// Step 3: the project file now wins
	res = run(t, bin, dir, "resolve", "--width", "1100", "--height", "700", "--json")
	if res.err != nil {
		t.Fatalf("resolve --json: %v\n%s", res.err, res.stderr)
	}
	var got struct {
		Label       string   `json:"label"`
		Min         int      `json:"min"`
		Max         *int     `json:"max"`
		Ratio       *float64 `json:"ratio"`
		Orientation string   `json:"orientation"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("decode %q: %v", res.stdout, err)
	}
	if got.Label != "lg" || got.Min != 1024 || got.Max == nil || *got.Max != 1279 {
		t.Errorf("resolve = %+v", got)
	}
	if got.Orientation != "landscape" {
		t.Errorf("orientation = %q", got.Orientation)
	}

	// Step 4: path rewriting follows the same partition
	res = run(t, bin, dir, "infix", "assets/hero_sm.png", "--width", "1600")
	if res.err != nil {
		t.Fatalf("infix: %v", res.err)
	}
	if strings.TrimSpace(res.stdout) != "assets/hero_2xl.png" {
		t.Errorf("infix = %q", res.stdout)
	}
	res = run(t, bin, dir, "unfix", "assets/hero_2xl.png")
	if strings.TrimSpace(res.stdout) != "assets/hero.png" {
		t.Errorf("unfix = %q", res.stdout)
	}

	// Step 5: listing reports every scope
	res = run(t, bin, dir, "scopes")
	for _, label := range []string{"base", "sm", "md", "lg", "xl", "2xl"} {
		if !strings.Contains(res.stdout, label) {
			t.Errorf("scopes missing %q:\n%s", label, res.stdout)
		}
	}
}

// TestWorkflow_ConfigFile drives separator and breakpoints from a config file.
func TestWorkflow_ConfigFile(t *testing.T) {
	bin := buildBinary(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, ".rscopes", "config.yaml"), `scopes:
  separator: "."
  breakpoints:
    - label: lo
    - label: hi
      min: 1000
`)
	res := run(t, bin, dir, "infix", "img/a.png", "--width", "1000")
	if res.err != nil {
		t.Fatalf("infix: %v\n%s", res.err, res.stderr)
	}
	if got := strings.TrimSpace(res.stdout); got != "img/a.hi.png" {
		t.Errorf("infix = %q, want img/a.hi.png", got)
	}
}

// TestWorkflow_Version prints a version line.
func TestWorkflow_Version(t *testing.T) {
	bin := buildBinary(t)
	res := run(t, bin, t.TempDir(), "version")
	if res.err != nil || !strings.HasPrefix(res.stdout, "rscopes ") {
		t.Errorf("version = %q, err = %v", res.stdout, res.err)
	}
}
