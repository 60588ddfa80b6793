package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
)

// ErrUnsupportedFormat is returned for breakpoint files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported breakpoints format")

// DefaultDir and DefaultFile locate the project breakpoints file relative to a repository.
const (
	DefaultDir  = ".rscopes"
	DefaultFile = "breakpoints.yaml"
)

// DefaultPath returns the breakpoints file path inside repoPath.
func DefaultPath(repoPath string) string {
	return filepath.Join(repoPath, DefaultDir, DefaultFile)
}

// LoadBreakpoints reads breakpoints from .rscopes/breakpoints.yaml in the given repository path.
func LoadBreakpoints(repoPath string) ([]model.Entry, error) {
	if repoPath == "" {
		var err error
		repoPath, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	return LoadBreakpointsFromFile(DefaultPath(repoPath))
}

// LoadBreakpointsFromFile reads breakpoints from a YAML, JSON or JSONL file.
func LoadBreakpointsFromFile(path string) ([]model.Entry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no breakpoints found at %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open breakpoints file: %w", err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl":
		return ReadJSONL(file)
	case ".yaml", ".yml", ".json":
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("error reading breakpoints file: %w", err)
		}
		entries, err := ParseBreakpoints(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ReadJSONL reads one {"label": ..., "min": ...} object per line.
// Blank and malformed lines are skipped.
func ReadJSONL(r io.Reader) ([]model.Entry, error) {
	entries := []model.Entry{}
	scanner := bufio.NewScanner(r)
	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, 0, 64*1024), maxCapacity)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry model.Entry
		if err := json.Unmarshal(line, &entry); err != nil || entry.Label == "" {
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading breakpoints file: %w", err)
	}
	return entries, nil
}

// ParseBreakpoints decodes a YAML or JSON breakpoint document, keeping its order.
//
// Accepted shapes:
//
//	sm: 0                      # mapping of label to threshold
//	md: 800
//
//	- {label: sm, min: 0}      # list of entries
//	- [md, 800]                # label/threshold pairs
//	- xs                       # bare label, threshold omitted
//
// Any of these may also be nested under a top-level "breakpoints" key.
func ParseBreakpoints(data []byte) ([]model.Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse breakpoints: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return []model.Entry{}, nil
	}

	root := doc.Content[0]
	if nested := breakpointsKey(root); nested != nil {
		root = nested
	}

	switch root.Kind {
	case yaml.MappingNode:
		return entriesFromMapping(root)
	case yaml.SequenceNode:
		return entriesFromSequence(root)
	case yaml.ScalarNode:
		if root.Tag == "!!null" {
			return []model.Entry{}, nil
		}
	}
	return nil, fmt.Errorf("line %d: breakpoints must be a mapping or a list", root.Line)
}

func breakpointsKey(n *yaml.Node) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Value == "breakpoints" && (val.Kind == yaml.MappingNode || val.Kind == yaml.SequenceNode) {
			return val
		}
	}
	return nil
}

func entriesFromMapping(n *yaml.Node) ([]model.Entry, error) {
	entries := make([]model.Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		threshold, err := thresholdOf(val)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q: %w", val.Line, key.Value, err)
		}
		entries = append(entries, model.Entry{Label: key.Value, Threshold: threshold})
	}
	return entries, nil
}

func entriesFromSequence(n *yaml.Node) ([]model.Entry, error) {
	entries := make([]model.Entry, 0, len(n.Content))
	for _, item := range n.Content {
		var entry model.Entry
		switch item.Kind {
		case yaml.ScalarNode:
			entry.Label = item.Value
		case yaml.MappingNode:
			if err := item.Decode(&entry); err != nil {
				return nil, fmt.Errorf("line %d: %w", item.Line, err)
			}
		case yaml.SequenceNode:
			if len(item.Content) == 0 || len(item.Content) > 2 {
				return nil, fmt.Errorf("line %d: pair must be [label] or [label, min]", item.Line)
			}
			entry.Label = item.Content[0].Value
			if len(item.Content) == 2 {
				threshold, err := thresholdOf(item.Content[1])
				if err != nil {
					return nil, fmt.Errorf("line %d: %q: %w", item.Line, entry.Label, err)
				}
				entry.Threshold = threshold
			}
		default:
			return nil, fmt.Errorf("line %d: unexpected breakpoint entry", item.Line)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func thresholdOf(n *yaml.Node) (*int, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("threshold must be a number")
	}
	if n.Tag == "!!null" || n.Value == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(n.Value)
	if err != nil {
		return nil, fmt.Errorf("threshold %q is not an integer", n.Value)
	}
	return &v, nil
}
