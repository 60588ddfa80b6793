package partition

import "strings"

// SplitPath splits p into directory (with trailing slash), base name and extension (with dot).
func SplitPath(p string) (dir, name, ext string) {
	name = p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		dir, name = p[:i+1], p[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name, ext = name[:i], name[i:]
	}
	return dir, name, ext
}

// StripLabel removes a trailing sep+label from name when label is one of labels.
// The longest matching label wins, so labels that contain sep are stripped whole.
// Any other suffix after the separator is left in place.
func StripLabel(name, sep string, labels []string) string {
	if sep == "" {
		return name
	}
	best := ""
	for _, label := range labels {
		if label != "" && len(label) > len(best) && strings.HasSuffix(name, sep+label) {
			best = label
		}
	}
	if best == "" {
		return name
	}
	return name[:len(name)-len(sep)-len(best)]
}

// Infix places sep+label in front of the extension of p, replacing a known label already there.
func Infix(p, sep, label string, labels []string) string {
	dir, name, ext := SplitPath(p)
	return dir + StripLabel(name, sep, labels) + sep + label + ext
}

// Unfix removes a known sep+label suffix from the base name of p.
func Unfix(p, sep string, labels []string) string {
	dir, name, ext := SplitPath(p)
	return dir + StripLabel(name, sep, labels) + ext
}
