package partition

import "testing"

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in             string
		dir, name, ext string
	}{
		{"images/test_1_sm.png", "images/", "test_1_sm", ".png"},
		{"photo.jpg", "", "photo", ".jpg"},
		{"a/b/c", "a/b/", "c", ""},
		{"dir.v2/file", "dir.v2/", "file", ""},
		{"a/archive.tar.gz", "a/", "archive.tar", ".gz"},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		dir, name, ext := SplitPath(tt.in)
		if dir != tt.dir || name != tt.name || ext != tt.ext {
			t.Errorf("SplitPath(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.in, dir, name, ext, tt.dir, tt.name, tt.ext)
		}
	}
}

func TestInfixUnfix(t *testing.T) {
	labels := []string{"sm", "md", "lg"}

	tests := []struct {
		name  string
		path  string
		label string
		infix string
		unfix string
	}{
		{"plain", "images/test_1.png", "md", "images/test_1_md.png", "images/test_1.png"},
		{"already infixed", "images/test_1_sm.png", "md", "images/test_1_md.png", "images/test_1.png"},
		{"unknown suffix kept", "images/photo_wide.png", "lg", "images/photo_wide_lg.png", "images/photo_wide.png"},
		{"no extension", "icons/logo_lg", "sm", "icons/logo_sm", "icons/logo"},
		{"no directory", "hero.webp", "sm", "hero_sm.webp", "hero.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infix(tt.path, "_", tt.label, labels); got != tt.infix {
				t.Errorf("Infix() = %q, want %q", got, tt.infix)
			}
			if got := Unfix(tt.path, "_", labels); got != tt.unfix {
				t.Errorf("Unfix() = %q, want %q", got, tt.unfix)
			}
		})
	}
}

func TestLabelsContainingSeparator(t *testing.T) {
	labels := []string{"s", "x_s", "x_l"}

	tests := []struct {
		path  string
		label string
		infix string
		unfix string
	}{
		{"a.png", "x_l", "a_x_l.png", "a.png"},
		{"a_x_l.png", "x_l", "a_x_l.png", "a.png"},
		{"a_x_s.png", "x_l", "a_x_l.png", "a.png"},
		{"a_x_l.png", "s", "a_s.png", "a.png"},
		{"a_y_s.png", "x_s", "a_y_x_s.png", "a_y.png"},
	}
	for _, tt := range tests {
		if got := Infix(tt.path, "_", tt.label, labels); got != tt.infix {
			t.Errorf("Infix(%q, %q) = %q, want %q", tt.path, tt.label, got, tt.infix)
		}
		if got := Infix(Infix(tt.path, "_", tt.label, labels), "_", tt.label, labels); got != tt.infix {
			t.Errorf("Infix twice on %q = %q, want %q", tt.path, got, tt.infix)
		}
		if got := Unfix(tt.path, "_", labels); got != tt.unfix {
			t.Errorf("Unfix(%q) = %q, want %q", tt.path, got, tt.unfix)
		}
	}
}

func TestInfixRoundTrip(t *testing.T) {
	labels := []string{"xs", "sm", "md"}
	paths := []string{
		"a/b/img.png",
		"a/b/img_xs.png",
		"img_md",
		"img_other.jpg",
		"_sm.png",
		"x/y.z/w_sm.tar.gz",
	}

	for _, sep := range []string{"_", "--", "@"} {
		for _, p := range paths {
			infixed := Infix(p, sep, "sm", labels)
			unfixed := Unfix(p, sep, labels)

			if got := Unfix(infixed, sep, labels); got != unfixed {
				t.Errorf("sep %q: Unfix(Infix(%q)) = %q, want %q", sep, p, got, unfixed)
			}
			if got := Infix(infixed, sep, "sm", labels); got != infixed {
				t.Errorf("sep %q: Infix(Infix(%q)) = %q, want %q", sep, p, got, infixed)
			}
			if got := Infix(unfixed, sep, "sm", labels); got != infixed {
				t.Errorf("sep %q: Infix(Unfix(%q)) = %q, want %q", sep, p, got, infixed)
			}
			if got := Unfix(unfixed, sep, labels); got != unfixed {
				t.Errorf("sep %q: Unfix(Unfix(%q)) = %q, want %q", sep, p, got, unfixed)
			}
		}
	}
}

func TestStripLabelEmptySeparator(t *testing.T) {
	if got := StripLabel("img_sm", "", []string{"sm"}); got != "img_sm" {
		t.Errorf("StripLabel with empty separator = %q", got)
	}
}
