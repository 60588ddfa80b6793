package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"v0.1.0", "v0.1.0", 0},
		{"0.1.0", "v0.1.0", 0},
		{"v0.1.1", "v0.1.0", 1},
		{"v0.10.0", "v0.2.0", 1},
		{"v0.2.0", "v0.10.0", -1},
		{"v1.0", "v1.0.0", 0},
		{"v1.0.0-rc1", "v1.0.0", -1},
		{"v1.0.0", "v1.0.0-rc1", 1},
		{"v1.0.0-rc2", "v1.0.0-rc1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.v1+"_vs_"+tt.v2, func(t *testing.T) {
			if got := CompareVersions(tt.v1, tt.v2); got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
			}
		})
	}
}

func TestCheckForUpdates(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		current string
		wantTag string
		wantErr bool
	}{
		{"newer release", http.StatusOK, `{"tag_name":"v0.3.0","html_url":"https://example.test/r"}`, "v0.2.0", "v0.3.0", false},
		{"same release", http.StatusOK, `{"tag_name":"v0.2.0"}`, "v0.2.0", "", false},
		{"older release", http.StatusOK, `{"tag_name":"v0.1.0"}`, "v0.2.0", "", false},
		{"server error", http.StatusInternalServerError, ``, "v0.2.0", "", true},
		{"bad json", http.StatusOK, `{`, "v0.2.0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := &Checker{Client: srv.Client(), URL: srv.URL, Current: tt.current}
			tag, url, err := c.CheckForUpdates(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tag != tt.wantTag {
				t.Errorf("tag = %q, want %q", tag, tt.wantTag)
			}
			if tt.wantTag != "" && url == "" {
				t.Error("missing release URL")
			}
		})
	}
}
