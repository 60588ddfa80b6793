package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/partition"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	p, err := partition.New([]model.Entry{model.At("sm", 0), model.At("md", 800), model.At("lg", 1920)})
	if err != nil {
		t.Fatal(err)
	}
	s := New(p, "_", 0, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, ts *httptest.Server, path string, into any) int {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("Cache-Control") == "" {
		t.Error("missing no-cache headers")
	}
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestResolve(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		query       string
		label       string
		index       int
		orientation model.Orientation
		ratio       float64
		unbounded   bool
	}{
		{"/resolve?width=500&height=900", "sm", 0, model.Portrait, 500.0 / 900, false},
		{"/resolve?width=800&height=600", "md", 1, model.Landscape, 800.0 / 600, false},
		{"/resolve?width=2000&height=1000", "lg", 2, model.Landscape, 2, true},
		// height defaults to width, as in the CLI
		{"/resolve?width=900", "md", 1, model.Portrait, 1, false},
		{"/resolve?width=2000&height=0", "lg", 2, model.Portrait, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var out struct {
				Index int `json:"index"`
				Scope struct {
					Label string `json:"label"`
					Max   *int   `json:"max"`
				} `json:"scope"`
				Orientation model.Orientation `json:"orientation"`
				Height      int               `json:"height"`
				Ratio       float64           `json:"ratio"`
			}
			if code := get(t, ts, tt.query, &out); code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if out.Scope.Label != tt.label || out.Index != tt.index || out.Orientation != tt.orientation {
				t.Errorf("got %+v", out)
			}
			if (out.Scope.Max == nil) != tt.unbounded {
				t.Errorf("max = %v, unbounded %v", out.Scope.Max, tt.unbounded)
			}
			if out.Ratio != tt.ratio {
				t.Errorf("ratio = %v, want %v", out.Ratio, tt.ratio)
			}
			if out.Height <= 0 {
				t.Errorf("height = %d, want a positive default", out.Height)
			}
		})
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	_, ts := newTestServer(t)
	for _, q := range []string{"/resolve", "/resolve?width=-1", "/resolve?width=abc", "/resolve?width=5&height=x"} {
		if code := get(t, ts, q, nil); code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, code)
		}
	}
}

func TestEmptyPartition(t *testing.T) {
	s, ts := newTestServer(t)
	s.SetPartition(partition.Empty())

	if code := get(t, ts, "/resolve?width=10", nil); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
	var out map[string]string
	get(t, ts, "/infix?path=a_md.png&width=10", &out)
	if out["path"] != "a_md.png" {
		t.Errorf("infix with no scopes = %q", out["path"])
	}
}

func TestInfixUnfix(t *testing.T) {
	_, ts := newTestServer(t)

	var out map[string]string
	if code := get(t, ts, "/infix?path=img/hero_sm.png&width=1000", &out); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if out["path"] != "img/hero_md.png" || out["label"] != "md" {
		t.Errorf("infix = %v", out)
	}

	out = nil
	get(t, ts, "/unfix?path=img/hero_lg.png", &out)
	if out["path"] != "img/hero.png" {
		t.Errorf("unfix = %v", out)
	}

	if code := get(t, ts, "/infix?width=3", nil); code != http.StatusBadRequest {
		t.Errorf("missing path: status = %d", code)
	}
	if code := get(t, ts, "/unfix", nil); code != http.StatusBadRequest {
		t.Errorf("missing path: status = %d", code)
	}
}

func TestScopesAndStatus(t *testing.T) {
	_, ts := newTestServer(t)

	var scopes struct {
		Separator string `json:"separator"`
		Scopes    []struct {
			Label string `json:"label"`
			Min   int    `json:"min"`
			Max   *int   `json:"max"`
		} `json:"scopes"`
	}
	get(t, ts, "/scopes", &scopes)
	if scopes.Separator != "_" || len(scopes.Scopes) != 3 {
		t.Fatalf("scopes = %+v", scopes)
	}
	if *scopes.Scopes[1].Max != 1919 || scopes.Scopes[2].Max != nil {
		t.Errorf("bounds = %+v", scopes.Scopes)
	}

	var status map[string]any
	get(t, ts, "/__status__", &status)
	if status["status"] != "running" || status["scopes"] != float64(3) {
		t.Errorf("status = %v", status)
	}
}

func TestPreflight(t *testing.T) {
	_, ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/resolve", nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight status = %d, headers = %v", resp.StatusCode, resp.Header)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	port, err := FindAvailablePort(PortRangeStart, PortRangeEnd)
	if err != nil {
		t.Skipf("no free port: %v", err)
	}
	s := New(partition.Empty(), "_", port, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(s.URL() + "/__status__")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
