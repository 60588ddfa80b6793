package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/version"
)

// DefaultReleaseURL is the GitHub endpoint for the latest release.
const DefaultReleaseURL = "https://api.github.com/repos/Dicklesworthstone/responsive_scopes/releases/latest"

// DefaultTimeout keeps the check from holding up the command for long.
const DefaultTimeout = 2 * time.Second

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a release endpoint.
type Checker struct {
	Client  *http.Client
	URL     string
	Current string
}

// NewChecker returns a checker against the GitHub release endpoint for this build.
func NewChecker() *Checker {
	return &Checker{
		Client:  &http.Client{Timeout: DefaultTimeout},
		URL:     DefaultReleaseURL,
		Current: version.Version,
	}
}

// CheckForUpdates queries the endpoint for the latest release.
// Returns the new version tag and its URL if an update is available, empty strings otherwise.
func (c *Checker) CheckForUpdates(ctx context.Context) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", err
	}

	if CompareVersions(rel.TagName, c.Current) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// CompareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Versions are dot-separated numbers with an optional "v" prefix; a pre-release
// suffix ("-rc1") ranks below the same version without one.
func CompareVersions(v1, v2 string) int {
	core1, pre1 := splitVersion(v1)
	core2, pre2 := splitVersion(v2)

	for i := 0; i < max(len(core1), len(core2)); i++ {
		a, b := segment(core1, i), segment(core2, i)
		switch {
		case a > b:
			return 1
		case a < b:
			return -1
		}
	}

	switch {
	case pre1 == pre2:
		return 0
	case pre1 == "":
		return 1
	case pre2 == "":
		return -1
	case pre1 > pre2:
		return 1
	default:
		return -1
	}
}

func splitVersion(v string) ([]string, string) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	core, pre, _ := strings.Cut(v, "-")
	return strings.Split(core, "."), pre
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return n
}
