// Package update notifies about newer released builds of the CLI.
//
// The check is strictly best-effort: any network, decode, or version-parse
// problem yields no notice and the command carries on.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// ReleasesURL points at the GitHub latest-release endpoint. Tests swap it
// for a local server.
var ReleasesURL = "https://api.github.com/repos/pluggy/pluggy-cli/releases/latest"

const checkTimeout = 5 * time.Second

// Notice describes an available upgrade. Check returns one only when a
// strictly newer release exists.
type Notice struct {
	Current string
	Latest  string
	URL     string
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check reports whether a release newer than current has been published.
// It returns nil for dev builds, when the build is already current, and
// when the check cannot be completed.
func Check(ctx context.Context, current string) *Notice {
	if current == "" || current == "dev" {
		return nil
	}

	rel, err := fetchLatest(ctx)
	if err != nil {
		return nil
	}
	if !newer(rel.TagName, current) {
		return nil
	}
	return &Notice{
		Current: strings.TrimPrefix(current, "v"),
		Latest:  strings.TrimPrefix(rel.TagName, "v"),
		URL:     rel.HTMLURL,
	}
}

func fetchLatest(ctx context.Context) (*release, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleasesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("releases endpoint returned %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// newer reports whether tag is a strictly higher semantic version than
// current. Values that do not parse as semver never trigger a notice.
func newer(tag, current string) bool {
	latest, cur := canonical(tag), canonical(current)
	if !semver.IsValid(latest) || !semver.IsValid(cur) {
		return false
	}
	return semver.Compare(latest, cur) > 0
}

func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
