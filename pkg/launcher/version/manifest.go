package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

// DefaultManifestURL is the published version manifest endpoint
const DefaultManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"

type Manifest struct {
	Latest   LatestVersions    `json:"latest"`
	Versions []ManifestVersion `json:"versions"`
}

type LatestVersions struct {
	Release  string `json:"release"`
	Snapshot string `json:"snapshot"`
}

type ManifestVersion struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	ReleaseTime string `json:"releaseTime,omitempty"`
	SHA1        string `json:"sha1,omitempty"`
}

// Find returns the manifest entry for a version id, or nil
func (m *Manifest) Find(id string) *ManifestVersion {
	for i := range m.Versions {
		if m.Versions[i].ID == id {
			return &m.Versions[i]
		}
	}
	return nil
}

// ManifestURL returns the manifest endpoint, honoring the
// WHOAP_MANIFEST_URL override.
func ManifestURL() string {
	if url := os.Getenv("WHOAP_MANIFEST_URL"); url != "" {
		return url
	}
	return DefaultManifestURL
}

// fetchJSON downloads a JSON document into v
func fetchJSON(ctx context.Context, client *http.Client, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", launchererrors.ErrTransport, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", launchererrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned %s", launchererrors.ErrTransport, url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", launchererrors.ErrTransport, url, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return nil
}
