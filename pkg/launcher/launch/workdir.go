package launch

import (
	"os"
	"path/filepath"

	"github.com/justdreno/Whoap-Launcer-sub000/internal/layout"
)

// resolveWorkDir picks the game working directory. A named instance
// gets its own directory, created on first use. Without one, a version
// directory carrying per-version state wins over the shared root.
func resolveWorkDir(lay *layout.Layout, instanceID, versionID string) (string, error) {
	if instanceID != "" {
		dir := lay.InstanceDir(instanceID)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		return dir, nil
	}

	versionDir := lay.VersionDir(versionID)
	if hasInstanceOverrides(versionDir) {
		return versionDir, nil
	}
	return lay.Root(), nil
}

// hasInstanceOverrides reports whether a version directory carries
// state that pins the game to it
func hasInstanceOverrides(dir string) bool {
	for _, marker := range []string{"saves", "options.txt"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
