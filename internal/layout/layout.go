// Package layout manages the on-disk data directory of the launcher
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Layout manages all paths under the launcher data directory
type Layout struct {
	dataDir string
}

// New creates a Layout rooted at the given data directory
func New(dataDir string) *Layout {
	return &Layout{dataDir: dataDir}
}

// Default creates a Layout rooted at the default data directory
func Default() *Layout {
	return New(GetDataRoot())
}

// GetDataRoot returns the root data directory
func GetDataRoot() string {
	// Check environment variable first
	if dataDir := os.Getenv("WHOAP_DATA_DIR"); dataDir != "" {
		return dataDir
	}

	// Use platform-specific defaults
	switch runtime.GOOS {
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Application Support", "whoap")
		}
	case "linux":
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "whoap")
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".local", "share", "whoap")
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "whoap")
		}
	}

	// Fallback to temp directory
	return filepath.Join(os.TempDir(), "whoap")
}

// ==================== Root ====================

// Root returns the data directory itself
func (l *Layout) Root() string {
	return l.dataDir
}

// SettingsPath returns the launcher settings file path
func (l *Layout) SettingsPath() string {
	return filepath.Join(l.dataDir, "settings.json")
}

// ManifestPath returns the cached version manifest file path
func (l *Layout) ManifestPath() string {
	return filepath.Join(l.dataDir, "version_manifest.json")
}

// ==================== Version Paths ====================

// VersionsDir returns the versions directory
func (l *Layout) VersionsDir() string {
	return filepath.Join(l.dataDir, "versions")
}

// VersionDir returns the directory of a single version
func (l *Layout) VersionDir(id string) string {
	return filepath.Join(l.VersionsDir(), id)
}

// VersionDescriptorPath returns the descriptor JSON path of a version
func (l *Layout) VersionDescriptorPath(id string) string {
	return filepath.Join(l.VersionDir(id), id+".json")
}

// VersionJarPath returns the client jar path of a version
func (l *Layout) VersionJarPath(id string) string {
	return filepath.Join(l.VersionDir(id), id+".jar")
}

// NativesDir returns the native library extraction directory of a version
func (l *Layout) NativesDir(id string) string {
	return filepath.Join(l.VersionDir(id), "natives")
}

// ==================== Library Paths ====================

// LibrariesDir returns the shared library store directory
func (l *Layout) LibrariesDir() string {
	return filepath.Join(l.dataDir, "libraries")
}

// LibraryPath returns the on-disk path for a library-relative path
func (l *Layout) LibraryPath(relPath string) string {
	return filepath.Join(l.LibrariesDir(), filepath.FromSlash(relPath))
}

// ==================== Asset Paths ====================

// AssetsDir returns the assets directory
func (l *Layout) AssetsDir() string {
	return filepath.Join(l.dataDir, "assets")
}

// AssetIndexPath returns the path of an asset index file
func (l *Layout) AssetIndexPath(indexID string) string {
	return filepath.Join(l.AssetsDir(), "indexes", indexID+".json")
}

// AssetObjectPath returns the content-addressed path of an asset object
func (l *Layout) AssetObjectPath(hash string) string {
	return filepath.Join(l.AssetsDir(), "objects", hash[:2], hash)
}

// ==================== Runtime Paths ====================

// RuntimesDir returns the managed java runtime cache directory
func (l *Layout) RuntimesDir() string {
	return filepath.Join(l.dataDir, "runtime")
}

// RuntimeDir returns the install directory for a runtime major version
func (l *Layout) RuntimeDir(major int) string {
	return filepath.Join(l.RuntimesDir(), fmt.Sprintf("java-%d", major))
}

// ==================== Instance Paths ====================

// InstancesDir returns the instances directory
func (l *Layout) InstancesDir() string {
	return filepath.Join(l.dataDir, "instances")
}

// InstanceDir returns the directory of a single instance
func (l *Layout) InstanceDir(name string) string {
	return filepath.Join(l.InstancesDir(), name)
}

// InstanceExists checks if an instance directory exists
func (l *Layout) InstanceExists(name string) bool {
	info, err := os.Stat(l.InstanceDir(name))
	return err == nil && info.IsDir()
}

// ==================== Validation ====================

// ValidateID checks that an identifier is safe to use as a path element.
// Rejects empty ids, path separators and traversal components.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("empty identifier")
	}
	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("identifier %q contains path separator", id)
	}
	if id == "." || id == ".." {
		return fmt.Errorf("identifier %q is a traversal component", id)
	}
	return nil
}
