package javaruntime

import (
	"fmt"
	"os"
	"runtime"

	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

// DefaultRuntimeAPI is the vendor binary endpoint, Adoptium-style:
// appending /<major>/ga/<os>/<arch>/jdk/hotspot/normal/eclipse yields
// the latest GA archive for that platform.
const DefaultRuntimeAPI = "https://api.adoptium.net/v3/binary/latest"

// RuntimeAPI returns the vendor endpoint, honoring the
// WHOAP_RUNTIME_API override.
func RuntimeAPI() string {
	if url := os.Getenv("WHOAP_RUNTIME_API"); url != "" {
		return url
	}
	return DefaultRuntimeAPI
}

// archiveURL builds the vendor archive address for a major version on
// the current platform.
func archiveURL(major int) (string, error) {
	var osName string
	switch runtime.GOOS {
	case "darwin":
		osName = "mac"
	case "windows":
		osName = "windows"
	default:
		osName = "linux"
	}

	var arch string
	switch runtime.GOARCH {
	case "amd64":
		arch = "x64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "x86"
	default:
		return "", fmt.Errorf("%w: no vendor archives for architecture %s",
			launchererrors.ErrUnsupportedRuntime, runtime.GOARCH)
	}

	return fmt.Sprintf("%s/%d/ga/%s/%s/jdk/hotspot/normal/eclipse",
		RuntimeAPI(), major, osName, arch), nil
}
