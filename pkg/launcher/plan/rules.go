// Package plan computes the concrete artifact set a merged descriptor
// requires on the current platform.
package plan

import (
	"runtime"

	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/version"
)

// CurrentOS maps GOOS onto the descriptor rule vocabulary
func CurrentOS() string {
	switch runtime.GOOS {
	case "darwin":
		return "osx"
	case "windows":
		return "windows"
	default:
		return "linux"
	}
}

// Allowed evaluates a library's platform rules for osName. No rules
// means included. With rules present the entry starts excluded, each
// matching rule overwrites the verdict in order, and so a disallow for
// the current OS beats any earlier allow.
func Allowed(rules []version.Rule, osName string) bool {
	if len(rules) == 0 {
		return true
	}

	allowed := false
	for _, r := range rules {
		if r.OS != nil && r.OS.Name != osName {
			continue
		}
		allowed = r.Action == "allow"
	}
	return allowed
}
