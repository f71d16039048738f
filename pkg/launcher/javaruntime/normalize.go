// Package javaruntime provisions a compatible java runtime: cached
// install, system install, or fresh download and extraction.
package javaruntime

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

// Normalize converts a java version string into semver form. Legacy
// "1.8.0_351" style becomes "8.0.351"; modern "17.0.1" style parses
// as-is. Underscore build separators become dots.
func Normalize(raw string) (*semver.Version, error) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, "_", ".")

	// The legacy scheme prefixes the real major with "1."
	if strings.HasPrefix(s, "1.") {
		s = strings.TrimPrefix(s, "1.")
	}

	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse java version %q: %v", launchererrors.ErrUnsupportedRuntime, raw, err)
	}
	return v, nil
}

// MajorOf returns the major component of a raw java version string
func MajorOf(raw string) (int, error) {
	v, err := Normalize(raw)
	if err != nil {
		return 0, err
	}
	return int(v.Major()), nil
}
