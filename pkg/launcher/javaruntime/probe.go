package javaruntime

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
)

// probeTimeout bounds a single -version invocation
const probeTimeout = 10 * time.Second

var versionPattern = regexp.MustCompile(`version "([^"]+)"`)

// executableName returns the platform java binary name
func executableName() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}

// Probe invokes an executable with -version and parses the major
// version out of its output. Java prints the banner on stderr, so
// both streams are captured.
func Probe(ctx context.Context, execPath string, logger hclog.Logger) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, execPath, "-version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("probing %s: %w", execPath, err)
	}

	major, err := ParseProbeOutput(string(out))
	if err != nil {
		return 0, err
	}

	logger.Debug("🔍 Probed java executable", "path", execPath, "major", major)
	return major, nil
}

// ParseProbeOutput extracts the major version from a -version banner
func ParseProbeOutput(out string) (int, error) {
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("no version string in probe output")
	}
	return MajorOf(m[1])
}
