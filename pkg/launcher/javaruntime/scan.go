package javaruntime

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// findExecutable locates bin/java under root, directly or one
// directory level down. Vendor archives usually unpack into a
// versioned subdirectory, so the nested form is the common case.
func findExecutable(root string) string {
	direct := filepath.Join(root, "bin", executableName())
	if isExecutableFile(direct) {
		return direct
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	// Newest release wins when several trees of the same major coexist
	sortNewestFirst(names)

	for _, name := range names {
		nested := filepath.Join(root, name, "bin", executableName())
		if isExecutableFile(nested) {
			return nested
		}
		// macOS bundle layout keeps the tree under Contents/Home
		bundle := filepath.Join(root, name, "Contents", "Home", "bin", executableName())
		if isExecutableFile(bundle) {
			return bundle
		}
	}
	return ""
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}

// vendorRoots returns the fixed OS-specific install roots probed in
// the system-scan step. WHOAP_JVM_DIRS prepends extra roots.
func vendorRoots() []string {
	var roots []string
	if extra := os.Getenv("WHOAP_JVM_DIRS"); extra != "" {
		roots = append(roots, strings.Split(extra, string(os.PathListSeparator))...)
	}

	switch runtime.GOOS {
	case "darwin":
		roots = append(roots,
			"/Library/Java/JavaVirtualMachines",
			"/opt/homebrew/opt",
		)
	case "windows":
		for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
			if pf := os.Getenv(env); pf != "" {
				roots = append(roots,
					filepath.Join(pf, "Java"),
					filepath.Join(pf, "Eclipse Adoptium"),
					filepath.Join(pf, "Microsoft"),
				)
			}
		}
	default:
		roots = append(roots,
			"/usr/lib/jvm",
			"/usr/java",
			"/opt/jdk",
			"/opt/java",
		)
	}
	return roots
}

// vendorCandidates lists executables found one to two levels under
// the vendor roots, deterministically ordered.
func vendorCandidates() []string {
	var candidates []string
	for _, root := range vendorRoots() {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || e.Type()&os.ModeSymlink != 0 {
				names = append(names, e.Name())
			}
		}
		sortNewestFirst(names)

		for _, name := range names {
			install := filepath.Join(root, name)
			if exe := findExecutable(install); exe != "" {
				candidates = append(candidates, exe)
			}
		}
	}
	return candidates
}

// sortNewestFirst orders install directory names by the version their
// name carries, newest first. Plain string comparison would put
// "jdk-17.0.9" ahead of "jdk-17.0.10", so names that parse into a
// version compare numerically; unparseable names sort behind parsed
// ones, in reverse lexical order among themselves.
func sortNewestFirst(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		vi, oki := dirVersion(names[i])
		vj, okj := dirVersion(names[j])
		switch {
		case oki && okj:
			if vi.Equal(vj) {
				return names[i] > names[j]
			}
			return vi.GreaterThan(vj)
		case oki:
			return true
		case okj:
			return false
		default:
			return names[i] > names[j]
		}
	})
}

// dirVersion extracts a comparable version from an install directory
// name such as "jdk-17.0.10+7" or "temurin-1.8.0_392".
func dirVersion(name string) (*semver.Version, bool) {
	start := strings.IndexFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return nil, false
	}
	v, err := Normalize(name[start:])
	if err != nil {
		return nil, false
	}
	return v, true
}
