package javaruntime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justdreno/Whoap-Launcer-sub000/internal/layout"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/download"
	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

func newTestProvisioner(t *testing.T, opts download.Options) (*Provisioner, *layout.Layout) {
	t.Helper()
	logger := testLogger("provisioner_test")
	lay := layout.New(t.TempDir())
	queue := download.NewQueue(opts, logger)
	return NewProvisioner(lay, queue, logger), lay
}

// TestEnsureRejectsInvalidMajor tests the zero-major guard
func TestEnsureRejectsInvalidMajor(t *testing.T) {
	p, _ := newTestProvisioner(t, download.Options{})

	if _, err := p.Ensure(context.Background(), 0); !errors.Is(err, launchererrors.ErrUnsupportedRuntime) {
		t.Errorf("Ensure(0) = %v, want ErrUnsupportedRuntime", err)
	}
	if _, err := p.Ensure(context.Background(), -3); !errors.Is(err, launchererrors.ErrUnsupportedRuntime) {
		t.Errorf("Ensure(-3) = %v, want ErrUnsupportedRuntime", err)
	}
}

// TestEnsureUsesCachedRuntime tests the cache-first resolution order
func TestEnsureUsesCachedRuntime(t *testing.T) {
	p, lay := newTestProvisioner(t, download.Options{})
	logger := testLogger("provisioner_test")

	dir := lay.RuntimeDir(17)
	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	exe := filepath.Join(binDir, executableName())
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := markComplete(dir, logger); err != nil {
		t.Fatal(err)
	}

	h, err := p.Ensure(context.Background(), 17)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if h.Origin != OriginCached {
		t.Errorf("origin = %q, want %q", h.Origin, OriginCached)
	}
	if h.Path != exe {
		t.Errorf("path = %q, want %q", h.Path, exe)
	}
}

// TestEnsureIgnoresIncompleteCache tests that a missing completion
// marker forces re-resolution instead of serving a half-extracted tree
func TestEnsureIgnoresIncompleteCache(t *testing.T) {
	p, lay := newTestProvisioner(t, download.Options{})

	dir := lay.RuntimeDir(17)
	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, executableName()), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	if h := p.scanCache(17); h != nil {
		t.Errorf("scanCache returned %+v for an unmarked dir", h)
	}
}

// TestEnsureFindsVendorInstall tests the vendor directory scan
func TestEnsureFindsVendorInstall(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("script-based java stub needs a POSIX shell")
	}

	vendorRoot := t.TempDir()
	exe := writeFakeJava(t, filepath.Join(vendorRoot, "jdk-98.0.1"), "98.0.1")
	t.Setenv("WHOAP_JVM_DIRS", vendorRoot)

	p, _ := newTestProvisioner(t, download.Options{})
	h, err := p.Ensure(context.Background(), 98)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if h.Origin != OriginSystem {
		t.Errorf("origin = %q, want %q", h.Origin, OriginSystem)
	}
	if h.Path != exe {
		t.Errorf("path = %q, want %q", h.Path, exe)
	}
}

// TestEnsureDownloadsRuntime tests the full download and extract path
func TestEnsureDownloadsRuntime(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("script-based java stub needs a POSIX shell")
	}

	tree := []archiveEntry{
		{name: "jdk-99.0.1/", dir: true},
		{name: "jdk-99.0.1/bin/", dir: true},
		{name: "jdk-99.0.1/bin/java", body: "#!/bin/sh\necho 'openjdk version \"99.0.1\" 2024-01-01' >&2\n", mode: 0755},
	}
	archive := buildTarGz(t, tree)

	var hits atomic.Int64
	var lastPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lastPath.Store(r.URL.Path)
		w.Write(archive)
	}))
	defer srv.Close()
	t.Setenv("WHOAP_RUNTIME_API", srv.URL)
	t.Setenv("WHOAP_JVM_DIRS", t.TempDir())

	p, lay := newTestProvisioner(t, download.Options{Attempts: 1, RetryDelay: time.Millisecond})

	h, err := p.Ensure(context.Background(), 99)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if h.Origin != OriginDownloaded {
		t.Errorf("origin = %q, want %q", h.Origin, OriginDownloaded)
	}
	if _, err := os.Stat(h.Path); err != nil {
		t.Errorf("resolved executable missing: %v", err)
	}
	if !isComplete(lay.RuntimeDir(99)) {
		t.Error("runtime dir not marked complete after install")
	}
	if p, _ := lastPath.Load().(string); !strings.Contains(p, "/99/ga/") {
		t.Errorf("vendor request path = %q, want .../99/ga/...", p)
	}

	// The archive must not survive the install.
	leftover := filepath.Join(lay.RuntimesDir(), "java-99.archive")
	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Errorf("downloaded archive left behind at %s", leftover)
	}

	// A second Ensure resolves from the cache without touching the server.
	before := hits.Load()
	h2, err := p.Ensure(context.Background(), 99)
	if err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	if h2.Origin != OriginCached {
		t.Errorf("second origin = %q, want %q", h2.Origin, OriginCached)
	}
	if hits.Load() != before {
		t.Error("second Ensure re-downloaded the archive")
	}
}

// TestEnsureTranslatesVendor404 tests the missing-build error mapping
func TestEnsureTranslatesVendor404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	t.Setenv("WHOAP_RUNTIME_API", srv.URL)
	t.Setenv("WHOAP_JVM_DIRS", t.TempDir())

	p, _ := newTestProvisioner(t, download.Options{Attempts: 1, RetryDelay: time.Millisecond})

	_, err := p.Ensure(context.Background(), 243)
	if !errors.Is(err, launchererrors.ErrUnsupportedRuntime) {
		t.Errorf("Ensure = %v, want ErrUnsupportedRuntime", err)
	}
}
