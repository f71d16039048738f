package javaruntime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/justdreno/Whoap-Launcer-sub000/internal/layout"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/download"
	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

// provisionTimeout bounds waiting on another process's extraction
const provisionTimeout = 10 * time.Minute

// Origin records how a runtime was located
type Origin string

const (
	OriginCached     Origin = "cached"
	OriginSystem     Origin = "system"
	OriginDownloaded Origin = "downloaded"
)

// Handle is a located, version-verified java executable
type Handle struct {
	Path   string
	Major  int
	Origin Origin
}

// Provisioner resolves a compatible java runtime for a required major
// version. Downloads go through the shared acquisition queue.
type Provisioner struct {
	layout *layout.Layout
	queue  *download.Queue
	logger hclog.Logger

	// OnStatus receives human-readable progress text when set
	OnStatus func(text string)
}

// NewProvisioner creates a runtime provisioner
func NewProvisioner(lay *layout.Layout, queue *download.Queue, logger hclog.Logger) *Provisioner {
	return &Provisioner{layout: lay, queue: queue, logger: logger}
}

func (p *Provisioner) status(text string) {
	p.logger.Info(text)
	if p.OnStatus != nil {
		p.OnStatus(text)
	}
}

// Ensure resolves an executable for the requested major version,
// trying the runtime cache, the system PATH, known vendor install
// roots, and finally a fresh download and extraction.
func (p *Provisioner) Ensure(ctx context.Context, major int) (*Handle, error) {
	if major <= 0 {
		return nil, fmt.Errorf("%w: invalid major version %d", launchererrors.ErrUnsupportedRuntime, major)
	}

	p.status(fmt.Sprintf("🔍 Checking cached runtimes for Java %d...", major))
	if h := p.scanCache(major); h != nil {
		p.status(fmt.Sprintf("✅ Using cached Java %d runtime", major))
		return h, nil
	}

	p.status("🔍 Probing system java...")
	if path, err := exec.LookPath(executableName()); err == nil {
		if got, probeErr := Probe(ctx, path, p.logger); probeErr == nil && got == major {
			p.status(fmt.Sprintf("✅ System java is Java %d", major))
			return &Handle{Path: path, Major: major, Origin: OriginSystem}, nil
		}
	}

	p.status("🔍 Scanning vendor install directories...")
	for _, candidate := range vendorCandidates() {
		if got, probeErr := Probe(ctx, candidate, p.logger); probeErr == nil && got == major {
			p.status(fmt.Sprintf("✅ Found Java %d at %s", major, candidate))
			return &Handle{Path: candidate, Major: major, Origin: OriginSystem}, nil
		}
	}

	return p.install(ctx, major)
}

// scanCache returns a handle for a fully provisioned cache entry
func (p *Provisioner) scanCache(major int) *Handle {
	dir := p.layout.RuntimeDir(major)
	if !isComplete(dir) {
		return nil
	}
	exe := findExecutable(dir)
	if exe == "" {
		return nil
	}
	return &Handle{Path: exe, Major: major, Origin: OriginCached}
}

// install downloads and extracts the vendor archive into the runtime
// cache, guarded by the provisioning lock so concurrent launcher
// processes do not double-extract.
func (p *Provisioner) install(ctx context.Context, major int) (*Handle, error) {
	dir := p.layout.RuntimeDir(major)

	acquired, err := tryAcquireLock(dir, p.logger)
	if err != nil {
		return nil, err
	}
	if !acquired {
		p.status("⏳ Another launcher is provisioning this runtime, waiting...")
		if err := waitForProvision(dir, provisionTimeout, p.logger); err != nil {
			return nil, err
		}
		if h := p.scanCache(major); h != nil {
			return h, nil
		}
		return nil, fmt.Errorf("%w: runtime still missing after concurrent provisioning", launchererrors.ErrBinaryNotFound)
	}
	defer releaseLock(dir, p.logger)

	// Another process may have finished between our scan and the lock
	if h := p.scanCache(major); h != nil {
		return h, nil
	}

	url, err := archiveURL(major)
	if err != nil {
		return nil, err
	}

	p.status(fmt.Sprintf("📥 Downloading Java %d runtime...", major))
	archivePath := filepath.Join(p.layout.RuntimesDir(), fmt.Sprintf("java-%d.archive", major))
	os.Remove(archivePath) // a leftover from a killed run must not short-circuit
	defer os.Remove(archivePath)

	batch := p.queue.Enqueue(ctx, []download.Task{{
		Name: fmt.Sprintf("java-%d runtime", major),
		URL:  url,
		Dest: archivePath,
		Size: -1,
	}})
	if err := batch.Wait(ctx); err != nil {
		// The vendor endpoint answers 404 for majors it has no GA build of
		if errors.Is(err, launchererrors.ErrTransport) && strings.Contains(err.Error(), "404") {
			return nil, fmt.Errorf("%w: no vendor archive for java %d on %s/%s",
				launchererrors.ErrUnsupportedRuntime, major, runtime.GOOS, runtime.GOARCH)
		}
		return nil, err
	}

	p.status(fmt.Sprintf("📦 Extracting Java %d runtime...", major))
	if err := cleanRuntimeDir(dir); err != nil {
		return nil, err
	}
	if err := extractArchive(archivePath, dir, p.logger); err != nil {
		return nil, err
	}

	exe := findExecutable(dir)
	if exe == "" {
		return nil, fmt.Errorf("%w: no %s under %s after extraction",
			launchererrors.ErrBinaryNotFound, executableName(), dir)
	}
	if got, probeErr := Probe(ctx, exe, p.logger); probeErr != nil {
		return nil, fmt.Errorf("%w: extracted binary not invocable: %v", launchererrors.ErrBinaryNotFound, probeErr)
	} else if got != major {
		p.logger.Warn("⚠️ Extracted runtime reports unexpected major", "want", major, "got", got)
	}

	if err := markComplete(dir, p.logger); err != nil {
		return nil, err
	}

	p.status(fmt.Sprintf("✅ Java %d runtime ready", major))
	return &Handle{Path: exe, Major: major, Origin: OriginDownloaded}, nil
}

// cleanRuntimeDir wipes partial extractions, keeping the lock file
func cleanRuntimeDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == lockFileName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
