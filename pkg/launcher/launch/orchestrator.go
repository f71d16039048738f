// Package launch drives a launch request through version resolution,
// library planning, asset acquisition, and runtime provisioning, then
// spawns and supervises the game process.
package launch

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-hclog"

	"github.com/justdreno/Whoap-Launcer-sub000/internal/layout"
	"github.com/justdreno/Whoap-Launcer-sub000/internal/settings"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/assets"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/download"
	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/javaruntime"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/plan"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/version"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/utils/shellparse"
)

// Request describes one launch
type Request struct {
	// InstanceID selects a dedicated instance directory; empty falls
	// back to the version-scoped or shared directory policy
	InstanceID string

	VersionID string
	Auth      AuthContext
	Proxy     ProxyConfig
}

// Orchestrator wires the pipeline phases together. The exported
// collaborator fields default to no-ops and may be replaced before
// calling Launch.
type Orchestrator struct {
	layout   *layout.Layout
	resolver *version.Resolver
	planner  *plan.Planner
	queue    *download.Queue
	runtime  *javaruntime.Provisioner
	logger   hclog.Logger

	Sink   LogSink
	Crash  CrashReporter
	Window WindowController

	// OnState observes every state transition of a launch in flight
	OnState func(State)
}

// NewOrchestrator assembles the pipeline over a shared data layout,
// acquisition queue, and runtime provisioner.
func NewOrchestrator(lay *layout.Layout, store *version.Store, queue *download.Queue, runtime *javaruntime.Provisioner, logger hclog.Logger) *Orchestrator {
	return &Orchestrator{
		layout:   lay,
		resolver: version.NewResolver(store, logger),
		planner:  plan.NewPlanner(lay, logger),
		queue:    queue,
		runtime:  runtime,
		logger:   logger,
		Sink:     nopSink{},
		Crash:    nopCrash{},
		Window:   nopWindow{},
	}
}

// Launch runs the pipeline for one request and returns the running
// session. The caller observes the outcome via Session.Wait. Canceling
// ctx aborts in-flight transfers and, once spawned, the process.
func (o *Orchestrator) Launch(ctx context.Context, req Request) (*Session, error) {
	if req.InstanceID != "" {
		if err := layout.ValidateID(req.InstanceID); err != nil {
			return nil, err
		}
	}

	cfg, err := settings.Load(o.layout.SettingsPath())
	if err != nil {
		return nil, err
	}

	sess := &Session{
		InstanceID: req.InstanceID,
		VersionID:  req.VersionID,
		ctx:        ctx,
		ring:       newRingBuffer(defaultRingCapacity),
		sink:       o.Sink,
		crash:      o.Crash,
		window:     o.Window,
		onState:    o.OnState,
		logger:     o.logger,
		state:      StateIdle,
	}

	sess.setState(StateResolvingVersion)
	desc, err := o.resolver.Resolve(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}

	sess.setState(StatePlanningLibraries)
	pl, err := o.planner.Plan(desc, plan.CurrentOS())
	if err != nil {
		return nil, err
	}

	sess.setState(StateAcquiringAssets)
	o.logger.Info("📥 Acquiring artifacts", "version", desc.ID, "count", len(pl.Tasks))
	if err := o.queue.Enqueue(ctx, pl.Tasks).Wait(ctx); err != nil {
		return nil, err
	}

	sess.setState(StateVerifyingAssetIndex)
	if err := o.acquireAssets(ctx, desc); err != nil {
		return nil, err
	}

	sess.setState(StateProvisioningRuntime)
	javaExe, err := o.provisionRuntime(ctx, desc, cfg)
	if err != nil {
		return nil, err
	}

	sess.setState(StateLaunching)
	if err := o.prepareAndSpawn(ctx, sess, desc, pl, cfg, javaExe, req); err != nil {
		sess.setState(StateSpawnFailed)
		return nil, err
	}

	sess.setState(StateRunning)
	return sess, nil
}

// acquireAssets fetches and verifies the asset index, then expands it
// into a second acquisition batch of content-addressed objects.
func (o *Orchestrator) acquireAssets(ctx context.Context, desc *version.Descriptor) error {
	ref := desc.AssetIndex
	if ref == nil || ref.URL == "" {
		o.logger.Debug("📦 Descriptor carries no asset index")
		return nil
	}

	size := ref.Size
	if size <= 0 {
		size = -1
	}

	indexPath := o.layout.AssetIndexPath(ref.ID)
	batch := o.queue.Enqueue(ctx, []download.Task{{
		Name: "asset index " + ref.ID,
		URL:  ref.URL,
		Dest: indexPath,
		SHA1: ref.SHA1,
		Size: size,
	}})
	if err := batch.Wait(ctx); err != nil {
		return err
	}

	idx, err := assets.LoadIndex(indexPath)
	if err != nil {
		return err
	}

	tasks := idx.Tasks(o.layout, assets.ResourceURL())
	o.logger.Info("📦 Asset index expanded", "index", ref.ID, "objects", len(tasks), "bytes", idx.TotalSize())
	return o.queue.Enqueue(ctx, tasks).Wait(ctx)
}

// provisionRuntime resolves the java executable: an explicit java_path
// setting wins; otherwise the provisioner locates or installs the
// major the descriptor asks for.
func (o *Orchestrator) provisionRuntime(ctx context.Context, desc *version.Descriptor, cfg *settings.Settings) (string, error) {
	if cfg.JavaPath != "" {
		if _, err := javaruntime.Probe(ctx, cfg.JavaPath, o.logger); err != nil {
			o.logger.Warn("⚠️ Configured java_path did not answer a version probe", "path", cfg.JavaPath, "error", err)
		}
		return cfg.JavaPath, nil
	}

	// Descriptors older than the javaVersion field all ran on 8
	major := 8
	if desc.JavaVersion != nil && desc.JavaVersion.MajorVersion > 0 {
		major = desc.JavaVersion.MajorVersion
	}

	handle, err := o.runtime.Ensure(ctx, major)
	if err != nil {
		return "", err
	}
	o.logger.Info("☕ Runtime ready", "major", handle.Major, "origin", handle.Origin, "path", handle.Path)
	return handle.Path, nil
}

// prepareAndSpawn extracts natives, assembles the command line, hides
// the host window, and starts the process.
func (o *Orchestrator) prepareAndSpawn(ctx context.Context, sess *Session, desc *version.Descriptor, pl *plan.Plan, cfg *settings.Settings, javaExe string, req Request) error {
	workDir, err := resolveWorkDir(o.layout, req.InstanceID, desc.ID)
	if err != nil {
		return err
	}

	nativesDir := o.layout.NativesDir(desc.ID)
	if err := extractNatives(pl.NativeJars, nativesDir, o.logger); err != nil {
		return err
	}

	classpath := JoinClasspath(pl.Classpath)
	args, err := buildArguments(argInput{
		Settings:   cfg,
		Descriptor: desc,
		Classpath:  classpath,
		NativesDir: nativesDir,
		Proxy:      req.Proxy,
		Auth:       req.Auth,
		GameDir:    workDir,
		AssetsDir:  o.layout.AssetsDir(),
	})
	if err != nil {
		return err
	}

	sess.WorkDir = workDir
	sess.Classpath = classpath
	sess.Args = args

	cmd := exec.CommandContext(ctx, javaExe, args...)
	cmd.Dir = workDir
	sess.cmd = cmd

	o.logger.Info("🚀 Launching", "java", javaExe, "version", desc.ID, "workdir", workDir)
	o.logger.Debug("🚀 Full command", "cmd", shellparse.Join(append([]string{javaExe}, args...)))

	if !cfg.KeepWindow {
		sess.hideWindow()
	}
	if err := sess.start(); err != nil {
		sess.restoreWindow()
		return fmt.Errorf("%w: %v", launchererrors.ErrSpawn, err)
	}
	return nil
}
