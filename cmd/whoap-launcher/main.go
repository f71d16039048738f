package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/justdreno/Whoap-Launcer-sub000/internal/layout"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/download"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/javaruntime"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/launch"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/version"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/logging"
)

const launcherVersion = "0.1.0"

var (
	dataDir  string
	logLevel string
	rootCmd  *cobra.Command

	launchUsername  string
	launchUUID      string
	launchToken     string
	launchUserType  string
	launchInstance  string
	launchAgentJar  string
	launchAgentAddr string

	versionsLimit int
	javaMajor     int
)

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "whoap-launcher",
		Short: "Launch the game",
		Long:  `Resolve a game version, fetch its libraries and assets, provision a matching java runtime, and run it.`,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (defaults to the platform location)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	launchCmd := &cobra.Command{
		Use:   "launch <version-id>",
		Short: "Run the full pipeline for a version and start the game",
		Args:  cobra.ExactArgs(1),
		Run:   runLaunch,
	}
	launchCmd.Flags().StringVarP(&launchUsername, "username", "u", "Player", "Player name")
	launchCmd.Flags().StringVar(&launchUUID, "uuid", "", "Account identifier")
	launchCmd.Flags().StringVar(&launchToken, "access-token", "", "Session access token")
	launchCmd.Flags().StringVar(&launchUserType, "user-type", "msa", "Account type")
	launchCmd.Flags().StringVarP(&launchInstance, "instance", "i", "", "Run inside a dedicated instance directory")
	launchCmd.Flags().StringVar(&launchAgentJar, "agent-jar", "", "Authentication proxy agent jar")
	launchCmd.Flags().StringVar(&launchAgentAddr, "agent-address", "", "Authentication proxy endpoint")
	rootCmd.AddCommand(launchCmd)

	versionsCmd := &cobra.Command{
		Use:   "versions",
		Short: "List versions published in the manifest",
		Run:   runVersions,
	}
	versionsCmd.Flags().IntVarP(&versionsLimit, "limit", "n", 20, "Show at most this many entries (0 for all)")
	rootCmd.AddCommand(versionsCmd)

	javaCmd := &cobra.Command{
		Use:   "java",
		Short: "Locate or install a java runtime",
		Run:   runJava,
	}
	javaCmd.Flags().IntVar(&javaMajor, "major", 17, "Major version to provision")
	rootCmd.AddCommand(javaCmd)
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("whoap-launcher %s\n", launcherVersion)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEnv builds the data layout and logger every subcommand shares
func newEnv() (*layout.Layout, hclog.Logger) {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	logger := logging.NewLogger("whoap-launcher", level, os.Stderr)

	lay := layout.Default()
	if dataDir != "" {
		lay = layout.New(dataDir)
	}
	return lay, logger
}

// newProgressQueue wires the acquisition queue's counters into a
// terminal progress bar. The returned stop function ends rendering.
func newProgressQueue(logger hclog.Logger) (*download.Queue, func()) {
	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stderr)
	pw.SetUpdateFrequency(100 * time.Millisecond)

	tracker := &progress.Tracker{Message: "Acquiring artifacts", Units: progress.UnitsDefault}
	pw.AppendTracker(tracker)
	go pw.Render()

	queue := download.NewQueue(download.Options{
		OnProgress: func(done, total int64) {
			// Counters reset between acquisition windows
			if total > 0 {
				tracker.UpdateTotal(total)
				tracker.SetValue(done)
			}
		},
	}, logger)

	stop := func() {
		tracker.MarkAsDone()
		pw.Stop()
	}
	return queue, stop
}

type consoleSink struct{}

func (consoleSink) Line(text string) {
	fmt.Println(text)
}

type consoleCrash struct{}

func (consoleCrash) ReportCrash(code int, tail []string) {
	fmt.Fprintf(os.Stderr, "\n💥 Game crashed with exit code %d; last output:\n", code)
	start := 0
	if len(tail) > 30 {
		start = len(tail) - 30
	}
	for _, line := range tail[start:] {
		fmt.Fprintln(os.Stderr, "  "+line)
	}
}

func runLaunch(cmd *cobra.Command, args []string) {
	lay, logger := newEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	store := version.NewStore(lay, nil, logger)
	queue, stopProgress := newProgressQueue(logger)
	prov := javaruntime.NewProvisioner(lay, queue, logger)
	prov.OnStatus = func(text string) {
		fmt.Fprintln(os.Stderr, text)
	}

	orch := launch.NewOrchestrator(lay, store, queue, prov, logger)
	orch.Sink = consoleSink{}
	orch.Crash = consoleCrash{}
	orch.OnState = func(st launch.State) {
		logger.Debug("🔄 Launch state", "state", st.String())
	}

	sess, err := orch.Launch(ctx, launch.Request{
		InstanceID: launchInstance,
		VersionID:  args[0],
		Auth: launch.AuthContext{
			Username:    launchUsername,
			UUID:        launchUUID,
			AccessToken: launchToken,
			UserType:    launchUserType,
		},
		Proxy: launch.ProxyConfig{
			AgentJar: launchAgentJar,
			Address:  launchAgentAddr,
		},
	})
	stopProgress()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Launch failed: %v\n", err)
		os.Exit(1)
	}

	state, err := sess.Wait()
	if err != nil {
		fmt.Fprintf(os.Stderr, "⏹️ Run ended: %v\n", err)
		os.Exit(130)
	}
	if state == launch.StateCrashed {
		os.Exit(sess.ExitCode())
	}
}

func runVersions(cmd *cobra.Command, args []string) {
	lay, logger := newEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := version.NewStore(lay, nil, logger)
	manifest, err := store.Manifest(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Could not load the version manifest: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Latest release: %s  Latest snapshot: %s\n\n", manifest.Latest.Release, manifest.Latest.Snapshot)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Type", "Released"})
	for i, entry := range manifest.Versions {
		if versionsLimit > 0 && i >= versionsLimit {
			break
		}
		t.AppendRow(table.Row{entry.ID, entry.Type, entry.ReleaseTime})
	}

	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
}

func runJava(cmd *cobra.Command, args []string) {
	lay, logger := newEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	queue, stopProgress := newProgressQueue(logger)
	prov := javaruntime.NewProvisioner(lay, queue, logger)
	prov.OnStatus = func(text string) {
		fmt.Fprintln(os.Stderr, text)
	}

	handle, err := prov.Ensure(ctx, javaMajor)
	stopProgress()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Could not provision java %d: %v\n", javaMajor, err)
		os.Exit(1)
	}

	fmt.Printf("☕ Java %d ready (%s): %s\n", handle.Major, handle.Origin, handle.Path)
}
