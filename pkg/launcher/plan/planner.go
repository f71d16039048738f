package plan

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/justdreno/Whoap-Launcer-sub000/internal/layout"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/download"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/version"
)

// Admission priorities: the large client jar starts first so it
// overlaps with the many small library transfers.
const (
	priorityClient  = 0
	priorityLibrary = 1
)

// Plan is the concrete artifact set for one launch on one platform
type Plan struct {
	// Tasks holds every artifact to acquire, client jar included
	Tasks []download.Task

	// Classpath holds the ordered on-disk paths for the -cp flag,
	// client jar last. Native jars are excluded.
	Classpath []string

	// ClientJar is the destination path of the main game artifact
	ClientJar string

	// NativeJars holds surviving platform-native artifacts that need
	// extraction before launch
	NativeJars []string
}

// Planner evaluates platform rules and synthesizes artifact paths
type Planner struct {
	layout *layout.Layout
	logger hclog.Logger
}

// NewPlanner creates a planner over the given data layout
func NewPlanner(lay *layout.Layout, logger hclog.Logger) *Planner {
	return &Planner{layout: lay, logger: logger}
}

// Plan walks the merged descriptor's libraries, skips entries whose
// rules exclude osName, and emits one task per survivor plus one for
// the client artifact when the descriptor carries a source for it.
// Artifacts already on disk are still emitted; the acquisition queue
// validates them and short-circuits the transfer.
func (p *Planner) Plan(desc *version.Descriptor, osName string) (*Plan, error) {
	result := &Plan{}

	for _, lib := range desc.Libraries {
		if !Allowed(lib.Rules, osName) {
			p.logger.Debug("🚫 Library excluded by platform rules", "library", lib.Name, "os", osName)
			continue
		}

		task, native, err := p.libraryTask(lib, osName)
		if err != nil {
			return nil, err
		}

		result.Tasks = append(result.Tasks, task)
		if native {
			result.NativeJars = append(result.NativeJars, task.Dest)
		} else {
			result.Classpath = append(result.Classpath, task.Dest)
		}
	}

	if client := clientRef(desc); client != nil && client.URL != "" {
		dest := p.layout.VersionJarPath(desc.ID)
		result.Tasks = append(result.Tasks, download.Task{
			Name:     desc.ID + " client",
			URL:      client.URL,
			Dest:     dest,
			SHA1:     client.SHA1,
			Size:     sizeOrUnknown(client.Size),
			Priority: priorityClient,
		})
		result.ClientJar = dest
		result.Classpath = append(result.Classpath, dest)
	}

	p.logger.Debug("📋 Plan computed",
		"version", desc.ID,
		"artifacts", len(result.Tasks),
		"classpath", len(result.Classpath),
		"natives", len(result.NativeJars),
	)
	return result, nil
}

// libraryTask resolves one surviving library to a task, handling both
// the modern artifact form and legacy coordinate synthesis.
func (p *Planner) libraryTask(lib version.Library, osName string) (download.Task, bool, error) {
	coord, coordErr := version.ParseCoordinate(lib.Name)

	task := download.Task{
		Name:     lib.Name,
		Priority: priorityLibrary,
		Size:     -1,
	}

	if art := artifactRef(lib); art != nil {
		relPath := art.Path
		if relPath == "" {
			if coordErr != nil {
				return task, false, fmt.Errorf("library %s has no artifact path: %w", lib.Name, coordErr)
			}
			relPath = coord.RelPath()
		}
		task.URL = art.URL
		task.Dest = p.layout.LibraryPath(relPath)
		task.SHA1 = art.SHA1
		task.Size = sizeOrUnknown(art.Size)
	} else {
		if coordErr != nil {
			return task, false, fmt.Errorf("cannot synthesize path: %w", coordErr)
		}
		task.URL = coord.URL(lib.URL)
		task.Dest = p.layout.LibraryPath(coord.RelPath())
	}

	native := coordErr == nil && strings.HasPrefix(coord.Classifier, "natives-") &&
		coord.Classifier == "natives-"+osName
	return task, native, nil
}

func artifactRef(lib version.Library) *version.FileRef {
	if lib.Downloads == nil {
		return nil
	}
	return lib.Downloads.Artifact
}

func clientRef(desc *version.Descriptor) *version.FileRef {
	if desc.Downloads == nil {
		return nil
	}
	return desc.Downloads.Client
}

// sizeOrUnknown maps the wire format's absent size onto the queue's
// negative-means-unknown convention.
func sizeOrUnknown(size int64) int64 {
	if size <= 0 {
		return -1
	}
	return size
}
