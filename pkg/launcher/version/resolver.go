package version

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

// RawSource loads unmerged descriptors by version id
type RawSource interface {
	Raw(ctx context.Context, id string) (*Descriptor, error)
}

// Resolver flattens a version descriptor and its inheritance chain
// into a single merged descriptor.
type Resolver struct {
	source RawSource
	logger hclog.Logger
}

// NewResolver creates a resolver over a descriptor source
func NewResolver(source RawSource, logger hclog.Logger) *Resolver {
	return &Resolver{source: source, logger: logger}
}

// Resolve loads the descriptor for id and recursively merges every
// ancestor named by inheritsFrom. Revisiting an id already on the
// resolution chain fails with ErrCycleDetected instead of recursing.
func (r *Resolver) Resolve(ctx context.Context, id string) (*Descriptor, error) {
	return r.resolve(ctx, id, make(map[string]bool))
}

func (r *Resolver) resolve(ctx context.Context, id string, visited map[string]bool) (*Descriptor, error) {
	if visited[id] {
		return nil, fmt.Errorf("%w: %s already on resolution chain", launchererrors.ErrCycleDetected, id)
	}
	visited[id] = true

	desc, err := r.source.Raw(ctx, id)
	if err != nil {
		return nil, err
	}

	if desc.InheritsFrom == "" {
		return desc, nil
	}

	r.logger.Debug("🔗 Resolving parent version", "version", id, "parent", desc.InheritsFrom)

	parent, err := r.resolve(ctx, desc.InheritsFrom, visited)
	if err != nil {
		return nil, err
	}

	return merge(parent, desc), nil
}

// merge produces a new descriptor from a resolved parent and its
// child. Inputs are never mutated. Scalar fields follow the child when
// present, argument lists concatenate parent-then-child, and library
// lists union with the child replacing any parent entry that shares
// its dependency key.
func merge(parent, child *Descriptor) *Descriptor {
	merged := &Descriptor{
		ID:          child.ID,
		Type:        child.Type,
		MainClass:   child.MainClass,
		JavaVersion: child.JavaVersion,
		AssetIndex:  child.AssetIndex,
	}

	if merged.Type == "" {
		merged.Type = parent.Type
	}
	if merged.MainClass == "" {
		merged.MainClass = parent.MainClass
	}
	if merged.JavaVersion == nil {
		merged.JavaVersion = parent.JavaVersion
	}
	if merged.AssetIndex == nil {
		merged.AssetIndex = parent.AssetIndex
	}

	client := clientDownload(parent)
	if c := clientDownload(child); c != nil {
		client = c
	}
	if client != nil {
		merged.Downloads = &Downloads{Client: client}
	}

	merged.Arguments = mergeArguments(parent.Arguments, child.Arguments)
	merged.Libraries = mergeLibraries(parent.Libraries, child.Libraries)

	return merged
}

func clientDownload(d *Descriptor) *FileRef {
	if d.Downloads == nil {
		return nil
	}
	return d.Downloads.Client
}

// mergeArguments concatenates parent flags before child flags so a
// child can append overrides.
func mergeArguments(parent, child *Arguments) *Arguments {
	if parent == nil && child == nil {
		return nil
	}

	merged := &Arguments{}
	if parent != nil {
		merged.Game = append(merged.Game, parent.Game...)
		merged.JVM = append(merged.JVM, parent.JVM...)
	}
	if child != nil {
		merged.Game = append(merged.Game, child.Game...)
		merged.JVM = append(merged.JVM, child.JVM...)
	}
	return merged
}

// mergeLibraries unions parent and child entries. A child entry with a
// key already present replaces the parent entry in place, keeping the
// parent's classpath position; new child entries append after.
func mergeLibraries(parent, child []Library) []Library {
	if len(parent) == 0 && len(child) == 0 {
		return nil
	}

	merged := make([]Library, 0, len(parent)+len(child))
	index := make(map[string]int, len(parent))

	for _, lib := range parent {
		index[lib.Key()] = len(merged)
		merged = append(merged, lib)
	}
	for _, lib := range child {
		if i, ok := index[lib.Key()]; ok {
			merged[i] = lib
			continue
		}
		index[lib.Key()] = len(merged)
		merged = append(merged, lib)
	}

	return merged
}
