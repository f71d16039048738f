package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/justdreno/Whoap-Launcer-sub000/internal/layout"
	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

// Store loads raw version descriptors. Remote manifest lookup comes
// first; descriptors cached in the version directory serve as the
// offline fallback. Successful remote fetches are written back to disk.
type Store struct {
	layout      *layout.Layout
	client      *http.Client
	manifestURL string
	logger      hclog.Logger

	mu       sync.Mutex
	manifest *Manifest
}

// NewStore creates a descriptor store over the given data layout
func NewStore(lay *layout.Layout, client *http.Client, logger hclog.Logger) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{
		layout:      lay,
		client:      client,
		manifestURL: ManifestURL(),
		logger:      logger,
	}
}

// Manifest returns the version manifest, fetching it on first use and
// falling back to the on-disk copy when the network is unavailable.
func (s *Store) Manifest(ctx context.Context) (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manifest != nil {
		return s.manifest, nil
	}

	var m Manifest
	if err := fetchJSON(ctx, s.client, s.manifestURL, &m); err != nil {
		s.logger.Debug("🔍 Manifest fetch failed, trying disk cache", "error", err)

		data, readErr := os.ReadFile(s.layout.ManifestPath())
		if readErr != nil {
			return nil, err
		}
		if jsonErr := json.Unmarshal(data, &m); jsonErr != nil {
			return nil, fmt.Errorf("failed to parse cached manifest: %w", jsonErr)
		}
		s.logger.Debug("📦 Using cached version manifest", "versions", len(m.Versions))
	} else {
		s.writeManifestCache(&m)
	}

	s.manifest = &m
	return s.manifest, nil
}

func (s *Store) writeManifestCache(m *Manifest) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := os.MkdirAll(s.layout.Root(), 0755); err != nil {
		return
	}
	if err := os.WriteFile(s.layout.ManifestPath(), data, 0644); err != nil {
		s.logger.Debug("Failed to cache manifest", "error", err)
	}
}

// Raw loads the unmerged descriptor for a version id. The remote
// manifest is consulted first; a descriptor already on disk under the
// version directory is the fallback. Missing in both places yields
// ErrVersionNotFound.
func (s *Store) Raw(ctx context.Context, id string) (*Descriptor, error) {
	if err := layout.ValidateID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", launchererrors.ErrVersionNotFound, err)
	}

	if desc, err := s.rawRemote(ctx, id); err == nil {
		return desc, nil
	} else {
		s.logger.Debug("🔍 Remote descriptor unavailable", "version", id, "error", err)
	}

	if desc, err := s.rawLocal(id); err == nil {
		s.logger.Debug("📦 Using local descriptor", "version", id)
		return desc, nil
	}

	return nil, fmt.Errorf("%w: %s", launchererrors.ErrVersionNotFound, id)
}

func (s *Store) rawRemote(ctx context.Context, id string) (*Descriptor, error) {
	manifest, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	entry := manifest.Find(id)
	if entry == nil {
		return nil, fmt.Errorf("version %s not in manifest", id)
	}

	var desc Descriptor
	if err := fetchJSON(ctx, s.client, entry.URL, &desc); err != nil {
		return nil, err
	}

	s.writeDescriptorCache(id, &desc)
	return &desc, nil
}

func (s *Store) rawLocal(id string) (*Descriptor, error) {
	data, err := os.ReadFile(s.layout.VersionDescriptorPath(id))
	if err != nil {
		return nil, err
	}

	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor for %s: %w", id, err)
	}
	return &desc, nil
}

func (s *Store) writeDescriptorCache(id string, desc *Descriptor) {
	path := s.layout.VersionDescriptorPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}

	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.logger.Debug("Failed to cache descriptor", "version", id, "error", err)
	}
}
