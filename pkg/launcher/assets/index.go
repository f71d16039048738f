// Package assets handles the content-addressed asset index and its
// expansion into acquisition tasks.
package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/justdreno/Whoap-Launcer-sub000/internal/layout"
	"github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/download"
)

// DefaultResourceURL is the content-addressed object store endpoint
const DefaultResourceURL = "https://resources.download.minecraft.net/"

type Object struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

type Index struct {
	Objects map[string]Object `json:"objects"`
}

// ResourceURL returns the object store endpoint, honoring the
// WHOAP_RESOURCE_URL override.
func ResourceURL() string {
	if url := os.Getenv("WHOAP_RESOURCE_URL"); url != "" {
		return url
	}
	return DefaultResourceURL
}

// LoadIndex reads and parses an asset index file
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse asset index: %w", err)
	}
	return &idx, nil
}

// TotalSize sums the byte sizes of every distinct object
func (idx *Index) TotalSize() int64 {
	seen := map[string]bool{}
	var total int64
	for _, obj := range idx.Objects {
		if seen[obj.Hash] {
			continue
		}
		seen[obj.Hash] = true
		total += obj.Size
	}
	return total
}

// Tasks expands the index into acquisition tasks, one per distinct
// object hash, in deterministic name order. Objects sharing a hash
// collapse to a single task labeled by the first name.
func (idx *Index) Tasks(lay *layout.Layout, baseURL string) []download.Task {
	if baseURL == "" {
		baseURL = ResourceURL()
	}

	names := make([]string, 0, len(idx.Objects))
	for name := range idx.Objects {
		names = append(names, name)
	}
	sort.Strings(names)

	tasks := make([]download.Task, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		obj := idx.Objects[name]
		if len(obj.Hash) < 2 || seen[obj.Hash] {
			continue
		}
		seen[obj.Hash] = true

		tasks = append(tasks, download.Task{
			Name: name,
			URL:  baseURL + obj.Hash[:2] + "/" + obj.Hash,
			Dest: lay.AssetObjectPath(obj.Hash),
			SHA1: obj.Hash,
			Size: obj.Size,
		})
	}
	return tasks
}
