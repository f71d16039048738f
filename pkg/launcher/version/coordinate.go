package version

import (
	"fmt"
	"strings"
)

// DefaultLibraryRepo is the repository used for legacy coordinate
// entries that do not name their own source.
const DefaultLibraryRepo = "https://libraries.minecraft.net/"

// Coordinate is a parsed maven-style dependency coordinate
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
}

// ParseCoordinate splits a group:artifact:version[:classifier] string
func ParseCoordinate(name string) (Coordinate, error) {
	parts := strings.Split(name, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, fmt.Errorf("malformed library coordinate %q", name)
	}
	for _, p := range parts[:3] {
		if p == "" {
			return Coordinate{}, fmt.Errorf("malformed library coordinate %q", name)
		}
	}

	c := Coordinate{
		Group:    parts[0],
		Artifact: parts[1],
		Version:  parts[2],
	}
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// RelPath returns the repository-relative artifact path, slash-separated
func (c Coordinate) RelPath() string {
	file := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	file += ".jar"

	return strings.Join([]string{
		strings.ReplaceAll(c.Group, ".", "/"),
		c.Artifact,
		c.Version,
		file,
	}, "/")
}

// URL joins the coordinate's relative path onto a repository base
func (c Coordinate) URL(repo string) string {
	if repo == "" {
		repo = DefaultLibraryRepo
	}
	if !strings.HasSuffix(repo, "/") {
		repo += "/"
	}
	return repo + c.RelPath()
}
