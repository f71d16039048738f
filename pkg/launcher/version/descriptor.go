// Package version resolves version descriptors and their inheritance chains
package version

import (
	"encoding/json"
	"strings"
)

type Descriptor struct {
	ID           string       `json:"id"`
	InheritsFrom string       `json:"inheritsFrom,omitempty"`
	Type         string       `json:"type,omitempty"`
	MainClass    string       `json:"mainClass,omitempty"`
	JavaVersion  *JavaVersion `json:"javaVersion,omitempty"`
	AssetIndex   *FileRef     `json:"assetIndex,omitempty"`
	Downloads    *Downloads   `json:"downloads,omitempty"`
	Libraries    []Library    `json:"libraries,omitempty"`
	Arguments    *Arguments   `json:"arguments,omitempty"`
}

type JavaVersion struct {
	Component    string `json:"component,omitempty"`
	MajorVersion int    `json:"majorVersion"`
}

// FileRef is a downloadable file reference with integrity metadata
type FileRef struct {
	ID   string `json:"id,omitempty"`
	Path string `json:"path,omitempty"`
	URL  string `json:"url"`
	SHA1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
}

type Downloads struct {
	Client *FileRef `json:"client,omitempty"`
}

type Library struct {
	Name      string            `json:"name"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
	Rules     []Rule            `json:"rules,omitempty"`
	URL       string            `json:"url,omitempty"`
}

type LibraryDownloads struct {
	Artifact *FileRef `json:"artifact,omitempty"`
}

type Rule struct {
	Action string  `json:"action"`
	OS     *OSRule `json:"os,omitempty"`
}

type OSRule struct {
	Name string `json:"name,omitempty"`
}

type Arguments struct {
	Game ArgumentList `json:"game,omitempty"`
	JVM  ArgumentList `json:"jvm,omitempty"`
}

// ArgumentList is an ordered list of plain arguments. Conditional
// argument objects found in the wire format are skipped on decode.
type ArgumentList []string

func (a *ArgumentList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	args := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			// Rule-gated argument object, not a plain string
			continue
		}
		args = append(args, s)
	}

	*a = args
	return nil
}

// Key returns the dependency key of the library: group:artifact and,
// when the coordinate carries one, the classifier. The version segment
// is deliberately excluded so differing versions collide on merge.
func (l *Library) Key() string {
	parts := strings.Split(l.Name, ":")
	if len(parts) < 2 {
		return l.Name
	}
	key := parts[0] + ":" + parts[1]
	if len(parts) >= 4 {
		key += ":" + parts[3]
	}
	return key
}
