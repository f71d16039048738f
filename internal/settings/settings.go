// Package settings loads and stores persistent launcher settings
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings holds user-tunable launcher configuration
type Settings struct {
	// MemoryMinMB is the initial JVM heap size in megabytes
	MemoryMinMB int `json:"memory_min_mb"`

	// MemoryMaxMB is the maximum JVM heap size in megabytes
	MemoryMaxMB int `json:"memory_max_mb"`

	// JavaPath overrides runtime discovery when set
	JavaPath string `json:"java_path,omitempty"`

	// JVMArgs holds extra JVM arguments as a single shell-style string
	JVMArgs string `json:"jvm_args,omitempty"`

	// KeepWindow keeps the launcher window visible while the game runs
	KeepWindow bool `json:"keep_window,omitempty"`
}

// Default returns settings with the built-in defaults
func Default() *Settings {
	return &Settings{
		MemoryMinMB: 512,
		MemoryMaxMB: 2048,
	}
}

// Load reads settings from path, returning defaults when the file is absent
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	s := Default()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	// Guard against nonsense heap bounds
	if s.MemoryMinMB <= 0 {
		s.MemoryMinMB = 512
	}
	if s.MemoryMaxMB < s.MemoryMinMB {
		s.MemoryMaxMB = s.MemoryMinMB
	}

	return s, nil
}

// Save writes settings to path, creating parent directories as needed
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
