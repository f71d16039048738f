package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.MemoryMinMB != 512 {
		t.Errorf("expected default min heap 512, got %d", s.MemoryMinMB)
	}
	if s.MemoryMaxMB != 2048 {
		t.Errorf("expected default max heap 2048, got %d", s.MemoryMaxMB)
	}
	if s.JavaPath != "" {
		t.Errorf("expected empty java path, got %s", s.JavaPath)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s := Default()
	s.MemoryMaxMB = 4096
	s.JVMArgs = "-XX:+UseG1GC -Dfoo=bar"
	s.KeepWindow = true

	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.MemoryMaxMB != 4096 {
		t.Errorf("expected max heap 4096, got %d", loaded.MemoryMaxMB)
	}
	if loaded.JVMArgs != "-XX:+UseG1GC -Dfoo=bar" {
		t.Errorf("unexpected jvm args: %s", loaded.JVMArgs)
	}
	if !loaded.KeepWindow {
		t.Error("expected keep_window to survive the round trip")
	}
}

func TestLoadClampsHeapBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	data := []byte(`{"memory_min_mb": 1024, "memory_max_mb": 256}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.MemoryMaxMB < s.MemoryMinMB {
		t.Errorf("max heap %d below min heap %d", s.MemoryMaxMB, s.MemoryMinMB)
	}
}
