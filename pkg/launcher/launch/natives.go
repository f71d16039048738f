package launch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// extractNatives unpacks platform-native jars into destDir so the
// java.library.path flag can point at it. Entries are flattened to
// their base name; native libraries sit at the jar root and jar
// metadata is skipped.
func extractNatives(jars []string, destDir string, logger hclog.Logger) error {
	if len(jars) == 0 {
		return nil
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	for _, jar := range jars {
		if err := extractNativeJar(jar, destDir); err != nil {
			return fmt.Errorf("failed to extract %s: %w", filepath.Base(jar), err)
		}
	}

	logger.Debug("📦 Native libraries extracted", "jars", len(jars), "dir", destDir)
	return nil
}

func extractNativeJar(jarPath, destDir string) error {
	reader, err := zip.OpenReader(jarPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || strings.HasPrefix(file.Name, "META-INF/") {
			continue
		}

		// Flattening to the base name keeps every entry under destDir
		// regardless of what the archive declares.
		target := filepath.Join(destDir, filepath.Base(file.Name))

		src, err := file.Open()
		if err != nil {
			return err
		}

		dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			src.Close()
			return err
		}

		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
