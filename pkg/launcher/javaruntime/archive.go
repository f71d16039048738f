package javaruntime

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/hashicorp/go-hclog"
)

var (
	magicZip   = []byte{0x50, 0x4b}
	magicGzip  = []byte{0x1f, 0x8b}
	magicBzip2 = []byte{0x42, 0x5a, 0x68}
)

// extractArchive unpacks a runtime archive into destDir. The format is
// sniffed from magic bytes: zip, gzip-compressed tar, or
// bzip2-compressed tar.
func extractArchive(archivePath, destDir string, logger hclog.Logger) error {
	head := make([]byte, 3)
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	if _, err := io.ReadFull(f, head); err != nil {
		f.Close()
		return fmt.Errorf("reading archive header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return err
	}
	defer f.Close()

	switch {
	case bytes.HasPrefix(head, magicZip):
		logger.Debug("📂 Extracting zip archive", "dest", destDir)
		f.Close()
		return extractZip(archivePath, destDir)
	case bytes.HasPrefix(head, magicGzip):
		logger.Debug("📂 Extracting tar.gz archive", "dest", destDir)
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gz.Close()
		return extractTar(gz, destDir)
	case bytes.HasPrefix(head, magicBzip2):
		logger.Debug("📂 Extracting tar.bz2 archive", "dest", destDir)
		bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			return fmt.Errorf("creating bzip2 reader: %w", err)
		}
		defer bz.Close()
		return extractTar(bz, destDir)
	default:
		return fmt.Errorf("unrecognized archive format (magic %x)", head)
	}
}

// extractTar unpacks a tar stream, refusing entries that would escape
// the destination directory.
func extractTar(r io.Reader, destDir string) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar header: %w", err)
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)|0700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("extracting %s: %w", header.Name, err)
			}
			if err := out.Close(); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("creating symlink %s: %w", header.Name, err)
			}
		default:
			// Hard links and devices do not occur in vendor archives
			continue
		}
	}
}

// extractZip unpacks a zip archive with the same escape protection
func extractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip archive: %w", err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		target, err := safeJoin(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, file.Mode()|0700); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		in, err := file.Open()
		if err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode())
		if err != nil {
			in.Close()
			return err
		}
		_, copyErr := io.Copy(out, in)
		in.Close()
		if err := out.Close(); copyErr == nil {
			copyErr = err
		}
		if copyErr != nil {
			return fmt.Errorf("extracting %s: %w", file.Name, copyErr)
		}
	}
	return nil
}

// safeJoin joins an archive entry name onto destDir, rejecting
// absolute names and traversal outside the destination.
func safeJoin(destDir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return filepath.Join(destDir, cleaned), nil
}
