// Package download is the bounded-concurrency artifact acquisition engine.
//
// Checksums accept the prefixed "algorithm:hexvalue" form (e.g.
// "sha1:c0ffee...") as well as bare hex, where the algorithm is guessed
// from the digest length.
package download

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

// ChecksumAlgorithm represents supported checksum algorithms
type ChecksumAlgorithm int

const (
	ChecksumSHA1 ChecksumAlgorithm = iota
	ChecksumSHA256
)

func (c ChecksumAlgorithm) String() string {
	switch c {
	case ChecksumSHA1:
		return "sha1"
	case ChecksumSHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

// New returns a fresh hash state for the algorithm
func (c ChecksumAlgorithm) New() hash.Hash {
	switch c {
	case ChecksumSHA256:
		return sha256.New()
	default:
		return sha1.New()
	}
}

// ParseChecksum parses a checksum string that may or may not have a prefix
func ParseChecksum(checksumStr string) (ChecksumAlgorithm, string, error) {
	if strings.Contains(checksumStr, ":") {
		parts := strings.SplitN(checksumStr, ":", 2)

		var algo ChecksumAlgorithm
		switch parts[0] {
		case "sha1":
			algo = ChecksumSHA1
		case "sha256":
			algo = ChecksumSHA256
		default:
			return ChecksumSHA1, "", fmt.Errorf("unknown checksum algorithm: %s", parts[0])
		}

		return algo, strings.ToLower(parts[1]), nil
	}

	// Legacy format - guess based on length
	var algo ChecksumAlgorithm
	switch len(checksumStr) {
	case 40:
		algo = ChecksumSHA1
	case 64:
		algo = ChecksumSHA256
	default:
		algo = ChecksumSHA1 // Default
	}

	return algo, strings.ToLower(checksumStr), nil
}

// HashFile computes the hex digest of a file with streaming reads
func HashFile(path string, algo ChecksumAlgorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := algo.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyFile checks a file on disk against an expected checksum and
// size. An empty checksum skips the hash comparison; a negative size
// skips the size comparison. A mismatch wraps ErrIntegrityMismatch.
func VerifyFile(path, checksum string, size int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if size >= 0 && info.Size() != size {
		return fmt.Errorf("%w: %s is %d bytes, expected %d",
			launchererrors.ErrIntegrityMismatch, path, info.Size(), size)
	}

	if checksum == "" {
		return nil
	}

	algo, expected, err := ParseChecksum(checksum)
	if err != nil {
		return err
	}

	actual, err := HashFile(path, algo)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("%w: %s %s digest %s, expected %s",
			launchererrors.ErrIntegrityMismatch, path, algo, actual, expected)
	}

	return nil
}
