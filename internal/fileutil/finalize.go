// Package fileutil writes output files atomically next to their final location.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	ownerReadWrite = 0o600
	executableBits = 0o111
)

// Atomic is an output file under construction. Nothing is visible at the final path until Commit.
type Atomic struct {
	// Source describes the input file.
	Source os.FileInfo
	// Executable reports whether the input has any executable bit set.
	Executable bool
	// File is the temporary file to write to.
	File *os.File

	target string
}

// NewAtomic stats the input and creates a hidden temporary file in the directory of target.
// Callers must defer Abort.
func NewAtomic(input, target string) (*Atomic, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", input, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%q is not a regular file", input)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".sectorc-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &Atomic{
		Source:     info,
		Executable: info.Mode()&executableBits != 0,
		File:       tmp,
		target:     target,
	}, nil
}

// Abort closes the temporary file and removes it if *errp is set.
func (a *Atomic) Abort(errp *error) {
	a.File.Close() //nolint:errcheck,gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(a.File.Name()) //nolint:errcheck,gosec // best-effort cleanup
	}
}

// Commit sets the permissions, renames the temporary file onto the target and returns its size.
// With preserveTimestamps the target gets the source's modification time.
func (a *Atomic) Commit(executable, preserveTimestamps bool) (int64, error) {
	perm := os.FileMode(ownerReadWrite)
	if executable {
		perm |= executableBits
	}

	if err := a.File.Chmod(perm); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := a.File.Close(); err != nil {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(a.File.Name(), a.target); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	return finalize(a.target, preserveTimestamps, a.Source.ModTime())
}

func finalize(path string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", path, err)
	}

	return info.Size(), nil
}

// OutputPath names the output of a file: encrypted files get encryptExt appended,
// decrypted files have it stripped and decryptExt appended.
func OutputPath(input string, decrypt bool, encryptExt, decryptExt string) string {
	ext := encryptExt

	if decrypt {
		input = strings.TrimSuffix(input, encryptExt)
		ext = decryptExt
	}

	return filepath.Join(filepath.Dir(input), filepath.Base(input)+ext)
}
