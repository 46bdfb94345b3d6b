// internal/cliutil/paths.go
package cliutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"seqalign/internal/errs"
)

// Default locations, relative to the working directory.
const (
	DefaultInput  = "datasets/input.csv"
	DefaultOutput = "results/results.csv"
)

// MaxPath bounds accepted path lengths.
const MaxPath = 4096

// invalidPathChars are rejected anywhere in a path.
const invalidPathChars = `<>:"|?*`

// Stdio is the path meaning stdout for output.
const Stdio = "-"

// CheckPath applies the checks shared by input and output paths: length,
// forbidden characters, optional .csv extension, no symlink, no directory.
func CheckPath(path, role string, requireCSV bool) error {
	if path == "" {
		return errs.Ef(errs.ErrPath, role, "empty path")
	}
	if len(path) >= MaxPath {
		return errs.Ef(errs.ErrPath, role, "path too long (%d bytes)", len(path))
	}
	if requireCSV && !strings.EqualFold(filepath.Ext(path), ".csv") {
		return errs.Ef(errs.ErrPath, role, "only .csv files allowed: %s", path)
	}
	if i := strings.IndexAny(path, invalidPathChars); i >= 0 {
		return errs.Ef(errs.ErrPath, role, "invalid character %q in path %s", path[i], path)
	}
	st, err := os.Lstat(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		return nil
	default:
		return errs.E(errs.ErrPath, role, err)
	}
	if st.Mode()&os.ModeSymlink != 0 {
		return errs.Ef(errs.ErrPath, role, "symlinks not allowed: %s", path)
	}
	if st.IsDir() {
		return errs.Ef(errs.ErrPath, role, "%s is a directory", path)
	}
	return nil
}

// CheckInput validates an input path, which must exist.
func CheckInput(path string) error {
	if err := CheckPath(path, "input", true); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return errs.E(errs.ErrPath, "input", fmt.Errorf("%s: %w", path, err))
	}
	return nil
}

// CheckOutput validates an output path. "-" means stdout and is always valid.
func CheckOutput(path string, requireCSV bool) error {
	if path == Stdio {
		return nil
	}
	return CheckPath(path, "output", requireCSV)
}

// CreateOutput creates (or truncates) path, making parent directories as
// needed.
func CreateOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.E(errs.ErrPath, "output", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.E(errs.ErrPath, "output", err)
	}
	return f, nil
}
