// Package fsutil provides the filesystem primitives the conversion
// pipeline consumes: input discovery with exclusion filtering, source-file
// discrimination, and output writing.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/esmshift/pkg/textutil"
)

// ErrInputMissing indicates a declared input path does not exist.
var ErrInputMissing = errors.New("input path does not exist")

// ErrNotFileOrDir indicates a filesystem entry that is neither a regular
// file nor a directory.
var ErrNotFileOrDir = errors.New("entry is neither file nor directory")

// Entry is one discovered input file with the root it was found under.
type Entry struct {
	Path string
	Root string
}

// Rel returns the entry's path relative to its root. A root that is itself
// a file yields the bare file name.
func (e Entry) Rel() string {
	info, err := os.Stat(e.Root)
	if err == nil && !info.IsDir() {
		return filepath.Base(e.Path)
	}

	rel, err := filepath.Rel(e.Root, e.Path)
	if err != nil {
		return filepath.Base(e.Path)
	}

	return rel
}

// Discover walks every input root in order and returns the files found,
// lexically ordered within each root, with excluded names filtered out.
// A missing input is fatal, as is an entry that is neither file nor
// directory.
func Discover(inputs, excludes []string) ([]Entry, error) {
	var entries []Entry

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrInputMissing, input)
			}

			return nil, fmt.Errorf("stat input %s: %w", input, err)
		}

		switch {
		case info.Mode().IsRegular():
			if !Excluded(input, excludes) {
				entries = append(entries, Entry{Path: input, Root: input})
			}
		case info.IsDir():
			walked, walkErr := walkDir(input, excludes)
			if walkErr != nil {
				return nil, walkErr
			}

			entries = append(entries, walked...)
		default:
			return nil, fmt.Errorf("%w: %s", ErrNotFileOrDir, input)
		}
	}

	return entries, nil
}

func walkDir(root string, excludes []string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if Excluded(path, excludes) && path != root {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return fmt.Errorf("%w: %s", ErrNotFileOrDir, path)
		}

		if !Excluded(path, excludes) {
			entries = append(entries, Entry{Path: path, Root: root})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return entries, nil
}

// Excluded reports whether path matches any exclusion fragment. A fragment
// containing a dot is an exact file-name match; any other fragment matches
// as a substring anywhere in the path.
func Excluded(path string, excludes []string) bool {
	base := filepath.Base(path)

	for _, fragment := range excludes {
		if fragment == "" {
			continue
		}

		if strings.Contains(fragment, ".") {
			if base == fragment {
				return true
			}

			continue
		}

		if strings.Contains(path, fragment) {
			return true
		}
	}

	return false
}

// IsSource reports whether data is JavaScript source eligible for
// conversion. Binary content is never source; otherwise language detection
// decides, with the file extension as tie-breaker.
func IsSource(path string, data []byte) bool {
	if textutil.IsBinary(data) || enry.IsBinary(data) {
		return false
	}

	if strings.EqualFold(filepath.Ext(path), ".js") {
		return true
	}

	return enry.GetLanguage(filepath.Base(path), data) == "JavaScript"
}

// WriteFile writes data to path, creating destination directories
// recursively first.
func WriteFile(path string, data []byte) error {
	const dirPerm = 0o755

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	const filePerm = 0o644

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
