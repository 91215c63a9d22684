package depot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Class is the outcome of stat'ing a resolved path.
type Class int

const (
	ClassMissing Class = iota
	ClassFile
	ClassDir
)

// Classify stats abs and reports whether it is a regular file, a
// directory, or effectively absent.
//
// Symlink policy: ResolveSafe only validates the textual path, so symlinks
// are re-checked here. A symlink is followed to its target and served as
// the target's type, but only if the realpath still sits under root; a
// link pointing outside root, a dangling link, and any other non-regular
// entry (socket, device) all classify as missing. Stat failures other than
// not-found are surfaced as errors, never as missing.
func Classify(root, abs string) (Class, fs.FileInfo, error) {
	info, err := os.Lstat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ClassMissing, nil, nil
		}
		return ClassMissing, nil, fmt.Errorf("stat %s: %w", abs, err)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		real, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return ClassMissing, nil, nil
		}
		rootReal, err := filepath.EvalSymlinks(root)
		if err != nil {
			return ClassMissing, nil, fmt.Errorf("resolve root %s: %w", root, err)
		}
		if !contains(filepath.Clean(rootReal), real) {
			return ClassMissing, nil, nil
		}
		info, err = os.Stat(abs)
		if err != nil {
			return ClassMissing, nil, nil
		}
	}

	switch {
	case info.IsDir():
		return ClassDir, info, nil
	case info.Mode().IsRegular():
		return ClassFile, info, nil
	default:
		return ClassMissing, nil, nil
	}
}
