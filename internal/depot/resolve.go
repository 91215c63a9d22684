package depot

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

// Resolution failures. ErrInvalidPath covers malformed input (bad percent
// escapes, NUL bytes); ErrTraversal means the normalized path would land
// outside the section root. The HTTP boundary maps both to the same client
// error so the reason is not leaked.
var (
	ErrInvalidPath = errors.New("invalid path")
	ErrTraversal   = errors.New("path escapes root")
)

// ResolveSafe maps an attacker-controlled relative URL path onto root and
// returns the resulting absolute filesystem path, or an error if the path
// is malformed or escapes root.
//
// The order of operations matters: the path is percent-decoded and then
// normalized (".." and "." resolved algebraically by Clean/Join) before the
// containment check. Checking the prefix on the raw string first would let
// encoded dot-dot sequences through.
func ResolveSafe(root, rel string) (string, error) {
	decoded, err := url.PathUnescape(rel)
	if err != nil {
		return "", ErrInvalidPath
	}
	if strings.ContainsRune(decoded, 0) {
		return "", ErrInvalidPath
	}

	// Join cleans algebraically, so ".." segments may climb above root
	// here; the containment check below is what rejects them. Clamping
	// the relative path first would mask traversal attempts as normal
	// requests instead of refusing them.
	root = filepath.Clean(root)
	abs := filepath.Join(root, decoded)

	if !contains(root, abs) {
		return "", ErrTraversal
	}
	return abs, nil
}

// contains reports whether p equals root or sits strictly below it. The
// separator is appended before the prefix test so /files never claims
// /files2.
func contains(root, p string) bool {
	if p == root {
		return true
	}
	return strings.HasPrefix(p, root+string(filepath.Separator))
}
