package depot

import (
	"net/url"
	"path"
	"strings"
)

// Restricted reports whether the section only allows traversal into its
// declared buckets.
func (s *Section) Restricted() bool {
	return len(s.Buckets) > 0
}

// Permits decides whether rel may be traversed at all. It runs before any
// filesystem access so that probing for siblings outside the allow-list
// reveals nothing. Unrestricted sections permit everything; restricted
// sections permit the section root itself (the union view) and paths that
// normalize to a bucket sub-path.
//
// The decoded path is cleaned before the first segment is inspected, so
// a spelling like solo/../private names the sibling it resolves to, not
// the bucket it starts with. A path whose cleaned form still climbs
// upward (a leading "..") never names a bucket and is refused.
func (s *Section) Permits(rel string) bool {
	if !s.Restricted() {
		return true
	}
	decoded, err := url.PathUnescape(rel)
	if err != nil {
		return false
	}
	norm := path.Clean(strings.TrimLeft(decoded, "/"))
	if norm == "." {
		return true
	}
	first := firstSegment(norm)
	for _, b := range s.Buckets {
		if first == b.Slug {
			return true
		}
	}
	return false
}

// firstSegment returns the first non-empty path segment of rel, or "".
func firstSegment(rel string) string {
	rel = strings.TrimLeft(rel, "/")
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return rel
}
