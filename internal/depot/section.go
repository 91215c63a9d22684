package depot

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Bucket is a named, allow-listed sub-directory of a restricted section.
// Its physical directory is <section root>/<slug>; Tag is the display
// category shown in union listings.
type Bucket struct {
	Slug string
	Tag  string
}

// Section maps a URL prefix onto one physical directory tree. A section
// with a non-empty bucket list is restricted: only bucket sub-paths may be
// traversed (see access.go).
type Section struct {
	Key     string
	Root    string
	Buckets []Bucket
}

// BucketDir returns the physical directory backing b.
func (s *Section) BucketDir(b Bucket) string {
	return filepath.Join(s.Root, b.Slug)
}

// Registry is the process-wide section table. It is built once at startup
// and never mutated afterwards, so concurrent reads need no locking.
type Registry struct {
	sections []*Section
}

// NewRegistry validates and canonicalizes the section table. Roots are made
// absolute with any trailing separator stripped. Key collisions, including
// one key nesting inside another, are configuration errors: both would
// match the same request path.
func NewRegistry(sections []*Section) (*Registry, error) {
	reg := &Registry{sections: make([]*Section, 0, len(sections))}
	for _, s := range sections {
		if !strings.HasPrefix(s.Key, "/") || s.Key == "/" {
			return nil, fmt.Errorf("section key %q must start with %q and name at least one segment", s.Key, "/")
		}
		if strings.HasSuffix(s.Key, "/") {
			return nil, fmt.Errorf("section key %q must not end with a slash", s.Key)
		}
		root, err := filepath.Abs(s.Root)
		if err != nil {
			return nil, fmt.Errorf("section %q: resolve root %q: %w", s.Key, s.Root, err)
		}
		sec := &Section{
			Key:     s.Key,
			Root:    filepath.Clean(root),
			Buckets: append([]Bucket(nil), s.Buckets...),
		}
		for _, prev := range reg.sections {
			if keysOverlap(prev.Key, sec.Key) {
				return nil, fmt.Errorf("section keys %q and %q overlap", prev.Key, sec.Key)
			}
		}
		seen := make(map[string]struct{}, len(sec.Buckets))
		for _, b := range sec.Buckets {
			if b.Slug == "" || strings.ContainsRune(b.Slug, '/') {
				return nil, fmt.Errorf("section %q: invalid bucket slug %q", sec.Key, b.Slug)
			}
			if _, dup := seen[b.Slug]; dup {
				return nil, fmt.Errorf("section %q: duplicate bucket slug %q", sec.Key, b.Slug)
			}
			seen[b.Slug] = struct{}{}
		}
		reg.sections = append(reg.sections, sec)
	}
	return reg, nil
}

// keysOverlap reports whether two section keys would both match some
// request path. Matching is on segment boundaries, so /games and /games2
// do not overlap, but /games and /games/solo do.
func keysOverlap(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

// Sections returns the registered sections in registration order.
func (r *Registry) Sections() []*Section {
	return r.sections
}

// Match resolves a request path to its section and the remaining sub-path.
// The path may arrive still percent-encoded, so the key is matched against
// both the raw and decoded form. The returned rest keeps whichever form
// matched; ResolveSafe decodes it later.
func (r *Registry) Match(urlPath string) (*Section, string, bool) {
	for _, s := range r.sections {
		if rest, ok := matchKey(s.Key, urlPath); ok {
			return s, rest, true
		}
	}
	if decoded, err := url.PathUnescape(urlPath); err == nil && decoded != urlPath {
		for _, s := range r.sections {
			if rest, ok := matchKey(s.Key, decoded); ok {
				return s, rest, true
			}
		}
	}
	return nil, "", false
}

func matchKey(key, p string) (string, bool) {
	if p == key {
		return "", true
	}
	if strings.HasPrefix(p, key+"/") {
		return p[len(key):], true
	}
	return "", false
}
