package depot

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Entry is one immediate child of a listed directory. Bucket and
// SourceTag are set only by union listings: Bucket is the slug the href
// must route through, SourceTag the display tag of the bucket the file
// came from.
type Entry struct {
	Name      string
	IsDir     bool
	Size      int64
	ModTime   time.Time
	Bucket    string
	SourceTag string
}

// Aggregator enumerates directories into Entry slices, applying the hide
// policy. It holds no per-request state and is safe for concurrent use.
type Aggregator struct {
	hideDot bool
	hide    []*Pattern
}

// NewAggregator compiles the hide rules. hideDot additionally hides any
// entry whose name starts with a dot.
func NewAggregator(hideDot bool, hidePatterns []string) (*Aggregator, error) {
	patterns, err := ParsePatterns(hidePatterns)
	if err != nil {
		return nil, err
	}
	return &Aggregator{hideDot: hideDot, hide: patterns}, nil
}

// Hidden reports whether the decoded relative path, or any segment of it,
// is hidden by the dotfile policy or a hide pattern. Direct requests run
// through this too, so a hidden file cannot be fetched by naming it.
func (a *Aggregator) Hidden(relPath string) bool {
	rel := strings.Trim(relPath, "/")
	if rel == "" {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if a.hidden(seg) {
			return true
		}
	}
	return matchPatterns(a.hide, rel)
}

func (a *Aggregator) hidden(name string) bool {
	if a.hideDot && len(name) > 0 && name[0] == '.' {
		return true
	}
	return matchPatterns(a.hide, name)
}

// List enumerates the immediate children of absDir, sorted. A child whose
// metadata cannot be read is dropped rather than failing the whole
// listing; the second return value counts those drops so callers can log
// them. Non-regular non-directory children (sockets, devices, dangling
// links) are excluded by policy, without counting as failures.
func (a *Aggregator) List(absDir string) ([]Entry, int, error) {
	children, err := os.ReadDir(absDir)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]Entry, 0, len(children))
	skipped := 0
	for _, child := range children {
		name := child.Name()
		if a.hidden(name) {
			continue
		}
		info, err := child.Info()
		if err != nil {
			skipped++
			continue
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			continue
		}
		e := Entry{
			Name:    name,
			IsDir:   info.IsDir(),
			ModTime: info.ModTime(),
		}
		if !e.IsDir {
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}

	SortEntries(entries)
	return entries, skipped, nil
}

// Union merges the file listings of all of the section's buckets into one
// virtual view, each entry tagged with its bucket's display tag. Buckets
// are enumerated concurrently; a missing or unreadable bucket directory
// contributes nothing and is not an error. Only regular files surface at
// the union level; browsing into a bucket shows its sub-directories.
func (a *Aggregator) Union(sec *Section) ([]Entry, int) {
	type bucketResult struct {
		entries []Entry
		skipped int
	}

	results := make([]bucketResult, len(sec.Buckets))
	var wg sync.WaitGroup
	for i, b := range sec.Buckets {
		wg.Add(1)
		go func(i int, b Bucket) {
			defer wg.Done()
			children, err := os.ReadDir(sec.BucketDir(b))
			if err != nil {
				return
			}
			res := bucketResult{entries: make([]Entry, 0, len(children))}
			for _, child := range children {
				name := child.Name()
				if child.IsDir() || a.hidden(name) {
					continue
				}
				info, err := child.Info()
				if err != nil {
					res.skipped++
					continue
				}
				if !info.Mode().IsRegular() {
					continue
				}
				res.entries = append(res.entries, Entry{
					Name:      name,
					Size:      info.Size(),
					ModTime:   info.ModTime(),
					Bucket:    b.Slug,
					SourceTag: b.Tag,
				})
			}
			results[i] = res
		}(i, b)
	}
	wg.Wait()

	var merged []Entry
	skipped := 0
	for _, res := range results {
		merged = append(merged, res.entries...)
		skipped += res.skipped
	}
	SortEntries(merged)
	return merged, skipped
}

// SortEntries orders directories before files, then by name within each
// group using a loose Unicode collation so accented letters sort next to
// their base letter instead of after "z". The result is deterministic
// regardless of readdir order.
func SortEntries(entries []Entry) {
	coll := collate.New(language.Und, collate.Loose)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return coll.CompareString(entries[i].Name, entries[j].Name) < 0
	})
}
