package depot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator(t *testing.T, patterns ...string) *Aggregator {
	t.Helper()
	agg, err := NewAggregator(true, patterns)
	require.NoError(t, err)
	return agg
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func entryNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

func TestListSortsDirsBeforeFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0o755))

	entries, skipped, err := newTestAggregator(t).List(dir)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "b.txt", entries[1].Name)
	assert.False(t, entries[1].IsDir)
}

func TestListCollation(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "zebra.txt", "échelle.txt", "apple.txt", "Étude.txt", "fig.txt")

	entries, _, err := newTestAggregator(t).List(dir)
	require.NoError(t, err)

	// Accented letters sort next to their base letter, not after "z".
	assert.Equal(t,
		[]string{"apple.txt", "échelle.txt", "Étude.txt", "fig.txt", "zebra.txt"},
		entryNames(entries))
}

func TestListHidesDotfilesAndPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "visible.txt", ".hidden", "draft.tmp")

	entries, _, err := newTestAggregator(t, "*.tmp").List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"visible.txt"}, entryNames(entries))
}

func TestListExcludesNonRegularEntries(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "real.txt")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling")))

	entries, _, err := newTestAggregator(t).List(dir)
	require.NoError(t, err)
	// The dangling symlink is excluded, and its presence never fails the
	// listing as a whole.
	assert.Equal(t, []string{"real.txt"}, entryNames(entries))
}

func TestListMissingDirErrors(t *testing.T) {
	_, _, err := newTestAggregator(t).List(filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}

func TestUnionDeterminism(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "solo"), "b.zip", "a.zip")
	writeFiles(t, filepath.Join(root, "multi"), "c.zip")

	sec := &Section{
		Key:  "/games",
		Root: root,
		Buckets: []Bucket{
			{Slug: "solo", Tag: "Solo"},
			{Slug: "multi", Tag: "Multi"},
		},
	}

	// Enumeration order must not matter; run it a few times.
	for i := 0; i < 5; i++ {
		entries, skipped := newTestAggregator(t).Union(sec)
		require.Zero(t, skipped)
		require.Len(t, entries, 3)

		assert.Equal(t, []string{"a.zip", "b.zip", "c.zip"}, entryNames(entries))
		assert.Equal(t, "Solo", entries[0].SourceTag)
		assert.Equal(t, "Solo", entries[1].SourceTag)
		assert.Equal(t, "Multi", entries[2].SourceTag)
		assert.Equal(t, "solo", entries[0].Bucket)
	}
}

func TestUnionSkipsMissingBucket(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "solo"), "a.zip")
	// "multi" has no physical directory at all

	sec := &Section{
		Key:  "/games",
		Root: root,
		Buckets: []Bucket{
			{Slug: "solo", Tag: "Solo"},
			{Slug: "multi", Tag: "Multi"},
		},
	}

	entries, skipped := newTestAggregator(t).Union(sec)
	assert.Zero(t, skipped)
	assert.Equal(t, []string{"a.zip"}, entryNames(entries))
}

func TestUnionOnlySurfacesFiles(t *testing.T) {
	root := t.TempDir()
	soloDir := filepath.Join(root, "solo")
	writeFiles(t, soloDir, "a.zip")
	require.NoError(t, os.Mkdir(filepath.Join(soloDir, "nested"), 0o755))

	sec := &Section{
		Key:     "/games",
		Root:    root,
		Buckets: []Bucket{{Slug: "solo", Tag: "Solo"}},
	}

	entries, _ := newTestAggregator(t).Union(sec)
	// Sub-directories inside a bucket only appear when browsing the
	// bucket itself, never at the union level.
	assert.Equal(t, []string{"a.zip"}, entryNames(entries))
}

func TestHidden(t *testing.T) {
	agg := newTestAggregator(t, "secret/")

	tests := []struct {
		rel  string
		want bool
	}{
		{"", false},
		{"/visible.txt", false},
		{"/.env", true},
		{"/dir/.hidden/file.txt", true},
		{"/secret/plans.txt", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, agg.Hidden(tt.rel), "Hidden(%q)", tt.rel)
	}
}

func TestSortEntriesStable(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		{Name: "b.txt", ModTime: now},
		{Name: "a", IsDir: true, ModTime: now},
	}
	SortEntries(entries)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "b.txt", entries[1].Name)
}
