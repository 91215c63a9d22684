package server

import (
	"fmt"
	"io/fs"

	"github.com/cespare/xxhash/v2"
)

// etagFor derives a strong ETag from the file's identity and metadata.
// Served artifacts are immutable, so path plus size plus mtime is a
// sufficient validator without reading the file's bytes.
func etagFor(absPath string, info fs.FileInfo) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%s|%d|%d", absPath, info.Size(), info.ModTime().UnixNano())
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", h.Sum64()))
}
