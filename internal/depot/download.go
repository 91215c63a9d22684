package depot

import (
	"fmt"
	"path/filepath"
)

// Download is the contract handed to the response layer for a FILE
// classification. The response layer streams the bytes and sets the
// headers; the core only decides what they should be.
type Download struct {
	Path         string
	Filename     string
	CacheControl string
	Disposition  string
}

// Served files are immutable release artifacts, so clients may cache them
// for a day without revalidation.
const downloadCacheControl = "public, max-age=86400, immutable"

// NewDownload builds the download contract for a classified file.
func NewDownload(abs string) Download {
	name := filepath.Base(abs)
	return Download{
		Path:         abs,
		Filename:     name,
		CacheControl: downloadCacheControl,
		Disposition:  fmt.Sprintf("attachment; filename=%q", name),
	}
}
