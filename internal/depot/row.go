package depot

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Row is the renderable projection of an Entry handed to the HTML layer.
// Href doubles as the download link for files; the response headers, not
// the URL shape, decide between navigation and download.
type Row struct {
	Name     string `json:"name"`
	Href     string `json:"href"`
	Size     string `json:"size"`
	ModTime  string `json:"mod_time"`
	Tag      string `json:"tag,omitempty"`
	IsDir    bool   `json:"is_dir"`
	IsParent bool   `json:"is_parent"`
}

// Crumb is one breadcrumb segment.
type Crumb struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

const modTimeLayout = "Jan 2, 2006 15:04"

// ToRow builds the row for one entry below currentPath. currentPath is
// the still-encoded request path; the entry name is percent-encoded before
// joining so names with reserved characters round-trip through the
// browser back to the same physical child.
func ToRow(e Entry, currentPath string) Row {
	base := currentPath
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	href := base
	if e.Bucket != "" {
		href += url.PathEscape(e.Bucket) + "/"
	}
	href += url.PathEscape(e.Name)
	if e.IsDir {
		href += "/"
	}

	row := Row{
		Name:    e.Name,
		Href:    href,
		ModTime: e.ModTime.Format(modTimeLayout),
		Tag:     e.SourceTag,
		IsDir:   e.IsDir,
	}
	if !e.IsDir {
		row.Size = FormatSize(e.Size)
	}
	return row
}

// Rows converts sorted entries into rows, prepending a synthetic parent
// row unless the current path is a section root.
func Rows(entries []Entry, currentPath string, atSectionRoot bool) []Row {
	rows := make([]Row, 0, len(entries)+1)
	if !atSectionRoot {
		rows = append(rows, Row{
			Name:     "../",
			Href:     parentHref(currentPath),
			IsDir:    true,
			IsParent: true,
		})
	}
	for _, e := range entries {
		rows = append(rows, ToRow(e, currentPath))
	}
	return rows
}

func parentHref(currentPath string) string {
	trimmed := strings.TrimSuffix(currentPath, "/")
	parent := path.Dir(trimmed)
	if parent == "/" || parent == "." {
		return "/"
	}
	return parent + "/"
}

// Breadcrumbs derives the navigation trail for the encoded request path.
// Labels are the decoded segment names; hrefs re-join the raw segments so
// encoding survives the round trip.
func Breadcrumbs(currentPath string) []Crumb {
	var crumbs []Crumb
	trimmed := strings.Trim(currentPath, "/")
	if trimmed == "" {
		return crumbs
	}
	href := ""
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" {
			continue
		}
		href += "/" + seg
		label, err := url.PathUnescape(seg)
		if err != nil {
			label = seg
		}
		crumbs = append(crumbs, Crumb{Label: label, Href: href + "/"})
	}
	return crumbs
}

// Title returns the decoded current path, used as the listing page title.
func Title(currentPath string) string {
	decoded, err := url.PathUnescape(currentPath)
	if err != nil {
		return currentPath
	}
	return decoded
}

// FormatSize renders a byte count with a human-readable unit.
func FormatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/(1024*1024*1024))
	}
}
