package server

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"filedepot/internal/depot"
	"filedepot/internal/logger"
	"filedepot/web"

	"github.com/gin-gonic/gin"
)

// Handler runs the resolution pipeline for every browse and download
// request: section match, bucket allow-list, safe path resolution,
// classification, then either a download or a rendered listing.
type Handler struct {
	registry *depot.Registry
	agg      *depot.Aggregator
	tmpl     *template.Template
}

type listingData struct {
	Title       string
	Breadcrumbs []depot.Crumb
	Rows        []depot.Row
}

func NewHandler(registry *depot.Registry, agg *depot.Aggregator) *Handler {
	tmpl := template.Must(template.ParseFS(web.TemplateFS, "templates/listing.html"))

	return &Handler{
		registry: registry,
		agg:      agg,
		tmpl:     tmpl,
	}
}

// Serve is the catch-all entry point. The request path stays in its
// encoded form until ResolveSafe decodes it, so the section match and the
// hrefs we emit are consistent with what the client sent.
func (h *Handler) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.String(http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := c.Request.URL.EscapedPath()
	if raw == "" {
		raw = "/"
	}

	if strings.HasPrefix(raw, "/static/") {
		h.serveStatic(c, raw)
		return
	}
	if raw == "/favicon.ico" {
		c.Status(http.StatusNoContent)
		return
	}
	if raw == "/" {
		h.serveHome(c)
		return
	}

	sec, rest, ok := h.registry.Match(raw)
	if !ok {
		h.notFound(c)
		return
	}

	abs, err := depot.ResolveSafe(sec.Root, rest)
	if err != nil {
		// Invalid escapes and traversal attempts get the same answer so
		// the reason is not leaked.
		logger.Log.Warn().Str("path", raw).Err(err).Msg("rejected request path")
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	// The allow-list and hide checks run on the normalized relative path
	// below the section root, never on the raw request path: an in-root
	// ".." like /solo/../private is already collapsed here, so it cannot
	// route around the bucket filter. ResolveSafe is purely textual, so
	// both checks still precede any filesystem access. Rejection is
	// indistinguishable from a missing path.
	rel := filepath.ToSlash(strings.TrimPrefix(abs, sec.Root))
	if !sec.Permits(rel) {
		h.notFound(c)
		return
	}
	if h.agg.Hidden(rel) {
		h.notFound(c)
		return
	}

	class, info, err := depot.Classify(sec.Root, abs)
	if err != nil {
		logger.Log.Error().Str("path", abs).Err(err).Msg("classify failed")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	switch class {
	case depot.ClassFile:
		h.sendFile(c, abs, info)
	case depot.ClassDir:
		h.serveDirectory(c, sec, rel, abs, raw)
	default:
		h.notFound(c)
	}
}

// sendFile hands the classified file to the transport with the download
// contract's headers. ETags make the day-long immutable cache revalidable.
// The bytes are streamed with ServeContent from the already-resolved path:
// net/http must never re-derive the file from the raw request path, which
// may legitimately still contain in-root ".." segments.
func (h *Handler) sendFile(c *gin.Context, abs string, info fs.FileInfo) {
	dl := depot.NewDownload(abs)

	etag := etagFor(dl.Path, info)
	c.Header("ETag", etag)
	c.Header("Cache-Control", dl.CacheControl)
	if match := c.GetHeader("If-None-Match"); match != "" && strings.Contains(match, etag) {
		c.Status(http.StatusNotModified)
		return
	}

	f, err := os.Open(dl.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.notFound(c)
			return
		}
		logger.Log.Error().Str("path", dl.Path).Err(err).Msg("open failed")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", dl.Disposition)
	http.ServeContent(c.Writer, c.Request, dl.Filename, info.ModTime(), f)
}

func (h *Handler) serveDirectory(c *gin.Context, sec *depot.Section, rel, abs, raw string) {
	atSectionRoot := rel == "" || rel == "/"

	var (
		entries []depot.Entry
		skipped int
	)
	if atSectionRoot && sec.Restricted() {
		entries, skipped = h.agg.Union(sec)
	} else {
		var err error
		entries, skipped, err = h.agg.List(abs)
		if err != nil {
			// The directory can vanish between classification and
			// enumeration; that is a not-found, not a server fault.
			if errors.Is(err, fs.ErrNotExist) {
				h.notFound(c)
				return
			}
			logger.Log.Error().Str("path", abs).Err(err).Msg("list failed")
			c.String(http.StatusInternalServerError, "internal error")
			return
		}
	}
	if skipped > 0 {
		logger.Log.Debug().Str("path", abs).Int("skipped", skipped).Msg("dropped unreadable entries from listing")
	}

	h.renderListing(c, listingData{
		Title:       depot.Title(raw),
		Breadcrumbs: depot.Breadcrumbs(raw),
		Rows:        depot.Rows(entries, raw, atSectionRoot),
	})
}

// serveHome lists the registered sections as a virtual top-level directory.
func (h *Handler) serveHome(c *gin.Context) {
	sections := h.registry.Sections()
	rows := make([]depot.Row, 0, len(sections))
	for _, sec := range sections {
		rows = append(rows, depot.Row{
			Name:  strings.TrimPrefix(sec.Key, "/"),
			Href:  sec.Key + "/",
			IsDir: true,
		})
	}

	h.renderListing(c, listingData{Title: "/", Rows: rows})
}

// renderListing writes the page with an explicit 200. The pipeline is
// mounted as the engine's NoRoute handler, which presets the status to
// 404, so the status must be stated rather than left to the first body
// write. Rendering into a buffer first keeps a template fault from
// leaking half a page.
func (h *Handler) renderListing(c *gin.Context, data listingData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "listing.html", data); err != nil {
		logger.Log.Error().Err(err).Msg("render listing failed")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "not found")
}

// serveStatic serves the embedded CSS and assets.
func (h *Handler) serveStatic(c *gin.Context, raw string) {
	name := strings.TrimPrefix(raw, "/")
	data, err := web.TemplateFS.ReadFile(name)
	if err != nil {
		h.notFound(c)
		return
	}

	contentType := "application/octet-stream"
	switch filepath.Ext(name) {
	case ".css":
		contentType = "text/css"
	case ".js":
		contentType = "application/javascript"
	case ".svg":
		contentType = "image/svg+xml"
	case ".png":
		contentType = "image/png"
	case ".ico":
		contentType = "image/x-icon"
	}
	c.Data(http.StatusOK, contentType, data)
}
