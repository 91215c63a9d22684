// Package web carries the embedded templates and static assets for the
// listing and login pages.
package web

import "embed"

//go:embed templates static
var TemplateFS embed.FS
