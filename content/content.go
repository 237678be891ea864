// Package content embeds the markdown sources for static pages, laid out as <lang>/<slug>.md.
package content

import "embed"

//go:embed en/*.md ar/*.md
var FS embed.FS
