// Package locales embeds the translation tables consumed by internal/i18n.
package locales

import "embed"

// FS holds <lang>.yaml translation files.
//
//go:embed *.yaml
var FS embed.FS
