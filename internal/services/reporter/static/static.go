// Package static embeds the reporter's stylesheet and other static assets.
package static

import "embed"

// FS holds files served under /static/.
//
//go:embed *.css
var FS embed.FS
