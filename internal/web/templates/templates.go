// Package templates embeds the HTML templates for the web surface.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
