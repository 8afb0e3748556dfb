// Package web holds the browser client served at the site root.
package web

import "embed"

// Assets contains public/: the page, its script and stylesheet.
//
//go:embed public
var Assets embed.FS
