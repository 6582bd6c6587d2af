// Package assets embeds the web UI. index.html is generated by cmd/minify.
package assets

import _ "embed"

// Index is the minified single page application.
//
//go:embed index.html
var Index []byte

// Favicon is the site icon.
//
//go:embed favicon.svg
var Favicon []byte
