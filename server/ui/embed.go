// Package ui embeds the browser scan screen. The page posts file metadata
// only and renders the views pushed over the session WebSocket.
package ui

import (
	"embed"
	"io/fs"
)

//go:embed dist/index.html dist/app.js dist/style.css
var files embed.FS

// Assets returns the page rooted at dist, ready for http.FS
func Assets() fs.FS {
	sub, err := fs.Sub(files, "dist")
	if err != nil {
		panic(err) // dist is a fixed, embedded path
	}
	return sub
}
