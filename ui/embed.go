// Package ui carries the embedded web assets: the html/template pages under
// templates/ and the files served from /static/.
package ui

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var Files embed.FS

// Static returns the tree served by the static file server.
func Static() fs.FS {
	static, err := fs.Sub(Files, "static")
	if err != nil {
		// The directory is embedded above, so this cannot fail at runtime.
		panic(err)
	}

	return static
}
