// Package static embeds the site's CSS and client script.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed site.css site.js
var files embed.FS

// FileSystem returns the embedded assets as an http.FileSystem for gin.
func FileSystem() http.FileSystem {
	sub, err := fs.Sub(files, ".")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
