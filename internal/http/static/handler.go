package static

import (
	"embed"
	"io/fs"
	"net/http"
)

// NewFilesystemHandler serves files from path without caching, for
// development.
func NewFilesystemHandler(path string) http.HandlerFunc {
	files := http.FileServer(http.Dir(path))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	}
}

//go:embed files/*
var embedFS embed.FS

func NewEmbedHandler() http.HandlerFunc {
	sub, err := fs.Sub(embedFS, "files")
	if err != nil {
		panic(err)
	}
	files := http.FileServer(http.FS(sub))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	}
}
