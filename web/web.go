// Package web embeds the browser upload widget.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var StaticFS embed.FS

// IndexHandler serves the widget page at "/"
func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data, err := StaticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Write(data)
	}
}

// StaticHandler serves the embedded assets below prefix with cache headers
func StaticHandler(prefix string) http.Handler {
	content, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix(prefix, http.FileServer(http.FS(content)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
