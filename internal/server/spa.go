package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// handleSPA serves the built frontend from dir. Unknown paths get
// index.html so client-side routes survive a hard refresh.
func handleSPA(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		info, err := os.Stat(name)
		switch {
		case err == nil && !info.IsDir():
			fileServer.ServeHTTP(w, r)
		case strings.HasPrefix(r.URL.Path, "/api/"):
			// Never mask a missing API route with HTML.
			writeError(w, http.StatusNotFound, "not found")
		default:
			http.ServeFile(w, r, index)
		}
	}
}
