// Package httpmux assembles the reporter's root mux.
package httpmux

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/louisbranch/civicreporter/internal/services/reporter/routepath"
)

// MountStatic wires static asset serving into the root mux. Assets are served
// with a long-lived cache header since they ship embedded in the binary.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS) {
	if rootMux == nil || staticFS == nil {
		return
	}
	fileServer := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS)))
	rootMux.Handle(routepath.StaticPrefix, withStaticCache(fileServer))
}

func withStaticCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
