// Package site serves the embedded stylesheet and script of the dashboard.
package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Prefix is the URL path the assets are served under.
const Prefix = "/static/"

// Register attaches the asset routes to r.
func Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	files := http.StripPrefix(Prefix, http.FileServer(FS()))
	r.Get(Prefix+"*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, req)
	})
}
