package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/picmatch/internal/catalog"
)

// handleAssetList returns the absolute URL of every asset file.
func handleAssetList(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.AssetURLs())
	}
}

// handleAssetFile serves a single file from dir. Directories and anything
// under a dot-prefixed path segment are not exposed.
func handleAssetFile(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + chi.URLParam(r, "*"))
		if name == "/" || hasDotSegment(name) {
			http.NotFound(w, r)
			return
		}

		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		r2 := r.Clone(r.Context())
		r2.URL.Path = name
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r2)
	}
}

func hasDotSegment(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func handlePairs(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs := cat.Pairs()
		resp := make([]PairResponse, len(pairs))
		for i, p := range pairs {
			resp[i] = pairResponse(p)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
