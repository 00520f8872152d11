package app

import (
	"log"
	"mime"
	"net/http"
	"path"
	"strings"

	"armario-dressup/service"
)

// NewSourceHandler serves the files of a wardrobe source (e.g. item images stored in Drive)
func NewSourceHandler(source service.CategorySourceInterface) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		data, err := source.Fetch(r.Context(), name)
		if err != nil {
			log.Printf("❌ Asset %s not available from %s: %v", name, source.Name(), err)
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			w.Write(data)
		}
	})
}
