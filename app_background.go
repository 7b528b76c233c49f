package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// backgroundImageRoute serves the chosen viewer image. The webview cannot
// read arbitrary local paths, so the frontend loads it through the asset
// server; a query string is appended to bust the cache after a change.
const backgroundImageRoute = "/background-image"

var backgroundImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
}

// backgroundImageHandler is installed as the asset server fallback handler.
// It only ever serves the image currently stored in the viewer state.
func (a *App) backgroundImageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != backgroundImageRoute {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		path := strings.TrimSpace(a.store.Viewer().BackgroundImage)
		if path == "" {
			http.NotFound(w, r)
			return
		}
		contentType, ok := backgroundImageTypes[strings.ToLower(filepath.Ext(path))]
		if !ok {
			http.Error(w, "unsupported image type", http.StatusUnsupportedMediaType)
			return
		}

		f, err := os.Open(path)
		if err != nil {
			slog.Warn("[WARN-VIEWER] background image unavailable", "path", path, "error", err)
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-store")
		http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
	})
}
