package server

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// StaticFileHandler serves the browser renderer. Paths that do not name a
// file fall back to the index page so client-side routes load the app.
type StaticFileHandler struct {
	dir          string
	cacheControl string
	indexFile    string
	useETag      bool
}

// NewStaticFileHandler creates a new static file handler.
func NewStaticFileHandler(dir string) *StaticFileHandler {
	return &StaticFileHandler{
		dir:          dir,
		cacheControl: "public, max-age=3600",
		indexFile:    "index.html",
		useETag:      true,
	}
}

// SetCacheControl sets the Cache-Control header value.
func (h *StaticFileHandler) SetCacheControl(value string) {
	h.cacheControl = value
}

// EnableETag enables or disables ETag generation.
func (h *StaticFileHandler) EnableETag(enabled bool) {
	h.useETag = enabled
}

// ServeHTTP implements http.Handler interface.
func (h *StaticFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	p, err := ValidatePath(h.dir, r.URL.Path)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	fi, err := os.Stat(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err != nil || fi.IsDir() {
		// Missing assets are real 404s; only page routes fall back.
		if err != nil && path.Ext(r.URL.Path) != "" {
			http.NotFound(w, r)
			return
		}
		p = filepath.Join(h.dir, h.indexFile)
	}

	h.serveFile(w, r, p)
}

// serveFile serves a single file. Range and conditional requests are
// handled by http.ServeContent.
func (h *StaticFileHandler) serveFile(w http.ResponseWriter, r *http.Request, p string) {
	file, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	fi, err := file.Stat()
	if err != nil || fi.IsDir() {
		http.NotFound(w, r)
		return
	}

	if ct, ok := MimeTypes[strings.ToLower(filepath.Ext(p))]; ok {
		w.Header().Set("Content-Type", ct)
	}
	if h.cacheControl != "" {
		w.Header().Set("Cache-Control", h.cacheControl)
	}
	if h.useETag {
		if hash := fileHash(p); hash != "" {
			w.Header().Set("ETag", fmt.Sprintf(`"%s"`, hash))
		}
	}

	http.ServeContent(w, r, fi.Name(), fi.ModTime(), file)
}

// fileHash computes a short content hash for ETags.
func fileHash(p string) string {
	data, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MimeTypes maps file extensions to MIME types.
var MimeTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff2": "font/woff2",
	".pdf":   "application/pdf",
	".txt":   "text/plain; charset=utf-8",
	".md":    "text/markdown",
}

// ValidatePath joins requestedPath under root and rejects escapes.
func ValidatePath(root, requestedPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.New("invalid root")
	}
	absPath := filepath.Join(absRoot, filepath.FromSlash(path.Clean("/"+requestedPath)))

	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", errors.New("path outside root directory")
	}
	return absPath, nil
}
