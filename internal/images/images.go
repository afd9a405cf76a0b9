// Package images serves a fixed allow-list of guideline images from local disk.
package images

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// CacheControl is sent with every served image.
const CacheControl = "public, max-age=31536000, immutable"

// ErrNotAllowed is returned for names outside the allow-list.
var ErrNotAllowed = errors.New("image not allowed")

// Allowed is the complete set of servable image names. Admission is an exact
// match against this set; names are never sanitized or joined otherwise.
var Allowed = map[string]bool{
	"facebook-ad-mockup.png":  true,
	"brand-logo.png":          true,
	"logo-usage-guide.jpg":    true,
	"color-palette.jpg":       true,
	"typography-guide.jpg":    true,
	"accessibility-guide.jpg": true,
}

// Server reads allow-listed images from dir.
type Server struct {
	dir    string
	logger *slog.Logger
}

// NewServer returns a Server reading from dir.
func NewServer(dir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{dir: dir, logger: logger}
}

// ContentType labels .png as PNG and everything else as JPEG.
func ContentType(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

// Image returns the bytes of an allow-listed image.
func (s *Server) Image(name string) ([]byte, error) {
	if !Allowed[name] {
		return nil, ErrNotAllowed
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", name, err)
	}
	return data, nil
}

// ServeHTTP answers GET /api/image/{filename}.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	data, err := s.Image(name)
	switch {
	case errors.Is(err, ErrNotAllowed), errors.Is(err, fs.ErrNotExist):
		writeNotFound(w)
		return
	case err != nil:
		s.logger.Error("image read failed", "event", "image_read_failed", "filename", name, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to load image"}`))
		return
	}

	w.Header().Set("Content-Type", ContentType(name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", CacheControl)
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":"Image not found"}`))
}
