package session

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

var exemptPrefixes = []string{"/api/", "/static/", "/blobs/"}

var exemptPaths = map[string]bool{
	LoginPath:      true,
	"/healthz":     true,
	"/favicon.ico": true,
}

// Exempt reports whether path bypasses session enforcement.
func Exempt(path string) bool {
	if exemptPaths[path] {
		return true
	}
	for _, p := range exemptPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Middleware guards non-API, non-asset paths. When enforce is false every
// request passes through unchanged.
func (g *Gate) Middleware(enforce bool, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		if !enforce {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Exempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := Read(r)
			if ok {
				err := g.Verify(token)
				if err == nil {
					next.ServeHTTP(w, r)
					return
				}
				logger.Info("session rejected", "event", "session_rejected", "path", r.URL.Path, "error", err)
			}

			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
}
