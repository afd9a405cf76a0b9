// Package web wires the HTTP surface: JSON API routes, the review wizard
// pages, the login page and the admin area.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"brandcheck/internal/blob"
	"brandcheck/internal/extract"
	"brandcheck/internal/images"
	"brandcheck/internal/ledger"
	"brandcheck/internal/names"
	"brandcheck/internal/session"
	"brandcheck/internal/wizard"
)

// Ledger is the record of stored blobs and submissions read by the admin page.
type Ledger interface {
	RecentBlobs(ctx context.Context, limit int) ([]ledger.BlobRecord, error)
	RecentSubmissions(ctx context.Context, limit int) ([]ledger.Submission, error)
	RecordSubmission(ctx context.Context, sub ledger.Submission) error
}

// Config holds the server's collaborators.
type Config struct {
	Gate           *session.Gate
	RequireSession bool
	Ingester       *blob.Ingester
	Extractor      *extract.Extractor
	Images         *images.Server
	Names          *names.Resolver
	Drafts         *wizard.Store
	Ledger         Ledger
	// BlobDir is served under /blobs/ when set.
	BlobDir        string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Server is the brand review HTTP server.
type Server struct {
	gate           *session.Gate
	requireSession bool
	ingester       *blob.Ingester
	extractor      *extract.Extractor
	images         *images.Server
	names          *names.Resolver
	drafts         *wizard.Store
	ledger         Ledger
	blobDir        string
	maxUploadBytes int64
	logger         *slog.Logger
	pages          *pages

	router *mux.Router
}

// New builds a Server and registers its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Names == nil {
		cfg.Names = names.Default()
	}
	p, err := loadPages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		gate:           cfg.Gate,
		requireSession: cfg.RequireSession,
		ingester:       cfg.Ingester,
		extractor:      cfg.Extractor,
		images:         cfg.Images,
		names:          cfg.Names,
		drafts:         cfg.Drafts,
		ledger:         cfg.Ledger,
		blobDir:        cfg.BlobDir,
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         cfg.Logger,
		pages:          p,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := mux.NewRouter().SkipClean(true)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/upload-blob", s.handleUploadBlob).Methods(http.MethodPost)
	api.HandleFunc("/extract-text", s.handleExtractText).Methods(http.MethodPost)
	api.Handle("/image/{filename}", s.images).Methods(http.MethodGet, http.MethodHead)
	api.HandleFunc("/test-document", s.handleTestDocumentGet).Methods(http.MethodGet)
	api.HandleFunc("/test-document", s.handleTestDocumentPost).Methods(http.MethodPost)
	api.HandleFunc("/names/issuers/{issuer}", s.handleIssuerName).Methods(http.MethodGet)
	api.HandleFunc("/names/issuers/{issuer}/cards/{card}", s.handleCardName).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/admin", s.handleAdmin).Methods(http.MethodGet)

	r.HandleFunc("/review", s.handleCreateReview).Methods(http.MethodPost)
	r.HandleFunc("/review/{id}", s.handleReview).Methods(http.MethodGet)
	r.HandleFunc("/review/{id}/guidelines", s.handleGuidelines).Methods(http.MethodPost)
	r.HandleFunc("/review/{id}/assets", s.handleAssets).Methods(http.MethodPost)
	r.HandleFunc("/review/{id}/back", s.handleBack).Methods(http.MethodPost)
	r.HandleFunc("/review/{id}/submit", s.handleSubmit).Methods(http.MethodPost)

	if s.blobDir != "" {
		r.PathPrefix("/blobs/").HandlerFunc(s.handleBlob).Methods(http.MethodGet, http.MethodHead)
	}

	s.router = r
}

// Handler returns the root handler: request logging, then the session gate,
// then the router.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.gate.Middleware(s.requireSession, s.logger)(s.router))
}

func (s *Server) handleBlob(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/blobs/")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	}
	http.ServeFile(w, r, s.blobDir+"/"+name)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			"event", "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
