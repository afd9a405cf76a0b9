// Package app assembles the brandcheck server from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"brandcheck/internal/blob"
	"brandcheck/internal/config"
	"brandcheck/internal/extract"
	"brandcheck/internal/images"
	"brandcheck/internal/ledger"
	"brandcheck/internal/logging"
	"brandcheck/internal/names"
	"brandcheck/internal/security"
	"brandcheck/internal/session"
	"brandcheck/internal/web"
	"brandcheck/internal/wizard"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Ledger *ledger.Store
	Blobs  blob.Store
	Gate   *session.Gate
	Drafts *wizard.Store
	Server *web.Server

	HTTP *http.Server
}

// Setup builds every dependency named by cfg. Log output goes to out.
func Setup(ctx context.Context, cfg config.Config, out io.Writer) (*App, error) {
	logger := logging.New(cfg.IsProduction(), cfg.LogLevel, out)

	l, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	store, blobDir, err := initBlobStore(ctx, cfg, logger)
	if err != nil {
		l.Close()
		return nil, err
	}

	gate, err := initGate(cfg)
	if err != nil {
		l.Close()
		return nil, err
	}
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD is not set, every login will be rejected")
	}

	drafts := wizard.NewStore(cfg.DraftTTL)
	srv, err := web.New(web.Config{
		Gate:           gate,
		RequireSession: cfg.RequireSession,
		Ingester:       blob.NewIngester(store, l, cfg.MaxUploadBytes, logger),
		Extractor:      extract.New(cfg.MaxUploadBytes),
		Images:         images.NewServer(cfg.ImageDir, logger),
		Names:          names.Default(),
		Drafts:         drafts,
		Ledger:         l,
		BlobDir:        blobDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	})
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("build server: %w", err)
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Ledger: l,
		Blobs:  store,
		Gate:   gate,
		Drafts: drafts,
		Server: srv,
	}, nil
}

// initBlobStore returns the configured store and, for the disk backend, the
// directory to serve under /blobs/.
func initBlobStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (blob.Store, string, error) {
	switch strings.ToLower(cfg.BlobBackend) {
	case config.BlobBackendS3:
		client, err := blob.NewS3Client(ctx, cfg.AWSRegion, cfg.S3Endpoint)
		if err != nil {
			return nil, "", err
		}
		base := cfg.BlobPublicBaseURL
		if strings.HasPrefix(base, "/") {
			// Relative bases only make sense when this process serves the files.
			base = ""
		}
		logger.Info("blob backend", "backend", "s3", "bucket", cfg.S3Bucket, "region", cfg.AWSRegion)
		return blob.NewS3Store(client, cfg.S3Bucket, cfg.AWSRegion, base, logger), "", nil
	default:
		store, err := blob.NewDiskStore(cfg.BlobDir, cfg.BlobPublicBaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("init disk blob store: %w", err)
		}
		logger.Info("blob backend", "backend", "disk", "dir", store.Dir())
		return store, store.Dir(), nil
	}
}

func initGate(cfg config.Config) (*session.Gate, error) {
	var opts []session.Option
	if cfg.SessionSigningKey != "" {
		signer, err := session.NewSigner(cfg.SessionSigningKey)
		if err != nil {
			return nil, fmt.Errorf("init session signer: %w", err)
		}
		opts = append(opts, session.WithSigner(signer))
	}
	return session.NewGate(cfg.AdminPassword, opts...), nil
}

// Run serves HTTP until ctx is cancelled or the listener fails.
func (a *App) Run(ctx context.Context) error {
	a.HTTP = &http.Server{
		Addr:              a.Config.Addr(),
		Handler:           a.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.Config.TLSSelfSigned {
		tlsCfg, err := security.SelfSignedConfig()
		if err != nil {
			return fmt.Errorf("generate tls config: %w", err)
		}
		a.HTTP.TLSConfig = tlsCfg
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.sweepDrafts(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server started", "addr", a.HTTP.Addr, "tls", a.HTTP.TLSConfig != nil, "session_required", a.Config.RequireSession, "signed_sessions", a.Gate.Signed())
		if a.HTTP.TLSConfig != nil {
			errCh <- a.HTTP.ListenAndServeTLS("", "")
			return
		}
		errCh <- a.HTTP.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	}
}

func (a *App) sweepDrafts(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Drafts.Sweep(); n > 0 {
				a.Logger.Debug("expired drafts swept", "count", n)
			}
		}
	}
}

// Shutdown stops the HTTP server and closes the ledger.
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info("starting graceful shutdown")

	var errs []error
	if a.HTTP != nil {
		if err := a.HTTP.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if a.Ledger != nil {
		if err := a.Ledger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ledger close: %w", err))
		}
	}

	a.Logger.Info("graceful shutdown complete")
	return errors.Join(errs...)
}
