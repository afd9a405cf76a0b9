package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Recorder keeps a record of stored blobs.
type Recorder interface {
	RecordBlob(ctx context.Context, d Descriptor, checksum string) error
}

// Ingester buffers an upload, names it and hands it to a Store.
type Ingester struct {
	store    Store
	recorder Recorder
	logger   *slog.Logger
	maxBytes int64
	newID    func() string
}

// NewIngester returns an Ingester. recorder may be nil.
func NewIngester(store Store, recorder Recorder, maxBytes int64, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		store:    store,
		recorder: recorder,
		logger:   logger,
		maxBytes: maxBytes,
		newID:    NewID,
	}
}

// Upload stores body under a random name carrying the extension of suggested.
func (i *Ingester) Upload(ctx context.Context, body io.Reader, suggested, contentType string) (Descriptor, error) {
	tmp, err := os.CreateTemp("", "brandcheck-upload-*")
	if err != nil {
		return Descriptor{}, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), io.LimitReader(body, i.maxBytes+1))
	if err != nil {
		return Descriptor{}, fmt.Errorf("buffer upload: %w", err)
	}
	if n == 0 {
		return Descriptor{}, ErrEmptyBody
	}
	if n > i.maxBytes {
		return Descriptor{}, ErrTooLarge
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return Descriptor{}, fmt.Errorf("rewind upload: %w", err)
	}

	name := StoredName(suggested, i.newID())
	obj := Object{
		Pathname:    name,
		ContentType: ContentTypeFor(name, contentType),
		Size:        n,
		Body:        tmp,
	}

	desc, err := i.store.Put(ctx, obj)
	if err != nil {
		i.logger.Error("blob store failed", "event", "blob_store_failed", "pathname", name, "error", err)
		return Descriptor{}, fmt.Errorf("store %s: %w", name, err)
	}

	checksum := hex.EncodeToString(hash.Sum(nil))
	i.logger.Info("blob stored", "event", "blob_stored", "pathname", name, "size", n, "sha256", checksum)

	if i.recorder != nil {
		if err := i.recorder.RecordBlob(ctx, desc, checksum); err != nil {
			i.logger.Warn("blob record failed", "event", "blob_record_failed", "pathname", name, "error", err)
		}
	}
	return desc, nil
}
