// Package ledger keeps a SQLite record of stored blobs and final submissions.
//
// The blob store owns object lifecycle; the ledger only remembers what was
// written so the admin area can list it.
package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"brandcheck/internal/blob"
)

//go:embed schema.sql
var schemaSQL string

const timeFormat = time.RFC3339Nano

// BlobRecord is a stored blob as remembered by the ledger.
type BlobRecord struct {
	Pathname    string
	URL         string
	ContentType string
	Size        int64
	SHA256      string
	CreatedAt   time.Time
}

// Submission is a completed review wizard run.
type Submission struct {
	ID           string
	Issuer       string
	Card         string
	Guidelines   []string
	AssetCount   int
	FindingCount int
	CreatedAt    time.Time
}

// Store is a SQLite-backed ledger.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the ledger at path. ":memory:" keeps it in memory.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// single writer; also keeps a :memory: database alive across calls
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RecordBlob remembers a stored blob.
func (s *Store) RecordBlob(ctx context.Context, d blob.Descriptor, checksum string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO blobs (pathname, url, content_type, size, sha256, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.Pathname, d.URL, d.ContentType, d.Size, checksum, s.now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert blob %s: %w", d.Pathname, err)
	}
	return nil
}

// RecentBlobs returns up to limit blobs, newest first.
func (s *Store) RecentBlobs(ctx context.Context, limit int) ([]BlobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pathname, url, content_type, size, sha256, created_at
		 FROM blobs ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query blobs: %w", err)
	}
	defer rows.Close()

	var out []BlobRecord
	for rows.Next() {
		var rec BlobRecord
		var created string
		if err := rows.Scan(&rec.Pathname, &rec.URL, &rec.ContentType, &rec.Size, &rec.SHA256, &created); err != nil {
			return nil, fmt.Errorf("scan blob: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(timeFormat, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecordSubmission stores a completed submission.
func (s *Store) RecordSubmission(ctx context.Context, sub Submission) error {
	if sub.ID == "" {
		return fmt.Errorf("submission id is required")
	}
	created := sub.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, issuer, card, guidelines, asset_count, finding_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Issuer, sub.Card, strings.Join(sub.Guidelines, ","),
		sub.AssetCount, sub.FindingCount, created.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert submission %s: %w", sub.ID, err)
	}
	return nil
}

// RecentSubmissions returns up to limit submissions, newest first.
func (s *Store) RecentSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, issuer, card, guidelines, asset_count, finding_count, created_at
		 FROM submissions ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var guidelines, created string
		if err := rows.Scan(&sub.ID, &sub.Issuer, &sub.Card, &guidelines, &sub.AssetCount, &sub.FindingCount, &created); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if guidelines != "" {
			sub.Guidelines = strings.Split(guidelines, ",")
		}
		sub.CreatedAt, _ = time.Parse(timeFormat, created)
		out = append(out, sub)
	}
	return out, rows.Err()
}

var _ blob.Recorder = (*Store)(nil)
