package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandcheck/internal/blob"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	s.now = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.RecordBlob(context.Background(), blob.Descriptor{Pathname: "a.png"}, "x"))
	got, err := s.RecentBlobs(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecordAndListBlobs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"first.png", "second.jpg", "third.pdf"} {
		require.NoError(t, s.RecordBlob(ctx, blob.Descriptor{
			Pathname:    name,
			URL:         "/blobs/" + name,
			ContentType: "application/octet-stream",
			Size:        42,
		}, "sum-"+name))
	}

	got, err := s.RecentBlobs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third.pdf", got[0].Pathname)
	assert.Equal(t, "second.jpg", got[1].Pathname)
	assert.Equal(t, "sum-third.pdf", got[0].SHA256)
	assert.Equal(t, int64(42), got[0].Size)
	assert.Equal(t, time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC), got[0].CreatedAt)
}

func TestRecordAndListSubmissions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordSubmission(ctx, Submission{
		ID:           "d1",
		Issuer:       "chase",
		Card:         "sapphire-preferred",
		Guidelines:   []string{"logo-usage", "typography"},
		AssetCount:   3,
		FindingCount: 5,
	}))
	require.NoError(t, s.RecordSubmission(ctx, Submission{ID: "d2"}))

	got, err := s.RecentSubmissions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d2", got[0].ID)
	assert.Empty(t, got[0].Guidelines)
	assert.Equal(t, []string{"logo-usage", "typography"}, got[1].Guidelines)
	assert.Equal(t, 5, got[1].FindingCount)

	assert.Error(t, s.RecordSubmission(ctx, Submission{ID: "d1"}), "duplicate id")
	assert.Error(t, s.RecordSubmission(ctx, Submission{}))
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordBlob(context.Background(), blob.Descriptor{Pathname: "kept.png"}, "x"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.RecentBlobs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept.png", got[0].Pathname)
}
