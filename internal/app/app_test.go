package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandcheck/internal/blob"
	"brandcheck/internal/config"
)

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	return config.Config{
		Env:               "development",
		LogLevel:          "debug",
		Port:              "127.0.0.1:0",
		AdminPassword:     "hunter2",
		BlobBackend:       config.BlobBackendDisk,
		BlobDir:           filepath.Join(dir, "blobs"),
		BlobPublicBaseURL: "/blobs",
		ImageDir:          filepath.Join(dir, "images"),
		LedgerPath:        filepath.Join(dir, "ledger.db"),
		MaxUploadBytes:    1 << 20,
		DraftTTL:          time.Hour,
	}
}

func TestSetupServesHealth(t *testing.T) {
	var logs bytes.Buffer
	a, err := Setup(context.Background(), testConfig(t), &logs)
	require.NoError(t, err)
	t.Cleanup(func() { a.Ledger.Close() })

	assert.IsType(t, &blob.DiskStore{}, a.Blobs)
	assert.Contains(t, logs.String(), "backend=disk")

	rec := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupWarnsWithoutPassword(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminPassword = ""

	var logs bytes.Buffer
	a, err := Setup(context.Background(), cfg, &logs)
	require.NoError(t, err)
	t.Cleanup(func() { a.Ledger.Close() })
	assert.Contains(t, logs.String(), "ADMIN_PASSWORD is not set")
}

func TestSetupSignedSessions(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionSigningKey = "0123456789abcdef"

	a, err := Setup(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { a.Ledger.Close() })
	assert.True(t, a.Gate.Signed())

	a, err = Setup(context.Background(), testConfig(t), &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { a.Ledger.Close() })
	assert.False(t, a.Gate.Signed())
}

func TestSetupProductionLogsJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "Production"

	var logs bytes.Buffer
	a, err := Setup(context.Background(), cfg, &logs)
	require.NoError(t, err)
	t.Cleanup(func() { a.Ledger.Close() })
	assert.True(t, strings.HasPrefix(logs.String(), "{"), logs.String())
	assert.Contains(t, logs.String(), `"backend":"disk"`)
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := Setup(context.Background(), testConfig(t), &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Run(ctx))
}
