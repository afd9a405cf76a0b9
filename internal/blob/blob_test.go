package blob

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	re := regexp.MustCompile(`^[a-z0-9]{12}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Regexp(t, re, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestStoredName(t *testing.T) {
	tests := []struct {
		suggested string
		want      string
	}{
		{"banner.png", "abc123.png"},
		{"Holiday Promo.JPEG", "abc123.JPEG"},
		{"archive.tar.gz", "abc123.gz"},
		{"", "abc123.bin"},
		{"README", "abc123.bin"},
		{"trailing.", "abc123.bin"},
		{"../../etc/passwd", "abc123.bin"},
		{"dir/ad.webp", "abc123.webp"},
		{"weird.p?g", "abc123.bin"},
		{"long.abcdefghijk", "abc123.bin"},
	}
	for _, tt := range tests {
		t.Run(tt.suggested, func(t *testing.T) {
			assert.Equal(t, tt.want, StoredName(tt.suggested, "abc123"))
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeFor("a.png", ""))
	assert.Equal(t, "image/png", ContentTypeFor("a.png", "application/octet-stream"))
	assert.Equal(t, "image/webp", ContentTypeFor("a.png", "image/webp"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a.zzzunknown", ""))
}
