// Package blob stores uploaded creative assets in a durable public object store.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultFilename is used when the client does not suggest one.
	DefaultFilename = "upload.bin"

	// DefaultExtension is used when the suggested filename has no usable extension.
	DefaultExtension = "bin"

	idLength        = 12
	maxExtensionLen = 10
)

var (
	ErrEmptyBody = errors.New("empty upload body")
	ErrTooLarge  = errors.New("upload exceeds size limit")
)

// Descriptor is what the store reports for a stored object.
type Descriptor struct {
	URL                string `json:"url"`
	DownloadURL        string `json:"downloadUrl"`
	Pathname           string `json:"pathname"`
	ContentType        string `json:"contentType"`
	ContentDisposition string `json:"contentDisposition"`
	Size               int64  `json:"size"`
}

// Object is a fully buffered upload ready to be written.
type Object struct {
	Pathname    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// Store writes objects under public names.
type Store interface {
	Put(ctx context.Context, obj Object) (Descriptor, error)
}

// NewID returns a random lowercase alphanumeric identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:idLength]
}

// StoredName derives the stored object name from a random id and the
// extension of the suggested filename.
func StoredName(suggested, id string) string {
	if strings.TrimSpace(suggested) == "" {
		suggested = DefaultFilename
	}
	ext := strings.TrimPrefix(path.Ext(path.Base(suggested)), ".")
	if !validExtension(ext) {
		ext = DefaultExtension
	}
	return id + "." + ext
}

func validExtension(ext string) bool {
	if ext == "" || len(ext) > maxExtensionLen {
		return false
	}
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// ContentTypeFor picks the declared type when it is specific, else infers
// one from the name.
func ContentTypeFor(name, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func describe(baseURL string, obj Object) Descriptor {
	url := strings.TrimRight(baseURL, "/") + "/" + obj.Pathname
	return Descriptor{
		URL:                url,
		DownloadURL:        url + "?download=1",
		Pathname:           obj.Pathname,
		ContentType:        obj.ContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", obj.Pathname),
		Size:               obj.Size,
	}
}
