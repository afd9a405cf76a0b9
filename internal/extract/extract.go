// Package extract produces reviewable text for uploaded documents.
//
// Plain text is returned as-is. PDFs and every other type get a generated
// placeholder describing the file; no binary document format is parsed.
package extract

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Kind is the extraction branch chosen for a file.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPDF:
		return "pdf"
	default:
		return "other"
	}
}

const (
	mimeText     = "text/plain"
	mimePDF      = "application/pdf"
	mimeFallback = "application/octet-stream"
)

// ErrTooLarge is returned when a text file exceeds the extractor's limit.
var ErrTooLarge = errors.New("text file exceeds size limit")

// Result is the extraction outcome for one file.
type Result struct {
	Text     string `json:"extractedText"`
	FileType string `json:"fileType"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// File describes an upload to extract from.
type File struct {
	Name     string
	MimeType string
	Size     int64
	Body     io.Reader
}

// Extractor turns files into text.
type Extractor struct {
	now      func() time.Time
	maxBytes int64
}

// New returns an Extractor accepting at most maxBytes of text content. A
// non-positive maxBytes disables the limit.
func New(maxBytes int64) *Extractor {
	return &Extractor{now: time.Now, maxBytes: maxBytes}
}

// Classify picks the branch for a declared MIME type and filename.
func Classify(name, mimeType string) Kind {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	ext := strings.ToLower(path.Ext(name))

	switch {
	case mt == mimeText || ext == ".txt":
		return KindText
	case mt == mimePDF || ext == ".pdf":
		return KindPDF
	default:
		return KindOther
	}
}

// Extract returns the text for f.
func (e *Extractor) Extract(f File) (Result, error) {
	res := Result{FileType: f.MimeType, FileName: f.Name, FileSize: f.Size}

	switch Classify(f.Name, f.MimeType) {
	case KindText:
		data, err := e.readText(f.Body)
		if err != nil {
			return Result{}, err
		}
		res.Text = string(data)
	case KindPDF:
		res.Text = pdfPlaceholder(f.Name, f.Size, e.now())
	default:
		res.Text = otherPlaceholder(f.Name, f.MimeType, f.Size, e.now())
	}
	return res, nil
}

func (e *Extractor) readText(r io.Reader) ([]byte, error) {
	if e.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read text file: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, e.maxBytes)
	}
	return data, nil
}

// FormatMB renders a byte count in megabytes with two decimals.
func FormatMB(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/(1024*1024))
}

func pdfPlaceholder(name string, size int64, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[PDF Document: %s]\n\n", name)
	fmt.Fprintf(&b, "File size: %s MB\n", FormatMB(size))
	fmt.Fprintf(&b, "Processed: %s\n\n", now.UTC().Format(time.RFC3339))
	b.WriteString("Automatic text extraction is not yet available for PDF files. ")
	b.WriteString("Review this document manually against the selected brand guidelines.")
	return b.String()
}

func otherPlaceholder(name, mimeType string, size int64, now time.Time) string {
	if strings.TrimSpace(mimeType) == "" {
		mimeType = mimeFallback
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[Document: %s]\n\n", name)
	fmt.Fprintf(&b, "File type: %s\n", mimeType)
	fmt.Fprintf(&b, "File size: %s MB\n", FormatMB(size))
	fmt.Fprintf(&b, "Processed: %s\n\n", now.UTC().Format(time.RFC3339))
	b.WriteString("Automatic text extraction is not yet available for this file type. ")
	b.WriteString("Review this document manually against the selected brand guidelines.")
	return b.String()
}
