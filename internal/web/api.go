package web

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"brandcheck/internal/blob"
	"brandcheck/internal/extract"
)

// FilenameHeader carries the client's suggested name for raw uploads.
const FilenameHeader = "x-vercel-filename"

// multipartMemory is held in memory before multipart parts spill to disk.
const multipartMemory = 32 << 20

func (s *Server) handleUploadBlob(w http.ResponseWriter, r *http.Request) {
	name := r.Header.Get(FilenameHeader)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	desc, err := s.ingester.Upload(r.Context(), r.Body, name, r.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, blob.ErrEmptyBody):
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	case errors.Is(err, blob.ErrTooLarge):
		writeError(w, http.StatusBadRequest, "File too large")
		return
	case err != nil:
		writeErrorDetails(w, http.StatusInternalServerError, "Upload failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartMemory)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	res, err := s.extractor.Extract(extract.File{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Body:     file,
	})
	if errors.Is(err, extract.ErrTooLarge) {
		writeError(w, http.StatusBadRequest, "File too large")
		return
	}
	if err != nil {
		s.logger.Error("extract text", "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to extract text")
		return
	}
	s.logger.Info("text extracted", "file", res.FileName, "type", res.FileType, "size", res.FileSize)
	writeJSON(w, http.StatusOK, res)
}

type testFile struct {
	Field       string `json:"field"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"type"`
}

type testDocumentResponse struct {
	Received      bool              `json:"received"`
	Method        string            `json:"method"`
	ContentType   string            `json:"contentType,omitempty"`
	ContentLength int64             `json:"contentLength"`
	Fields        map[string]string `json:"fields,omitempty"`
	Files         []testFile        `json:"files,omitempty"`
}

func (s *Server) handleTestDocumentGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"message":   "Document API is reachable",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleTestDocumentPost(w http.ResponseWriter, r *http.Request) {
	resp := testDocumentResponse{
		Received:      true,
		Method:        r.Method,
		ContentType:   r.Header.Get("Content-Type"),
		ContentLength: r.ContentLength,
	}

	if err := r.ParseMultipartForm(multipartMemory); err == nil {
		resp.Fields = make(map[string]string, len(r.MultipartForm.Value))
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				resp.Fields[k] = v[0]
			}
		}
		for field, headers := range r.MultipartForm.File {
			for _, h := range headers {
				resp.Files = append(resp.Files, testFile{
					Field:       field,
					Name:        h.Filename,
					Size:        h.Size,
					ContentType: h.Header.Get("Content-Type"),
				})
			}
		}
	} else if errors.Is(err, http.ErrNotMultipart) {
		n, _ := io.Copy(io.Discard, r.Body)
		if resp.ContentLength < 0 {
			resp.ContentLength = n
		}
	} else {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type nameResponse struct {
	Issuer string `json:"issuer,omitempty"`
	Key    string `json:"key"`
	Name   string `json:"name"`
}

func (s *Server) handleIssuerName(w http.ResponseWriter, r *http.Request) {
	issuer := mux.Vars(r)["issuer"]
	writeJSON(w, http.StatusOK, nameResponse{Key: issuer, Name: s.names.IssuerName(issuer)})
}

func (s *Server) handleCardName(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	writeJSON(w, http.StatusOK, nameResponse{
		Issuer: vars["issuer"],
		Key:    vars["card"],
		Name:   s.names.CardName(vars["issuer"], vars["card"]),
	})
}
