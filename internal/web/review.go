package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"brandcheck/internal/extract"
	"brandcheck/internal/ledger"
	"brandcheck/internal/wizard"
)

const expiredMessage = "This review has expired. Start a new one."

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "home.html", PageData{})
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	d := s.drafts.Create()
	s.logger.Info("review started", "draft", d.ID)
	http.Redirect(w, r, "/review/"+d.ID, http.StatusSeeOther)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	d, err := s.drafts.Get(mux.Vars(r)["id"])
	if err != nil {
		s.draftMissing(w)
		return
	}
	s.render(w, http.StatusOK, pageFor(d.Step), s.draftData(d))
}

func (s *Server) draftMissing(w http.ResponseWriter) {
	s.render(w, http.StatusNotFound, "home.html", PageData{Error: expiredMessage})
}

// stepFailed re-renders the current step with a validation error.
func (s *Server) stepFailed(w http.ResponseWriter, d wizard.Draft, err error) {
	data := s.draftData(d)
	data.Error = capitalize(err.Error()) + "."
	s.render(w, http.StatusBadRequest, pageFor(d.Step), data)
}

func capitalize(v string) string {
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

func (s *Server) handleGuidelines(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	var selected wizard.Guidelines
	for _, v := range r.PostForm["guideline"] {
		selected.Set(wizard.Guideline(v), true)
	}
	issuer, card, _ := strings.Cut(r.PostFormValue("card"), "/")
	advance := r.PostFormValue("action") == "continue"

	var stepErr error
	d, err := s.drafts.Update(id, func(wz *wizard.Wizard) error {
		if err := wz.Require(wizard.StepGuidelines); err != nil {
			return err
		}
		gs := wz.GuidelineStep()
		gs.Replace(selected)
		gs.SelectCard(issuer, card)
		if advance {
			stepErr = gs.Continue()
		}
		return nil
	})
	if err != nil {
		s.updateFailed(w, r, d, err)
		return
	}
	if stepErr != nil {
		s.stepFailed(w, d, stepErr)
		return
	}
	http.Redirect(w, r, "/review/"+id, http.StatusSeeOther)
}

// updateFailed answers a rejected draft update. Posts for another step go
// back to the draft's current page.
func (s *Server) updateFailed(w http.ResponseWriter, r *http.Request, d wizard.Draft, err error) {
	switch {
	case errors.Is(err, wizard.ErrDraftNotFound):
		s.draftMissing(w)
	case errors.Is(err, wizard.ErrWrongStep):
		http.Redirect(w, r, "/review/"+mux.Vars(r)["id"], http.StatusSeeOther)
	default:
		s.stepFailed(w, d, err)
	}
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	d, err := s.drafts.Get(id)
	if err != nil {
		s.draftMissing(w)
		return
	}
	if d.Step != wizard.StepAssets {
		http.Redirect(w, r, "/review/"+id, http.StatusSeeOther)
		return
	}
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 3*s.maxUploadBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	var staticAds, mockups, videos []wizard.Asset
	if staticAds, err = s.ingestAll(r.Context(), r.MultipartForm, "staticAds", true); err == nil {
		if mockups, err = s.ingestAll(r.Context(), r.MultipartForm, "mockups", true); err == nil {
			videos, err = s.ingestAll(r.Context(), r.MultipartForm, "videos", false)
		}
	}
	if err != nil {
		s.stepFailed(w, d, err)
		return
	}

	action := r.PostFormValue("action")
	remove := r.PostFormValue("remove")

	var stepErr error
	d, err = s.drafts.Update(id, func(wz *wizard.Wizard) error {
		if err := wz.Require(wizard.StepAssets); err != nil {
			return err
		}
		as := wz.AssetStep()
		for _, a := range staticAds {
			as.AddStaticAd(a)
		}
		for _, a := range mockups {
			as.AddMockup(a)
		}
		for _, a := range videos {
			as.AddVideo(a)
		}
		if remove != "" {
			as.RemoveAsset(remove)
		}
		as.SetCopy(
			wizard.SplitLines(r.PostFormValue("primaryTexts")),
			wizard.SplitLines(r.PostFormValue("headlines")),
			wizard.SplitLines(r.PostFormValue("landingPages")),
			r.PostFormValue("deliveryInstructions"),
		)
		switch {
		case remove != "":
		case action == "continue":
			stepErr = as.Continue()
		case action == "back":
			as.Back()
		}
		return nil
	})
	if err != nil {
		s.updateFailed(w, r, d, err)
		return
	}
	if stepErr != nil {
		s.stepFailed(w, d, stepErr)
		return
	}
	http.Redirect(w, r, "/review/"+id, http.StatusSeeOther)
}

// ingestAll stores every file posted under field. Text is extracted for
// visual assets so it can be shown next to the file.
func (s *Server) ingestAll(ctx context.Context, form *multipart.Form, field string, withText bool) ([]wizard.Asset, error) {
	if form == nil {
		return nil, nil
	}
	var out []wizard.Asset
	for _, h := range form.File[field] {
		if h.Filename == "" && h.Size == 0 {
			continue
		}
		a, err := s.ingestFile(ctx, h, withText)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", h.Filename, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Server) ingestFile(ctx context.Context, h *multipart.FileHeader, withText bool) (wizard.Asset, error) {
	contentType := h.Header.Get("Content-Type")

	f, err := h.Open()
	if err != nil {
		return wizard.Asset{}, err
	}
	desc, err := s.ingester.Upload(ctx, f, h.Filename, contentType)
	f.Close()
	if err != nil {
		return wizard.Asset{}, err
	}

	a := wizard.Asset{
		Name:        h.Filename,
		URL:         desc.URL,
		Pathname:    desc.Pathname,
		ContentType: desc.ContentType,
		Size:        desc.Size,
	}
	if !withText {
		return a, nil
	}

	f, err = h.Open()
	if err != nil {
		return wizard.Asset{}, err
	}
	defer f.Close()
	res, err := s.extractor.Extract(extract.File{Name: h.Filename, MimeType: contentType, Size: h.Size, Body: f})
	if err != nil {
		s.logger.Warn("extract text", "file", h.Filename, "error", err)
		return a, nil
	}
	a.ExtractedText = res.Text
	return a, nil
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.drafts.Update(id, func(wz *wizard.Wizard) error {
		wz.Back()
		return nil
	}); err != nil {
		s.draftMissing(w)
		return
	}
	http.Redirect(w, r, "/review/"+id, http.StatusSeeOther)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	d, err := s.drafts.Get(id)
	if err != nil {
		s.draftMissing(w)
		return
	}
	if d.Step != wizard.StepReview {
		http.Redirect(w, r, "/review/"+id, http.StatusSeeOther)
		return
	}

	report := wizard.Review(d, s.names)
	if s.ledger != nil {
		guidelines := make([]string, 0, len(report.Guidelines))
		for _, g := range report.Guidelines {
			guidelines = append(guidelines, string(g))
		}
		err := s.ledger.RecordSubmission(r.Context(), ledger.Submission{
			ID:           d.ID,
			Issuer:       d.Issuer,
			Card:         d.Card,
			Guidelines:   guidelines,
			AssetCount:   d.AssetCount(),
			FindingCount: len(report.Findings),
		})
		if err != nil {
			s.logger.Error("record submission", "draft", d.ID, "error", err)
			data := s.draftData(d)
			data.Error = "Could not record the submission. Try again."
			s.render(w, http.StatusInternalServerError, "review.html", data)
			return
		}
	}

	s.drafts.Delete(id)
	s.logger.Info("review submitted", "draft", d.ID, "findings", len(report.Findings))
	s.render(w, http.StatusOK, "submitted.html", PageData{Title: "Submitted", Report: report})
}
