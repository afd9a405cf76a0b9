package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"brandcheck/internal/extract"
	"brandcheck/internal/ledger"
	"brandcheck/internal/names"
	"brandcheck/internal/wizard"
)

//go:embed templates/*.html
var templates embed.FS

var pageNames = []string{
	"home.html",
	"login.html",
	"guidelines.html",
	"assets.html",
	"review.html",
	"submitted.html",
	"admin.html",
}

var funcs = template.FuncMap{
	"lines": func(v []string) string { return strings.Join(v, "\n") },
	"mb":    extract.FormatMB,
}

type pages struct {
	byName map[string]*template.Template
}

func loadPages() (*pages, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templates, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	p := &pages{byName: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templates, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		p.byName[name] = t
	}
	return p, nil
}

// guidelineOption is one checkbox on the guideline page.
type guidelineOption struct {
	Key     wizard.Guideline
	Label   string
	Checked bool
}

// cardGroup is one issuer's cards in the card picker.
type cardGroup struct {
	Issuer names.Option
	Cards  []names.Option
}

// PageData is passed to every template.
type PageData struct {
	Title string
	Error string
	Next  string

	Draft       wizard.Draft
	Issuer      string
	Card        string
	Guidelines  []guidelineOption
	CardGroups  []cardGroup
	CardValue   string
	CanContinue bool
	Report      wizard.Report

	Blobs       []ledger.BlobRecord
	Submissions []ledger.Submission
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data PageData) {
	t, ok := s.pages.byName[page]
	if !ok {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render page", "page", page, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) draftData(d wizard.Draft) PageData {
	data := PageData{
		Title:  "Review " + d.ID,
		Draft:  d,
		Issuer: s.names.IssuerName(d.Issuer),
		Card:   s.names.CardName(d.Issuer, d.Card),
	}
	if d.Issuer != "" && d.Card != "" {
		data.CardValue = d.Issuer + "/" + d.Card
	}
	switch d.Step {
	case wizard.StepGuidelines:
		for _, g := range wizard.AllGuidelines {
			data.Guidelines = append(data.Guidelines, guidelineOption{Key: g, Label: g.Label(), Checked: d.Guidelines.Has(g)})
		}
		for _, issuer := range s.names.Issuers() {
			data.CardGroups = append(data.CardGroups, cardGroup{Issuer: issuer, Cards: s.names.Cards(issuer.Key)})
		}
		data.CanContinue = d.Guidelines.Any()
	case wizard.StepAssets:
		data.CanContinue = d.HasContent()
	case wizard.StepReview:
		data.Report = wizard.Review(d, s.names)
	}
	return data
}

func pageFor(step wizard.Step) string {
	switch step {
	case wizard.StepAssets:
		return "assets.html"
	case wizard.StepReview:
		return "review.html"
	default:
		return "guidelines.html"
	}
}
