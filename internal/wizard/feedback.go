package wizard

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

// Recommended copy lengths before feeds truncate.
const (
	MaxHeadlineLen    = 40
	MaxPrimaryTextLen = 125
)

// Severity ranks a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one compliance note. Guideline is empty for checks that apply
// regardless of the selection.
type Finding struct {
	Guideline Guideline
	Severity  Severity
	Subject   string
	Message   string
}

// Report is the compliance feedback for a draft.
type Report struct {
	DraftID    string
	Issuer     string
	Card       string
	Guidelines []Guideline
	Findings   []Finding
}

// Count returns the number of findings with severity sev.
func (r Report) Count(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// For returns the findings for one guideline.
func (r Report) For(g Guideline) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Guideline == g {
			out = append(out, f)
		}
	}
	return out
}

// Names resolves issuer and card keys for display.
type Names interface {
	IssuerName(key string) string
	CardName(issuerKey, cardKey string) string
}

// Review builds the compliance report for d.
func Review(d Draft, names Names) Report {
	r := Report{DraftID: d.ID, Guidelines: d.Guidelines.Selected()}
	if d.Issuer != "" {
		r.Issuer = names.IssuerName(d.Issuer)
		if d.Card != "" {
			r.Card = names.CardName(d.Issuer, d.Card)
		}
	}

	for _, raw := range d.LandingPages {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			r.add("", SeverityError, raw, "Landing page is not a valid http(s) URL.")
		}
	}

	for _, g := range r.Guidelines {
		before := len(r.Findings)
		switch g {
		case LogoUsage:
			for _, a := range visuals(d) {
				r.add(g, SeverityInfo, a.Name, "Check logo placement, clear space and minimum size.")
			}
		case ColorPalette:
			for _, a := range visuals(d) {
				r.add(g, SeverityInfo, a.Name, "Check colors against the approved brand palette.")
			}
		case Typography:
			for _, h := range d.Headlines {
				if n := utf8.RuneCountInString(h); n > MaxHeadlineLen {
					r.add(g, SeverityWarning, h, fmt.Sprintf("Headline is %d characters; keep it to %d or fewer.", n, MaxHeadlineLen))
				}
			}
			for _, p := range d.PrimaryTexts {
				if n := utf8.RuneCountInString(p); n > MaxPrimaryTextLen {
					r.add(g, SeverityWarning, p, fmt.Sprintf("Primary text is %d characters and will be truncated after %d.", n, MaxPrimaryTextLen))
				}
			}
		case Accessibility:
			for _, raw := range d.LandingPages {
				if u, err := url.Parse(raw); err == nil && u.Scheme == "http" && u.Host != "" {
					r.add(g, SeverityWarning, raw, "Landing page is not served over HTTPS.")
				}
			}
			if len(d.Videos) > 0 && d.DeliveryInstructions == "" {
				r.add(g, SeverityInfo, "Videos", fmt.Sprintf("Describe captions for %d video(s) in the delivery instructions.", len(d.Videos)))
			}
		}
		if len(r.Findings) == before {
			r.add(g, SeverityInfo, g.Label(), "No issues detected.")
		}
	}
	return r
}

func (r *Report) add(g Guideline, sev Severity, subject, msg string) {
	r.Findings = append(r.Findings, Finding{Guideline: g, Severity: sev, Subject: subject, Message: msg})
}

func visuals(d Draft) []Asset {
	out := make([]Asset, 0, len(d.StaticAds)+len(d.Mockups))
	out = append(out, d.StaticAds...)
	return append(out, d.Mockups...)
}
