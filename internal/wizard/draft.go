// Package wizard models the multi-step brand review submission.
//
// A Draft accumulates across steps. Step components hold a copy of the draft,
// report edits through OnUpdate and ask the coordinating Wizard to move on
// through OnNext and OnBack.
package wizard

import "time"

// Guideline is one of the brand guideline areas a review can cover.
type Guideline string

const (
	LogoUsage     Guideline = "logo-usage"
	ColorPalette  Guideline = "color-palette"
	Typography    Guideline = "typography"
	Accessibility Guideline = "accessibility"
)

// AllGuidelines lists every guideline in display order.
var AllGuidelines = []Guideline{LogoUsage, ColorPalette, Typography, Accessibility}

var guidelineLabels = map[Guideline]string{
	LogoUsage:     "Logo usage",
	ColorPalette:  "Color palette",
	Typography:    "Typography",
	Accessibility: "Accessibility",
}

// Label is the human-readable guideline name.
func (g Guideline) Label() string {
	if l, ok := guidelineLabels[g]; ok {
		return l
	}
	return string(g)
}

// Guidelines is the guideline selection. Any subset may be set.
type Guidelines struct {
	LogoUsage     bool
	ColorPalette  bool
	Typography    bool
	Accessibility bool
}

// Any reports whether at least one guideline is selected.
func (g Guidelines) Any() bool {
	return g.LogoUsage || g.ColorPalette || g.Typography || g.Accessibility
}

// Has reports whether x is selected.
func (g Guidelines) Has(x Guideline) bool {
	switch x {
	case LogoUsage:
		return g.LogoUsage
	case ColorPalette:
		return g.ColorPalette
	case Typography:
		return g.Typography
	case Accessibility:
		return g.Accessibility
	}
	return false
}

// Set turns x on or off. Unknown guidelines are ignored.
func (g *Guidelines) Set(x Guideline, on bool) {
	switch x {
	case LogoUsage:
		g.LogoUsage = on
	case ColorPalette:
		g.ColorPalette = on
	case Typography:
		g.Typography = on
	case Accessibility:
		g.Accessibility = on
	}
}

// Selected lists the selected guidelines in display order.
func (g Guidelines) Selected() []Guideline {
	var out []Guideline
	for _, x := range AllGuidelines {
		if g.Has(x) {
			out = append(out, x)
		}
	}
	return out
}

// Asset is an uploaded file attached to a draft.
type Asset struct {
	Name          string
	URL           string
	Pathname      string
	ContentType   string
	Size          int64
	ExtractedText string
}

// Draft is the submission being assembled.
type Draft struct {
	ID   string
	Step Step

	Guidelines Guidelines
	Issuer     string
	Card       string

	StaticAds []Asset
	Mockups   []Asset
	Videos    []Asset

	PrimaryTexts         []string
	Headlines            []string
	LandingPages         []string
	DeliveryInstructions string

	UpdatedAt time.Time
}

// AssetCount is the number of uploaded files.
func (d Draft) AssetCount() int {
	return len(d.StaticAds) + len(d.Mockups) + len(d.Videos)
}

// HasContent reports whether there is anything to review.
func (d Draft) HasContent() bool {
	return d.AssetCount() > 0 || len(d.PrimaryTexts) > 0 || len(d.Headlines) > 0
}

// Clone returns a deep copy of d.
func (d Draft) Clone() Draft {
	c := d
	c.StaticAds = append([]Asset(nil), d.StaticAds...)
	c.Mockups = append([]Asset(nil), d.Mockups...)
	c.Videos = append([]Asset(nil), d.Videos...)
	c.PrimaryTexts = append([]string(nil), d.PrimaryTexts...)
	c.Headlines = append([]string(nil), d.Headlines...)
	c.LandingPages = append([]string(nil), d.LandingPages...)
	return c
}
