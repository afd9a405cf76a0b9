package wizard

import (
	"errors"
	"strings"
)

// Step identifies the active wizard page.
type Step int

const (
	StepGuidelines Step = iota
	StepAssets
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepGuidelines:
		return "guidelines"
	case StepAssets:
		return "assets"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

var (
	ErrNoGuidelines = errors.New("select at least one guideline")
	ErrNoContent    = errors.New("add at least one asset or text variant")
	ErrWrongStep    = errors.New("draft is not at this step")
)

// Callbacks connect a step component to its coordinator. Nil funcs are skipped.
type Callbacks struct {
	OnUpdate func(Draft)
	OnNext   func()
	OnBack   func()
}

func (c Callbacks) update(d Draft) {
	if c.OnUpdate != nil {
		c.OnUpdate(d.Clone())
	}
}

func (c Callbacks) next() {
	if c.OnNext != nil {
		c.OnNext()
	}
}

func (c Callbacks) back() {
	if c.OnBack != nil {
		c.OnBack()
	}
}

// GuidelineStep edits the guideline selection and target card.
type GuidelineStep struct {
	draft Draft
	cb    Callbacks
}

// NewGuidelineStep returns a step holding a local copy of d.
func NewGuidelineStep(d Draft, cb Callbacks) *GuidelineStep {
	return &GuidelineStep{draft: d.Clone(), cb: cb}
}

// Draft returns the step's local draft.
func (s *GuidelineStep) Draft() Draft { return s.draft.Clone() }

// Toggle sets one guideline.
func (s *GuidelineStep) Toggle(g Guideline, on bool) {
	s.draft.Guidelines.Set(g, on)
	s.cb.update(s.draft)
}

// Replace sets the whole selection at once.
func (s *GuidelineStep) Replace(g Guidelines) {
	s.draft.Guidelines = g
	s.cb.update(s.draft)
}

// SelectCard sets the issuer and card keys under review.
func (s *GuidelineStep) SelectCard(issuer, card string) {
	s.draft.Issuer = strings.TrimSpace(issuer)
	s.draft.Card = strings.TrimSpace(card)
	s.cb.update(s.draft)
}

// CanContinue reports whether at least one guideline is selected.
func (s *GuidelineStep) CanContinue() bool {
	return s.draft.Guidelines.Any()
}

// Continue advances when at least one guideline is selected. OnNext is not
// invoked otherwise.
func (s *GuidelineStep) Continue() error {
	if !s.CanContinue() {
		return ErrNoGuidelines
	}
	s.cb.next()
	return nil
}

// AssetStep collects creative files and copy variants.
type AssetStep struct {
	draft Draft
	cb    Callbacks
}

// NewAssetStep returns a step holding a local copy of d.
func NewAssetStep(d Draft, cb Callbacks) *AssetStep {
	return &AssetStep{draft: d.Clone(), cb: cb}
}

// Draft returns the step's local draft.
func (s *AssetStep) Draft() Draft { return s.draft.Clone() }

func (s *AssetStep) AddStaticAd(a Asset) {
	s.draft.StaticAds = append(s.draft.StaticAds, a)
	s.cb.update(s.draft)
}

func (s *AssetStep) AddMockup(a Asset) {
	s.draft.Mockups = append(s.draft.Mockups, a)
	s.cb.update(s.draft)
}

func (s *AssetStep) AddVideo(a Asset) {
	s.draft.Videos = append(s.draft.Videos, a)
	s.cb.update(s.draft)
}

// RemoveAsset drops the first file stored under pathname.
func (s *AssetStep) RemoveAsset(pathname string) bool {
	for _, list := range []*[]Asset{&s.draft.StaticAds, &s.draft.Mockups, &s.draft.Videos} {
		for i, a := range *list {
			if a.Pathname == pathname {
				*list = append((*list)[:i], (*list)[i+1:]...)
				s.cb.update(s.draft)
				return true
			}
		}
	}
	return false
}

// SetCopy replaces the text fields. Blank lines are dropped.
func (s *AssetStep) SetCopy(primaryTexts, headlines, landingPages []string, instructions string) {
	s.draft.PrimaryTexts = compact(primaryTexts)
	s.draft.Headlines = compact(headlines)
	s.draft.LandingPages = compact(landingPages)
	s.draft.DeliveryInstructions = strings.TrimSpace(instructions)
	s.cb.update(s.draft)
}

// CanContinue reports whether there is anything to review.
func (s *AssetStep) CanContinue() bool {
	return s.draft.HasContent()
}

// Continue advances to review when the draft has content.
func (s *AssetStep) Continue() error {
	if !s.CanContinue() {
		return ErrNoContent
	}
	s.cb.next()
	return nil
}

// Back returns to guideline selection.
func (s *AssetStep) Back() {
	s.cb.back()
}

// SplitLines splits a textarea value into trimmed, non-empty lines.
func SplitLines(v string) []string {
	return compact(strings.Split(strings.ReplaceAll(v, "\r\n", "\n"), "\n"))
}

func compact(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
