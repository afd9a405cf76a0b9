package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuidelineContinueGated(t *testing.T) {
	nextCalls := 0
	var last Draft
	step := NewGuidelineStep(Draft{ID: "d1"}, Callbacks{
		OnUpdate: func(d Draft) { last = d },
		OnNext:   func() { nextCalls++ },
	})

	assert.False(t, step.CanContinue())
	assert.ErrorIs(t, step.Continue(), ErrNoGuidelines)
	assert.Equal(t, 0, nextCalls)

	for _, g := range AllGuidelines {
		step.Replace(Guidelines{})
		step.Toggle(g, true)
		assert.True(t, last.Guidelines.Has(g))
		assert.True(t, step.CanContinue(), g)
		require.NoError(t, step.Continue())
	}
	assert.Equal(t, len(AllGuidelines), nextCalls)

	step.Replace(Guidelines{})
	assert.ErrorIs(t, step.Continue(), ErrNoGuidelines)
	assert.Equal(t, len(AllGuidelines), nextCalls)
}

func TestGuidelineStepNilCallbacks(t *testing.T) {
	step := NewGuidelineStep(Draft{}, Callbacks{})
	step.Toggle(Typography, true)
	step.SelectCard(" chase ", "sapphire-preferred")

	require.NoError(t, step.Continue())
	assert.Equal(t, "chase", step.Draft().Issuer)
}

func TestGuidelinesSelected(t *testing.T) {
	g := Guidelines{Accessibility: true, LogoUsage: true}
	assert.Equal(t, []Guideline{LogoUsage, Accessibility}, g.Selected())
	assert.True(t, g.Any())
	assert.False(t, Guidelines{}.Any())

	g.Set(Guideline("unknown"), true)
	assert.Len(t, g.Selected(), 2)
	assert.Equal(t, "Color palette", ColorPalette.Label())
}

func TestAssetStep(t *testing.T) {
	var last Draft
	nexts, backs := 0, 0
	step := NewAssetStep(Draft{}, Callbacks{
		OnUpdate: func(d Draft) { last = d },
		OnNext:   func() { nexts++ },
		OnBack:   func() { backs++ },
	})

	assert.ErrorIs(t, step.Continue(), ErrNoContent)
	assert.Equal(t, 0, nexts)

	step.AddStaticAd(Asset{Name: "a.png", Pathname: "p1.png"})
	step.AddMockup(Asset{Name: "m.png", Pathname: "p2.png"})
	step.AddVideo(Asset{Name: "v.mp4", Pathname: "p3.mp4"})
	assert.Equal(t, 3, last.AssetCount())

	assert.True(t, step.RemoveAsset("p2.png"))
	assert.False(t, step.RemoveAsset("missing"))
	assert.Empty(t, last.Mockups)

	step.SetCopy([]string{" one ", "", "two"}, nil, []string{"https://example.com"}, "  ship by friday ")
	assert.Equal(t, []string{"one", "two"}, last.PrimaryTexts)
	assert.Equal(t, "ship by friday", last.DeliveryInstructions)

	require.NoError(t, step.Continue())
	step.Back()
	assert.Equal(t, 1, nexts)
	assert.Equal(t, 1, backs)
}

func TestAssetStepTextOnlyCanContinue(t *testing.T) {
	step := NewAssetStep(Draft{}, Callbacks{})
	step.SetCopy(nil, []string{"Earn 5x points"}, nil, "")
	assert.True(t, step.CanContinue())
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\n\r\n  b  \n"))
	assert.Nil(t, SplitLines("   "))
}

func TestWizardTransitions(t *testing.T) {
	w := Resume(Draft{ID: "d1"})
	assert.Equal(t, StepGuidelines, w.Step())

	gs := w.GuidelineStep()
	assert.ErrorIs(t, gs.Continue(), ErrNoGuidelines)
	assert.Equal(t, StepGuidelines, w.Step())

	gs.Toggle(LogoUsage, true)
	require.NoError(t, gs.Continue())
	assert.Equal(t, StepAssets, w.Step())
	assert.True(t, w.Draft().Guidelines.LogoUsage)

	as := w.AssetStep()
	as.SetCopy([]string{"copy"}, nil, nil, "")
	require.NoError(t, as.Continue())
	assert.Equal(t, StepReview, w.Step())
	assert.Equal(t, []string{"copy"}, w.Draft().PrimaryTexts)

	w.Back()
	assert.Equal(t, StepAssets, w.Step())
	w.AssetStep().Back()
	assert.Equal(t, StepGuidelines, w.Step())
	w.Back()
	assert.Equal(t, StepGuidelines, w.Step())
}

func TestDraftCloneIsDeep(t *testing.T) {
	d := Draft{Headlines: []string{"a"}, StaticAds: []Asset{{Name: "x"}}}
	c := d.Clone()
	c.Headlines[0] = "b"
	c.StaticAds[0].Name = "y"
	assert.Equal(t, "a", d.Headlines[0])
	assert.Equal(t, "x", d.StaticAds[0].Name)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "guidelines", StepGuidelines.String())
	assert.Equal(t, "assets", StepAssets.String())
	assert.Equal(t, "review", StepReview.String())
	assert.Equal(t, "unknown", Step(9).String())
}
