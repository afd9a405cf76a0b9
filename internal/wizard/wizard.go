package wizard

import "fmt"

// Wizard coordinates the steps over a single draft.
type Wizard struct {
	draft Draft
}

// Resume returns a coordinator for d.
func Resume(d Draft) *Wizard {
	return &Wizard{draft: d.Clone()}
}

// Draft returns the current draft.
func (w *Wizard) Draft() Draft {
	return w.draft.Clone()
}

// Step is the active step.
func (w *Wizard) Step() Step {
	return w.draft.Step
}

// Require fails with ErrWrongStep unless the wizard is at step.
func (w *Wizard) Require(step Step) error {
	if w.draft.Step != step {
		return fmt.Errorf("%w: at %s, want %s", ErrWrongStep, w.draft.Step, step)
	}
	return nil
}

// GuidelineStep returns the guideline component bound to this wizard.
func (w *Wizard) GuidelineStep() *GuidelineStep {
	return NewGuidelineStep(w.draft, Callbacks{
		OnUpdate: w.update,
		OnNext:   func() { w.draft.Step = StepAssets },
	})
}

// AssetStep returns the asset component bound to this wizard.
func (w *Wizard) AssetStep() *AssetStep {
	return NewAssetStep(w.draft, Callbacks{
		OnUpdate: w.update,
		OnNext:   func() { w.draft.Step = StepReview },
		OnBack:   func() { w.draft.Step = StepGuidelines },
	})
}

// Back moves one step toward the start.
func (w *Wizard) Back() {
	if w.draft.Step > StepGuidelines {
		w.draft.Step--
	}
}

func (w *Wizard) update(d Draft) {
	step := w.draft.Step
	w.draft = d
	w.draft.Step = step
}
