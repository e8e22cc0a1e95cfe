package workflow

import (
	"fmt"
	"slices"

	"github.com/jakechorley/event-planner/pkg/core/model"
)

// Patch is a partial workflow update. Manual and Overrides merge key by key into
// the stored maps; every other set field replaces the stored value.
type Patch struct {
	ActivePhase *model.Phase
	ActiveStep  *int
	ShotgunURL  *string
	Posts       *[]model.CampaignPost
	Manual      map[model.ManualFlag]bool
	Overrides   map[model.Override]bool
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.ActivePhase == nil && p.ActiveStep == nil && p.ShotgunURL == nil &&
		p.Posts == nil && len(p.Manual) == 0 && len(p.Overrides) == 0
}

// Validate rejects unknown phases, flags and overrides
func (p Patch) Validate() error {
	if p.ActivePhase != nil && !p.ActivePhase.IsValid() {
		return fmt.Errorf("unknown phase %q", *p.ActivePhase)
	}
	if p.ActiveStep != nil && *p.ActiveStep < 0 {
		return fmt.Errorf("active step must not be negative, got %d", *p.ActiveStep)
	}
	for flag := range p.Manual {
		if !flag.IsValid() {
			return fmt.Errorf("unknown manual flag %q", flag)
		}
	}
	for override := range p.Overrides {
		if !override.IsValid() {
			return fmt.Errorf("unknown override %q", override)
		}
	}
	return nil
}

// Apply merges the patch into w
func (p Patch) Apply(w *model.Workflow) {
	if p.ActivePhase != nil {
		w.ActivePhase = *p.ActivePhase
	}
	if p.ActiveStep != nil {
		w.ActiveStep = *p.ActiveStep
	}
	if p.ShotgunURL != nil {
		w.ShotgunURL = *p.ShotgunURL
	}
	if p.Posts != nil {
		w.Posts = slices.Clone(*p.Posts)
		if w.Posts == nil {
			w.Posts = []model.CampaignPost{}
		}
	}
	if len(p.Manual) > 0 && w.Manual == nil {
		w.Manual = make(map[model.ManualFlag]bool, len(p.Manual))
	}
	for flag, value := range p.Manual {
		w.Manual[flag] = value
	}
	if len(p.Overrides) > 0 && w.Overrides == nil {
		w.Overrides = make(map[model.Override]bool, len(p.Overrides))
	}
	for override, value := range p.Overrides {
		w.Overrides[override] = value
	}
}

// PositionPatch returns a patch that persists the navigation state of w
func PositionPatch(w *model.Workflow) Patch {
	phase := w.ActivePhase
	step := w.ActiveStep
	return Patch{ActivePhase: &phase, ActiveStep: &step}
}
