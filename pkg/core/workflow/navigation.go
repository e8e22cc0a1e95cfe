package workflow

import (
	"github.com/jakechorley/event-planner/pkg/core/model"
)

// Normalize canonicalises the active phase and clamps the active step into the
// phase's step list. Returns true if anything changed.
func (s *Snapshot) Normalize() bool {
	w := s.Workflow
	changed := false

	if !w.ActivePhase.IsValid() {
		w.ActivePhase = model.PhasePreparation
		changed = true
	}

	last := len(s.Steps(w.ActivePhase)) - 1
	if w.ActiveStep > last {
		w.ActiveStep = last
		changed = true
	}
	if w.ActiveStep < 0 {
		w.ActiveStep = 0
		changed = true
	}

	return changed
}

// CanAdvancePhase reports whether the active phase is complete and not the last one
func (s *Snapshot) CanAdvancePhase() bool {
	idx := s.Workflow.ActivePhase.Index()
	if idx < 0 || idx == len(model.Phases)-1 {
		return false
	}
	return s.PhaseComplete(s.Workflow.ActivePhase)
}

// GoNextPhase moves to the next phase when every step of the active phase is
// complete. Otherwise nothing changes and it returns false.
func (s *Snapshot) GoNextPhase() bool {
	if !s.CanAdvancePhase() {
		return false
	}
	s.Workflow.ActivePhase = model.Phases[s.Workflow.ActivePhase.Index()+1]
	s.Workflow.ActiveStep = 0
	return true
}

// GoNext moves to the following step of the active phase. Stepping is not gated
// on completion.
func (s *Snapshot) GoNext() bool {
	if s.Workflow.ActiveStep >= len(s.Steps(s.Workflow.ActivePhase))-1 {
		return false
	}
	s.Workflow.ActiveStep++
	return true
}

// GoPrev moves to the previous step of the active phase
func (s *Snapshot) GoPrev() bool {
	if s.Workflow.ActiveStep <= 0 {
		return false
	}
	s.Workflow.ActiveStep--
	return true
}

// StepSelectable reports whether the step can be jumped to directly: it is
// complete or not ahead of the active step
func (s *Snapshot) StepSelectable(idx int) bool {
	completion := s.Completion(s.Workflow.ActivePhase)
	if idx < 0 || idx >= len(completion) {
		return false
	}
	return completion[idx] || idx <= s.Workflow.ActiveStep
}

// SelectStep jumps to the step if it is selectable
func (s *Snapshot) SelectStep(idx int) bool {
	if !s.StepSelectable(idx) {
		return false
	}
	s.Workflow.ActiveStep = idx
	return true
}

// PhaseSelectable reports whether the phase can be opened: it has already been
// reached, or every phase before it is complete
func (s *Snapshot) PhaseSelectable(phase model.Phase) bool {
	target := phase.Index()
	if target < 0 {
		return false
	}
	if target <= s.Workflow.ActivePhase.Index() {
		return true
	}
	for _, earlier := range model.Phases[:target] {
		if !s.PhaseComplete(earlier) {
			return false
		}
	}
	return true
}

// SelectPhase opens the phase at its first step if it is selectable
func (s *Snapshot) SelectPhase(phase model.Phase) bool {
	if !s.PhaseSelectable(phase) {
		return false
	}
	if s.Workflow.ActivePhase == phase {
		return true
	}
	s.Workflow.ActivePhase = phase
	s.Workflow.ActiveStep = 0
	return true
}

// StepView is a step together with its derived state
type StepView struct {
	Step
	Done       bool `json:"done"`
	Selectable bool `json:"selectable"`
}

// PhaseView is a phase together with its steps
type PhaseView struct {
	Phase      model.Phase `json:"phase"`
	Steps      []StepView  `json:"steps"`
	Complete   bool        `json:"complete"`
	Selectable bool        `json:"selectable"`
}

// Board is the full derived view of a workflow
type Board struct {
	ActivePhase     model.Phase `json:"activePhase"`
	ActiveStep      int         `json:"activeStep"`
	CanAdvancePhase bool        `json:"canAdvancePhase"`
	Phases          []PhaseView `json:"phases"`
}

// Board derives the view of every phase from the current state
func (s *Snapshot) Board() Board {
	board := Board{
		ActivePhase:     s.Workflow.ActivePhase,
		ActiveStep:      s.Workflow.ActiveStep,
		CanAdvancePhase: s.CanAdvancePhase(),
		Phases:          make([]PhaseView, 0, len(model.Phases)),
	}

	for _, phase := range model.Phases {
		steps := s.Steps(phase)
		completion := s.Completion(phase)

		view := PhaseView{
			Phase:      phase,
			Steps:      make([]StepView, len(steps)),
			Complete:   s.PhaseComplete(phase),
			Selectable: s.PhaseSelectable(phase),
		}
		for i, step := range steps {
			view.Steps[i] = StepView{Step: step, Done: completion[i]}
			if phase == s.Workflow.ActivePhase {
				view.Steps[i].Selectable = s.StepSelectable(i)
			}
		}
		board.Phases = append(board.Phases, view)
	}

	return board
}
