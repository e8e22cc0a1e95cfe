package db

import "time"

// VolunteerPatch is a partial volunteer update; nil fields are left unchanged
type VolunteerPatch struct {
	Name     *string
	Kind     *string
	Favorite *bool
	Phone    *string
	Email    *string
	Notes    *string
}

// IsEmpty reports whether the patch changes nothing
func (p VolunteerPatch) IsEmpty() bool {
	return p.Name == nil && p.Kind == nil && p.Favorite == nil &&
		p.Phone == nil && p.Email == nil && p.Notes == nil
}

// EventPatch is a partial event update; nil fields are left unchanged
type EventPatch struct {
	Name         *string
	StartsAt     *time.Time
	EndTime      *string
	Brief        *string
	TicketingRef *string
}

// IsEmpty reports whether the patch changes nothing
func (p EventPatch) IsEmpty() bool {
	return p.Name == nil && p.StartsAt == nil && p.EndTime == nil &&
		p.Brief == nil && p.TicketingRef == nil
}

// WorkflowPatch is a partial workflow update. Manual and Overrides are merged key
// by key into the stored documents; Posts replaces the stored list when non-nil.
type WorkflowPatch struct {
	ActivePhase *string
	ActiveStep  *int
	ShotgunURL  *string
	Posts       *[]WorkflowPost
	Manual      map[string]bool
	Overrides   map[string]bool
}

// ApplyTo merges the patch into w the same way the stores do
func (p WorkflowPatch) ApplyTo(w *Workflow) {
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
		w.Posts = append([]WorkflowPost{}, (*p.Posts)...)
	}
	if w.Manual == nil {
		w.Manual = map[string]bool{}
	}
	for k, v := range p.Manual {
		w.Manual[k] = v
	}
	if w.Overrides == nil {
		w.Overrides = map[string]bool{}
	}
	for k, v := range p.Overrides {
		w.Overrides[k] = v
	}
}
