package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/workflow"
	"github.com/jakechorley/event-planner/pkg/db"
)

func toModelVolunteer(v db.Volunteer, logger *zap.Logger) model.Volunteer {
	kind := model.CanonicalKind(v.Kind)
	if string(kind) != v.Kind {
		logger.Warn("Unknown volunteer kind, using canonical kind",
			zap.String("volunteer_id", v.ID),
			zap.String("stored_kind", v.Kind),
			zap.String("kind", string(kind)))
	}

	return model.Volunteer{
		ID:        v.ID,
		Name:      v.Name,
		Kind:      kind,
		Favorite:  v.Favorite,
		Phone:     v.Phone,
		Email:     v.Email,
		Notes:     v.Notes,
		CreatedAt: v.CreatedAt,
	}
}

func toModelEvent(e db.Event, loc *time.Location) model.Event {
	return model.Event{
		ID:           e.ID,
		Name:         e.Name,
		StartsAt:     e.StartsAt.In(loc),
		EndTime:      e.EndTime,
		Brief:        e.Brief,
		TicketingRef: e.TicketingRef,
		CreatedAt:    e.CreatedAt,
	}
}

func toModelPlanning(p *db.Planning) *model.Planning {
	planning := model.NewPlanning(p.EventID)
	planning.VolunteerIDs = append(planning.VolunteerIDs, p.VolunteerIDs...)

	// Unknown post keys are kept so legacy data round-trips untouched
	for shift, posts := range p.Assignments {
		byPost := make(map[model.PostID][]string, len(posts))
		for post, ids := range posts {
			byPost[model.PostID(post)] = append([]string{}, ids...)
		}
		planning.Assignments[shift] = byPost
	}
	return planning
}

func toDBPlanning(p *model.Planning) *db.Planning {
	record := &db.Planning{
		EventID:      p.EventID,
		VolunteerIDs: append([]string{}, p.VolunteerIDs...),
		Assignments:  make(map[string]map[string][]string, len(p.Assignments)),
	}
	for shift, posts := range p.Assignments {
		byPost := make(map[string][]string, len(posts))
		for post, ids := range posts {
			byPost[string(post)] = append([]string{}, ids...)
		}
		record.Assignments[shift] = byPost
	}
	return record
}

// toModelWorkflow converts a stored workflow; an unknown phase is recovered to preparation
func toModelWorkflow(w *db.Workflow, logger *zap.Logger) *model.Workflow {
	phase := model.CanonicalPhase(w.ActivePhase)
	if string(phase) != w.ActivePhase {
		logger.Warn("Unknown workflow phase, resetting to preparation",
			zap.String("event_id", w.EventID),
			zap.String("stored_phase", w.ActivePhase))
	}

	result := model.NewWorkflow(w.EventID)
	result.ActivePhase = phase
	result.ActiveStep = w.ActiveStep
	result.ShotgunURL = w.ShotgunURL
	for flag, value := range w.Manual {
		result.Manual[model.ManualFlag(flag)] = value
	}
	for override, value := range w.Overrides {
		result.Overrides[model.Override(override)] = value
	}
	for _, post := range w.Posts {
		result.Posts = append(result.Posts, toModelPost(post))
	}
	return result
}

func toModelPost(p db.WorkflowPost) model.CampaignPost {
	post := model.CampaignPost{
		ID:          p.ID,
		Name:        p.Name,
		Type:        p.Type,
		Networks:    append([]string{}, p.Networks...),
		Description: p.Description,
		ScheduledAt: p.ScheduledAt,
		Caption:     p.Caption,
		Verified:    p.Verified,
		Published:   p.Published,
		ExternalID:  p.ExternalID,
	}
	for _, m := range p.Media {
		post.Media = append(post.Media, model.Media{URL: m.URL, Type: m.Type})
	}
	return post
}

func toDBPost(p model.CampaignPost) db.WorkflowPost {
	post := db.WorkflowPost{
		ID:          p.ID,
		Name:        p.Name,
		Type:        p.Type,
		Networks:    p.Networks,
		Description: p.Description,
		ScheduledAt: p.ScheduledAt,
		Caption:     p.Caption,
		Verified:    p.Verified,
		Published:   p.Published,
		ExternalID:  p.ExternalID,
	}
	for _, m := range p.Media {
		post.Media = append(post.Media, db.MediaAsset{URL: m.URL, Type: m.Type})
	}
	return post
}

func toDBPatch(p workflow.Patch) db.WorkflowPatch {
	patch := db.WorkflowPatch{
		ActiveStep: p.ActiveStep,
		ShotgunURL: p.ShotgunURL,
	}
	if p.ActivePhase != nil {
		phase := string(*p.ActivePhase)
		patch.ActivePhase = &phase
	}
	if p.Posts != nil {
		posts := make([]db.WorkflowPost, 0, len(*p.Posts))
		for _, post := range *p.Posts {
			posts = append(posts, toDBPost(post))
		}
		patch.Posts = &posts
	}
	if len(p.Manual) > 0 {
		patch.Manual = make(map[string]bool, len(p.Manual))
		for flag, value := range p.Manual {
			patch.Manual[string(flag)] = value
		}
	}
	if len(p.Overrides) > 0 {
		patch.Overrides = make(map[string]bool, len(p.Overrides))
		for override, value := range p.Overrides {
			patch.Overrides[string(override)] = value
		}
	}
	return patch
}
