package milestones

import (
	"strings"
	"time"

	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/workflow"
)

// Milestone ids, in display order
const (
	Creation          = "creation"
	BriefFilled       = "brief-filled"
	PostsListed       = "posts-listed"
	CampaignReady     = "campaign-ready"
	SecurityContacted = "security-contacted"
	EventDayPassed    = "event-day-passed"
)

var labels = map[string]string{
	Creation:          "Event created",
	BriefFilled:       "Brief written",
	PostsListed:       "Campaign posts listed",
	CampaignReady:     "Campaign launched",
	SecurityContacted: "Security contacted",
	EventDayPassed:    "Event day",
}

// Milestone is one entry of an event's progress timeline
type Milestone struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// Progress is the timeline of an event and its completion ratio
type Progress struct {
	Milestones []Milestone `json:"milestones"`
	Done       int         `json:"done"`
	Ratio      float64     `json:"ratio"`
}

// Compute derives the progress timeline from the event and its workflow.
// It holds no state and must be called again after any change.
func Compute(event model.Event, w *model.Workflow, now time.Time) Progress {
	if w == nil {
		w = model.NewWorkflow(event.ID)
	}
	snapshot := workflow.NewSnapshot(w, event.StartsAt, now)

	milestones := []Milestone{
		{ID: Creation, Done: true},
		{ID: BriefFilled, Done: strings.TrimSpace(event.Brief) != ""},
		{ID: PostsListed, Done: len(w.Posts) > 0},
		{ID: CampaignReady, Done: snapshot.Launched()},
		{ID: SecurityContacted, Done: w.Manual[model.ManualSecurityContacted]},
		{ID: EventDayPassed, Done: snapshot.EventDayPassed()},
	}

	progress := Progress{Milestones: milestones}
	for i := range milestones {
		milestones[i].Label = labels[milestones[i].ID]
		if milestones[i].Done {
			progress.Done++
		}
	}
	progress.Ratio = float64(progress.Done) / float64(len(milestones))

	return progress
}
