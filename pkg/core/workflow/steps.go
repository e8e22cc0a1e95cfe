package workflow

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jakechorley/event-planner/pkg/core/model"
)

// Step ids of the static step lists
const (
	StepPostsListed     = "posts-listed"
	StepDatesScheduled  = "dates-scheduled"
	StepContentReady    = "content-ready"
	StepPostsVerified   = "posts-verified"
	StepTicketingLinked = "ticketing-linked"
	StepLaunch          = "launch"
	StepOngoingCampaign = "ongoing-campaign"
	StepEventDay        = "event-day"
	StepThankYou        = "thank-you"
	StepTicketingReview = "ticketing-review"
	StepDebrief         = "debrief"
)

// Step is one checklist entry of a phase
type Step struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	PostID string `json:"postId,omitempty"` // set on communication steps generated from a scheduled post
}

var staticSteps = map[model.Phase][]Step{
	model.PhasePreparation: {
		{ID: StepPostsListed, Label: "List campaign posts"},
		{ID: StepDatesScheduled, Label: "Schedule post dates"},
		{ID: StepContentReady, Label: "Write captions and add visuals"},
	},
	model.PhaseProduction: {
		{ID: StepPostsVerified, Label: "Verify posts"},
		{ID: StepTicketingLinked, Label: "Link ticketing page"},
		{ID: StepLaunch, Label: "Launch campaign"},
	},
	model.PhasePostEvent: {
		{ID: StepThankYou, Label: "Post thank-you message"},
		{ID: StepTicketingReview, Label: "Review ticketing"},
		{ID: StepDebrief, Label: "Team debrief"},
	},
}

// Snapshot evaluates a workflow against the event date and the current time
type Snapshot struct {
	Workflow  *model.Workflow
	EventDate time.Time
	Now       time.Time
}

// NewSnapshot builds a snapshot; eventDate and now are compared as calendar days
// in the event's location
func NewSnapshot(w *model.Workflow, eventDate time.Time, now time.Time) *Snapshot {
	return &Snapshot{Workflow: w, EventDate: eventDate, Now: now}
}

// Steps returns the step list of the phase. The communication list depends on
// which posts are scheduled.
func (s *Snapshot) Steps(phase model.Phase) []Step {
	if phase != model.PhaseCommunication {
		steps := staticSteps[phase]
		out := make([]Step, len(steps))
		copy(out, steps)
		return out
	}

	scheduled := s.scheduledPosts()
	if len(scheduled) == 0 {
		return []Step{
			{ID: StepOngoingCampaign, Label: "Campaign running"},
			{ID: StepEventDay, Label: "Event day"},
		}
	}

	steps := make([]Step, 0, len(scheduled)+1)
	for _, post := range scheduled {
		steps = append(steps, Step{
			ID:     "post:" + post.ID,
			Label:  DayOffsetLabel(*post.ScheduledAt, s.EventDate),
			PostID: post.ID,
		})
	}
	return append(steps, Step{ID: StepEventDay, Label: "Event day"})
}

// Completion returns one boolean per step of the phase
func (s *Snapshot) Completion(phase model.Phase) []bool {
	w := s.Workflow
	posts := w.Posts
	hasPosts := len(posts) > 0

	switch phase {
	case model.PhasePreparation:
		return []bool{
			hasPosts || w.Overrides[model.OverridePostsListed],
			(hasPosts && allPosts(posts, func(p model.CampaignPost) bool { return p.ScheduledAt != nil })) ||
				w.Overrides[model.OverrideDatesScheduled],
			(hasPosts && allPosts(posts, model.CampaignPost.IsContentReady)) ||
				w.Overrides[model.OverrideContentReady],
		}

	case model.PhaseProduction:
		return []bool{
			(hasPosts && allPosts(posts, func(p model.CampaignPost) bool { return p.Verified })) ||
				w.Overrides[model.OverridePostsVerified],
			strings.TrimSpace(w.ShotgunURL) != "" || w.Overrides[model.OverrideTicketingLinked],
			s.Launched(),
		}

	case model.PhaseCommunication:
		scheduled := s.scheduledPosts()
		if len(scheduled) == 0 {
			return []bool{
				(hasPosts && allPosts(posts, func(p model.CampaignPost) bool { return p.Published })) ||
					w.Overrides[model.OverrideCampaignRunning],
				s.EventDayPassed(),
			}
		}
		done := make([]bool, 0, len(scheduled)+1)
		for _, post := range scheduled {
			done = append(done, post.Published)
		}
		return append(done, s.EventDayPassed())

	case model.PhasePostEvent:
		return []bool{
			w.Manual[model.ManualThankYouPosted],
			w.Manual[model.ManualTicketingReviewed],
			w.Manual[model.ManualDebriefDone],
		}
	}

	return nil
}

// PhaseComplete reports whether every step of the phase is complete
func (s *Snapshot) PhaseComplete(phase model.Phase) bool {
	completion := s.Completion(phase)
	if len(completion) == 0 {
		return false
	}
	for _, done := range completion {
		if !done {
			return false
		}
	}
	return true
}

// Launched reports whether all launch actions have been checked off
func (s *Snapshot) Launched() bool {
	for _, flag := range model.LaunchFlags {
		if !s.Workflow.Manual[flag] {
			return false
		}
	}
	return true
}

// EventDayPassed reports whether today is on or after the event's day
func (s *Snapshot) EventDayPassed() bool {
	loc := s.EventDate.Location()
	return !truncateToDay(s.Now, loc).Before(truncateToDay(s.EventDate, loc))
}

// scheduledPosts returns posts with a date, ordered by date
func (s *Snapshot) scheduledPosts() []model.CampaignPost {
	var scheduled []model.CampaignPost
	for _, post := range s.Workflow.Posts {
		if post.ScheduledAt != nil {
			scheduled = append(scheduled, post)
		}
	}
	sort.SliceStable(scheduled, func(i, j int) bool {
		return scheduled[i].ScheduledAt.Before(*scheduled[j].ScheduledAt)
	})
	return scheduled
}

// DayOffsetLabel labels a post date relative to the event day: "J-0" on the day,
// "J-2" two days before, "J+1" the day after
func DayOffsetLabel(postDate time.Time, eventDate time.Time) string {
	diff := DayOffset(postDate, eventDate)
	switch {
	case diff == 0:
		return "J-0"
	case diff < 0:
		return fmt.Sprintf("J%d", diff)
	default:
		return fmt.Sprintf("J+%d", diff)
	}
}

// DayOffset returns the number of calendar days from eventDate to postDate
func DayOffset(postDate time.Time, eventDate time.Time) int {
	loc := eventDate.Location()
	diff := truncateToDay(postDate, loc).Sub(truncateToDay(eventDate, loc))
	// Rounding absorbs 23h/25h days around DST changes
	return int(math.Round(diff.Hours() / 24))
}

func truncateToDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func allPosts(posts []model.CampaignPost, pred func(model.CampaignPost) bool) bool {
	for _, post := range posts {
		if !pred(post) {
			return false
		}
	}
	return true
}
