package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/event-planner/pkg/core/model"
)

var eventDate = time.Date(2024, 6, 10, 22, 0, 0, 0, time.UTC)

func day(month time.Month, d int) *time.Time {
	t := time.Date(2024, month, d, 18, 30, 0, 0, time.UTC)
	return &t
}

func readyPost(id string, scheduled *time.Time) model.CampaignPost {
	return model.CampaignPost{
		ID:          id,
		Name:        "Post " + id,
		ScheduledAt: scheduled,
		Caption:     "See you there",
		Media:       []model.Media{{URL: "https://cdn.example.com/" + id + ".jpg", Type: "image"}},
	}
}

func TestDayOffsetLabel(t *testing.T) {
	event := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "J-2", DayOffsetLabel(time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), event))
	assert.Equal(t, "J-0", DayOffsetLabel(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), event))
	assert.Equal(t, "J+1", DayOffsetLabel(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), event))
}

func TestDayOffsetLabel_IgnoresTimeOfDay(t *testing.T) {
	event := time.Date(2024, 6, 10, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "J-0", DayOffsetLabel(time.Date(2024, 6, 10, 0, 5, 0, 0, time.UTC), event))
	assert.Equal(t, "J-1", DayOffsetLabel(time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC), event))
}

func TestDayOffset_AcrossDST(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("timezone database not available")
	}

	// Clocks go forward on 2024-03-31 in Paris
	event := time.Date(2024, 4, 2, 21, 0, 0, 0, paris)
	post := time.Date(2024, 3, 29, 12, 0, 0, 0, paris)

	assert.Equal(t, -4, DayOffset(post, event))
	assert.Equal(t, "J-4", DayOffsetLabel(post, event))
}

func TestSteps_CommunicationIsDynamic(t *testing.T) {
	w := model.NewWorkflow("event-1")
	s := NewSnapshot(w, eventDate, eventDate)

	steps := s.Steps(model.PhaseCommunication)
	require.Len(t, steps, 2)
	assert.Equal(t, StepOngoingCampaign, steps[0].ID)
	assert.Equal(t, StepEventDay, steps[1].ID)

	w.Posts = []model.CampaignPost{
		readyPost("late", day(time.June, 11)),
		{ID: "undated", Name: "No date yet"},
		readyPost("early", day(time.June, 8)),
		readyPost("same-day", day(time.June, 10)),
	}

	steps = s.Steps(model.PhaseCommunication)
	require.Len(t, steps, 4)
	assert.Equal(t, "J-2", steps[0].Label)
	assert.Equal(t, "early", steps[0].PostID)
	assert.Equal(t, "J-0", steps[1].Label)
	assert.Equal(t, "J+1", steps[2].Label)
	assert.Equal(t, StepEventDay, steps[3].ID)
}

func TestCompletion_Preparation(t *testing.T) {
	w := model.NewWorkflow("event-1")
	s := NewSnapshot(w, eventDate, eventDate)

	assert.Equal(t, []bool{false, false, false}, s.Completion(model.PhasePreparation))

	w.Posts = []model.CampaignPost{{ID: "p1", Name: "Teaser"}}
	assert.Equal(t, []bool{true, false, false}, s.Completion(model.PhasePreparation))

	w.Posts[0].ScheduledAt = day(time.June, 8)
	assert.Equal(t, []bool{true, true, false}, s.Completion(model.PhasePreparation))

	w.Posts[0] = readyPost("p1", day(time.June, 8))
	assert.Equal(t, []bool{true, true, true}, s.Completion(model.PhasePreparation))
}

func TestCompletion_OverridesWithoutPosts(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.Overrides[model.OverridePostsListed] = true
	w.Overrides[model.OverrideDatesScheduled] = true
	w.Overrides[model.OverrideContentReady] = true
	s := NewSnapshot(w, eventDate, eventDate)

	assert.Equal(t, []bool{true, true, true}, s.Completion(model.PhasePreparation))
}

func TestCompletion_ProductionLaunchNeedsAllThreeFlags(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.Posts = []model.CampaignPost{readyPost("p1", day(time.June, 8))}
	w.Posts[0].Verified = true
	w.ShotgunURL = "https://shotgun.live/events/summer"
	s := NewSnapshot(w, eventDate, eventDate)

	w.Manual[model.ManualFirstPostPublished] = true
	w.Manual[model.ManualLinktreeUpdated] = true
	assert.Equal(t, []bool{true, true, false}, s.Completion(model.PhaseProduction))

	w.Manual[model.ManualFacebookEventCreated] = true
	assert.Equal(t, []bool{true, true, true}, s.Completion(model.PhaseProduction))
}

func TestCompletion_ProductionTicketingOverride(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.ShotgunURL = "   "
	s := NewSnapshot(w, eventDate, eventDate)

	assert.False(t, s.Completion(model.PhaseProduction)[1])

	w.Overrides[model.OverrideTicketingLinked] = true
	assert.True(t, s.Completion(model.PhaseProduction)[1])
}

func TestCompletion_Communication(t *testing.T) {
	w := model.NewWorkflow("event-1")
	before := time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC)
	s := NewSnapshot(w, eventDate, before)

	// No scheduled posts: ongoing campaign + event day
	assert.Equal(t, []bool{false, false}, s.Completion(model.PhaseCommunication))
	w.Overrides[model.OverrideCampaignRunning] = true
	assert.Equal(t, []bool{true, false}, s.Completion(model.PhaseCommunication))

	w.Posts = []model.CampaignPost{
		readyPost("a", day(time.June, 8)),
		readyPost("b", day(time.June, 10)),
	}
	w.Posts[0].Published = true
	assert.Equal(t, []bool{true, false, false}, s.Completion(model.PhaseCommunication))

	// Event day counts from midnight of the event date
	s.Now = time.Date(2024, 6, 10, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, []bool{true, false, true}, s.Completion(model.PhaseCommunication))
}

func TestCompletion_PostEvent(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.Manual[model.ManualThankYouPosted] = true
	w.Manual[model.ManualDebriefDone] = true
	s := NewSnapshot(w, eventDate, eventDate)

	assert.Equal(t, []bool{true, false, true}, s.Completion(model.PhasePostEvent))
}

func TestGoNextPhase_Gated(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.Posts = []model.CampaignPost{{ID: "p1", Name: "Teaser"}}
	w.Overrides[model.OverrideContentReady] = true
	s := NewSnapshot(w, eventDate, eventDate)

	require.Equal(t, []bool{true, false, true}, s.Completion(model.PhasePreparation))
	assert.False(t, s.GoNextPhase())
	assert.Equal(t, model.PhasePreparation, w.ActivePhase)

	w.Posts[0].ScheduledAt = day(time.June, 8)
	w.ActiveStep = 2
	assert.True(t, s.GoNextPhase())
	assert.Equal(t, model.PhaseProduction, w.ActivePhase)
	assert.Equal(t, 0, w.ActiveStep)
}

func TestGoNextPhase_LastPhaseIsNoop(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.ActivePhase = model.PhasePostEvent
	w.Manual[model.ManualThankYouPosted] = true
	w.Manual[model.ManualTicketingReviewed] = true
	w.Manual[model.ManualDebriefDone] = true
	s := NewSnapshot(w, eventDate, eventDate)

	assert.True(t, s.PhaseComplete(model.PhasePostEvent))
	assert.False(t, s.GoNextPhase())
	assert.Equal(t, model.PhasePostEvent, w.ActivePhase)
}

func TestStepNavigation(t *testing.T) {
	w := model.NewWorkflow("event-1")
	s := NewSnapshot(w, eventDate, eventDate)

	// Sequential stepping is not gated on completion
	assert.True(t, s.GoNext())
	assert.True(t, s.GoNext())
	assert.False(t, s.GoNext())
	assert.Equal(t, 2, w.ActiveStep)

	assert.True(t, s.GoPrev())
	assert.Equal(t, 1, w.ActiveStep)

	// Jumping back is always allowed, jumping ahead only to completed steps
	assert.True(t, s.SelectStep(0))
	assert.False(t, s.SelectStep(2))
	assert.False(t, s.SelectStep(7))
	assert.False(t, s.GoPrev())

	w.Overrides[model.OverrideContentReady] = true
	assert.True(t, s.SelectStep(2))
	assert.Equal(t, 2, w.ActiveStep)
}

func TestPhaseSelection(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.ActivePhase = model.PhaseProduction
	w.ActiveStep = 1
	s := NewSnapshot(w, eventDate, eventDate)

	assert.True(t, s.PhaseSelectable(model.PhasePreparation))
	assert.False(t, s.PhaseSelectable(model.PhaseCommunication))
	assert.False(t, s.PhaseSelectable(model.PhaseUnknown))

	assert.True(t, s.SelectPhase(model.PhasePreparation))
	assert.Equal(t, model.PhasePreparation, w.ActivePhase)
	assert.Equal(t, 0, w.ActiveStep)

	assert.False(t, s.SelectPhase(model.PhaseCommunication))
}

func TestNormalize(t *testing.T) {
	w := &model.Workflow{EventID: "event-1", ActivePhase: model.PhaseUnknown, ActiveStep: 9}
	s := NewSnapshot(w, eventDate, eventDate)

	assert.True(t, s.Normalize())
	assert.Equal(t, model.PhasePreparation, w.ActivePhase)
	assert.Equal(t, 2, w.ActiveStep)
	assert.False(t, s.Normalize())
}

func TestBoard(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.Posts = []model.CampaignPost{readyPost("p1", day(time.June, 8))}
	s := NewSnapshot(w, eventDate, eventDate)

	board := s.Board()
	require.Len(t, board.Phases, 4)
	assert.True(t, board.CanAdvancePhase)
	assert.True(t, board.Phases[0].Complete)
	assert.True(t, board.Phases[1].Selectable)
	assert.False(t, board.Phases[2].Selectable)
	assert.Len(t, board.Phases[2].Steps, 2)
	assert.True(t, board.Phases[0].Steps[2].Selectable)
	assert.False(t, board.Phases[1].Steps[0].Selectable)
}

func TestPatch_MergesFlagsAndReplacesFields(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.Manual[model.ManualLinktreeUpdated] = true
	w.Overrides[model.OverridePostsListed] = true
	w.Posts = []model.CampaignPost{{ID: "old"}}

	phase := model.PhaseProduction
	url := "https://shotgun.live/events/summer"
	newPosts := []model.CampaignPost{{ID: "new-1"}, {ID: "new-2"}}
	patch := Patch{
		ActivePhase: &phase,
		ShotgunURL:  &url,
		Posts:       &newPosts,
		Manual:      map[model.ManualFlag]bool{model.ManualFirstPostPublished: true},
		Overrides:   map[model.Override]bool{model.OverridePostsListed: false},
	}
	require.NoError(t, patch.Validate())
	patch.Apply(w)

	assert.Equal(t, model.PhaseProduction, w.ActivePhase)
	assert.Equal(t, url, w.ShotgunURL)
	assert.Equal(t, newPosts, w.Posts)
	assert.True(t, w.Manual[model.ManualLinktreeUpdated])
	assert.True(t, w.Manual[model.ManualFirstPostPublished])
	assert.False(t, w.Overrides[model.OverridePostsListed])

	// The patch's slice is not shared with the workflow
	newPosts[0].Name = "changed"
	assert.Empty(t, w.Posts[0].Name)
}

func TestPatch_EmptyPostsClearsList(t *testing.T) {
	w := model.NewWorkflow("event-1")
	w.Posts = []model.CampaignPost{{ID: "old"}}

	var none []model.CampaignPost
	Patch{Posts: &none}.Apply(w)

	assert.NotNil(t, w.Posts)
	assert.Empty(t, w.Posts)
}

func TestPatch_Validate(t *testing.T) {
	bogus := model.Phase("bogus")
	negative := -1

	assert.Error(t, Patch{ActivePhase: &bogus}.Validate())
	assert.Error(t, Patch{ActiveStep: &negative}.Validate())
	assert.Error(t, Patch{Manual: map[model.ManualFlag]bool{"made-coffee": true}}.Validate())
	assert.Error(t, Patch{Overrides: map[model.Override]bool{"everything": true}}.Validate())
	assert.True(t, Patch{}.IsEmpty())
}
