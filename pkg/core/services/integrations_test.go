package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
	"github.com/jakechorley/event-planner/pkg/clients/socialclient"
	"github.com/jakechorley/event-planner/pkg/clients/ticketingclient"
	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/serialq"
)

func TestPublishPlanning(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestPlanningService(t)
	_, err := service.Assign(ctx, testOrg, "event-1", "21:00", model.PostDJ, "sam")
	require.NoError(t, err)

	publisher := &mockPublisher{}
	result, err := PublishPlanning(ctx, service, publisher, "sheet-1", zap.NewNop(), testOrg, "event-1")
	require.NoError(t, err)

	assert.Equal(t, "sheet-1", publisher.spreadsheetID)
	assert.Equal(t, "Sat Jun 08 2024 - Summer Party", result.TabTitle)
	assert.Equal(t, 3, result.ShiftCount)
	assert.Equal(t, 1, result.AssignedCount)

	published := publisher.published
	require.NotNil(t, published)
	assert.Equal(t, "Summer Party", published.EventName)
	assert.Equal(t, []string{"Entry", "Merch", "Cloakroom", "Security", "DJ", "Photo", "Break"}, published.Posts)
	require.Len(t, published.Rows, 3)
	assert.Equal(t, "21:00", published.Rows[1].Shift)
	assert.Equal(t, []string{"Sam"}, published.Rows[1].Cells[4])
	assert.Empty(t, published.Rows[0].Cells[4])
}

func TestPublishPlanning_NotConfigured(t *testing.T) {
	service, _ := newTestPlanningService(t)

	_, err := PublishPlanning(context.Background(), service, &mockPublisher{}, "", zap.NewNop(), testOrg, "event-1")

	assert.ErrorIs(t, err, integration.ErrNotConfigured)
	assert.Equal(t, integration.ClassConfiguration, integration.Classify(err))
}

func TestEmailShifts(t *testing.T) {
	ctx := context.Background()
	service, store := newTestPlanningService(t)
	store.addVolunteer("lou", "Lou Perez", "lou@example.com")

	for _, id := range []string{"alex-m", "alex-d", "sam", "lou"} {
		_, err := service.AddVolunteerToRoster(ctx, testOrg, "event-1", id)
		require.NoError(t, err)
	}
	_, err := service.Assign(ctx, testOrg, "event-1", "20:00", model.PostEntry, "alex-m")
	require.NoError(t, err)
	_, err = service.Assign(ctx, testOrg, "event-1", "22:00", model.PostBreak, "alex-m")
	require.NoError(t, err)
	_, err = service.Assign(ctx, testOrg, "event-1", "20:00", model.PostMerch, "alex-d")
	require.NoError(t, err)
	_, err = service.Assign(ctx, testOrg, "event-1", "21:00", model.PostSecurity, "lou")
	require.NoError(t, err)

	mailer := &mockMailer{failFor: map[string]error{"lou@example.com": errors.New("quota exceeded")}}
	result, err := EmailShifts(ctx, service, mailer, zap.NewNop(), testOrg, "event-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alex Martin"}, result.Sent)
	// Alex Dupont has no email, Sam has no shift
	assert.Equal(t, []string{"Alex Dupont", "Sam Diallo"}, result.Skipped)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "lou", result.Failed[0].VolunteerID)

	body := mailer.sent["alex@example.com"]
	assert.Contains(t, body, "Your shifts for Summer Party")
	assert.Contains(t, body, "Hi Alex,")
	assert.Contains(t, body, "20:00 - Entry")
	assert.Contains(t, body, "22:00 - Break")
	assert.NotContains(t, body, "21:00")
}

func TestEmailShifts_NotConfigured(t *testing.T) {
	service, _ := newTestPlanningService(t)

	_, err := EmailShifts(context.Background(), service, nil, zap.NewNop(), testOrg, "event-1")

	assert.ErrorIs(t, err, integration.ErrNotConfigured)
}

func TestTicketingSummary(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	store.addEvent("event-1", "Summer Party", eventStart, "")
	store.addEvent("event-2", "Linked Party", eventStart, "")
	linked := store.events["event-2"]
	linked.TicketingRef = "linked-party"
	store.events["event-2"] = linked
	events := NewEventService(store, zap.NewNop(), testSettings())

	_, err := TicketingSummary(ctx, events, nil, zap.NewNop(), testOrg, "event-2")
	assert.ErrorIs(t, err, integration.ErrNotConfigured)

	source := &mockTicketing{summary: &ticketingclient.Summary{EventName: "Linked Party", Sold: 42}}

	_, err = TicketingSummary(ctx, events, source, zap.NewNop(), testOrg, "event-1")
	assert.True(t, IsValidationError(err))

	summary, err := TicketingSummary(ctx, events, source, zap.NewNop(), testOrg, "event-2")
	require.NoError(t, err)
	assert.Equal(t, 42, summary.Sold)
	assert.Equal(t, []string{"linked-party"}, source.refs)

	source.err = &integration.TransientError{Service: "ticketing", StatusCode: 503, Err: errors.New("unavailable")}
	_, err = TicketingSummary(ctx, events, source, zap.NewNop(), testOrg, "event-2")
	assert.Equal(t, integration.ClassTransient, integration.Classify(err))
}

func TestPublishCampaignPost(t *testing.T) {
	ctx := context.Background()
	workflows, _ := newTestWorkflowService(t)
	account := &mockSocial{}

	_, bare, err := workflows.AddPost(ctx, testOrg, "event-1", PostInput{Name: "Teaser"})
	require.NoError(t, err)
	_, post, err := workflows.AddPost(ctx, testOrg, "event-1", PostInput{
		Name:    "Line-up",
		Caption: "Out now",
		Media:   []model.Media{{URL: "https://cdn.example.com/lineup.jpg", Type: "image"}},
	})
	require.NoError(t, err)

	_, err = PublishCampaignPost(ctx, workflows, nil, zap.NewNop(), testOrg, "event-1", post.ID)
	assert.ErrorIs(t, err, integration.ErrNotConfigured)

	_, err = PublishCampaignPost(ctx, workflows, account, zap.NewNop(), testOrg, "event-1", bare.ID)
	assert.True(t, IsValidationError(err), "a post without visuals cannot be published")

	state, err := PublishCampaignPost(ctx, workflows, account, zap.NewNop(), testOrg, "event-1", post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/lineup.jpg|Out now"}, account.published)
	assert.True(t, state.Workflow.Posts[1].Published)
	assert.Equal(t, "ig-1", state.Workflow.Posts[1].ExternalID)
	assert.True(t, state.Workflow.Manual[model.ManualFirstPostPublished])

	_, err = PublishCampaignPost(ctx, workflows, account, zap.NewNop(), testOrg, "event-1", post.ID)
	assert.True(t, IsValidationError(err), "a post is published once")
	assert.Len(t, account.published, 1)
}

func TestPublishCampaignPost_PublishFailureLeavesWorkflow(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	store.addEvent("event-1", "Summer Party", eventStart, "")
	queue := serialq.New()
	t.Cleanup(queue.Close)
	workflows := NewWorkflowService(store, queue, zap.NewNop(), testSettings())

	_, post, err := workflows.AddPost(ctx, testOrg, "event-1", PostInput{
		Name:  "Line-up",
		Media: []model.Media{{URL: "https://cdn.example.com/lineup.jpg"}},
	})
	require.NoError(t, err)
	calls := store.updateWorkflowCalls

	account := &mockSocial{err: integration.ErrUnauthorized}
	_, err = PublishCampaignPost(ctx, workflows, account, zap.NewNop(), testOrg, "event-1", post.ID)

	assert.ErrorIs(t, err, integration.ErrUnauthorized)
	assert.Equal(t, calls, store.updateWorkflowCalls)
}

func TestRecentMedia(t *testing.T) {
	account := &mockSocial{media: []socialclient.Media{{ID: "m1", LikeCount: 10}}}

	media, err := RecentMedia(context.Background(), account, zap.NewNop(), 0)
	require.NoError(t, err)

	assert.Equal(t, defaultMediaLimit, account.limit)
	require.Len(t, media, 1)
	assert.Equal(t, 10, media[0].LikeCount)
}
