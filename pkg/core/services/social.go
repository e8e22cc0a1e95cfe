package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
	"github.com/jakechorley/event-planner/pkg/clients/socialclient"
	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/db"
)

// defaultMediaLimit is used when no limit is given to RecentMedia
const defaultMediaLimit = 12

// SocialAccount publishes to and reads from the organisation's social account
type SocialAccount interface {
	Publish(ctx context.Context, imageURL string, caption string) (string, error)
	RecentMedia(ctx context.Context, limit int) ([]socialclient.Media, error)
}

// PublishCampaignPost publishes the post's first visual with its caption, then
// records the publication on the workflow
func PublishCampaignPost(
	ctx context.Context,
	workflows *WorkflowService,
	account SocialAccount,
	logger *zap.Logger,
	org model.Org,
	eventID string,
	postID string,
) (*WorkflowState, error) {
	if account == nil {
		return nil, fmt.Errorf("social account: %w", integration.ErrNotConfigured)
	}

	state, err := workflows.Load(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(state.Workflow.Posts, func(p model.CampaignPost) bool { return p.ID == postID })
	if idx < 0 {
		return nil, fmt.Errorf("post %s: %w", postID, db.ErrNotFound)
	}
	post := state.Workflow.Posts[idx]
	if post.Published {
		return nil, invalid("post", "%q is already published", post.Name)
	}
	if len(post.Media) == 0 || strings.TrimSpace(post.Media[0].URL) == "" {
		return nil, invalid("media", "post %q has no visual to publish", post.Name)
	}

	logger.Debug("Publishing campaign post",
		zap.String("event_id", eventID),
		zap.String("post_id", postID),
		zap.String("media_url", post.Media[0].URL))

	externalID, err := account.Publish(ctx, post.Media[0].URL, post.Caption)
	if err != nil {
		return nil, fmt.Errorf("failed to publish post: %w", err)
	}

	return workflows.MarkPostPublished(ctx, org, eventID, postID, externalID)
}

// RecentMedia lists the account's latest media with engagement counts
func RecentMedia(ctx context.Context, account SocialAccount, logger *zap.Logger, limit int) ([]socialclient.Media, error) {
	if account == nil {
		return nil, fmt.Errorf("social account: %w", integration.ErrNotConfigured)
	}
	if limit <= 0 {
		limit = defaultMediaLimit
	}

	media, err := account.RecentMedia(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent media: %w", err)
	}

	logger.Debug("Fetched recent media", zap.Int("count", len(media)))
	return media, nil
}
