package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/core/milestones"
	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/serialq"
	"github.com/jakechorley/event-planner/pkg/core/workflow"
	"github.com/jakechorley/event-planner/pkg/db"
)

// WorkflowState is an event's workflow together with everything derived from it
type WorkflowState struct {
	Event    model.Event         `json:"event"`
	Workflow *model.Workflow     `json:"workflow"`
	Board    workflow.Board      `json:"board"`
	Progress milestones.Progress `json:"progress"`
}

// NavigationResult is returned by the navigation operations. Moved is false when
// the move was refused or changed nothing.
type NavigationResult struct {
	*WorkflowState
	Moved bool `json:"moved"`
}

// PostInput is the editable content of a campaign post
type PostInput struct {
	Name        string `validate:"required"`
	Type        string
	Networks    []string
	Description string
	ScheduledAt *time.Time
	Caption     string
	Media       []model.Media
	Verified    bool
}

// WorkflowService drives the communication workflow of events.
// Writes to one event's workflow are applied one at a time.
type WorkflowService struct {
	store    db.WorkflowStore
	events   db.EventStore
	queue    *serialq.Queue
	logger   *zap.Logger
	settings Settings
}

// NewWorkflowService creates a workflow service
func NewWorkflowService(store db.Database, queue *serialq.Queue, logger *zap.Logger, settings Settings) *WorkflowService {
	return &WorkflowService{
		store:    store,
		events:   store,
		queue:    queue,
		logger:   logger,
		settings: settings,
	}
}

// Load returns the event's workflow, the initial one if none is stored yet.
// A stored position outside its step list is clamped in the returned state only.
func (s *WorkflowService) Load(ctx context.Context, org model.Org, eventID string) (*WorkflowState, error) {
	event, err := s.getEvent(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	w, err := s.loadWorkflow(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	return s.state(event, w), nil
}

// Progress returns the milestone timeline of the event
func (s *WorkflowService) Progress(ctx context.Context, org model.Org, eventID string) (milestones.Progress, error) {
	state, err := s.Load(ctx, org, eventID)
	if err != nil {
		return milestones.Progress{}, err
	}
	return state.Progress, nil
}

// Update validates and persists a partial update
func (s *WorkflowService) Update(ctx context.Context, org model.Org, eventID string, patch workflow.Patch) (*WorkflowState, error) {
	if err := patch.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error(), Err: err}
	}

	event, err := s.getEvent(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	var updated *model.Workflow
	err = s.queue.Do(ctx, workflowKey(org, eventID), func() error {
		var err error
		updated, err = s.write(context.WithoutCancel(ctx), org, eventID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.state(event, updated), nil
}

// SetManual records a manual completion flag
func (s *WorkflowService) SetManual(ctx context.Context, org model.Org, eventID string, flag model.ManualFlag, value bool) (*WorkflowState, error) {
	return s.Update(ctx, org, eventID, workflow.Patch{Manual: map[model.ManualFlag]bool{flag: value}})
}

// SetOverride forces a step to read as complete, or clears the override
func (s *WorkflowService) SetOverride(ctx context.Context, org model.Org, eventID string, override model.Override, value bool) (*WorkflowState, error) {
	return s.Update(ctx, org, eventID, workflow.Patch{Overrides: map[model.Override]bool{override: value}})
}

// SetShotgunURL stores the ticketing page link
func (s *WorkflowService) SetShotgunURL(ctx context.Context, org model.Org, eventID string, url string) (*WorkflowState, error) {
	url = strings.TrimSpace(url)
	if url != "" {
		if err := validate.Var(url, "url"); err != nil {
			return nil, &ValidationError{Field: "shotgunUrl", Message: "must be a URL", Err: err}
		}
	}
	return s.Update(ctx, org, eventID, workflow.Patch{ShotgunURL: &url})
}

// AdvancePhase moves to the next phase when the active phase is complete
func (s *WorkflowService) AdvancePhase(ctx context.Context, org model.Org, eventID string) (*NavigationResult, error) {
	return s.navigate(ctx, org, eventID, "advance_phase", (*workflow.Snapshot).GoNextPhase)
}

// NextStep moves to the following step of the active phase
func (s *WorkflowService) NextStep(ctx context.Context, org model.Org, eventID string) (*NavigationResult, error) {
	return s.navigate(ctx, org, eventID, "next_step", (*workflow.Snapshot).GoNext)
}

// PrevStep moves to the previous step of the active phase
func (s *WorkflowService) PrevStep(ctx context.Context, org model.Org, eventID string) (*NavigationResult, error) {
	return s.navigate(ctx, org, eventID, "prev_step", (*workflow.Snapshot).GoPrev)
}

// SelectStep jumps to a step of the active phase if it is complete or already reached
func (s *WorkflowService) SelectStep(ctx context.Context, org model.Org, eventID string, idx int) (*NavigationResult, error) {
	return s.navigate(ctx, org, eventID, "select_step", func(snapshot *workflow.Snapshot) bool {
		return snapshot.SelectStep(idx)
	})
}

// SelectPhase opens a phase already reached, or one whose earlier phases are all complete
func (s *WorkflowService) SelectPhase(ctx context.Context, org model.Org, eventID string, raw string) (*NavigationResult, error) {
	phase := model.ParsePhase(raw)
	if phase == model.PhaseUnknown {
		return nil, invalid("phase", "unknown phase %q", raw)
	}
	return s.navigate(ctx, org, eventID, "select_phase", func(snapshot *workflow.Snapshot) bool {
		return snapshot.SelectPhase(phase)
	})
}

// navigate applies a move to the stored workflow and persists the new position when it moved
func (s *WorkflowService) navigate(ctx context.Context, org model.Org, eventID string, action string, move func(*workflow.Snapshot) bool) (*NavigationResult, error) {
	event, err := s.getEvent(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	var (
		current *model.Workflow
		moved   bool
	)
	err = s.queue.Do(ctx, workflowKey(org, eventID), func() error {
		ctx := context.WithoutCancel(ctx)

		w, err := s.loadWorkflow(ctx, org, eventID)
		if err != nil {
			return err
		}

		snapshot := s.snapshot(event, w)
		snapshot.Normalize()
		phase, step := w.ActivePhase, w.ActiveStep

		moved = move(snapshot) && (w.ActivePhase != phase || w.ActiveStep != step)
		if !moved {
			current = w
			return nil
		}

		current, err = s.write(ctx, org, eventID, workflow.PositionPatch(w))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Workflow navigation",
		zap.String("event_id", eventID),
		zap.String("action", action),
		zap.Bool("moved", moved),
		zap.String("phase", string(current.ActivePhase)),
		zap.Int("step", current.ActiveStep))

	return &NavigationResult{WorkflowState: s.state(event, current), Moved: moved}, nil
}

// AddPost appends a new campaign post
func (s *WorkflowService) AddPost(ctx context.Context, org model.Org, eventID string, input PostInput) (*WorkflowState, *model.CampaignPost, error) {
	post, err := newPost(input)
	if err != nil {
		return nil, nil, err
	}
	post.ID = uuid.New().String()

	state, err := s.editPosts(ctx, org, eventID, func(posts []model.CampaignPost) ([]model.CampaignPost, error) {
		return append(posts, post), nil
	})
	if err != nil {
		return nil, nil, err
	}
	return state, &post, nil
}

// UpdatePost replaces the editable content of a post, keeping its id and publication state
func (s *WorkflowService) UpdatePost(ctx context.Context, org model.Org, eventID, postID string, input PostInput) (*WorkflowState, error) {
	post, err := newPost(input)
	if err != nil {
		return nil, err
	}

	return s.editPosts(ctx, org, eventID, func(posts []model.CampaignPost) ([]model.CampaignPost, error) {
		idx := slices.IndexFunc(posts, func(p model.CampaignPost) bool { return p.ID == postID })
		if idx < 0 {
			return nil, fmt.Errorf("post %s: %w", postID, db.ErrNotFound)
		}
		post.ID = posts[idx].ID
		post.Published = posts[idx].Published
		post.ExternalID = posts[idx].ExternalID
		posts[idx] = post
		return posts, nil
	})
}

// DeletePost removes a post
func (s *WorkflowService) DeletePost(ctx context.Context, org model.Org, eventID, postID string) (*WorkflowState, error) {
	return s.editPosts(ctx, org, eventID, func(posts []model.CampaignPost) ([]model.CampaignPost, error) {
		kept := slices.DeleteFunc(posts, func(p model.CampaignPost) bool { return p.ID == postID })
		if len(kept) == len(posts) {
			return nil, fmt.Errorf("post %s: %w", postID, db.ErrNotFound)
		}
		return kept, nil
	})
}

// MarkPostPublished records a post's publication. The first publication of the
// campaign also sets the firstPostPublished flag.
func (s *WorkflowService) MarkPostPublished(ctx context.Context, org model.Org, eventID, postID, externalID string) (*WorkflowState, error) {
	event, err := s.getEvent(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	var updated *model.Workflow
	err = s.queue.Do(ctx, workflowKey(org, eventID), func() error {
		ctx := context.WithoutCancel(ctx)

		w, err := s.loadWorkflow(ctx, org, eventID)
		if err != nil {
			return err
		}

		firstPublication := !slices.ContainsFunc(w.Posts, func(p model.CampaignPost) bool { return p.Published })
		posts := slices.Clone(w.Posts)
		idx := slices.IndexFunc(posts, func(p model.CampaignPost) bool { return p.ID == postID })
		if idx < 0 {
			return fmt.Errorf("post %s: %w", postID, db.ErrNotFound)
		}
		posts[idx].Published = true
		posts[idx].ExternalID = externalID

		patch := workflow.Patch{Posts: &posts}
		if firstPublication {
			patch.Manual = map[model.ManualFlag]bool{model.ManualFirstPostPublished: true}
		}

		updated, err = s.write(ctx, org, eventID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Campaign post published",
		zap.String("event_id", eventID),
		zap.String("post_id", postID),
		zap.String("external_id", externalID))

	return s.state(event, updated), nil
}

// editPosts replaces the post list with the result of edit, inside the event's queue lane
func (s *WorkflowService) editPosts(ctx context.Context, org model.Org, eventID string, edit func([]model.CampaignPost) ([]model.CampaignPost, error)) (*WorkflowState, error) {
	event, err := s.getEvent(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	var updated *model.Workflow
	err = s.queue.Do(ctx, workflowKey(org, eventID), func() error {
		ctx := context.WithoutCancel(ctx)

		w, err := s.loadWorkflow(ctx, org, eventID)
		if err != nil {
			return err
		}

		posts, err := edit(slices.Clone(w.Posts))
		if err != nil {
			return err
		}

		updated, err = s.write(ctx, org, eventID, workflow.Patch{Posts: &posts})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.state(event, updated), nil
}

// write persists the patch and returns the merged workflow
func (s *WorkflowService) write(ctx context.Context, org model.Org, eventID string, patch workflow.Patch) (*model.Workflow, error) {
	record, err := s.store.UpdateWorkflow(ctx, org, eventID, toDBPatch(patch))
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}
	return toModelWorkflow(record, s.logger), nil
}

func (s *WorkflowService) loadWorkflow(ctx context.Context, org model.Org, eventID string) (*model.Workflow, error) {
	record, err := s.store.GetWorkflow(ctx, org, eventID)
	if errors.Is(err, db.ErrNotFound) {
		return model.NewWorkflow(eventID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	return toModelWorkflow(record, s.logger), nil
}

func (s *WorkflowService) getEvent(ctx context.Context, org model.Org, eventID string) (model.Event, error) {
	record, err := s.events.GetEvent(ctx, org, eventID)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to get event: %w", err)
	}
	return toModelEvent(*record, s.settings.location()), nil
}

func (s *WorkflowService) snapshot(event model.Event, w *model.Workflow) *workflow.Snapshot {
	return workflow.NewSnapshot(w, event.StartsAt, s.settings.now())
}

func (s *WorkflowService) state(event model.Event, w *model.Workflow) *WorkflowState {
	snapshot := s.snapshot(event, w)
	snapshot.Normalize()

	return &WorkflowState{
		Event:    event,
		Workflow: w,
		Board:    snapshot.Board(),
		Progress: milestones.Compute(event, w, snapshot.Now),
	}
}

func newPost(input PostInput) (model.CampaignPost, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return model.CampaignPost{}, err
	}

	networks := make([]string, 0, len(input.Networks))
	for _, network := range input.Networks {
		if network = strings.TrimSpace(network); network != "" {
			networks = append(networks, network)
		}
	}

	return model.CampaignPost{
		Name:        input.Name,
		Type:        input.Type,
		Networks:    networks,
		Description: input.Description,
		ScheduledAt: input.ScheduledAt,
		Caption:     input.Caption,
		Media:       slices.Clone(input.Media),
		Verified:    input.Verified,
	}, nil
}

func workflowKey(org model.Org, eventID string) string {
	return "workflow:" + org.ID + ":" + eventID
}
