package model

import (
	"strings"
	"time"
)

// Phase is a coarse stage of an event's communication workflow
type Phase string

const (
	PhasePreparation   Phase = "preparation"
	PhaseProduction    Phase = "production"
	PhaseCommunication Phase = "communication"
	PhasePostEvent     Phase = "postEvent"
	// PhaseUnknown marks a stored value that matches no known phase
	PhaseUnknown Phase = "unknown"
)

// Phases lists the known phases in workflow order
var Phases = []Phase{
	PhasePreparation,
	PhaseProduction,
	PhaseCommunication,
	PhasePostEvent,
}

func (p Phase) IsValid() bool {
	return p.Index() >= 0
}

// Index returns the position of the phase in Phases, or -1
func (p Phase) Index() int {
	for i, known := range Phases {
		if known == p {
			return i
		}
	}
	return -1
}

// ParsePhase returns the phase named by raw, or PhaseUnknown
func ParsePhase(raw string) Phase {
	phase := Phase(strings.TrimSpace(raw))
	if phase.IsValid() {
		return phase
	}
	return PhaseUnknown
}

// CanonicalPhase is ParsePhase with unknown values recovered to preparation
func CanonicalPhase(raw string) Phase {
	phase := ParsePhase(raw)
	if phase == PhaseUnknown {
		return PhasePreparation
	}
	return phase
}

// ManualFlag names a completion the system cannot observe on its own
type ManualFlag string

const (
	ManualFirstPostPublished   ManualFlag = "firstPostPublished"
	ManualLinktreeUpdated      ManualFlag = "linktreeUpdated"
	ManualFacebookEventCreated ManualFlag = "facebookEventCreated"
	ManualSecurityContacted    ManualFlag = "securityContacted"
	ManualThankYouPosted       ManualFlag = "thankYouPosted"
	ManualTicketingReviewed    ManualFlag = "ticketingReviewed"
	ManualDebriefDone          ManualFlag = "debriefDone"
)

// LaunchFlags must all be set for the campaign to count as launched
var LaunchFlags = []ManualFlag{
	ManualFirstPostPublished,
	ManualLinktreeUpdated,
	ManualFacebookEventCreated,
}

var manualFlags = map[ManualFlag]bool{
	ManualFirstPostPublished:   true,
	ManualLinktreeUpdated:      true,
	ManualFacebookEventCreated: true,
	ManualSecurityContacted:    true,
	ManualThankYouPosted:       true,
	ManualTicketingReviewed:    true,
	ManualDebriefDone:          true,
}

func (f ManualFlag) IsValid() bool {
	return manualFlags[f]
}

// Override forces a step to read as complete
type Override string

const (
	OverridePostsListed     Override = "postsListed"
	OverrideDatesScheduled  Override = "datesScheduled"
	OverrideContentReady    Override = "contentReady"
	OverridePostsVerified   Override = "postsVerified"
	OverrideTicketingLinked Override = "ticketingLinked"
	OverrideCampaignRunning Override = "campaignRunning"
)

var overrides = map[Override]bool{
	OverridePostsListed:     true,
	OverrideDatesScheduled:  true,
	OverrideContentReady:    true,
	OverridePostsVerified:   true,
	OverrideTicketingLinked: true,
	OverrideCampaignRunning: true,
}

func (o Override) IsValid() bool {
	return overrides[o]
}

// Media is a visual attached to a campaign post
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"` // e.g. image, video
}

// CampaignPost is one planned social media post of an event campaign
type CampaignPost struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type,omitempty"`
	Networks    []string   `json:"networks"`
	Description string     `json:"description,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Caption     string     `json:"caption,omitempty"`
	Media       []Media    `json:"media"`
	Verified    bool       `json:"verified"`
	Published   bool       `json:"published"`
	ExternalID  string     `json:"externalId,omitempty"` // id returned by the social network once published
}

// IsContentReady reports whether the post has a date, a caption and at least one visual
func (p CampaignPost) IsContentReady() bool {
	return p.ScheduledAt != nil && strings.TrimSpace(p.Caption) != "" && len(p.Media) > 0
}

// Workflow is the communication campaign state of one event
type Workflow struct {
	EventID     string              `json:"eventId"`
	ActivePhase Phase               `json:"activePhase"`
	ActiveStep  int                 `json:"activeStep"`
	Manual      map[ManualFlag]bool `json:"manual"`
	Overrides   map[Override]bool   `json:"overrides"`
	Posts       []CampaignPost      `json:"posts"`
	ShotgunURL  string              `json:"shotgunUrl,omitempty"`
}

// NewWorkflow returns the initial workflow for an event
func NewWorkflow(eventID string) *Workflow {
	return &Workflow{
		EventID:     eventID,
		ActivePhase: PhasePreparation,
		Manual:      map[ManualFlag]bool{},
		Overrides:   map[Override]bool{},
		Posts:       []CampaignPost{},
	}
}
