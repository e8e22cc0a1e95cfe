package db

import "time"

// Volunteer represents a database volunteer record
type Volunteer struct {
	ID        string
	OrgID     string
	Name      string
	Kind      string
	Favorite  bool
	Phone     string
	Email     string
	Notes     string
	CreatedAt time.Time
}

// Event represents a database event record
type Event struct {
	ID           string
	OrgID        string
	Name         string
	StartsAt     time.Time
	EndTime      string
	Brief        string
	TicketingRef string
	CreatedAt    time.Time
}

// Planning represents a database event planning record.
// Assignments maps shift key -> post id -> volunteer ids.
type Planning struct {
	OrgID        string
	EventID      string
	VolunteerIDs []string
	Assignments  map[string]map[string][]string
	UpdatedAt    time.Time
}

// Workflow represents a database communication workflow record.
// ActivePhase is stored as written and is not validated here.
type Workflow struct {
	OrgID       string
	EventID     string
	ActivePhase string
	ActiveStep  int
	Manual      map[string]bool
	Overrides   map[string]bool
	Posts       []WorkflowPost
	ShotgunURL  string
	UpdatedAt   time.Time
}

// WorkflowPost is a campaign post stored inside a workflow's posts document
type WorkflowPost struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type,omitempty"`
	Networks    []string     `json:"networks,omitempty"`
	Description string       `json:"description,omitempty"`
	ScheduledAt *time.Time   `json:"scheduledAt,omitempty"`
	Caption     string       `json:"caption,omitempty"`
	Media       []MediaAsset `json:"media,omitempty"`
	Verified    bool         `json:"verified"`
	Published   bool         `json:"published"`
	ExternalID  string       `json:"externalId,omitempty"`
}

// MediaAsset is a visual attached to a workflow post
type MediaAsset struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}
