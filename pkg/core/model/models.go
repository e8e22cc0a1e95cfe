package model

import (
	"strings"
	"time"
)

// Org scopes every store call to a single organisation
type Org struct {
	ID   string
	Slug string
}

// IsZero reports whether no organisation has been selected
func (o Org) IsZero() bool {
	return o.ID == ""
}

type VolunteerKind string

const (
	KindVolunteer VolunteerKind = "volunteer"
	KindMember    VolunteerKind = "member"
)

func (k VolunteerKind) IsValid() bool {
	return k == KindVolunteer || k == KindMember
}

// CanonicalKind maps a stored kind onto a known kind, defaulting to volunteer
func CanonicalKind(raw string) VolunteerKind {
	kind := VolunteerKind(strings.ToLower(strings.TrimSpace(raw)))
	if kind.IsValid() {
		return kind
	}
	return KindVolunteer
}

// Volunteer is a person who can be rostered onto an event
type Volunteer struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Kind      VolunteerKind `json:"kind"`
	Favorite  bool          `json:"favorite"`
	Phone     string        `json:"phone,omitempty"`
	Email     string        `json:"email,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Event is a single organised event
type Event struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StartsAt     time.Time `json:"startsAt"`
	EndTime      string    `json:"endTime,omitempty"` // HH:MM, empty if unknown
	Brief        string    `json:"brief,omitempty"`
	TicketingRef string    `json:"ticketingRef,omitempty"` // external ticketing id or slug
	CreatedAt    time.Time `json:"createdAt"`
}

// Planning is the volunteer roster and shift assignments of one event
type Planning struct {
	EventID      string   `json:"eventId"`
	VolunteerIDs []string `json:"volunteerIds"`
	// Assignments maps shift key -> post -> volunteer ids
	Assignments map[string]map[PostID][]string `json:"assignments"`
}

// NewPlanning returns an empty planning for the event
func NewPlanning(eventID string) *Planning {
	return &Planning{
		EventID:      eventID,
		VolunteerIDs: []string{},
		Assignments:  map[string]map[PostID][]string{},
	}
}
