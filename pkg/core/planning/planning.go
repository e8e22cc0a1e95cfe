package planning

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jakechorley/event-planner/pkg/core/model"
)

var (
	// ErrUnknownPost is returned when assigning to a post outside model.Posts
	ErrUnknownPost = errors.New("unknown post")
	// ErrInvalidAssignment is returned when a shift key or volunteer id is missing
	ErrInvalidAssignment = errors.New("invalid assignment")
)

// AddToRoster adds the volunteer to the event's roster.
// Returns false if the volunteer was already rostered.
func AddToRoster(p *model.Planning, volunteerID string) bool {
	if slices.Contains(p.VolunteerIDs, volunteerID) {
		return false
	}
	p.VolunteerIDs = append(p.VolunteerIDs, volunteerID)
	return true
}

// RemoveFromRoster removes the volunteer from the roster and clears every post
// they hold in any shift. Returns false if the volunteer was not rostered.
func RemoveFromRoster(p *model.Planning, volunteerID string) bool {
	idx := slices.Index(p.VolunteerIDs, volunteerID)
	if idx >= 0 {
		p.VolunteerIDs = slices.Delete(p.VolunteerIDs, idx, idx+1)
	}

	for shiftKey := range p.Assignments {
		for _, post := range postsHeldAt(p, volunteerID, shiftKey) {
			Unassign(p, shiftKey, post, volunteerID)
		}
	}

	return idx >= 0
}

// Assign puts the volunteer on postID for the shift. Any other post the volunteer
// holds within the same shift is released first, so a volunteer never holds more
// than one post per shift.
func Assign(p *model.Planning, shiftKey string, postID model.PostID, volunteerID string) error {
	if shiftKey == "" || volunteerID == "" {
		return fmt.Errorf("%w: shift key and volunteer id are required", ErrInvalidAssignment)
	}
	if !postID.IsValid() {
		return fmt.Errorf("%w: %s", ErrUnknownPost, postID)
	}

	for _, held := range postsHeldAt(p, volunteerID, shiftKey) {
		if held != postID {
			Unassign(p, shiftKey, held, volunteerID)
		}
	}

	if p.Assignments == nil {
		p.Assignments = map[string]map[model.PostID][]string{}
	}
	shift := p.Assignments[shiftKey]
	if shift == nil {
		shift = map[model.PostID][]string{}
		p.Assignments[shiftKey] = shift
	}
	if !slices.Contains(shift[postID], volunteerID) {
		shift[postID] = append(shift[postID], volunteerID)
	}

	return nil
}

// Unassign removes the volunteer from postID for the shift.
// Returns false if the volunteer was not assigned there.
func Unassign(p *model.Planning, shiftKey string, postID model.PostID, volunteerID string) bool {
	shift := p.Assignments[shiftKey]
	if shift == nil {
		return false
	}

	volunteers := shift[postID]
	idx := slices.Index(volunteers, volunteerID)
	if idx < 0 {
		return false
	}

	volunteers = slices.Delete(volunteers, idx, idx+1)
	if len(volunteers) == 0 {
		delete(shift, postID)
	} else {
		shift[postID] = volunteers
	}
	if len(shift) == 0 {
		delete(p.Assignments, shiftKey)
	}

	return true
}

// PostsForVolunteerAtShift returns the known posts, in display order, on which the
// volunteer is assigned during the shift. Assign keeps this to at most one element,
// but stored data is read as-is.
func PostsForVolunteerAtShift(p *model.Planning, volunteerID string, shiftKey string) []model.PostID {
	shift := p.Assignments[shiftKey]
	posts := []model.PostID{}
	for _, post := range model.Posts {
		if slices.Contains(shift[post], volunteerID) {
			posts = append(posts, post)
		}
	}
	return posts
}

// VolunteersAt returns the volunteers assigned to the post during the shift
func VolunteersAt(p *model.Planning, shiftKey string, postID model.PostID) []string {
	return slices.Clone(p.Assignments[shiftKey][postID])
}

// postsHeldAt returns every post key, known or not, holding the volunteer in the shift
func postsHeldAt(p *model.Planning, volunteerID string, shiftKey string) []model.PostID {
	var held []model.PostID
	for post, volunteers := range p.Assignments[shiftKey] {
		if slices.Contains(volunteers, volunteerID) {
			held = append(held, post)
		}
	}
	return held
}

// Clone returns a deep copy of the planning
func Clone(p *model.Planning) *model.Planning {
	clone := &model.Planning{
		EventID:      p.EventID,
		VolunteerIDs: slices.Clone(p.VolunteerIDs),
		Assignments:  make(map[string]map[model.PostID][]string, len(p.Assignments)),
	}
	if clone.VolunteerIDs == nil {
		clone.VolunteerIDs = []string{}
	}
	for shiftKey, shift := range p.Assignments {
		posts := make(map[model.PostID][]string, len(shift))
		for post, volunteers := range shift {
			posts[post] = slices.Clone(volunteers)
		}
		clone.Assignments[shiftKey] = posts
	}
	return clone
}
