package planning

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/event-planner/pkg/core/model"
)

func TestAddToRoster_Idempotent(t *testing.T) {
	p := model.NewPlanning("event-1")

	assert.True(t, AddToRoster(p, "vol-1"))
	assert.False(t, AddToRoster(p, "vol-1"))
	assert.True(t, AddToRoster(p, "vol-2"))

	assert.Equal(t, []string{"vol-1", "vol-2"}, p.VolunteerIDs)
}

func TestAssign_SinglePostPerShift(t *testing.T) {
	p := model.NewPlanning("event-1")

	require.NoError(t, Assign(p, "22:00", model.PostEntry, "vol-1"))
	require.NoError(t, Assign(p, "22:00", model.PostBreak, "vol-1"))

	assert.Equal(t, []model.PostID{model.PostBreak}, PostsForVolunteerAtShift(p, "vol-1", "22:00"))
	assert.Empty(t, VolunteersAt(p, "22:00", model.PostEntry))
}

func TestAssign_LastAssignmentWins(t *testing.T) {
	sequence := []model.PostID{
		model.PostEntry,
		model.PostSecurity,
		model.PostSecurity,
		model.PostDJ,
		model.PostEntry,
		model.PostPhoto,
	}

	p := model.NewPlanning("event-1")
	for _, post := range sequence {
		require.NoError(t, Assign(p, "23:00", post, "vol-1"))

		posts := PostsForVolunteerAtShift(p, "vol-1", "23:00")
		require.Len(t, posts, 1)
		assert.Equal(t, post, posts[0])
	}
}

func TestAssign_DoesNotDuplicate(t *testing.T) {
	p := model.NewPlanning("event-1")

	require.NoError(t, Assign(p, "22:00", model.PostMerch, "vol-1"))
	require.NoError(t, Assign(p, "22:00", model.PostMerch, "vol-1"))

	assert.Equal(t, []string{"vol-1"}, VolunteersAt(p, "22:00", model.PostMerch))
}

func TestAssign_OtherShiftsUntouched(t *testing.T) {
	p := model.NewPlanning("event-1")

	require.NoError(t, Assign(p, "22:00", model.PostEntry, "vol-1"))
	require.NoError(t, Assign(p, "23:00", model.PostSecurity, "vol-1"))

	assert.Equal(t, []model.PostID{model.PostEntry}, PostsForVolunteerAtShift(p, "vol-1", "22:00"))
	assert.Equal(t, []model.PostID{model.PostSecurity}, PostsForVolunteerAtShift(p, "vol-1", "23:00"))
}

func TestAssign_SharedPost(t *testing.T) {
	p := model.NewPlanning("event-1")

	require.NoError(t, Assign(p, "22:00", model.PostSecurity, "vol-1"))
	require.NoError(t, Assign(p, "22:00", model.PostSecurity, "vol-2"))
	require.NoError(t, Assign(p, "22:00", model.PostEntry, "vol-1"))

	assert.Equal(t, []string{"vol-2"}, VolunteersAt(p, "22:00", model.PostSecurity))
	assert.Equal(t, []string{"vol-1"}, VolunteersAt(p, "22:00", model.PostEntry))
}

func TestAssign_Rejections(t *testing.T) {
	p := model.NewPlanning("event-1")

	assert.ErrorIs(t, Assign(p, "22:00", model.PostID("bar"), "vol-1"), ErrUnknownPost)
	assert.ErrorIs(t, Assign(p, "", model.PostEntry, "vol-1"), ErrInvalidAssignment)
	assert.ErrorIs(t, Assign(p, "22:00", model.PostEntry, ""), ErrInvalidAssignment)
	assert.Empty(t, p.Assignments)
}

func TestAssign_NilAssignmentsMap(t *testing.T) {
	p := &model.Planning{EventID: "event-1"}

	require.NoError(t, Assign(p, "22:00", model.PostEntry, "vol-1"))
	assert.Equal(t, []string{"vol-1"}, VolunteersAt(p, "22:00", model.PostEntry))
}

func TestUnassign(t *testing.T) {
	p := model.NewPlanning("event-1")
	require.NoError(t, Assign(p, "22:00", model.PostEntry, "vol-1"))

	assert.False(t, Unassign(p, "22:00", model.PostEntry, "vol-2"))
	assert.False(t, Unassign(p, "03:00", model.PostEntry, "vol-1"))
	assert.True(t, Unassign(p, "22:00", model.PostEntry, "vol-1"))
	assert.False(t, Unassign(p, "22:00", model.PostEntry, "vol-1"))

	// Empty shifts are pruned
	assert.Empty(t, p.Assignments)
}

func TestPostsForVolunteerAtShift_ToleratesCorruptData(t *testing.T) {
	p := &model.Planning{
		EventID: "event-1",
		Assignments: map[string]map[model.PostID][]string{
			"22:00": {
				model.PostSecurity: {"vol-1"},
				model.PostEntry:    {"vol-1"},
				"legacy-post":      {"vol-1"},
			},
		},
	}

	assert.Equal(t, []model.PostID{model.PostEntry, model.PostSecurity}, PostsForVolunteerAtShift(p, "vol-1", "22:00"))
	assert.Empty(t, PostsForVolunteerAtShift(p, "vol-1", "23:00"))
	assert.NotNil(t, PostsForVolunteerAtShift(p, "vol-2", "22:00"))

	// A fresh assignment repairs the shift, including unknown legacy posts
	require.NoError(t, Assign(p, "22:00", model.PostDJ, "vol-1"))
	assert.Equal(t, []model.PostID{model.PostDJ}, PostsForVolunteerAtShift(p, "vol-1", "22:00"))
	assert.Equal(t, map[model.PostID][]string{model.PostDJ: {"vol-1"}}, p.Assignments["22:00"])
}

func TestRemoveFromRoster_CascadesAssignments(t *testing.T) {
	p := model.NewPlanning("event-1")
	AddToRoster(p, "vol-1")
	AddToRoster(p, "vol-2")
	require.NoError(t, Assign(p, "22:00", model.PostEntry, "vol-1"))
	require.NoError(t, Assign(p, "23:00", model.PostBreak, "vol-1"))
	require.NoError(t, Assign(p, "23:00", model.PostBreak, "vol-2"))

	assert.True(t, RemoveFromRoster(p, "vol-1"))

	want := &model.Planning{
		EventID:      "event-1",
		VolunteerIDs: []string{"vol-2"},
		Assignments: map[string]map[model.PostID][]string{
			"23:00": {model.PostBreak: {"vol-2"}},
		},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("planning mismatch (-want +got):\n%s", diff)
	}

	assert.False(t, RemoveFromRoster(p, "vol-1"))
}

func TestClone_IsDeep(t *testing.T) {
	p := model.NewPlanning("event-1")
	AddToRoster(p, "vol-1")
	require.NoError(t, Assign(p, "22:00", model.PostEntry, "vol-1"))

	clone := Clone(p)
	require.NoError(t, Assign(clone, "22:00", model.PostEntry, "vol-2"))
	AddToRoster(clone, "vol-2")

	assert.Equal(t, []string{"vol-1"}, p.VolunteerIDs)
	assert.Equal(t, []string{"vol-1"}, VolunteersAt(p, "22:00", model.PostEntry))
	if diff := cmp.Diff(p, Clone(p)); diff != "" {
		t.Errorf("clone differs (-orig +clone):\n%s", diff)
	}
}
