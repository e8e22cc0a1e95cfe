package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowPatch_ApplyTo_MergesManualAndOverrides(t *testing.T) {
	w := &Workflow{
		ActivePhase: "production",
		Manual:      map[string]bool{"linktreeUpdated": true},
		Overrides:   map[string]bool{"postsListed": true},
		Posts:       []WorkflowPost{{ID: "p1"}},
	}

	WorkflowPatch{
		Manual:    map[string]bool{"firstPostPublished": true},
		Overrides: map[string]bool{"contentReady": true},
	}.ApplyTo(w)

	assert.Equal(t, map[string]bool{"linktreeUpdated": true, "firstPostPublished": true}, w.Manual)
	assert.Equal(t, map[string]bool{"postsListed": true, "contentReady": true}, w.Overrides)
	assert.Equal(t, "production", w.ActivePhase)
	assert.Len(t, w.Posts, 1)
}

func TestWorkflowPatch_ApplyTo_ReplacesTopLevelFields(t *testing.T) {
	scheduled := time.Date(2024, 6, 8, 18, 0, 0, 0, time.UTC)
	w := &Workflow{
		ActivePhase: "preparation",
		ActiveStep:  2,
		ShotgunURL:  "https://old.example.com",
		Posts:       []WorkflowPost{{ID: "p1"}, {ID: "p2"}},
	}

	phase := "communication"
	step := 0
	url := ""
	posts := []WorkflowPost{{ID: "p3", ScheduledAt: &scheduled}}
	WorkflowPatch{ActivePhase: &phase, ActiveStep: &step, ShotgunURL: &url, Posts: &posts}.ApplyTo(w)

	assert.Equal(t, "communication", w.ActivePhase)
	assert.Equal(t, 0, w.ActiveStep)
	assert.Empty(t, w.ShotgunURL)
	assert.Equal(t, posts, w.Posts)
	assert.NotNil(t, w.Manual)
	assert.NotNil(t, w.Overrides)
}

func TestPatches_IsEmpty(t *testing.T) {
	name := "Alex"
	brief := ""

	assert.True(t, VolunteerPatch{}.IsEmpty())
	assert.False(t, VolunteerPatch{Name: &name}.IsEmpty())
	assert.True(t, EventPatch{}.IsEmpty())
	assert.False(t, EventPatch{Brief: &brief}.IsEmpty())
}
