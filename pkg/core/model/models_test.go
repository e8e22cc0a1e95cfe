package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePhase(t *testing.T) {
	tests := []struct {
		raw  string
		want Phase
	}{
		{"preparation", PhasePreparation},
		{"production", PhaseProduction},
		{"communication", PhaseCommunication},
		{"postEvent", PhasePostEvent},
		{" production ", PhaseProduction},
		{"bogus", PhaseUnknown},
		{"", PhaseUnknown},
		{"unknown", PhaseUnknown},
		{"PostEvent", PhaseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePhase(tt.raw))
		})
	}
}

func TestCanonicalPhase_RecoversUnknown(t *testing.T) {
	assert.Equal(t, PhasePreparation, CanonicalPhase("bogus"))
	assert.Equal(t, PhasePreparation, CanonicalPhase(""))
	assert.Equal(t, PhaseCommunication, CanonicalPhase("communication"))
}

func TestPhaseIndex(t *testing.T) {
	assert.Equal(t, 0, PhasePreparation.Index())
	assert.Equal(t, 3, PhasePostEvent.Index())
	assert.Equal(t, -1, PhaseUnknown.Index())
	assert.False(t, PhaseUnknown.IsValid())
}

func TestCanonicalKind(t *testing.T) {
	assert.Equal(t, KindMember, CanonicalKind("member"))
	assert.Equal(t, KindMember, CanonicalKind(" Member "))
	assert.Equal(t, KindVolunteer, CanonicalKind("volunteer"))
	assert.Equal(t, KindVolunteer, CanonicalKind("staff"))
	assert.Equal(t, KindVolunteer, CanonicalKind(""))
}

func TestPostLabels(t *testing.T) {
	for _, post := range Posts {
		assert.True(t, post.IsValid(), "post %s should be valid", post)
		assert.NotEqual(t, string(post), post.Label(), "post %s should have a display label", post)
	}
	assert.Equal(t, "DJ", PostDJ.Label())
	assert.False(t, PostID("bar").IsValid())
	assert.Equal(t, "bar", PostID("bar").Label())
}

func TestCampaignPost_IsContentReady(t *testing.T) {
	date := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)

	assert.False(t, CampaignPost{}.IsContentReady())
	assert.False(t, CampaignPost{ScheduledAt: &date, Caption: "  "}.IsContentReady())
	assert.False(t, CampaignPost{ScheduledAt: &date, Caption: "hello"}.IsContentReady())
	assert.True(t, CampaignPost{
		ScheduledAt: &date,
		Caption:     "hello",
		Media:       []Media{{URL: "https://cdn.example.com/a.jpg", Type: "image"}},
	}.IsContentReady())
}

func TestFlagsAndOverridesValidity(t *testing.T) {
	for _, flag := range LaunchFlags {
		assert.True(t, flag.IsValid())
	}
	assert.True(t, ManualSecurityContacted.IsValid())
	assert.False(t, ManualFlag("madeCoffee").IsValid())
	assert.True(t, OverrideCampaignRunning.IsValid())
	assert.False(t, Override("skipEverything").IsValid())
}
