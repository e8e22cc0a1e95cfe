package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayNames(t *testing.T) {
	volunteers := []Volunteer{
		{ID: "1", Name: "Alex Martin"},
		{ID: "2", Name: "Alex Moreau"},
		{ID: "3", Name: "Sam  Diallo"},
		{ID: "4", Name: "Lou Élise Petit"},
		{ID: "5", Name: "Lou Perez"},
		{ID: "6", Name: "Noor"},
		{ID: "7", Name: "Jo Blanc"},
		{ID: "8", Name: "Jo Brun"},
		{ID: "9", Name: "Jo"},
	}

	names := DisplayNames(volunteers)

	assert.Equal(t, "Alex Martin", names["1"])
	assert.Equal(t, "Alex Moreau", names["2"])
	assert.Equal(t, "Sam", names["3"])
	assert.Equal(t, "Lou Élise Petit", names["4"])
	assert.Equal(t, "Lou Perez", names["5"])
	assert.Equal(t, "Noor", names["6"])
	assert.Equal(t, "Jo Blanc", names["7"])
	assert.Equal(t, "Jo Brun", names["8"])
	assert.Equal(t, "Jo", names["9"])
}

func TestDisplayNames_InitialDisambiguates(t *testing.T) {
	names := DisplayNames([]Volunteer{
		{ID: "1", Name: "Alex Martin"},
		{ID: "2", Name: "Alex Dupont"},
	})

	assert.Equal(t, "Alex M.", names["1"])
	assert.Equal(t, "Alex D.", names["2"])
}
