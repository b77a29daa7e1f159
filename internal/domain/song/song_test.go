package song

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	in := Input{
		YoutubeID:   "dQw4w9WgXcQ",
		Title:       "Never Gonna Give You Up",
		Artist:      "Rick Astley",
		Duration:    "3:33",
		Thumbnail:   "https://img.example/1.jpg",
		RequestedBy: "Alice",
	}

	s, err := New(in)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.False(t, s.RequestedAt.IsZero())
	assert.Equal(t, in.YoutubeID, s.YoutubeID)
	assert.Equal(t, in.Title, s.Title)
	assert.Equal(t, in.RequestedBy, s.RequestedBy)

	// Two songs from the same input get distinct identities.
	s2, err := New(in)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, s2.ID)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{
			name: "missing youtube id",
			in:   Input{Title: "t", RequestedBy: "u"},
		},
		{
			name: "missing title",
			in:   Input{YoutubeID: "abc", RequestedBy: "u"},
		},
		{
			name: "missing requester",
			in:   Input{YoutubeID: "abc", Title: "t"},
		},
		{
			name: "whitespace only title",
			in:   Input{YoutubeID: "abc", Title: "   ", RequestedBy: "u"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.in)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		expected int
	}{
		{name: "empty", duration: "", expected: 0},
		{name: "seconds only", duration: "45", expected: 45},
		{name: "minutes and seconds", duration: "3:45", expected: 225},
		{name: "zero padded", duration: "0:07", expected: 7},
		{name: "hours", duration: "1:02:03", expected: 3723},
		{name: "malformed", duration: "abc", expected: 0},
		{name: "negative component", duration: "3:-1", expected: 0},
		{name: "too many components", duration: "1:2:3:4", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Song{Duration: tt.duration}
			assert.Equal(t, tt.expected, s.DurationSeconds())
		})
	}
}
