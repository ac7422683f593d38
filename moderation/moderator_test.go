package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModerator_Censor_Replaces_Forbidden_Words(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"scammer", "arnaque"}, '*')
	req.NoError(err)

	req.Equal("you are a *******", moderator.Censor("you are a scammer"))
	req.Equal("c'est une *******", moderator.Censor("c'est une arnaque"))
}

func TestModerator_Censor_Handles_Leet_Speak(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"scammer"}, '*')
	req.NoError(err)

	// 5c4mm3r normalizes back to scammer
	req.Equal("*******", moderator.Censor("5c4mm3r"))
}

func TestModerator_Censor_Leaves_Clean_Text_Untouched(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"scammer"}, '*')
	req.NoError(err)

	input := "is the bike still available?"
	req.Equal(input, moderator.Censor(input))
}

func TestLoadWords_Embedded_Lists(t *testing.T) {
	req := require.New(t)

	words, err := LoadWords()

	req.NoError(err)
	req.NotEmpty(words.Words)
	req.Contains(words.Languages, "en")
	req.Contains(words.Languages, "fr")
}
