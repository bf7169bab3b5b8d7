package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_MatchesInteractiveSession(t *testing.T) {
	cat := testCatalog(t)
	skills := []string{"Product Management", "Agile", "Public Speaking"}

	s := NewSession(cat)
	require.NoError(t, s.ChoosePath("career-switcher"))
	answerAll(t, s, 3)
	for _, sk := range skills {
		require.NoError(t, s.AddSkill(sk))
	}
	want, err := s.Finish()
	require.NoError(t, err)

	got, err := Replay(cat, s.Answers())
	require.NoError(t, err)

	assert.Equal(t, want.CourseMatches, got.CourseMatches)
	assert.Equal(t, want.DiscountEligibility, got.DiscountEligibility)
	assert.Equal(t, want.BestMatch, got.BestMatch)
	assert.Equal(t, want.Traits, got.Traits)
	assert.Equal(t, want.Choices, got.Choices)
	assert.NotEqual(t, want.SessionID, got.SessionID)
}

func TestReplay_Errors(t *testing.T) {
	cat := testCatalog(t)
	path, _ := cat.Path("career-starter")
	full := make([]int, len(path.Questions))
	skills := []string{"a", "b", "c"}

	tests := []struct {
		name string
		in   Answers
		want error
	}{
		{"unknown path", Answers{Path: "nope", Choices: full, Skills: skills}, ErrUnknownPath},
		{"too few answers", Answers{Path: path.ID, Choices: full[1:], Skills: skills}, ErrIncompleteAnswers},
		{"too many answers", Answers{Path: path.ID, Choices: append(full, 0), Skills: skills}, ErrWrongPhase},
		{"bad option", Answers{Path: path.ID, Choices: append([]int{99}, full[1:]...), Skills: skills}, ErrInvalidOption},
		{"not enough skills", Answers{Path: path.ID, Choices: full, Skills: skills[:2]}, ErrNotEnoughSkills},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Replay(cat, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
