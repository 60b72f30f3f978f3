package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cueclub/tournament-engine/brackets"
	"github.com/cueclub/tournament-engine/models"
)

func eliminationBracket(t *testing.T, n int) *brackets.Bracket {
	t.Helper()
	entrants := make([]brackets.Entrant, n)
	for i := range entrants {
		entrants[i] = brackets.Entrant{ParticipantID: i + 1, RatingSnapshot: 2000 - i*10}
	}
	bracket, err := brackets.NewSingleEliminationGenerator().Generate(entrants, brackets.SeedingByRating)
	require.NoError(t, err)
	return bracket
}

func TestRegenerationAllowedWithoutBracket(t *testing.T) {
	assert.NoError(t, regenerationError(nil, false))
	assert.NoError(t, regenerationError(nil, true))
}

func TestUnforcedRegenerationOverFreshBracket(t *testing.T) {
	bracket := eliminationBracket(t, 4)
	assert.ErrorIs(t, regenerationError(bracket, false), ErrBracketExists)
	assert.NoError(t, regenerationError(bracket, true))
}

func TestForcedRegenerationOverRecordedResults(t *testing.T) {
	bracket := eliminationBracket(t, 4)
	match, _, err := bracket.RecordResult("R1M1", 7, 3)
	require.NoError(t, err)
	require.Equal(t, models.MatchCompleted, match.Status)
	require.True(t, bracket.HasRecordedResults())

	// Force authorizes the destructive rebuild; without it the recorded
	// history locks the bracket.
	assert.NoError(t, regenerationError(bracket, true))
	assert.ErrorIs(t, regenerationError(bracket, false), ErrBracketLocked)
}

func TestByesAloneDoNotLockRegeneration(t *testing.T) {
	// Five entrants produce three preset byes but no recorded result, so
	// an unforced rebuild is merely a duplicate, not history loss.
	bracket := eliminationBracket(t, 5)
	require.False(t, bracket.HasRecordedResults())
	assert.ErrorIs(t, regenerationError(bracket, false), ErrBracketExists)
	assert.NoError(t, regenerationError(bracket, true))
}
