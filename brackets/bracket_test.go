package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cueclub/tournament-engine/models"
)

func generated(t *testing.T, n int) *Bracket {
	t.Helper()
	bracket, err := NewSingleEliminationGenerator().Generate(entrantList(n), SeedingByRating)
	require.NoError(t, err)
	return bracket
}

func TestRecordResultRejectsTies(t *testing.T) {
	bracket := generated(t, 4)
	_, _, err := bracket.RecordResult("R1M1", 5, 5)
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, _, err = bracket.RecordResult("R1M1", -1, 3)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestRecordResultRejectsUnreachableMatch(t *testing.T) {
	bracket := generated(t, 4)
	// Round two is not reachable until its feeders complete.
	_, _, err := bracket.RecordResult("R2M1", 5, 3)
	assert.ErrorIs(t, err, ErrMatchNotReady)

	_, _, err = bracket.RecordResult("R9M9", 5, 3)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRecordResultRejectsDoubleCompletion(t *testing.T) {
	bracket := generated(t, 4)
	match, touched, err := bracket.RecordResult("R1M1", 7, 2)
	require.NoError(t, err)
	require.NotNil(t, match.WinnerParticipantID)
	require.Len(t, touched, 1)

	_, _, err = bracket.RecordResult("R1M1", 2, 7)
	assert.ErrorIs(t, err, ErrMatchCompleted)

	// The recorded result is untouched by the rejected second attempt.
	assert.Equal(t, 7, *match.Score1)
	assert.Equal(t, 2, *match.Score2)
}

func TestCompletedMatchWinnerMatchesScorePair(t *testing.T) {
	bracket := generated(t, 4)
	m, _, err := bracket.RecordResult("R1M2", 3, 9)
	require.NoError(t, err)
	assert.Equal(t, models.MatchCompleted, m.Status)
	assert.Equal(t, *m.Player2ID, *m.WinnerParticipantID)
}

func TestStartMatchRequiresBothSlots(t *testing.T) {
	bracket := generated(t, 4)

	_, err := bracket.StartMatch("R2M1")
	assert.ErrorIs(t, err, ErrMatchNotReady)

	m, err := bracket.StartMatch("R1M1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchInProgress, m.Status)
}

func TestSubstituteOnlyTouchesPendingMatches(t *testing.T) {
	bracket := generated(t, 8)

	// Participant 1 wins the opener, so that match becomes history.
	completed, _, err := bracket.RecordResult("R1M1", 9, 4)
	require.NoError(t, err)
	require.Equal(t, 1, *completed.WinnerParticipantID)

	affected, err := bracket.Substitute(1, 99)
	require.NoError(t, err)
	// Only the round-two slot the winner advanced into is pending.
	assert.Equal(t, []string{"R2M1"}, affected)

	// History keeps the original player.
	assert.Equal(t, 1, *completed.Player1ID)
	next, err := bracket.MatchByUID("R2M1")
	require.NoError(t, err)
	assert.Equal(t, 99, *next.Player1ID)
}

func TestSubstituteUnknownPlayer(t *testing.T) {
	bracket := generated(t, 4)
	_, err := bracket.Substitute(12345, 99)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestSubstituteAcrossWholeBracket(t *testing.T) {
	bracket, err := NewRoundRobinGenerator().Generate(entrantList(4), SeedingByRating)
	require.NoError(t, err)

	affected, err := bracket.Substitute(2, 42)
	require.NoError(t, err)
	// Participant 2 plays each of the other three once.
	assert.Len(t, affected, 3)
	for _, m := range bracket.AllMatches() {
		if m.Player1ID != nil {
			assert.NotEqual(t, 2, *m.Player1ID)
		}
		if m.Player2ID != nil {
			assert.NotEqual(t, 2, *m.Player2ID)
		}
	}
}

func TestHasRecordedResultsIgnoresByes(t *testing.T) {
	bracket := generated(t, 5)
	// Byes are completed by construction but carry no recorded result.
	assert.False(t, bracket.HasRecordedResults())

	var pending *models.Match
	for _, m := range bracket.Rounds[0] {
		if !m.IsBye {
			pending = m
			break
		}
	}
	require.NotNil(t, pending)
	_, _, err := bracket.RecordResult(pending.BracketUID, 6, 1)
	require.NoError(t, err)
	assert.True(t, bracket.HasRecordedResults())
}

func TestChampionRequiresCompletedFinal(t *testing.T) {
	bracket := generated(t, 2)
	assert.Nil(t, bracket.Champion())

	_, _, err := bracket.RecordResult("R1M1", 5, 2)
	require.NoError(t, err)
	champion := bracket.Champion()
	require.NotNil(t, champion)
	assert.Equal(t, 1, *champion)
}
