package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cueclub/tournament-engine/models"
)

func TestRoundRobinProducesAllPairs(t *testing.T) {
	for _, n := range []int{2, 3, 4, 6, 8} {
		bracket, err := NewRoundRobinGenerator().Generate(entrantList(n), SeedingByRating)
		require.NoError(t, err)

		expected := n * (n - 1) / 2
		require.Len(t, bracket.Rounds, 1)
		require.Len(t, bracket.Rounds[0], expected, "n=%d", n)

		seen := make(map[string]bool)
		for _, m := range bracket.Rounds[0] {
			require.NotNil(t, m.Player1ID)
			require.NotNil(t, m.Player2ID)
			a, b := *m.Player1ID, *m.Player2ID
			if a > b {
				a, b = b, a
			}
			key := fmt.Sprintf("%d-%d", a, b)
			assert.False(t, seen[key], "pair %s repeated", key)
			seen[key] = true
		}
	}
}

func TestRoundRobinHasNoFeedingTopology(t *testing.T) {
	bracket, err := NewRoundRobinGenerator().Generate(entrantList(3), SeedingByRating)
	require.NoError(t, err)

	m, touched, err := bracket.RecordResult("R1M1", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, models.MatchCompleted, m.Status)
	assert.Empty(t, touched)
}

func TestSwissFirstRoundPairsAdjacentSeeds(t *testing.T) {
	bracket, err := NewSwissGenerator().Generate(entrantList(6), SeedingByRating)
	require.NoError(t, err)

	require.Len(t, bracket.Rounds, 1)
	require.Len(t, bracket.Rounds[0], 3)
	first := bracket.Rounds[0][0]
	assert.Equal(t, 1, *first.Player1ID)
	assert.Equal(t, 2, *first.Player2ID)
}

func TestSwissOddFieldGivesTailSeedABye(t *testing.T) {
	bracket, err := NewSwissGenerator().Generate(entrantList(5), SeedingByRating)
	require.NoError(t, err)

	round := bracket.Rounds[0]
	require.Len(t, round, 3)
	last := round[2]
	assert.True(t, last.IsBye)
	require.NotNil(t, last.WinnerParticipantID)
	assert.Equal(t, 5, *last.WinnerParticipantID)
}

func TestForTypeSelectsGenerator(t *testing.T) {
	tests := []struct {
		tournamentType models.TournamentType
		name           string
	}{
		{models.TypeKnockout, "SingleElimination"},
		{models.TypeDoubleElimination, "SingleElimination"},
		{models.TypeRoundRobin, "RoundRobin"},
		{models.TypeSwiss, "Swiss"},
	}
	for _, tc := range tests {
		gen, err := ForType(tc.tournamentType)
		require.NoError(t, err)
		assert.Equal(t, tc.name, gen.Name())
	}

	_, err := ForType(models.TournamentType("ladder"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
