package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cueclub/tournament-engine/models"
)

// entrantList builds n entrants with ids 1..n and strictly descending
// ratings, so participant 1 is always the top seed under rating seeding.
func entrantList(n int) []Entrant {
	entrants := make([]Entrant, n)
	for i := range entrants {
		entrants[i] = Entrant{ParticipantID: i + 1, RatingSnapshot: 2000 - i*10}
	}
	return entrants
}

func TestGenerateRejectsTooFewEntrants(t *testing.T) {
	gen := NewSingleEliminationGenerator()

	_, err := gen.Generate(nil, SeedingByRating)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)

	_, err = gen.Generate(entrantList(1), SeedingByRating)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)
}

func TestFiveEntrantsGetThreeRoundsAndThreeByes(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	bracket, err := gen.Generate(entrantList(5), SeedingByRating)
	require.NoError(t, err)

	require.Len(t, bracket.Rounds, 3)
	require.Len(t, bracket.Rounds[0], 4)
	require.Len(t, bracket.Rounds[1], 2)
	require.Len(t, bracket.Rounds[2], 1)

	var byeWinners []int
	for _, m := range bracket.Rounds[0] {
		if m.IsBye {
			require.NotNil(t, m.WinnerParticipantID)
			require.Equal(t, models.MatchCompleted, m.Status)
			byeWinners = append(byeWinners, *m.WinnerParticipantID)
		}
	}
	// Byes go to the three strongest seeds, never to the tail of the field.
	assert.ElementsMatch(t, []int{1, 2, 3}, byeWinners)

	// The single real round-one match pairs the two remaining players.
	var realMatches int
	for _, m := range bracket.Rounds[0] {
		if !m.IsBye {
			realMatches++
			require.NotNil(t, m.Player1ID)
			require.NotNil(t, m.Player2ID)
			assert.ElementsMatch(t, []int{4, 5}, []int{*m.Player1ID, *m.Player2ID})
		}
	}
	assert.Equal(t, 1, realMatches)

	// Bye winners are already advanced into round two.
	var advanced []int
	for _, m := range bracket.Rounds[1] {
		if m.Player1ID != nil {
			advanced = append(advanced, *m.Player1ID)
		}
		if m.Player2ID != nil {
			advanced = append(advanced, *m.Player2ID)
		}
	}
	assert.ElementsMatch(t, []int{1, 2, 3}, advanced)
}

func TestTopSeedMeetsBottomSeedInFullBracket(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	bracket, err := gen.Generate(entrantList(8), SeedingByRating)
	require.NoError(t, err)

	require.Len(t, bracket.Rounds, 3)
	for _, m := range bracket.Rounds[0] {
		assert.False(t, m.IsBye)
	}

	first := bracket.Rounds[0][0]
	require.NotNil(t, first.Player1ID)
	require.NotNil(t, first.Player2ID)
	assert.Equal(t, 1, *first.Player1ID)
	assert.Equal(t, 8, *first.Player2ID)
}

func TestSeedingOrderProperties(t *testing.T) {
	for _, size := range []int{2, 4, 8, 16, 32, 64} {
		order := seedingOrder(size)
		require.Len(t, order, size)

		seen := make(map[int]bool, size)
		for _, seed := range order {
			assert.False(t, seen[seed])
			seen[seed] = true
		}
		// Each pair of consecutive positions sums to size+1 in round one.
		for i := 0; i < size; i += 2 {
			assert.Equal(t, size+1, order[i]+order[i+1], "size %d pair %d", size, i/2)
		}
	}
}

func TestRegistrationSeedingKeepsOrder(t *testing.T) {
	entrants := []Entrant{
		{ParticipantID: 9, RatingSnapshot: 100},
		{ParticipantID: 4, RatingSnapshot: 900},
		{ParticipantID: 7, RatingSnapshot: 500},
		{ParticipantID: 2, RatingSnapshot: 700},
	}

	gen := NewSingleEliminationGenerator()
	bracket, err := gen.Generate(entrants, SeedingByRegistration)
	require.NoError(t, err)

	first := bracket.Rounds[0][0]
	// Registration order: entrant listed first stays seed one.
	assert.Equal(t, 9, *first.Player1ID)
	assert.Equal(t, 2, *first.Player2ID)
}

// Completing every match of a round must leave every slot of the next
// round filled: no TBD player may survive a completed feeder.
func TestWinnerPropagationFillsNextRound(t *testing.T) {
	for _, n := range []int{5, 6, 8, 12, 16} {
		gen := NewSingleEliminationGenerator()
		bracket, err := gen.Generate(entrantList(n), SeedingByRating)
		require.NoError(t, err)

		for round := 1; round < len(bracket.Rounds); round++ {
			for _, m := range bracket.Rounds[round-1] {
				if m.Status == models.MatchCompleted {
					continue
				}
				_, _, err := bracket.RecordResult(m.BracketUID, 7, 5)
				require.NoError(t, err, "n=%d match %s", n, m.BracketUID)
			}
			require.True(t, bracket.RoundComplete(round))
			for _, next := range bracket.Rounds[round] {
				assert.NotNil(t, next.Player1ID, "n=%d round %d slot %d", n, round+1, next.Slot)
				assert.NotNil(t, next.Player2ID, "n=%d round %d slot %d", n, round+1, next.Slot)
			}
		}

		// Finish the final; the bracket must crown a champion.
		final := bracket.Rounds[len(bracket.Rounds)-1][0]
		if final.Status != models.MatchCompleted {
			_, _, err := bracket.RecordResult(final.BracketUID, 9, 3)
			require.NoError(t, err)
		}
		assert.NotNil(t, bracket.Champion())
	}
}
