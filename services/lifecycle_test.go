package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cueclub/tournament-engine/models"
)

func TestCanTransitionFollowsLifecycleOrder(t *testing.T) {
	ordered := []models.TournamentStatus{
		models.StatusDraft,
		models.StatusPublished,
		models.StatusRegistrationOpen,
		models.StatusRegistrationClosed,
		models.StatusOngoing,
		models.StatusCompleted,
	}

	for i, from := range ordered {
		for j, to := range ordered {
			got := CanTransition(from, to)
			want := j == i+1
			assert.Equal(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionCancellation(t *testing.T) {
	assert.True(t, CanTransition(models.StatusDraft, models.StatusCancelled))
	assert.True(t, CanTransition(models.StatusRegistrationOpen, models.StatusCancelled))
	assert.True(t, CanTransition(models.StatusOngoing, models.StatusCancelled))

	// Terminal states stay terminal.
	assert.False(t, CanTransition(models.StatusCompleted, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusCancelled, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusCancelled, models.StatusDraft))
}

func rankPtr(code models.RankCode) *models.RankCode {
	return &code
}

func TestRankEligibleAllowAllRanks(t *testing.T) {
	tournament := &models.Tournament{AllowAllRanks: true}
	for _, code := range models.RankLadder {
		assert.True(t, RankEligible(tournament, code))
	}
}

func TestRankEligibleExplicitSet(t *testing.T) {
	tournament := &models.Tournament{
		EligibleRanks: []models.RankCode{models.RankD, models.RankC},
		// An explicit set wins over any range fields also present.
		MinRank: rankPtr(models.RankK),
		MaxRank: rankPtr(models.RankA),
	}
	assert.True(t, RankEligible(tournament, models.RankD))
	assert.True(t, RankEligible(tournament, models.RankC))
	assert.False(t, RankEligible(tournament, models.RankB))
	assert.False(t, RankEligible(tournament, models.RankK))
}

func TestRankEligibleRange(t *testing.T) {
	tournament := &models.Tournament{
		MinRank: rankPtr(models.RankG),
		MaxRank: rankPtr(models.RankD),
	}
	assert.False(t, RankEligible(tournament, models.RankK))
	assert.False(t, RankEligible(tournament, models.RankH))
	assert.True(t, RankEligible(tournament, models.RankG))
	assert.True(t, RankEligible(tournament, models.RankE))
	assert.True(t, RankEligible(tournament, models.RankD))
	assert.False(t, RankEligible(tournament, models.RankA))
}

func TestRankEligibleOpenEndedRange(t *testing.T) {
	floorOnly := &models.Tournament{MinRank: rankPtr(models.RankC)}
	assert.True(t, RankEligible(floorOnly, models.RankA))
	assert.False(t, RankEligible(floorOnly, models.RankD))

	ceilingOnly := &models.Tournament{MaxRank: rankPtr(models.RankF)}
	assert.True(t, RankEligible(ceilingOnly, models.RankK))
	assert.False(t, RankEligible(ceilingOnly, models.RankE))
}

func TestAssembleRebuildsRoundStructure(t *testing.T) {
	matches := []*models.Match{
		{Round: 1, Slot: 0, BracketUID: "R1M1"},
		{Round: 1, Slot: 1, BracketUID: "R1M2"},
		{Round: 2, Slot: 0, BracketUID: "R2M1"},
	}
	bracket := assemble(models.TypeKnockout, matches)

	assert.Len(t, bracket.Rounds, 2)
	assert.Len(t, bracket.Rounds[0], 2)
	assert.Len(t, bracket.Rounds[1], 1)
	assert.Equal(t, "R2M1", bracket.Rounds[1][0].BracketUID)
}
