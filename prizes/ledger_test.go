package prizes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cueclub/tournament-engine/models"
)

func draftedLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger := &Ledger{TournamentID: 1, TotalPool: 50_000_000}

	_, err := ledger.AddPlacement(1, "Champion", 25_000_000, models.PrizeCash)
	require.NoError(t, err)
	_, err = ledger.AddPlacement(2, "Runner-up", 15_000_000, models.PrizeCash)
	require.NoError(t, err)
	_, err = ledger.AddPlacement(3, "Third place", 5_000_000, models.PrizeCash)
	require.NoError(t, err)

	_, err = ledger.AddReward("Highest break", "Best single-visit score", 3_000_000)
	require.NoError(t, err)
	return ledger
}

func TestSummarizeTotals(t *testing.T) {
	ledger := draftedLedger(t)

	summary := ledger.Summarize()
	assert.Equal(t, int64(50_000_000), summary.TotalPool)
	assert.Equal(t, int64(45_000_000), summary.Distributed)
	assert.Equal(t, int64(3_000_000), summary.RewardTotal)
	assert.Equal(t, int64(2_000_000), summary.Remaining)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	ledger := draftedLedger(t)
	assert.Equal(t, ledger.Summarize(), ledger.Summarize())
}

func TestRemainingMayGoNegative(t *testing.T) {
	ledger := &Ledger{TournamentID: 1, TotalPool: 1_000_000}
	_, err := ledger.AddPlacement(1, "Champion", 2_000_000, models.PrizeCash)
	require.NoError(t, err)

	// Overcommitment is reported, never blocked.
	summary := ledger.Summarize()
	assert.Equal(t, int64(-1_000_000), summary.Remaining)
}

func TestDuplicatePlacementRejected(t *testing.T) {
	ledger := draftedLedger(t)
	_, err := ledger.AddPlacement(1, "Second champion", 1_000_000, models.PrizeCash)
	assert.ErrorIs(t, err, ErrDuplicatePlacement)

	// Positions need not be contiguous.
	_, err = ledger.AddPlacement(8, "Quarterfinalist", 500_000, models.PrizeGift)
	assert.NoError(t, err)
}

func TestPlacementValidation(t *testing.T) {
	ledger := &Ledger{TournamentID: 1, TotalPool: 1_000_000}

	_, err := ledger.AddPlacement(0, "Champion", 100, models.PrizeCash)
	assert.ErrorIs(t, err, ErrInvalidPrize)
	_, err = ledger.AddPlacement(1, "  ", 100, models.PrizeCash)
	assert.ErrorIs(t, err, ErrInvalidPrize)
	_, err = ledger.AddPlacement(1, "Champion", -1, models.PrizeCash)
	assert.ErrorIs(t, err, ErrInvalidPrize)
	_, err = ledger.AddPlacement(1, "Champion", 100, models.PrizeType("nft"))
	assert.ErrorIs(t, err, ErrInvalidPrize)
}

func TestRemoveEntries(t *testing.T) {
	ledger := draftedLedger(t)
	item, err := ledger.AddPlacement(4, "Semifinalist", 1_000_000, models.PrizeTrophy)
	require.NoError(t, err)

	require.NoError(t, ledger.RemovePlacement(item.ID))
	assert.ErrorIs(t, ledger.RemovePlacement(item.ID), ErrPlacementNotFound)

	sponsor, err := ledger.AddSponsor("Golden Cue Distribution", 10_000_000, models.SponsorCash)
	require.NoError(t, err)
	require.NoError(t, ledger.RemoveSponsor(sponsor.ID))
	assert.ErrorIs(t, ledger.RemoveSponsor(sponsor.ID), ErrSponsorNotFound)

	reward := ledger.Rewards[0]
	require.NoError(t, ledger.RemoveReward(reward.ID))
	assert.ErrorIs(t, ledger.RemoveReward(reward.ID), ErrRewardNotFound)
}

func TestSponsorMoneyIsNotSubtractedFromPool(t *testing.T) {
	ledger := draftedLedger(t)
	_, err := ledger.AddSponsor("District 1 Beverages", 10_000_000, models.SponsorCash)
	require.NoError(t, err)

	summary := ledger.Summarize()
	assert.Equal(t, int64(10_000_000), summary.SponsorTotal)
	// Remaining is unchanged by sponsor rows.
	assert.Equal(t, int64(2_000_000), summary.Remaining)
}

func TestReconcileReportsSurplus(t *testing.T) {
	ledger := &Ledger{TournamentID: 1, TotalPool: 50_000_000}
	_, err := ledger.AddPlacement(1, "Champion", 45_000_000, models.PrizeCash)
	require.NoError(t, err)
	_, err = ledger.AddSponsor("Golden Cue Distribution", 10_000_000, models.SponsorCash)
	require.NoError(t, err)

	report := ledger.Reconcile(40_000_000)
	assert.Equal(t, int64(50_000_000), report.Funding)
	assert.Equal(t, int64(45_000_000), report.Commitments)
	assert.Equal(t, int64(5_000_000), report.Surplus)
	assert.Zero(t, report.Shortfall)
	assert.False(t, report.Balanced)
}

func TestReconcileReportsShortfallWithoutError(t *testing.T) {
	ledger := &Ledger{TournamentID: 1, TotalPool: 10_000_000}
	_, err := ledger.AddPlacement(1, "Champion", 9_000_000, models.PrizeCash)
	require.NoError(t, err)
	_, err = ledger.AddReward("Best newcomer", "First season in the club", 2_000_000)
	require.NoError(t, err)

	report := ledger.Reconcile(8_000_000)
	assert.Equal(t, int64(3_000_000), report.Shortfall)
	assert.Zero(t, report.Surplus)
	assert.False(t, report.Balanced)
}

func TestReconcileBalanced(t *testing.T) {
	ledger := &Ledger{TournamentID: 1, TotalPool: 5_000_000}
	_, err := ledger.AddPlacement(1, "Champion", 5_000_000, models.PrizeCash)
	require.NoError(t, err)

	report := ledger.Reconcile(5_000_000)
	assert.True(t, report.Balanced)
	assert.Zero(t, report.Surplus)
	assert.Zero(t, report.Shortfall)
}
