package prizes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cueclub/tournament-engine/models"
)

var (
	ErrDuplicatePlacement = errors.New("a prize already exists for this placement")
	ErrPlacementNotFound  = errors.New("prize placement not found")
	ErrSponsorNotFound    = errors.New("sponsor contribution not found")
	ErrRewardNotFound     = errors.New("additional reward not found")
	ErrInvalidPrize       = errors.New("invalid prize entry")
)

// Ledger is the in-memory monetary structure of one tournament: the
// declared pool, placement payouts, sponsor contributions and merit
// rewards. All amounts are non-negative integers in the smallest currency
// unit; totals use integer arithmetic only.
//
// The ledger reports overcommitment and underfunding, it never forbids
// them: real-world funding changes after prizes are drafted, and whether to
// proceed is a human decision.
type Ledger struct {
	TournamentID int
	TotalPool    int64
	Placements   []models.PrizeItem
	Sponsors     []models.SponsorContribution
	Rewards      []models.AdditionalReward
}

// Summary is the advisory breakdown of the ledger.
type Summary struct {
	TotalPool    int64 `json:"total_pool"`
	Distributed  int64 `json:"distributed"`
	RewardTotal  int64 `json:"reward_total"`
	SponsorTotal int64 `json:"sponsor_total"`
	// Remaining = TotalPool - Distributed - RewardTotal; may be negative.
	Remaining int64 `json:"remaining"`
}

// ReconciliationReport compares funding (actual revenue plus sponsor
// contributions) against committed payouts.
type ReconciliationReport struct {
	ActualRevenue int64 `json:"actual_revenue"`
	SponsorTotal  int64 `json:"sponsor_total"`
	Funding       int64 `json:"funding"`
	Commitments   int64 `json:"commitments"`
	// Exactly one of Surplus/Shortfall is non-zero unless Balanced.
	Surplus   int64 `json:"surplus"`
	Shortfall int64 `json:"shortfall"`
	Balanced  bool  `json:"balanced"`
}

// AddPlacement appends a payout for a final position. Positions need not be
// contiguous, but each position may carry only one prize.
func (l *Ledger) AddPlacement(position int, title string, amount int64, prizeType models.PrizeType) (*models.PrizeItem, error) {
	if position < 1 {
		return nil, fmt.Errorf("%w: position must be at least 1", ErrInvalidPrize)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPrize)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", ErrInvalidPrize)
	}
	if !models.ValidPrizeType(prizeType) {
		return nil, fmt.Errorf("%w: unknown prize type %q", ErrInvalidPrize, prizeType)
	}
	for _, p := range l.Placements {
		if p.Position == position {
			return nil, fmt.Errorf("%w: position %d", ErrDuplicatePlacement, position)
		}
	}
	item := models.PrizeItem{
		ID:           uuid.NewString(),
		TournamentID: l.TournamentID,
		Position:     position,
		Title:        title,
		Amount:       amount,
		Type:         prizeType,
	}
	l.Placements = append(l.Placements, item)
	return &item, nil
}

func (l *Ledger) RemovePlacement(id string) error {
	for i, p := range l.Placements {
		if p.ID == id {
			l.Placements = append(l.Placements[:i], l.Placements[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrPlacementNotFound, id)
}

func (l *Ledger) AddSponsor(name string, amount int64, sponsorType models.SponsorType) (*models.SponsorContribution, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: sponsor name is required", ErrInvalidPrize)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", ErrInvalidPrize)
	}
	if !models.ValidSponsorType(sponsorType) {
		return nil, fmt.Errorf("%w: unknown sponsor type %q", ErrInvalidPrize, sponsorType)
	}
	contribution := models.SponsorContribution{
		ID:           uuid.NewString(),
		TournamentID: l.TournamentID,
		Name:         name,
		Amount:       amount,
		Type:         sponsorType,
	}
	l.Sponsors = append(l.Sponsors, contribution)
	return &contribution, nil
}

func (l *Ledger) RemoveSponsor(id string) error {
	for i, s := range l.Sponsors {
		if s.ID == id {
			l.Sponsors = append(l.Sponsors[:i], l.Sponsors[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSponsorNotFound, id)
}

func (l *Ledger) AddReward(title, criteria string, value int64) (*models.AdditionalReward, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: reward title is required", ErrInvalidPrize)
	}
	if value < 0 {
		return nil, fmt.Errorf("%w: value cannot be negative", ErrInvalidPrize)
	}
	reward := models.AdditionalReward{
		ID:           uuid.NewString(),
		TournamentID: l.TournamentID,
		Title:        title,
		Criteria:     criteria,
		Value:        value,
	}
	l.Rewards = append(l.Rewards, reward)
	return &reward, nil
}

func (l *Ledger) RemoveReward(id string) error {
	for i, rw := range l.Rewards {
		if rw.ID == id {
			l.Rewards = append(l.Rewards[:i], l.Rewards[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRewardNotFound, id)
}

func (l *Ledger) distributed() int64 {
	var total int64
	for _, p := range l.Placements {
		total += p.Amount
	}
	return total
}

func (l *Ledger) rewardTotal() int64 {
	var total int64
	for _, rw := range l.Rewards {
		total += rw.Value
	}
	return total
}

func (l *Ledger) sponsorTotal() int64 {
	var total int64
	for _, s := range l.Sponsors {
		total += s.Amount
	}
	return total
}

// Summarize reports the current totals. Sponsor money is informational and
// not subtracted from the pool. Idempotent on an unmutated ledger.
func (l *Ledger) Summarize() Summary {
	distributed := l.distributed()
	rewards := l.rewardTotal()
	return Summary{
		TotalPool:    l.TotalPool,
		Distributed:  distributed,
		RewardTotal:  rewards,
		SponsorTotal: l.sponsorTotal(),
		Remaining:    l.TotalPool - distributed - rewards,
	}
}

// Reconcile compares actual revenue plus sponsor contributions against the
// committed payouts. Underfunding is surfaced, never blocked.
func (l *Ledger) Reconcile(actualRevenue int64) ReconciliationReport {
	funding := actualRevenue + l.sponsorTotal()
	commitments := l.distributed() + l.rewardTotal()

	report := ReconciliationReport{
		ActualRevenue: actualRevenue,
		SponsorTotal:  l.sponsorTotal(),
		Funding:       funding,
		Commitments:   commitments,
	}
	switch {
	case funding > commitments:
		report.Surplus = funding - commitments
	case funding < commitments:
		report.Shortfall = commitments - funding
	default:
		report.Balanced = true
	}
	return report
}
