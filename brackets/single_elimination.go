package brackets

import (
	"math"
	"sort"

	"github.com/cueclub/tournament-engine/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate builds a seeded elimination tree. The bracket is padded to the
// next power of two; padding slots become byes, which land against the
// highest seeds first by construction of the seeding order. Two real
// players are never paired while a bye slot remains. Byes auto-advance:
// their matches are created completed, winner preset, no score required.
func (g *SingleEliminationGenerator) Generate(entrants []Entrant, seeding SeedingMethod) (*Bracket, error) {
	n := len(entrants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	seeds := seedEntrants(entrants, seeding)
	numRounds := int(math.Ceil(math.Log2(float64(n))))
	bracketSize := 1 << uint(numRounds)

	order := seedingOrder(bracketSize)

	bracket := &Bracket{
		Type:   models.TypeKnockout,
		Rounds: make([][]*models.Match, numRounds),
	}
	for r := 0; r < numRounds; r++ {
		count := bracketSize >> uint(r+1)
		bracket.Rounds[r] = make([]*models.Match, count)
		for slot := 0; slot < count; slot++ {
			bracket.Rounds[r][slot] = &models.Match{
				BracketUID: MatchUID(r+1, slot),
				Round:      r + 1,
				Slot:       slot,
				Status:     models.MatchPending,
			}
		}
	}

	// Fill round one from the seeding order; seeds beyond n are byes.
	for i := 0; i < bracketSize; i += 2 {
		m := bracket.Rounds[0][i/2]
		var p1, p2 *int
		if order[i] <= n {
			id := seeds[order[i]-1].ParticipantID
			p1 = &id
		}
		if order[i+1] <= n {
			id := seeds[order[i+1]-1].ParticipantID
			p2 = &id
		}

		switch {
		case p1 != nil && p2 != nil:
			m.Player1ID, m.Player2ID = p1, p2
		case p1 != nil:
			m.Player1ID = p1
			m.IsBye = true
			m.Status = models.MatchCompleted
			m.WinnerParticipantID = p1
		case p2 != nil:
			m.Player1ID = p2
			m.IsBye = true
			m.Status = models.MatchCompleted
			m.WinnerParticipantID = p2
		}
	}

	// Auto-advance byes into round two.
	for _, m := range bracket.Rounds[0] {
		if !m.IsBye {
			continue
		}
		if next, feedSlot := bracket.nextMatch(m); next != nil {
			if feedSlot == 0 {
				next.Player1ID = m.WinnerParticipantID
			} else {
				next.Player2ID = m.WinnerParticipantID
			}
		}
	}

	return bracket, nil
}

// seedEntrants returns entrants in seed order: rating descending for
// SeedingByRating (participant id breaks ties for determinism), otherwise
// the original registration order.
func seedEntrants(entrants []Entrant, seeding SeedingMethod) []Entrant {
	seeds := make([]Entrant, len(entrants))
	copy(seeds, entrants)
	if seeding == SeedingByRating {
		sort.SliceStable(seeds, func(i, j int) bool {
			if seeds[i].RatingSnapshot != seeds[j].RatingSnapshot {
				return seeds[i].RatingSnapshot > seeds[j].RatingSnapshot
			}
			return seeds[i].ParticipantID < seeds[j].ParticipantID
		})
	}
	return seeds
}

// seedingOrder lays seeds 1..size into bracket positions so that the top
// seed meets the bottom seed and no two top seeds can collide before the
// latest possible round: [1], [1 2], [1 4 2 3], [1 8 4 5 2 7 3 6], ...
func seedingOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		doubled := len(order) * 2
		next := make([]int, 0, doubled)
		for _, seed := range order {
			next = append(next, seed, doubled+1-seed)
		}
		order = next
	}
	return order
}
