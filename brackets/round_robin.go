package brackets

import "github.com/cueclub/tournament-engine/models"

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate produces every unordered pair of entrants exactly once. All
// matches sit in a single conceptual round; there is no feeding topology
// and no byes, so the league phase is one flat list of n*(n-1)/2 matches.
func (g *RoundRobinGenerator) Generate(entrants []Entrant, seeding SeedingMethod) (*Bracket, error) {
	n := len(entrants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	seeds := seedEntrants(entrants, seeding)

	matches := make([]*models.Match, 0, n*(n-1)/2)
	slot := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p1 := seeds[i].ParticipantID
			p2 := seeds[j].ParticipantID
			matches = append(matches, &models.Match{
				BracketUID: MatchUID(1, slot),
				Round:      1,
				Slot:       slot,
				Player1ID:  &p1,
				Player2ID:  &p2,
				Status:     models.MatchPending,
			})
			slot++
		}
	}

	return &Bracket{
		Type:   models.TypeRoundRobin,
		Rounds: [][]*models.Match{matches},
	}, nil
}
