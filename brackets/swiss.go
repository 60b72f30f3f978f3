package brackets

import "github.com/cueclub/tournament-engine/models"

type SwissGenerator struct{}

func NewSwissGenerator() Generator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) Name() string {
	return "Swiss"
}

// Generate seeds only the opening round: adjacent seeds are paired (1v2,
// 3v4, ...) so early matches are competitive. Later Swiss rounds depend on
// running standings and are paired once the previous round completes; an
// odd entrant count gives the last seed a bye.
func (g *SwissGenerator) Generate(entrants []Entrant, seeding SeedingMethod) (*Bracket, error) {
	n := len(entrants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	seeds := seedEntrants(entrants, seeding)

	var matches []*models.Match
	slot := 0
	for i := 0; i+1 < n; i += 2 {
		p1 := seeds[i].ParticipantID
		p2 := seeds[i+1].ParticipantID
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
	if n%2 == 1 {
		p := seeds[n-1].ParticipantID
		matches = append(matches, &models.Match{
			BracketUID:          MatchUID(1, slot),
			Round:               1,
			Slot:                slot,
			Player1ID:           &p,
			IsBye:               true,
			Status:              models.MatchCompleted,
			WinnerParticipantID: &p,
		})
	}

	return &Bracket{
		Type:   models.TypeSwiss,
		Rounds: [][]*models.Match{matches},
	}, nil
}
