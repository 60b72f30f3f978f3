package brackets

import (
	"fmt"

	"github.com/cueclub/tournament-engine/models"
)

// SeedingMethod selects how confirmed participants are placed into the
// bracket.
type SeedingMethod string

const (
	// SeedingByRating orders participants by rating snapshot descending and
	// pairs highest against lowest recursively (standard seeded bracket).
	SeedingByRating SeedingMethod = "rating"
	// SeedingByRegistration keeps registration order; used when ratings are
	// unknown or deliberately ignored.
	SeedingByRegistration SeedingMethod = "registration"
)

func ValidSeedingMethod(m SeedingMethod) bool {
	return m == SeedingByRating || m == SeedingByRegistration
}

// Entrant is the minimal participant view the generator needs.
type Entrant struct {
	ParticipantID  int
	RatingSnapshot int
}

// Generator builds a bracket from a closed participant list. Implementations
// are pure: no I/O, deterministic for a given input.
type Generator interface {
	Generate(entrants []Entrant, seeding SeedingMethod) (*Bracket, error)
	Name() string
}

// ForType returns the generator for a tournament type. Both elimination
// variants share the seeded binary tree: round r slot s feeds round r+1
// slot s/2. Swiss seeds only its first round; later pairings depend on
// standings and are generated per round.
func ForType(t models.TournamentType) (Generator, error) {
	switch t {
	case models.TypeKnockout, models.TypeDoubleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.TypeRoundRobin:
		return NewRoundRobinGenerator(), nil
	case models.TypeSwiss:
		return NewSwissGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, t)
	}
}
