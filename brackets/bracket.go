package brackets

import (
	"fmt"

	"github.com/cueclub/tournament-engine/models"
)

// Bracket is the full round structure of one tournament. Rounds are 1-based
// in match data; Rounds[0] holds round 1. All mutation goes through the
// methods below so the feeding topology stays consistent; the caller is
// responsible for serializing mutations per tournament.
type Bracket struct {
	Type   models.TournamentType `json:"type"`
	Rounds [][]*models.Match     `json:"rounds"`
}

// MatchUID names a match by its position: round 1, slot 0 becomes "R1M1".
func MatchUID(round, slot int) string {
	return fmt.Sprintf("R%dM%d", round, slot+1)
}

func (b *Bracket) isElimination() bool {
	return b.Type == models.TypeKnockout || b.Type == models.TypeDoubleElimination
}

// AllMatches returns every match in round order, then slot order.
func (b *Bracket) AllMatches() []*models.Match {
	var all []*models.Match
	for _, round := range b.Rounds {
		all = append(all, round...)
	}
	return all
}

// MatchByUID looks a match up by its bracket position name.
func (b *Bracket) MatchByUID(uid string) (*models.Match, error) {
	for _, round := range b.Rounds {
		for _, m := range round {
			if m.BracketUID == uid {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, uid)
}

// nextMatch returns the match fed by the winner of m, or nil for the final
// and for non-elimination formats. feedSlot is 0 for player one, 1 for
// player two of the next match.
func (b *Bracket) nextMatch(m *models.Match) (next *models.Match, feedSlot int) {
	if !b.isElimination() || m.Round >= len(b.Rounds) {
		return nil, 0
	}
	return b.Rounds[m.Round][m.Slot/2], m.Slot % 2
}

// StartMatch moves a pending match to in_progress. Both slots must already
// be filled.
func (b *Bracket) StartMatch(uid string) (*models.Match, error) {
	m, err := b.MatchByUID(uid)
	if err != nil {
		return nil, err
	}
	if m.Status == models.MatchCompleted {
		return nil, fmt.Errorf("%w: %s", ErrMatchCompleted, uid)
	}
	if m.Player1ID == nil || m.Player2ID == nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotReady, uid)
	}
	m.Status = models.MatchInProgress
	return m, nil
}

// RecordResult completes a match with the given score pair, computes the
// winner and propagates it into the feeding slot of the next round. It
// returns the completed match plus any downstream match it touched.
//
// Ties are rejected: cue sports decide every frame.
func (b *Bracket) RecordResult(uid string, score1, score2 int) (*models.Match, []*models.Match, error) {
	m, err := b.MatchByUID(uid)
	if err != nil {
		return nil, nil, err
	}
	if m.Status == models.MatchCompleted {
		return nil, nil, fmt.Errorf("%w: %s", ErrMatchCompleted, uid)
	}
	if m.Player1ID == nil || m.Player2ID == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrMatchNotReady, uid)
	}
	if score1 < 0 || score2 < 0 || score1 == score2 {
		return nil, nil, fmt.Errorf("%w: %d-%d", ErrInvalidScore, score1, score2)
	}

	s1, s2 := score1, score2
	m.Score1, m.Score2 = &s1, &s2
	m.Status = models.MatchCompleted
	if score1 > score2 {
		m.WinnerParticipantID = m.Player1ID
	} else {
		m.WinnerParticipantID = m.Player2ID
	}

	var touched []*models.Match
	if next, feedSlot := b.nextMatch(m); next != nil {
		if feedSlot == 0 {
			next.Player1ID = m.WinnerParticipantID
		} else {
			next.Player2ID = m.WinnerParticipantID
		}
		touched = append(touched, next)
	}
	return m, touched, nil
}

// Substitute replaces oldParticipantID with newParticipantID in every match
// that has not completed. Completed matches (byes included) are historical
// and stay untouched. It returns the UIDs of every modified match, or
// ErrPlayerNotFound when the player sits in no pending match.
func (b *Bracket) Substitute(oldParticipantID, newParticipantID int) ([]string, error) {
	var affected []string
	for _, m := range b.AllMatches() {
		if m.Status == models.MatchCompleted {
			continue
		}
		replaced := false
		if m.Player1ID != nil && *m.Player1ID == oldParticipantID {
			id := newParticipantID
			m.Player1ID = &id
			replaced = true
		}
		if m.Player2ID != nil && *m.Player2ID == oldParticipantID {
			id := newParticipantID
			m.Player2ID = &id
			replaced = true
		}
		if replaced {
			affected = append(affected, m.BracketUID)
		}
	}
	if len(affected) == 0 {
		return nil, fmt.Errorf("%w: participant %d", ErrPlayerNotFound, oldParticipantID)
	}
	return affected, nil
}

// HasRecordedResults reports whether any real (non-bye) match has completed.
// Regenerating past this point destroys recorded history and needs the
// explicit force flag.
func (b *Bracket) HasRecordedResults() bool {
	for _, m := range b.AllMatches() {
		if m.Status == models.MatchCompleted && !m.IsBye {
			return true
		}
	}
	return false
}

// RoundComplete reports whether every match of the 1-based round has a
// winner. Byes count as complete by construction.
func (b *Bracket) RoundComplete(round int) bool {
	if round < 1 || round > len(b.Rounds) {
		return false
	}
	for _, m := range b.Rounds[round-1] {
		if m.Status != models.MatchCompleted {
			return false
		}
	}
	return true
}

// Champion returns the winning participant id once the final round holds
// exactly one completed match, nil otherwise.
func (b *Bracket) Champion() *int {
	if len(b.Rounds) == 0 {
		return nil
	}
	final := b.Rounds[len(b.Rounds)-1]
	if len(final) != 1 || final[0].Status != models.MatchCompleted {
		return nil
	}
	return final[0].WinnerParticipantID
}
