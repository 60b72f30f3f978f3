package models

import "time"

type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantConfirmed  ParticipantStatus = "confirmed"
	ParticipantRejected   ParticipantStatus = "rejected"
	// ParticipantSubstituted marks an entry replaced mid-event. The row is
	// kept; substitution never deletes registration history.
	ParticipantSubstituted ParticipantStatus = "substituted"
)

// Participant is one registration for a tournament. RankSnapshot and
// RatingSnapshot are frozen at registration time and drive seeding.
type Participant struct {
	ID             int               `json:"id" db:"id"`
	TournamentID   int               `json:"tournament_id" db:"tournament_id"`
	PlayerID       int               `json:"player_id" db:"player_id"`
	RankSnapshot   RankCode          `json:"rank_snapshot" db:"rank_snapshot"`
	RatingSnapshot int               `json:"rating_snapshot" db:"rating_snapshot"`
	Status         ParticipantStatus `json:"status" db:"status"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
