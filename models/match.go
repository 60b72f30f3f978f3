package models

import "time"

type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
)

// Match is one node of a tournament bracket. Round numbers are 1-based;
// Slot is the 0-based index inside the round. In elimination formats the
// winner of round r slot s feeds round r+1 slot s/2.
//
// Player references are participant ids and stay nil while the slot is
// still to be determined by an earlier match.
type Match struct {
	ID                  int         `json:"id" db:"id"`
	TournamentID        int         `json:"tournament_id" db:"tournament_id"`
	BracketUID          string      `json:"bracket_uid" db:"bracket_uid"`
	Round               int         `json:"round" db:"round"`
	Slot                int         `json:"slot" db:"slot"`
	Player1ID           *int        `json:"player1_id,omitempty" db:"p1_participant_id"`
	Player2ID           *int        `json:"player2_id,omitempty" db:"p2_participant_id"`
	Score1              *int        `json:"score1,omitempty" db:"score1"`
	Score2              *int        `json:"score2,omitempty" db:"score2"`
	Status              MatchStatus `json:"status" db:"status"`
	ScheduledAt         *time.Time  `json:"scheduled_at,omitempty" db:"scheduled_at"`
	WinnerParticipantID *int        `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	IsBye               bool        `json:"is_bye" db:"is_bye"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
}
