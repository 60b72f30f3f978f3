package models

import "time"

type PrizeType string

const (
	PrizeCash   PrizeType = "cash"
	PrizeTrophy PrizeType = "trophy"
	PrizeGift   PrizeType = "gift"
)

func ValidPrizeType(t PrizeType) bool {
	return t == PrizeCash || t == PrizeTrophy || t == PrizeGift
}

type SponsorType string

const (
	SponsorCash    SponsorType = "cash"
	SponsorProduct SponsorType = "product"
	SponsorService SponsorType = "service"
)

func ValidSponsorType(t SponsorType) bool {
	return t == SponsorCash || t == SponsorProduct || t == SponsorService
}

// PrizeItem is a payout bound to a final placement. Positions need not be
// contiguous but must be unique within a tournament. Amount is in the
// smallest currency unit.
type PrizeItem struct {
	ID           string    `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Position     int       `json:"position" db:"position"`
	Title        string    `json:"title" db:"title"`
	Amount       int64     `json:"amount" db:"amount"`
	Type         PrizeType `json:"type" db:"type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SponsorContribution is an informational funding source. It is reconciled
// against commitments, never auto-subtracted from the pool.
type SponsorContribution struct {
	ID           string      `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Name         string      `json:"name" db:"name"`
	Amount       int64       `json:"amount" db:"amount"`
	Type         SponsorType `json:"type" db:"type"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// AdditionalReward is a merit award outside the placement table, such as
// "highest break" or "best newcomer".
type AdditionalReward struct {
	ID           string    `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Title        string    `json:"title" db:"title"`
	Criteria     string    `json:"criteria" db:"criteria"`
	Value        int64     `json:"value" db:"value"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
