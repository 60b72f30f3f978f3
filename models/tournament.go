package models

import "time"

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	StatusDraft              TournamentStatus = "draft"
	StatusPublished          TournamentStatus = "published"
	StatusRegistrationOpen   TournamentStatus = "registration_open"
	StatusRegistrationClosed TournamentStatus = "registration_closed"
	StatusOngoing            TournamentStatus = "ongoing"
	StatusCompleted          TournamentStatus = "completed"
	StatusCancelled          TournamentStatus = "cancelled"
)

// IsTerminal reports whether no further status transition is possible.
func (s TournamentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type TournamentType string

const (
	TypeKnockout          TournamentType = "knockout"
	TypeDoubleElimination TournamentType = "double_elimination"
	TypeRoundRobin        TournamentType = "round_robin"
	TypeSwiss             TournamentType = "swiss"
)

var TournamentTypes = []TournamentType{
	TypeKnockout, TypeDoubleElimination, TypeRoundRobin, TypeSwiss,
}

func ValidTournamentType(t TournamentType) bool {
	for _, known := range TournamentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// GameFormat is the cue-sport discipline played at the tables.
type GameFormat string

const (
	FormatEightBall         GameFormat = "eight_ball"
	FormatNineBall          GameFormat = "nine_ball"
	FormatTenBall           GameFormat = "ten_ball"
	FormatSnooker           GameFormat = "snooker"
	FormatCaromThreeCushion GameFormat = "carom_three_cushion"
	FormatStraightPool      GameFormat = "straight_pool"
)

var GameFormats = []GameFormat{
	FormatEightBall, FormatNineBall, FormatTenBall,
	FormatSnooker, FormatCaromThreeCushion, FormatStraightPool,
}

func ValidGameFormat(f GameFormat) bool {
	for _, known := range GameFormats {
		if f == known {
			return true
		}
	}
	return false
}

const (
	MinTier = 1
	MaxTier = 5
)

// ParticipantSlots is the closed set of legal max_participants values.
// Capacity is always one of these slots, never an arbitrary integer.
var ParticipantSlots = []int{4, 6, 8, 12, 16, 24, 32, 64}

func ValidParticipantSlot(n int) bool {
	for _, slot := range ParticipantSlots {
		if n == slot {
			return true
		}
	}
	return false
}

// Tournament is the aggregate root. It exclusively owns its matches and
// prize structures; participants belong to the registration subsystem and
// are referenced by id only.
//
// EntryFee and PrizePool are integers in the smallest currency unit.
type Tournament struct {
	ID              int              `json:"id" db:"id"`
	Name            string           `json:"name" db:"name"`
	Description     *string          `json:"description,omitempty" db:"description"`
	VenueAddress    string           `json:"venue_address" db:"venue_address"`
	Tier            int              `json:"tier" db:"tier"`
	Type            TournamentType   `json:"type" db:"type"`
	GameFormat      GameFormat       `json:"game_format" db:"game_format"`
	MaxParticipants int              `json:"max_participants" db:"max_participants"`
	EntryFee        int64            `json:"entry_fee" db:"entry_fee"`
	PrizePool       int64            `json:"prize_pool" db:"prize_pool"`
	AllowAllRanks   bool             `json:"allow_all_ranks" db:"allow_all_ranks"`
	EligibleRanks   []RankCode       `json:"eligible_ranks,omitempty" db:"eligible_ranks"`
	MinRank         *RankCode        `json:"min_rank,omitempty" db:"min_rank"`
	MaxRank         *RankCode        `json:"max_rank,omitempty" db:"max_rank"`
	RegistrationStart time.Time      `json:"registration_start" db:"registration_start"`
	RegistrationEnd   time.Time      `json:"registration_end" db:"registration_end"`
	TournamentStart   time.Time      `json:"tournament_start" db:"tournament_start"`
	TournamentEnd     time.Time      `json:"tournament_end" db:"tournament_end"`
	Status          TournamentStatus `json:"status" db:"status"`
	OrganizerID     int              `json:"organizer_id" db:"organizer_id"`
	BannerKey       *string          `json:"-" db:"banner_key"`
	BannerURL       *string          `json:"banner_url,omitempty" db:"-"`
	WinnerParticipantID *int         `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`

	// Optional related entities, loaded on demand.
	Participants []Participant         `json:"participants,omitempty" db:"-"`
	Matches      []Match               `json:"matches,omitempty" db:"-"`
	Placements   []PrizeItem           `json:"placements,omitempty" db:"-"`
	Sponsors     []SponsorContribution `json:"sponsors,omitempty" db:"-"`
	Rewards      []AdditionalReward    `json:"rewards,omitempty" db:"-"`
}
