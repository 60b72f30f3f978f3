package models

import "time"

type PlayerRole string

const (
	RolePlayer    PlayerRole = "player"
	RoleOrganizer PlayerRole = "organizer"
	RoleAdmin     PlayerRole = "admin"
)

// Player is a club member account. Rank and Rating are the current values;
// registrations snapshot them per tournament.
type Player struct {
	ID           int        `json:"id" db:"id"`
	FullName     string     `json:"full_name" db:"full_name"`
	Nickname     *string    `json:"nickname,omitempty" db:"nickname"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         PlayerRole `json:"role" db:"role"`
	Rank         RankCode   `json:"rank" db:"rank"`
	Rating       int        `json:"rating" db:"rating"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
