package services

import (
	"errors"
	"fmt"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already used by this organizer")
	ErrInvalidStatusChange    = errors.New("invalid tournament status transition")
	ErrTournamentImmutable    = errors.New("tournament can no longer be edited")
	ErrTournamentNotEditable  = errors.New("tournament details can only be edited in draft or published status")

	ErrParticipantNotFound     = errors.New("participant not found")
	ErrPlayerNotFound          = errors.New("player not found")
	ErrRegistrationClosed      = errors.New("registration window is not open")
	ErrAlreadyRegistered       = errors.New("player is already registered for this tournament")
	ErrTournamentFull          = errors.New("tournament has reached its participant capacity")
	ErrPlayerNotEligible       = errors.New("player rank is not eligible for this tournament")
	ErrInvalidParticipantState = errors.New("invalid participant status change")

	ErrBracketNotReady     = errors.New("bracket can only be generated after registration closes")
	ErrBracketExists       = errors.New("a bracket already exists for this tournament")
	ErrBracketMissing      = errors.New("no bracket has been generated for this tournament")
	ErrBracketLocked       = errors.New("bracket has recorded results and cannot be regenerated")
	ErrNotEnoughConfirmed  = errors.New("not enough confirmed participants to generate a bracket")
	ErrMatchNotFound       = errors.New("match not found")
	ErrTournamentNotLive   = errors.New("tournament is not ongoing")
	ErrSubstituteSelf      = errors.New("cannot substitute a participant with themselves")

	ErrEmailAlreadyTaken  = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("operation not permitted for this user")

	ErrPrizeEntryNotFound = errors.New("prize entry not found")
)

// ValidationError carries the full rule violation set for a rejected
// tournament configuration. Handlers render it as a 422 with the per-field
// map intact.
type ValidationError struct {
	Fields   map[string]string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration failed validation (%d field errors)", len(e.Fields))
}
