package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cueclub/tournament-engine/models"
)

const (
	nameMinLen        = 3
	nameMaxLen        = 100
	venueMinLen       = 5
	descriptionMaxLen = 1000

	// RegistrationBuffer is the minimum gap between registration close and
	// first break-off. Violating it is an error, not a warning: players need
	// time to show up.
	RegistrationBuffer = 2 * time.Hour

	// MaxRegistrationAge caps how far in the past registration may already
	// have been open when the configuration is submitted.
	MaxRegistrationAge = 30 * 24 * time.Hour

	minAdvisedDuration = 4 * time.Hour
	maxAdvisedDuration = 72 * time.Hour
	leadTimeAdvisory   = 24 * time.Hour

	// HighEntryFeeThreshold triggers an advisory only; top-tier events do
	// legitimately charge this much.
	HighEntryFeeThreshold = int64(5_000_000)

	roundRobinAdvisoryCap = 8
)

// Config is the candidate tournament configuration under validation. All
// monetary fields are integers in the smallest currency unit.
type Config struct {
	Name            string
	Description     string
	VenueAddress    string
	Tier            int
	Type            models.TournamentType
	GameFormat      models.GameFormat
	MaxParticipants int
	EntryFee        int64
	PrizePool       int64

	AllowAllRanks bool
	EligibleRanks []models.RankCode
	MinRank       *models.RankCode
	MaxRank       *models.RankCode

	RegistrationStart time.Time
	RegistrationEnd   time.Time
	TournamentStart   time.Time
	TournamentEnd     time.Time
}

// Existing is the summary of an already scheduled tournament needed for the
// schedule-conflict check.
type Existing struct {
	Name         string
	VenueAddress string
	Start        time.Time
	End          time.Time
}

// Result carries every field violation plus non-blocking advisories.
// Warnings never make a configuration invalid.
type Result struct {
	Errors   map[string]string `json:"errors"`
	Warnings []string          `json:"warnings"`
}

func newResult() Result {
	return Result{Errors: make(map[string]string)}
}

func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) addError(field, message string) {
	// Keep the first message per field so earlier (more fundamental) rules win.
	if _, exists := r.Errors[field]; !exists {
		r.Errors[field] = message
	}
}

func (r *Result) addWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}

func (r *Result) merge(other Result) {
	for field, msg := range other.Errors {
		r.addError(field, msg)
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Validate runs every rule against cfg. Rules are independent: a failure in
// one never hides another, so the caller sees the complete violation set in
// a single pass. Pure and deterministic given now.
func Validate(cfg Config, existing []Existing, now time.Time) Result {
	result := newResult()
	for _, rule := range allRules {
		result.merge(rule.check(cfg, existing, now))
	}
	return result
}

// ValidateField re-runs only the rules touching a single field, for
// interactive per-field revalidation of a partial configuration. Unknown
// fields yield an empty (valid) result.
func ValidateField(field string, cfg Config, existing []Existing, now time.Time) Result {
	result := newResult()
	for _, rule := range allRules {
		for _, f := range rule.fields {
			if f == field {
				result.merge(rule.check(cfg, existing, now))
				break
			}
		}
	}
	return result
}

type rule struct {
	fields []string
	check  func(Config, []Existing, time.Time) Result
}

var allRules = []rule{
	{fields: []string{"name"}, check: checkName},
	{fields: []string{"venue_address"}, check: checkVenueAddress},
	{fields: []string{"description"}, check: checkDescription},
	{fields: []string{"tier"}, check: checkTier},
	{fields: []string{"type", "game_format", "max_participants"}, check: checkTypeAndFormat},
	{fields: []string{"max_participants"}, check: checkMaxParticipants},
	{fields: []string{"entry_fee", "prize_pool", "max_participants"}, check: checkMoney},
	{fields: []string{"eligible_ranks", "min_rank", "max_rank"}, check: checkEligibility},
	{fields: []string{"registration_start", "registration_end", "tournament_start", "tournament_end"}, check: checkSchedule},
	{fields: []string{"venue_address", "tournament_start", "tournament_end"}, check: checkVenueConflicts},
}

func checkName(cfg Config, _ []Existing, _ time.Time) Result {
	r := newResult()
	name := strings.TrimSpace(cfg.Name)
	switch {
	case name == "":
		r.addError("name", "name is required")
	case utf8.RuneCountInString(name) < nameMinLen || utf8.RuneCountInString(name) > nameMaxLen:
		r.addError("name", fmt.Sprintf("name must be between %d and %d characters", nameMinLen, nameMaxLen))
	}
	return r
}

func checkVenueAddress(cfg Config, _ []Existing, _ time.Time) Result {
	r := newResult()
	venue := strings.TrimSpace(cfg.VenueAddress)
	switch {
	case venue == "":
		r.addError("venue_address", "venue address is required")
	case utf8.RuneCountInString(venue) < venueMinLen:
		r.addError("venue_address", fmt.Sprintf("venue address must be at least %d characters", venueMinLen))
	}
	return r
}

func checkDescription(cfg Config, _ []Existing, _ time.Time) Result {
	r := newResult()
	if utf8.RuneCountInString(cfg.Description) > descriptionMaxLen {
		r.addError("description", fmt.Sprintf("description must not exceed %d characters", descriptionMaxLen))
	}
	return r
}

func checkTier(cfg Config, _ []Existing, _ time.Time) Result {
	r := newResult()
	if cfg.Tier < models.MinTier || cfg.Tier > models.MaxTier {
		r.addError("tier", fmt.Sprintf("tier must be between %d and %d", models.MinTier, models.MaxTier))
	}
	return r
}

func checkTypeAndFormat(cfg Config, _ []Existing, _ time.Time) Result {
	r := newResult()
	if !models.ValidTournamentType(cfg.Type) {
		r.addError("type", fmt.Sprintf("type must be one of: %s", joinTypes()))
	}
	if !models.ValidGameFormat(cfg.GameFormat) {
		r.addError("game_format", fmt.Sprintf("game format must be one of: %s", joinFormats()))
	}
	if cfg.Type == models.TypeRoundRobin && cfg.MaxParticipants > roundRobinAdvisoryCap {
		r.addWarning(fmt.Sprintf("round robin with %d participants produces %d matches; consider a knockout format",
			cfg.MaxParticipants, cfg.MaxParticipants*(cfg.MaxParticipants-1)/2))
	}
	return r
}

func checkMaxParticipants(cfg Config, _ []Existing, _ time.Time) Result {
	r := newResult()
	// Being inside [4,64] is not sufficient: capacity must be one of the
	// discrete table-layout slots.
	if cfg.MaxParticipants < 4 || cfg.MaxParticipants > 64 || !models.ValidParticipantSlot(cfg.MaxParticipants) {
		r.addError("max_participants", "max participants must be 4,6,8,12,16,24,32 or 64")
	}
	return r
}

func checkMoney(cfg Config, _ []Existing, _ time.Time) Result {
	r := newResult()
	if cfg.EntryFee < 0 {
		r.addError("entry_fee", "entry fee cannot be negative")
	}
	if cfg.PrizePool < 0 {
		r.addError("prize_pool", "prize pool cannot be negative")
	}
	if cfg.EntryFee > HighEntryFeeThreshold {
		r.addWarning(fmt.Sprintf("entry fee %d exceeds the usual band; double-check the amount", cfg.EntryFee))
	}
	if cfg.EntryFee >= 0 && cfg.MaxParticipants > 0 && cfg.PrizePool > cfg.EntryFee*int64(cfg.MaxParticipants) {
		r.addWarning("prize pool exceeds maximum possible entry fee revenue; confirm external funding")
	}
	return r
}

func checkEligibility(cfg Config, _ []Existing, _ time.Time) Result {
	r := newResult()
	if !cfg.AllowAllRanks {
		if len(cfg.EligibleRanks) == 0 {
			r.addError("eligible_ranks", "at least one eligible rank is required when not all ranks are allowed")
		}
		for _, code := range cfg.EligibleRanks {
			if !models.ValidRankCode(code) {
				r.addError("eligible_ranks", fmt.Sprintf("unknown rank code %q", code))
				break
			}
		}
	}
	if cfg.MinRank != nil && !models.ValidRankCode(*cfg.MinRank) {
		r.addError("min_rank", fmt.Sprintf("unknown rank code %q", *cfg.MinRank))
	}
	if cfg.MaxRank != nil && !models.ValidRankCode(*cfg.MaxRank) {
		r.addError("max_rank", fmt.Sprintf("unknown rank code %q", *cfg.MaxRank))
	}
	if cfg.MinRank != nil && cfg.MaxRank != nil {
		minOrd, okMin := models.RankOrdinal(*cfg.MinRank)
		maxOrd, okMax := models.RankOrdinal(*cfg.MaxRank)
		if okMin && okMax && minOrd > maxOrd {
			r.addError("min_rank", "minimum rank cannot be above maximum rank")
		}
	}
	return r
}

func checkSchedule(cfg Config, _ []Existing, now time.Time) Result {
	r := newResult()
	if cfg.RegistrationStart.IsZero() || cfg.RegistrationEnd.IsZero() ||
		cfg.TournamentStart.IsZero() || cfg.TournamentEnd.IsZero() {
		r.addError("registration_start", "all four schedule timestamps are required")
		return r
	}

	if !cfg.TournamentStart.After(now) {
		r.addError("tournament_start", "tournament must start in the future")
	}
	if !cfg.TournamentEnd.After(cfg.TournamentStart) {
		r.addError("tournament_end", "tournament end must be after tournament start")
	}
	if cfg.RegistrationEnd.Before(cfg.RegistrationStart) {
		r.addError("registration_end", "registration end cannot be before registration start")
	}
	if cfg.RegistrationEnd.After(cfg.TournamentStart.Add(-RegistrationBuffer)) {
		r.addError("registration_end", "registration must close at least 2 hours before the tournament starts")
	}
	if cfg.RegistrationStart.Before(now.Add(-MaxRegistrationAge)) {
		r.addError("registration_start", "registration start cannot be more than 30 days in the past")
	}

	if cfg.TournamentEnd.After(cfg.TournamentStart) {
		duration := cfg.TournamentEnd.Sub(cfg.TournamentStart)
		if duration < minAdvisedDuration {
			r.addWarning("event shorter than 4 hours may not fit a full bracket")
		}
		if duration > maxAdvisedDuration {
			r.addWarning("event longer than 72 hours is resource-heavy; confirm venue availability")
		}
	}
	if cfg.TournamentStart.After(now) && cfg.TournamentStart.Before(now.Add(leadTimeAdvisory)) {
		r.addWarning("tournament starts within 24 hours; players may have insufficient lead time")
	}
	return r
}

// checkVenueConflicts flags any existing tournament whose time window
// overlaps [start, end) at what looks like the same venue. Double-booking a
// hall is unrecoverable after the fact, so this is an error, not a warning.
func checkVenueConflicts(cfg Config, existing []Existing, _ time.Time) Result {
	r := newResult()
	if cfg.TournamentStart.IsZero() || cfg.TournamentEnd.IsZero() {
		return r
	}
	for _, other := range existing {
		if !windowsOverlap(cfg.TournamentStart, cfg.TournamentEnd, other.Start, other.End) {
			continue
		}
		if VenuesConflict(cfg.VenueAddress, other.VenueAddress) {
			r.addError("venue_address", fmt.Sprintf(
				"venue appears double-booked: %q overlaps with %q at %s",
				cfg.Name, other.Name, other.VenueAddress))
			break
		}
	}
	return r
}

// windowsOverlap treats windows as half-open: [start, end).
func windowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func joinTypes() string {
	parts := make([]string, len(models.TournamentTypes))
	for i, t := range models.TournamentTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinFormats() string {
	parts := make([]string, len(models.GameFormats))
	for i, f := range models.GameFormats {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
