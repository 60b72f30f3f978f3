package validation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cueclub/tournament-engine/models"
)

func baseConfig(now time.Time) Config {
	return Config{
		Name:              "Spring Nine-Ball Open",
		Description:       "Monthly club open",
		VenueAddress:      "CLB Number 5, District 1",
		Tier:              3,
		Type:              models.TypeKnockout,
		GameFormat:        models.FormatNineBall,
		MaxParticipants:   16,
		EntryFee:          200_000,
		PrizePool:         2_000_000,
		AllowAllRanks:     true,
		RegistrationStart: now.Add(24 * time.Hour),
		RegistrationEnd:   now.Add(5 * 24 * time.Hour),
		TournamentStart:   now.Add(6 * 24 * time.Hour),
		TournamentEnd:     now.Add(6*24*time.Hour + 8*time.Hour),
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	result := Validate(baseConfig(now), nil, now)
	assert.True(t, result.Valid(), "unexpected errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestNameAndVenueRules(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
	}{
		{"empty name", func(c *Config) { c.Name = "" }, "name"},
		{"short name", func(c *Config) { c.Name = "GP" }, "name"},
		{"long name", func(c *Config) {
			long := make([]rune, 101)
			for i := range long {
				long[i] = 'x'
			}
			c.Name = string(long)
		}, "name"},
		{"empty venue", func(c *Config) { c.VenueAddress = "" }, "venue_address"},
		{"short venue", func(c *Config) { c.VenueAddress = "CLB" }, "venue_address"},
		{"long description", func(c *Config) {
			long := make([]rune, 1001)
			for i := range long {
				long[i] = 'd'
			}
			c.Description = string(long)
		}, "description"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig(now)
			tc.mutate(&cfg)
			result := Validate(cfg, nil, now)
			assert.Contains(t, result.Errors, tc.field)
		})
	}
}

func TestMaxParticipantsMustBeASlot(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// In range is not enough: the value must sit in the discrete slot set.
	for _, bad := range []int{3, 5, 10, 20, 33, 63, 65, 0, -4} {
		cfg := baseConfig(now)
		cfg.MaxParticipants = bad
		result := Validate(cfg, nil, now)
		require.Contains(t, result.Errors, "max_participants", "value %d should be rejected", bad)
		assert.Equal(t, "max participants must be 4,6,8,12,16,24,32 or 64", result.Errors["max_participants"])
	}

	for _, good := range models.ParticipantSlots {
		cfg := baseConfig(now)
		cfg.MaxParticipants = good
		result := Validate(cfg, nil, now)
		assert.NotContains(t, result.Errors, "max_participants", "value %d should be accepted", good)
	}
}

func TestEndBeforeStartAlwaysYieldsEndError(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Even with every other field broken, the tournament_end violation must
	// be present: rules never short-circuit each other.
	cfg := baseConfig(now)
	cfg.Name = ""
	cfg.MaxParticipants = 10
	cfg.TournamentEnd = cfg.TournamentStart
	result := Validate(cfg, nil, now)
	assert.Contains(t, result.Errors, "tournament_end")
	assert.Contains(t, result.Errors, "name")
	assert.Contains(t, result.Errors, "max_participants")

	cfg = baseConfig(now)
	cfg.TournamentEnd = cfg.TournamentStart.Add(-time.Hour)
	result = Validate(cfg, nil, now)
	assert.Contains(t, result.Errors, "tournament_end")
}

func TestScheduleRules(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("start in the past", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.TournamentStart = now.Add(-time.Hour)
		result := Validate(cfg, nil, now)
		assert.Contains(t, result.Errors, "tournament_start")
	})

	t.Run("registration buffer under two hours is an error", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.RegistrationEnd = cfg.TournamentStart.Add(-90 * time.Minute)
		result := Validate(cfg, nil, now)
		assert.Contains(t, result.Errors, "registration_end")
	})

	t.Run("registration start over 30 days old", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.RegistrationStart = now.Add(-31 * 24 * time.Hour)
		result := Validate(cfg, nil, now)
		assert.Contains(t, result.Errors, "registration_start")
	})

	t.Run("missing timestamps", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.RegistrationEnd = time.Time{}
		result := Validate(cfg, nil, now)
		assert.False(t, result.Valid())
	})
}

func TestEligibilityRules(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	minRank := models.RankF
	maxRank := models.RankB
	bogus := models.RankCode("Z")

	t.Run("restricted ranks require a non-empty set", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.AllowAllRanks = false
		result := Validate(cfg, nil, now)
		assert.Contains(t, result.Errors, "eligible_ranks")
	})

	t.Run("unknown rank code rejected", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.AllowAllRanks = false
		cfg.EligibleRanks = []models.RankCode{models.RankC, bogus}
		result := Validate(cfg, nil, now)
		assert.Contains(t, result.Errors, "eligible_ranks")
	})

	t.Run("valid restricted config", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.AllowAllRanks = false
		cfg.EligibleRanks = []models.RankCode{models.RankC, models.RankD}
		cfg.MinRank = &minRank
		cfg.MaxRank = &maxRank
		result := Validate(cfg, nil, now)
		assert.True(t, result.Valid(), "unexpected errors: %v", result.Errors)
	})

	t.Run("min rank above max rank", func(t *testing.T) {
		cfg := baseConfig(now)
		min := models.RankA
		max := models.RankK
		cfg.MinRank = &min
		cfg.MaxRank = &max
		result := Validate(cfg, nil, now)
		assert.Contains(t, result.Errors, "min_rank")
	})

	t.Run("bogus bounds rejected", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.MinRank = &bogus
		result := Validate(cfg, nil, now)
		assert.Contains(t, result.Errors, "min_rank")
	})
}

func TestAdvisoryWarnings(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("high entry fee", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.EntryFee = HighEntryFeeThreshold + 1
		result := Validate(cfg, nil, now)
		assert.True(t, result.Valid())
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("pool beyond possible revenue", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.EntryFee = 100_000
		cfg.MaxParticipants = 8
		cfg.PrizePool = 900_000
		result := Validate(cfg, nil, now)
		require.True(t, result.Valid())
		assert.Contains(t, result.Warnings[0], "prize pool exceeds")
	})

	t.Run("round robin with large field", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.Type = models.TypeRoundRobin
		cfg.MaxParticipants = 12
		result := Validate(cfg, nil, now)
		assert.True(t, result.Valid())
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("short duration and short lead time", func(t *testing.T) {
		cfg := baseConfig(now)
		cfg.RegistrationStart = now.Add(-time.Hour)
		cfg.RegistrationEnd = now.Add(2 * time.Hour)
		cfg.TournamentStart = now.Add(5 * time.Hour)
		cfg.TournamentEnd = now.Add(7 * time.Hour)
		result := Validate(cfg, nil, now)
		require.True(t, result.Valid(), "unexpected errors: %v", result.Errors)
		assert.Len(t, result.Warnings, 2)
	})
}

func TestVenueScheduleConflict(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	cfg := baseConfig(now)
	cfg.VenueAddress = "CLB Number 5, District 1"
	cfg.RegistrationStart = now
	cfg.RegistrationEnd = day.Add(11 * time.Hour)
	cfg.TournamentStart = day.Add(14 * time.Hour)
	cfg.TournamentEnd = day.Add(18 * time.Hour)

	existing := []Existing{{
		Name:         "Handicap League Night",
		VenueAddress: "clb number 5 district 1",
		Start:        day.Add(13 * time.Hour),
		End:          day.Add(17 * time.Hour),
	}}

	result := Validate(cfg, existing, now)
	require.Contains(t, result.Errors, "venue_address")
	assert.Contains(t, result.Errors["venue_address"], "Handicap League Night")

	t.Run("no conflict when windows do not overlap", func(t *testing.T) {
		shifted := existing
		shifted[0].Start = day.Add(8 * time.Hour)
		shifted[0].End = day.Add(12 * time.Hour)
		result := Validate(cfg, shifted, now)
		assert.NotContains(t, result.Errors, "venue_address")
	})

	t.Run("no conflict for a different hall", func(t *testing.T) {
		other := []Existing{{
			Name:         "Snooker Masters",
			VenueAddress: "Golden Cue Arena, Binh Thanh",
			Start:        day.Add(13 * time.Hour),
			End:          day.Add(17 * time.Hour),
		}}
		result := Validate(cfg, other, now)
		assert.NotContains(t, result.Errors, "venue_address")
	})

	t.Run("half-open windows: back-to-back is fine", func(t *testing.T) {
		adjacent := []Existing{{
			Name:         "Morning Qualifier",
			VenueAddress: "CLB Number 5, District 1",
			Start:        day.Add(10 * time.Hour),
			End:          day.Add(14 * time.Hour),
		}}
		result := Validate(cfg, adjacent, now)
		assert.NotContains(t, result.Errors, "venue_address")
	})
}

func TestValidateFieldRunsOnlyMatchingRules(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	cfg := baseConfig(now)
	cfg.Name = ""
	cfg.MaxParticipants = 10

	result := ValidateField("name", cfg, nil, now)
	assert.Contains(t, result.Errors, "name")
	assert.NotContains(t, result.Errors, "max_participants")

	result = ValidateField("max_participants", cfg, nil, now)
	assert.Contains(t, result.Errors, "max_participants")
	assert.NotContains(t, result.Errors, "name")

	result = ValidateField("nonexistent_field", cfg, nil, now)
	assert.True(t, result.Valid())
	assert.Empty(t, result.Warnings)
}

func TestValidateFieldCoversGameFormat(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	cfg := baseConfig(now)
	cfg.GameFormat = models.GameFormat("backgammon")

	// The per-field pass must flag exactly what the full pass flags.
	full := Validate(cfg, nil, now)
	assert.Contains(t, full.Errors, "game_format")

	result := ValidateField("game_format", cfg, nil, now)
	assert.Contains(t, result.Errors, "game_format")
	assert.Equal(t, full.Errors["game_format"], result.Errors["game_format"])
}

func TestValidateIsDeterministic(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := baseConfig(now)
	cfg.EntryFee = HighEntryFeeThreshold + 1

	first := Validate(cfg, nil, now)
	second := Validate(cfg, nil, now)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func ExampleValidate() {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := baseConfig(now)
	cfg.MaxParticipants = 10
	result := Validate(cfg, nil, now)
	fmt.Println(result.Errors["max_participants"])
	// Output: max participants must be 4,6,8,12,16,24,32 or 64
}
