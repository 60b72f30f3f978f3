package validation

import "strings"

// Venue comparison is a token-overlap heuristic: addresses conflict when at
// least two distinct tokens longer than three characters appear in both.
// Free-text addresses have no canonical form, so this approximates "same
// hall" without a geocoding dependency.

const (
	venueTokenMinLen     = 3 // tokens must be strictly longer than this
	venueConflictOverlap = 2
)

// VenuesConflict reports whether two free-text venue addresses are likely
// the same physical venue.
func VenuesConflict(a, b string) bool {
	tokensA := venueTokens(a)
	if len(tokensA) == 0 {
		return false
	}
	shared := 0
	for token := range venueTokens(b) {
		if _, ok := tokensA[token]; ok {
			shared++
			if shared >= venueConflictOverlap {
				return true
			}
		}
	}
	return false
}

// venueTokens lowercases the address, strips punctuation and returns the
// set of distinct tokens longer than venueTokenMinLen.
func venueTokens(address string) map[string]struct{} {
	var builder strings.Builder
	for _, r := range strings.ToLower(address) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r >= 0x80: // keep non-ASCII letters (street names are often accented)
			builder.WriteRune(r)
		default:
			builder.WriteRune(' ')
		}
	}
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(builder.String()) {
		if len([]rune(token)) > venueTokenMinLen {
			tokens[token] = struct{}{}
		}
	}
	return tokens
}
