package brackets

import "errors"

// Structural violations are rejected locally with these sentinels and never
// silently coerced.
var (
	ErrInsufficientParticipants = errors.New("at least 2 confirmed participants are required")
	ErrUnsupportedFormat        = errors.New("unsupported tournament type for bracket generation")
	ErrMatchNotFound            = errors.New("match not found in bracket")
	ErrMatchNotReady            = errors.New("match cannot be played while a slot is still to be determined")
	ErrMatchCompleted           = errors.New("match result has already been recorded")
	ErrInvalidScore             = errors.New("invalid score: ties and negative scores are not allowed")
	ErrPlayerNotFound           = errors.New("player appears in no pending match")
	// ErrBracketLocked guards regeneration once results exist; the caller
	// must pass an explicit force flag to discard recorded history.
	ErrBracketLocked = errors.New("bracket has completed matches; regeneration requires force")
)
