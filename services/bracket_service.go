package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cueclub/tournament-engine/brackets"
	"github.com/cueclub/tournament-engine/models"
	"github.com/cueclub/tournament-engine/repositories"
)

// BracketNotifier pushes live bracket events to connected spectators.
type BracketNotifier interface {
	BroadcastBracketUpdate(tournamentID int, event string, payload interface{})
}

type SubstitutionResult struct {
	OldParticipantID int      `json:"old_participant_id"`
	NewParticipantID int      `json:"new_participant_id"`
	AffectedMatches  []string `json:"affected_matches"`
	Reason           string   `json:"reason,omitempty"`
}

type BracketService interface {
	Generate(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, seeding brackets.SeedingMethod, force bool) (*brackets.Bracket, error)
	Get(ctx context.Context, tournamentID int) (*brackets.Bracket, error)
	StartMatch(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, matchUID string) (*models.Match, error)
	RecordResult(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, matchUID string, score1, score2 int) (*models.Match, error)
	Substitute(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID, oldParticipantID, newPlayerID int, reason string) (*SubstitutionResult, error)
}

// tournamentLocks serializes bracket mutations per tournament. Two result
// submissions for the same bracket must not interleave their read-modify-
// write cycles; different tournaments never contend. Entries are one mutex
// each and live for the process lifetime; they are not evicted when a
// tournament completes.
type tournamentLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newTournamentLocks() *tournamentLocks {
	return &tournamentLocks{locks: make(map[int]*sync.Mutex)}
}

func (l *tournamentLocks) lock(tournamentID int) func() {
	l.mu.Lock()
	m, ok := l.locks[tournamentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tournamentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

type bracketService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	playerRepo      repositories.PlayerRepository
	notifier        BracketNotifier
	locks           *tournamentLocks
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	notifier BracketNotifier,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		playerRepo:      playerRepo,
		notifier:        notifier,
		locks:           newTournamentLocks(),
		logger:          logger,
	}
}

func (s *bracketService) loadTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *bracketService) authorize(t *models.Tournament, requesterID int, requesterRole models.PlayerRole) error {
	if requesterRole == models.RoleAdmin || t.OrganizerID == requesterID {
		return nil
	}
	return ErrForbidden
}

// regenerationError reports why an existing bracket blocks generation.
// force authorizes the destructive rebuild even over recorded results;
// without it a bracket with history is locked and a fresh one must be
// regenerated explicitly.
func regenerationError(existing *brackets.Bracket, force bool) error {
	if existing == nil || force {
		return nil
	}
	if existing.HasRecordedResults() {
		return ErrBracketLocked
	}
	return ErrBracketExists
}

// assemble rebuilds the in-memory bracket from persisted match rows.
func assemble(t models.TournamentType, matches []*models.Match) *brackets.Bracket {
	maxRound := 0
	for _, m := range matches {
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}
	bracket := &brackets.Bracket{Type: t, Rounds: make([][]*models.Match, maxRound)}
	for _, m := range matches {
		bracket.Rounds[m.Round-1] = append(bracket.Rounds[m.Round-1], m)
	}
	// ListByTournament orders by round then slot, so each round slice is
	// already slot-ordered.
	return bracket
}

func (s *bracketService) Generate(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, seeding brackets.SeedingMethod, force bool) (*brackets.Bracket, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(t, requesterID, requesterRole); err != nil {
		return nil, err
	}
	if t.Status != models.StatusRegistrationClosed && t.Status != models.StatusOngoing {
		return nil, ErrBracketNotReady
	}

	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		if err := regenerationError(assemble(t.Type, existing), force); err != nil {
			return nil, err
		}
	}

	confirmed := models.ParticipantConfirmed
	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID, &confirmed, false)
	if err != nil {
		return nil, err
	}

	entrants := make([]brackets.Entrant, len(participants))
	for i, p := range participants {
		entrants[i] = brackets.Entrant{ParticipantID: p.ID, RatingSnapshot: p.RatingSnapshot}
	}

	generator, err := brackets.ForType(t.Type)
	if err != nil {
		return nil, err
	}
	bracket, err := generator.Generate(entrants, seeding)
	if err != nil {
		if errors.Is(err, brackets.ErrInsufficientParticipants) {
			return nil, ErrNotEnoughConfirmed
		}
		return nil, err
	}
	bracket.Type = t.Type

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin bracket transaction: %w", err)
	}
	defer tx.Rollback()

	if len(existing) > 0 {
		if err := s.matchRepo.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return nil, err
		}
	}
	for _, m := range bracket.AllMatches() {
		m.TournamentID = tournamentID
		if err := s.matchRepo.Create(ctx, tx, m); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bracket transaction: %w", err)
	}

	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("type", string(t.Type)),
		slog.Int("entrants", len(entrants)),
		slog.Int("rounds", len(bracket.Rounds)),
	)
	s.broadcast(tournamentID, "bracket_generated", bracket)
	return bracket, nil
}

func (s *bracketService) Get(ctx context.Context, tournamentID int) (*brackets.Bracket, error) {
	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrBracketMissing
	}
	return assemble(t.Type, matches), nil
}

func (s *bracketService) StartMatch(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, matchUID string) (*models.Match, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(t, requesterID, requesterRole); err != nil {
		return nil, err
	}
	if t.Status != models.StatusOngoing {
		return nil, ErrTournamentNotLive
	}

	bracket, err := s.bracketFor(ctx, t)
	if err != nil {
		return nil, err
	}
	match, err := bracket.StartMatch(matchUID)
	if err != nil {
		return nil, err
	}
	if err := s.matchRepo.UpdateResult(ctx, nil, match); err != nil {
		return nil, err
	}
	s.broadcast(tournamentID, "match_started", match)
	return match, nil
}

func (s *bracketService) RecordResult(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID int, matchUID string, score1, score2 int) (*models.Match, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(t, requesterID, requesterRole); err != nil {
		return nil, err
	}
	if t.Status != models.StatusOngoing {
		return nil, ErrTournamentNotLive
	}

	bracket, err := s.bracketFor(ctx, t)
	if err != nil {
		return nil, err
	}
	match, touched, err := bracket.RecordResult(matchUID, score1, score2)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin result transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matchRepo.UpdateResult(ctx, tx, match); err != nil {
		return nil, err
	}
	for _, next := range touched {
		if err := s.matchRepo.UpdatePlayers(ctx, tx, next); err != nil {
			return nil, err
		}
	}

	champion := bracket.Champion()
	if champion != nil {
		if err := s.tournamentRepo.UpdateWinner(ctx, tx, tournamentID, champion); err != nil {
			return nil, err
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusCompleted); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result transaction: %w", err)
	}

	s.broadcast(tournamentID, "match_completed", match)
	if champion != nil {
		s.logger.Info("tournament completed",
			slog.Int("tournament_id", tournamentID),
			slog.Int("winner_participant_id", *champion),
		)
		s.broadcast(tournamentID, "tournament_completed", map[string]interface{}{
			"winner_participant_id": *champion,
		})
	}
	return match, nil
}

func (s *bracketService) Substitute(ctx context.Context, requesterID int, requesterRole models.PlayerRole, tournamentID, oldParticipantID, newPlayerID int, reason string) (*SubstitutionResult, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(t, requesterID, requesterRole); err != nil {
		return nil, err
	}
	if t.Status != models.StatusOngoing {
		return nil, ErrTournamentNotLive
	}

	old, err := s.participantRepo.GetByID(ctx, oldParticipantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if old.TournamentID != tournamentID {
		return nil, ErrParticipantNotFound
	}
	if old.PlayerID == newPlayerID {
		return nil, ErrSubstituteSelf
	}

	player, err := s.playerRepo.GetByID(ctx, newPlayerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if !RankEligible(t, player.Rank) {
		return nil, ErrPlayerNotEligible
	}

	bracket, err := s.bracketFor(ctx, t)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin substitution transaction: %w", err)
	}
	defer tx.Rollback()

	replacement := &models.Participant{
		TournamentID:   tournamentID,
		PlayerID:       newPlayerID,
		RankSnapshot:   player.Rank,
		RatingSnapshot: player.Rating,
		Status:         models.ParticipantConfirmed,
	}
	if err := s.participantRepo.Create(ctx, tx, replacement); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	if err := s.participantRepo.UpdateStatus(ctx, tx, oldParticipantID, models.ParticipantSubstituted); err != nil {
		return nil, err
	}

	affected, err := bracket.Substitute(oldParticipantID, replacement.ID)
	if err != nil {
		if errors.Is(err, brackets.ErrPlayerNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	for _, uid := range affected {
		match, lookupErr := bracket.MatchByUID(uid)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if err := s.matchRepo.UpdatePlayers(ctx, tx, match); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit substitution transaction: %w", err)
	}

	result := &SubstitutionResult{
		OldParticipantID: oldParticipantID,
		NewParticipantID: replacement.ID,
		AffectedMatches:  affected,
		Reason:           reason,
	}
	s.logger.Info("participant substituted",
		slog.Int("tournament_id", tournamentID),
		slog.Int("old_participant_id", oldParticipantID),
		slog.Int("new_participant_id", replacement.ID),
		slog.Int("affected_matches", len(affected)),
	)
	s.broadcast(tournamentID, "participant_substituted", result)
	return result, nil
}

func (s *bracketService) bracketFor(ctx context.Context, t *models.Tournament) (*brackets.Bracket, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrBracketMissing
	}
	return assemble(t.Type, matches), nil
}

func (s *bracketService) broadcast(tournamentID int, event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastBracketUpdate(tournamentID, event, payload)
}
